package adapter

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
)

//go:embed templates/*.tmpl templates/partials/*.tmpl
var pageTemplateFS embed.FS

var pageNames = []string{"home", "listing", "detail", "about", "error"}

// Page is the data every full page template receives.
type Page struct {
	Title string
	Nav   []NavLink
	Error string

	Home    *HomeView
	Listing *ListingView
	Detail  *DetailView
}

type HomeView struct {
	Pokemon []Card
	News    []NewsCard
}

type ListingView struct {
	Query   string
	Types   []TypeOption
	Cards   []Card
	LiveURL string
}

type DetailView struct {
	Card
	Description string
	Abilities   []string
}

// Renderer executes the embedded page templates. Every page is parsed into
// its own set on top of the shared layout and partials.
type Renderer struct {
	base  *template.Template
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	base, err := template.New("layout").ParseFS(pageTemplateFS,
		"templates/layout.tmpl", "templates/partials/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse layout templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		set, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		if _, err := set.ParseFS(pageTemplateFS, "templates/"+name+".tmpl"); err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = set
	}

	return &Renderer{base: base, pages: pages}, nil
}

// RenderPage writes a full HTML document. The output is buffered so a
// template failure never leaves a half-written page behind.
func (r *Renderer) RenderPage(w io.Writer, name string, page *Page) error {
	set, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page template %q", name)
	}

	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// RenderGrid renders only the listing grid, used for live updates.
func (r *Renderer) RenderGrid(cards []Card) (string, error) {
	var sb strings.Builder
	if err := r.base.ExecuteTemplate(&sb, "grid", cards); err != nil {
		return "", fmt.Errorf("render grid: %w", err)
	}
	return strings.TrimSpace(sb.String()), nil
}

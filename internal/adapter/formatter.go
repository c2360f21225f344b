package adapter

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kapu/pokemon-catalog-go/internal/constants"
	"github.com/kapu/pokemon-catalog-go/internal/domain"
	"github.com/kapu/pokemon-catalog-go/internal/util"
)

// NavLink is one entry of the navigation bar.
type NavLink struct {
	Label  string
	Href   string
	Active bool
}

// Card is the grid view of a single pokemon.
type Card struct {
	ID          string
	Name        string
	Image       string
	Href        string
	Types       []string
	AbilityLine string
}

// NewsCard is a home page news preview.
type NewsCard struct {
	Title   string
	Content string
}

// TypeOption is one entry of the listing type select.
type TypeOption struct {
	Value    string
	Label    string
	Selected bool
}

var navItems = []NavLink{
	{Label: "Home", Href: "/"},
	{Label: "Pokemons", Href: "/pokemons"},
	{Label: "About", Href: "/about"},
}

// NavLinks marks the entry matching the request path as active. Detail pages
// keep the Pokemons entry highlighted.
func NavLinks(path string) []NavLink {
	links := make([]NavLink, len(navItems))
	for i, item := range navItems {
		item.Active = path == item.Href || (item.Href != "/" && strings.HasPrefix(path, item.Href+"/"))
		links[i] = item
	}
	return links
}

// DetailHref builds the detail page link for a pokemon id.
func DetailHref(id string) string {
	return "/pokemons/" + url.PathEscape(id)
}

// TypeLabel joins the types with "/" as in "fire/flying".
func TypeLabel(p *domain.Pokemon) string {
	if p == nil {
		return ""
	}
	return util.JoinNonEmpty(p.Types, "/")
}

// AbilityLine joins the abilities for the grid cards.
func AbilityLine(p *domain.Pokemon) string {
	if p == nil {
		return ""
	}
	return util.JoinNonEmpty(p.Abilities, ", ")
}

// Describe builds the detail page description from the types and abilities.
func Describe(p *domain.Pokemon) string {
	if p == nil {
		return ""
	}

	var sb strings.Builder
	if types := TypeLabel(p); types != "" {
		sb.WriteString(fmt.Sprintf("A powerful %s type Pokemon with exceptional abilities.", types))
	} else {
		sb.WriteString("A powerful Pokemon with exceptional abilities.")
	}
	if abilities := util.JoinNonEmpty(p.Abilities, " and "); abilities != "" {
		sb.WriteString(fmt.Sprintf(" Known for mastering the arts of %s.", abilities))
	}
	return sb.String()
}

func NewCard(p *domain.Pokemon) Card {
	return Card{
		ID:          p.ID,
		Name:        p.Name,
		Image:       p.Image,
		Href:        DetailHref(p.ID),
		Types:       p.Types,
		AbilityLine: AbilityLine(p),
	}
}

// NewCards keeps the upstream order and skips nil entries.
func NewCards(items []*domain.Pokemon) []Card {
	cards := make([]Card, 0, len(items))
	for _, p := range items {
		if p == nil {
			continue
		}
		cards = append(cards, NewCard(p))
	}
	return cards
}

func NewNewsCards(items []*domain.News) []NewsCard {
	cards := make([]NewsCard, 0, len(items))
	for _, n := range items {
		if n == nil {
			continue
		}
		cards = append(cards, NewsCard{
			Title:   n.Title,
			Content: util.TruncateString(n.Content, constants.HomeConfig.NewsPreviewLen),
		})
	}
	return cards
}

// TypeOptions builds the type select with "All Types" first.
func TypeOptions(selected string) []TypeOption {
	options := make([]TypeOption, 0, len(domain.PokemonTypes)+1)
	options = append(options, TypeOption{
		Value:    domain.AllTypesLabel,
		Label:    domain.AllTypesLabel,
		Selected: domain.IsAllTypes(selected),
	})
	for _, t := range domain.PokemonTypes {
		options = append(options, TypeOption{
			Value:    t,
			Label:    t,
			Selected: strings.EqualFold(t, strings.TrimSpace(selected)),
		})
	}
	return options
}

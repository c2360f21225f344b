package web

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kapu/pokemon-catalog-go/internal/adapter"
	"github.com/kapu/pokemon-catalog-go/internal/view"
	"github.com/kapu/pokemon-catalog-go/pkg/errors"
	"go.uber.org/zap"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	page := &adapter.Page{Nav: adapter.NavLinks(r.URL.Path)}

	snap, err := view.LoadHome(r.Context(), s.catalog, s.requestLogger(r))
	if err != nil {
		page.Error = snap.Err
		s.render(w, r, errorStatus(err), "home", page)
		return
	}

	page.Home = &adapter.HomeView{
		Pokemon: adapter.NewCards(snap.Data.Pokemon),
		News:    adapter.NewNewsCards(snap.Data.News),
	}
	s.render(w, r, http.StatusOK, "home", page)
}

func (s *Server) handleListing(w http.ResponseWriter, r *http.Request) {
	query := view.ListingQuery{
		Query: r.URL.Query().Get("q"),
		Type:  r.URL.Query().Get("type"),
	}.Normalized()

	page := &adapter.Page{
		Title: "Pokemons",
		Nav:   adapter.NavLinks(r.URL.Path),
		Listing: &adapter.ListingView{
			Query:   query.Query,
			Types:   adapter.TypeOptions(query.Type),
			LiveURL: liveListingPath,
		},
	}

	snap, err := view.LoadListing(r.Context(), s.catalog, query, s.requestLogger(r))
	if err != nil {
		page.Error = snap.Err
		s.render(w, r, errorStatus(err), "listing", page)
		return
	}

	page.Listing.Cards = adapter.NewCards(snap.Data)
	s.render(w, r, http.StatusOK, "listing", page)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	page := &adapter.Page{Nav: adapter.NavLinks(r.URL.Path)}

	snap, err := view.LoadDetail(r.Context(), s.catalog, id, s.requestLogger(r))
	if err != nil {
		page.Title = "Not found"
		page.Error = snap.Err
		s.render(w, r, errorStatus(err), "detail", page)
		return
	}

	p := snap.Data
	page.Title = p.Name
	page.Detail = &adapter.DetailView{
		Card:        adapter.NewCard(p),
		Description: adapter.Describe(p),
		Abilities:   p.Abilities,
	}
	s.render(w, r, http.StatusOK, "detail", page)
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "about", &adapter.Page{
		Title: "About",
		Nav:   adapter.NavLinks(r.URL.Path),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "error", &adapter.Page{
		Title: "Not found",
		Nav:   adapter.NavLinks(r.URL.Path),
		Error: "Page not found",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"live":   s.LiveCount(),
	})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, page *adapter.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.renderer.RenderPage(w, name, page); err != nil {
		s.requestLogger(r).Error("Failed to render page", zap.String("page", name), zap.Error(err))
	}
}

func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	return s.logger.With(zap.String("request_id", RequestID(r.Context())))
}

// errorStatus maps a page failure to a response status: unknown pokemon are
// 404, everything else is an upstream failure.
func errorStatus(err error) int {
	if errors.IsNotFound(err) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

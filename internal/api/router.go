package api

import (
	"log/slog"
	"net/http"

	"github.com/theLastOfCats/ficbox/internal/auth"
	"github.com/theLastOfCats/ficbox/internal/catalog"
	"github.com/theLastOfCats/ficbox/internal/recommend"
	"github.com/theLastOfCats/ficbox/internal/status"
	"github.com/theLastOfCats/ficbox/internal/templates"
)

type Deps struct {
	Catalog  *catalog.CachedProvider
	Tracker  *status.Tracker
	Selector *recommend.Selector
	Tokens   *auth.Tokens
	Logger   *slog.Logger

	// Templates defaults to a fresh manager over the embedded cards.
	Templates *templates.Manager
}

func NewRouter(d Deps) http.Handler {
	// A nil *CachedProvider must stay a nil Catalog so handlers can check for it.
	var fics Catalog
	if d.Catalog != nil {
		fics = d.Catalog
	}

	ficHandler := &FicHandler{Catalog: fics}
	statusHandler := &StatusHandler{Tracker: d.Tracker, Catalog: fics}
	blindBoxHandler := &BlindBoxHandler{Catalog: fics, Selector: d.Selector}
	cacheHandler := &CacheHandler{Provider: d.Catalog}
	if d.Templates == nil {
		d.Templates = templates.NewManager()
	}
	cardHandler := &CardHandler{Catalog: fics, Tracker: d.Tracker, Selector: d.Selector, Templates: d.Templates}
	mw := &Middleware{Tokens: d.Tokens, Logger: d.Logger}

	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /{$}", Health)
	mux.HandleFunc("GET /fics", ficHandler.List)
	mux.HandleFunc("GET /fics/{id}", ficHandler.Get)
	mux.HandleFunc("GET /status", statusHandler.List)
	mux.HandleFunc("GET /fics/{id}/status", statusHandler.Get)
	mux.HandleFunc("POST /blindbox", blindBoxHandler.Open)
	mux.HandleFunc("GET /fics/{id}/card", cardHandler.Fic)
	mux.HandleFunc("GET /blindbox/card", cardHandler.BlindBox)

	// Protected Routes
	mux.Handle("PUT /fics/{id}/status", mw.RequireToken(http.HandlerFunc(statusHandler.Put)))
	mux.Handle("DELETE /cache", mw.RequireToken(http.HandlerFunc(cacheHandler.Clear)))

	return LoggingMiddleware(d.Logger, mux)
}

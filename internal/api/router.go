package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/harmonyapp/harmonyd/internal/api/handler"
	mw "github.com/harmonyapp/harmonyd/internal/api/middleware"
)

// NewRouter creates the HTTP router with all routes configured.
func NewRouter(
	searchHandler *handler.SearchHandler,
	downloadHandler *handler.DownloadHandler,
	healthHandler *handler.HealthHandler,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CleanPath)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logger)
	r.Use(middleware.Recoverer)
	// Downloads run to completion or retry exhaustion; the ceiling only
	// guards against a wedged engine process.
	r.Use(middleware.Timeout(15 * time.Minute))

	// Open API: permissive CORS, no auth.
	r.Use(mw.CORS)

	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.Live)
	r.Get("/ready", healthHandler.Ready)

	r.Route("/api", func(r chi.Router) {
		r.Post("/search", searchHandler.Search)
		r.Post("/download/{videoID}", downloadHandler.Download)

		// Download history
		r.Get("/downloads", downloadHandler.List)
		r.Get("/downloads/{recordID}/file", downloadHandler.ServeFile)
	})

	return r
}

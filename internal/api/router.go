package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter constructs the aggregator API router. Only the process
// endpoint is HMAC-protected; RTP reports are read-only internal
// endpoints.
func NewRouter(proc ProcessingService, reports ReportingService, hmacSecret string) http.Handler {
	h := NewHandler(proc, reports)
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/aggregator/takehome", func(r chi.Router) {
		r.With(HMACAuth(hmacSecret)).Post("/process", h.ProcessHandler)
		r.Get("/rtp", h.RTPHandler)
		r.Get("/rtp/{userID}", h.RTPHandler)
	})

	return r
}

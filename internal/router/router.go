// Package router sets up the HTTP routes and middleware chain for
// ThoughtPress. The submission endpoint carries a rate limiter because
// every accepted request costs one metered LLM call.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"thoughtpress/internal/handlers"
	"thoughtpress/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and routes wired up.
func New(thoughts *handlers.Thoughts, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check.
	r.Get("/health", healthHandler)

	// Thought submission. POST is the endpoint that triggers an LLM call,
	// so only it sits behind the rate limiter.
	r.Get("/submit_thought", thoughts.SubmitForm)
	if limiter != nil {
		r.With(limiter.Middleware).Post("/submit_thought", thoughts.Submit)
	} else {
		r.Post("/submit_thought", thoughts.Submit)
	}

	// Public post listing.
	r.Get("/blog_list", thoughts.ListPosts)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/inkwell-app/inkwell-backend/internal/handlers"
)

func SetupRoutes(r *chi.Mux, h *handlers.Handler) {
	// Auth routes
	r.Post("/api/auth/signup", h.Signup)
	r.Post("/api/auth/login", h.Login)
	r.Post("/api/auth/logout", h.Logout)
	r.Get("/api/auth/me", h.Me)

	// Journal routes
	r.Post("/api/journal", h.CreateEntry)
	r.Get("/api/journal", h.ListEntries)

	// Diagnostics
	r.Get("/api/debug", h.Debug)
	r.Get("/health", h.Health)
}

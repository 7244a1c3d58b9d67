package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/inkwell-app/inkwell-backend/internal/config"
	"github.com/inkwell-app/inkwell-backend/internal/models"
	"github.com/inkwell-app/inkwell-backend/internal/services"
)

// Handler bundles the services the HTTP surface needs. Everything is
// injected at startup; there is no package-level state.
type Handler struct {
	cfg      *config.Config
	sessions *services.SessionService
	pipeline *services.EntryPipeline

	// Raw handles for health / debug reporting only.
	db  *sql.DB
	rdb *redis.Client
}

func New(cfg *config.Config, sessions *services.SessionService, pipeline *services.EntryPipeline, db *sql.DB, rdb *redis.Client) *Handler {
	return &Handler{cfg: cfg, sessions: sessions, pipeline: pipeline, db: db, rdb: rdb}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// userMap shapes a user for API responses.
func userMap(u *models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":         u.ID,
		"name":       u.Name,
		"login_code": u.LoginCode,
		"created_at": u.CreatedAt,
	}
}

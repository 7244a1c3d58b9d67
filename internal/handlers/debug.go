package handlers

import (
	"context"
	"net/http"
	"time"
)

// Debug reports connectivity of the backing services. No secrets, no data;
// it exists so a broken deployment can be diagnosed from the outside.
func (h *Handler) Debug(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	postgresOK := h.db != nil && h.db.PingContext(ctx) == nil
	redisOK := h.rdb != nil && h.rdb.Ping(ctx).Err() == nil

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":           true,
		"environment":       h.cfg.Environment,
		"postgres":          postgresOK,
		"redis":             redisOK,
		"gemini_configured": h.cfg.GeminiAPIKey != "",
	})
}

// Health is the load-balancer liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

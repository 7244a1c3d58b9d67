package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/inkwell-app/inkwell-backend/internal/models"
	"github.com/inkwell-app/inkwell-backend/internal/services"
)

type CreateEntryRequest struct {
	Content string `json:"content"`
}

type CreateEntryResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Entry   *models.JournalEntry `json:"entry,omitempty"`
}

type ListEntriesResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Entries []models.JournalEntry `json:"entries"`
}

// CreateEntry submits a journal entry through the pipeline. Requires an
// authenticated session; the gate runs before anything touches the store.
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	user := h.sessions.CurrentUser(r)
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, CreateEntryResponse{
			Success: false,
			Message: "Authentication required",
		})
		return
	}

	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, CreateEntryResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		writeJSON(w, http.StatusBadRequest, CreateEntryResponse{
			Success: false,
			Message: "Content is required",
		})
		return
	}

	entry, err := h.pipeline.Submit(r.Context(), user, req.Content)
	if err != nil {
		if errors.Is(err, services.ErrNotAuthenticated) {
			writeJSON(w, http.StatusUnauthorized, CreateEntryResponse{
				Success: false,
				Message: "Authentication required",
			})
			return
		}
		// InsertReturnedEmpty, VerificationMismatch and store errors all
		// surface as the same generic message; the distinction is logged.
		log.Printf("entry submission failed for user %d: %v", user.ID, err)
		writeJSON(w, http.StatusInternalServerError, CreateEntryResponse{
			Success: false,
			Message: "Failed to save journal entry",
		})
		return
	}

	writeJSON(w, http.StatusCreated, CreateEntryResponse{
		Success: true,
		Entry:   entry,
	})
}

// ListEntries returns the authenticated user's timeline, newest first,
// capped at 50.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	user := h.sessions.CurrentUser(r)
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, ListEntriesResponse{
			Success: false,
			Message: "Authentication required",
			Entries: []models.JournalEntry{},
		})
		return
	}

	entries, err := h.pipeline.Timeline(r.Context(), user)
	if err != nil {
		log.Printf("listing entries failed for user %d: %v", user.ID, err)
		writeJSON(w, http.StatusInternalServerError, ListEntriesResponse{
			Success: false,
			Message: "Failed to load journal entries",
			Entries: []models.JournalEntry{},
		})
		return
	}

	writeJSON(w, http.StatusOK, ListEntriesResponse{
		Success: true,
		Entries: entries,
	})
}

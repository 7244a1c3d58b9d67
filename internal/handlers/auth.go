package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/inkwell-app/inkwell-backend/internal/services"
	"github.com/inkwell-app/inkwell-backend/pkg/utils"
)

type SignupRequest struct {
	Name string `json:"name"`
}

type LoginRequest struct {
	LoginCode string `json:"login_code"`
}

type AuthResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	User    map[string]interface{} `json:"user,omitempty"`
}

// Signup creates an account from a display name, generates its login code
// and signs the new user in. The login code is returned exactly once here;
// the client must show it to the user.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: "Invalid request body"})
		return
	}

	user, err := h.sessions.Signup(r.Context(), w, req.Name)
	if err != nil {
		var vErr *utils.ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: vErr.Message})
			return
		}
		log.Printf("signup failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, AuthResponse{Success: false, Message: "Failed to create user account"})
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{Success: true, User: userMap(user)})
}

// Login signs a returning user in by login code. Lowercase or padded input
// works identically to the canonical form.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: "Invalid request body"})
		return
	}

	user, err := h.sessions.Login(r.Context(), w, req.LoginCode)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCode) {
			writeJSON(w, http.StatusUnauthorized, AuthResponse{Success: false, Message: "Invalid login code. Please check and try again."})
			return
		}
		log.Printf("login failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, AuthResponse{Success: false, Message: "Failed to log in"})
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Success: true, User: userMap(user)})
}

// Logout clears the session cookie. Always succeeds.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(w)
	writeJSON(w, http.StatusOK, AuthResponse{Success: true})
}

// Me reports the current session. An unresolvable session is not an error,
// it is the anonymous state.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := h.sessions.CurrentUser(r)
	if user == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":       true,
			"authenticated": false,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"authenticated": true,
		"user":          userMap(user),
	})
}

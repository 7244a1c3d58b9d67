package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/inkwell-app/inkwell-backend/internal/models"
	"github.com/inkwell-app/inkwell-backend/pkg/utils"
)

const (
	// SessionCookieName holds the authenticated user's numeric id. The
	// cookie is the whole session: there is no server-side session record.
	SessionCookieName = "user_id"
	// SessionDuration is 1 year.
	SessionDuration = 365 * 24 * time.Hour
)

// UserDirectory is the identity-store surface the resolver needs.
type UserDirectory interface {
	CreateUser(ctx context.Context, name string) (*models.User, error)
	FindByLoginCode(ctx context.Context, code string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// SessionService issues and resolves cookie sessions. The cookie value is
// the bare user id, HTTP-only and SameSite-Lax but unsigned: the cookie's
// confidentiality is its only protection, and the login code stays the sole
// durable credential. That is a deliberate minimal-auth tradeoff.
type SessionService struct {
	users         UserDirectory
	secureCookies bool
}

func NewSessionService(users UserDirectory, secureCookies bool) *SessionService {
	return &SessionService{users: users, secureCookies: secureCookies}
}

// Signup creates an account and signs the new user in.
func (s *SessionService) Signup(ctx context.Context, w http.ResponseWriter, name string) (*models.User, error) {
	user, err := s.users.CreateUser(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreationFailed, err)
	}
	s.issueCookie(w, user.ID)
	return user, nil
}

// Login resolves a login code to its user and issues the session cookie.
// Input is normalized first, so lowercase or padded codes work identically.
func (s *SessionService) Login(ctx context.Context, w http.ResponseWriter, code string) (*models.User, error) {
	code = utils.NormalizeLoginCode(code)
	if err := utils.ValidateLoginCode(code); err != nil {
		// A malformed code can never match a stored one; skip the lookup.
		return nil, ErrInvalidCode
	}

	user, err := s.users.FindByLoginCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCode
	}
	s.issueCookie(w, user.ID)
	return user, nil
}

// Logout expires the session cookie. Best-effort: it always succeeds from
// the caller's perspective.
func (s *SessionService) Logout(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// CurrentUser resolves the request's session to a user. It never returns an
// error: a missing cookie, a malformed id, a missing row or a store failure
// all collapse to nil (anonymous). A transient database hiccup must not lock
// a user out mid-page-load. The underlying error is logged here, at the one
// point it is swallowed.
func (s *SessionService) CurrentUser(r *http.Request) *models.User {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	id, err := strconv.ParseInt(cookie.Value, 10, 64)
	if err != nil {
		return nil
	}

	user, err := s.users.FindByID(r.Context(), id)
	if err != nil {
		log.Printf("session: resolving current user %d failed, treating as anonymous: %v", id, err)
		return nil
	}
	return user
}

func (s *SessionService) issueCookie(w http.ResponseWriter, userID int64) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    strconv.FormatInt(userID, 10),
		Path:     "/",
		MaxAge:   int(SessionDuration / time.Second),
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/inkwell-app/inkwell-backend/internal/models"
	"github.com/inkwell-app/inkwell-backend/pkg/utils"
)

// ErrCodeExhausted is returned when no collision-free login code could be
// found within the generation budget.
var ErrCodeExhausted = errors.New("store: unable to generate unique login code")

// codeAttempts is the generate-and-check budget for login code uniqueness.
const codeAttempts = 10

// UserStore persists user accounts in PostgreSQL.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// CreateUser generates a unique login code and inserts the user. It fails
// hard when the database is unreachable or the uniqueness search exhausts
// its budget; accounts are never created with an ambiguous code.
func (s *UserStore) CreateUser(ctx context.Context, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &utils.ValidationError{Field: "name", Message: "Name is required"}
	}

	var code string
	found := false
	for attempt := 0; attempt < codeAttempts; attempt++ {
		candidate, err := utils.GenerateLoginCode()
		if err != nil {
			return nil, fmt.Errorf("generating login code: %w", err)
		}

		existing, err := withRetry("users.check_code", ptrFallback[int64](), func() (*int64, error) {
			var id int64
			err := s.db.QueryRowContext(ctx, `SELECT id FROM users WHERE login_code = $1`, candidate).Scan(&id)
			if err == sql.ErrNoRows {
				return nil, nil
			}
			if err != nil {
				return nil, classify("users.check_code", err)
			}
			return &id, nil
		})
		if err != nil {
			return nil, err
		}
		if existing == nil {
			code = candidate
			found = true
			break
		}
	}
	if !found {
		return nil, ErrCodeExhausted
	}

	user, err := withRetry("users.insert", ptrFallback[models.User](), func() (*models.User, error) {
		u := &models.User{Name: name, LoginCode: code}
		err := s.db.QueryRowContext(ctx, `
			INSERT INTO users (name, login_code)
			VALUES ($1, $2)
			RETURNING id, created_at
		`, name, code).Scan(&u.ID, &u.CreatedAt)
		if err != nil {
			// A concurrent signup can win the race on the same code; the
			// UNIQUE constraint is the authoritative check.
			return nil, classify("users.insert", err)
		}
		return u, nil
	})
	if err != nil {
		if IsConstraint(err) {
			// Another signup won the race on this code between the
			// uniqueness check and the insert.
			return nil, fmt.Errorf("login code collided after uniqueness check: %w", err)
		}
		return nil, err
	}
	if user == nil {
		return nil, &Error{Kind: KindTransient, Op: "users.insert", Err: errors.New("insert returned no row after retries")}
	}

	return user, nil
}

// FindByLoginCode looks up a user by code. The code is normalized before the
// lookup; a missing row is (nil, nil), not an error.
func (s *UserStore) FindByLoginCode(ctx context.Context, code string) (*models.User, error) {
	code = utils.NormalizeLoginCode(code)
	return withRetry("users.find_by_code", ptrFallback[models.User](), func() (*models.User, error) {
		return s.scanUser(s.db.QueryRowContext(ctx, `
			SELECT id, name, login_code, created_at
			FROM users
			WHERE login_code = $1
		`, code), "users.find_by_code")
	})
}

// FindByID looks up a user by id. A missing row is (nil, nil), not an error.
func (s *UserStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return withRetry("users.find_by_id", ptrFallback[models.User](), func() (*models.User, error) {
		return s.scanUser(s.db.QueryRowContext(ctx, `
			SELECT id, name, login_code, created_at
			FROM users
			WHERE id = $1
		`, id), "users.find_by_id")
	})
}

func (s *UserStore) scanUser(row *sql.Row, op string) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.LoginCode, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, classify(op, err)
	}
	return &u, nil
}

// ptrFallback gives withRetry a typed nil pointer fallback.
func ptrFallback[T any]() *T { return nil }

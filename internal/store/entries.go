package store

import (
	"context"
	"database/sql"

	"github.com/inkwell-app/inkwell-backend/internal/models"
)

// DefaultTimelineLimit caps how many entries a single listing returns.
const DefaultTimelineLimit = 50

// EntryStore persists journal entries in PostgreSQL. Entries are append-only;
// nothing here updates or deletes existing rows.
type EntryStore struct {
	db *sql.DB
}

func NewEntryStore(db *sql.DB) *EntryStore {
	return &EntryStore{db: db}
}

// Insert persists a new entry and returns it with the server-assigned id and
// timestamp. When retries exhaust against a transiently failing backend the
// result is (nil, nil); the caller must treat that as a failed save.
func (s *EntryStore) Insert(ctx context.Context, userID int64, content, summary string, mood models.Mood) (*models.JournalEntry, error) {
	return withRetry("entries.insert", ptrFallback[models.JournalEntry](), func() (*models.JournalEntry, error) {
		entry := &models.JournalEntry{
			UserID:  userID,
			Content: content,
			Summary: summary,
			Mood:    mood,
		}
		err := s.db.QueryRowContext(ctx, `
			INSERT INTO journal_entries (user_id, content, summary, mood, created_at)
			VALUES ($1, $2, $3, $4, NOW())
			RETURNING id, created_at
		`, userID, content, summary, string(mood)).Scan(&entry.ID, &entry.CreatedAt)
		if err != nil {
			return nil, classify("entries.insert", err)
		}
		return entry, nil
	})
}

// ListByUser returns the user's entries, newest first, capped at limit
// (DefaultTimelineLimit when limit <= 0). Retry exhaustion yields an empty
// list rather than an error.
func (s *EntryStore) ListByUser(ctx context.Context, userID int64, limit int) ([]models.JournalEntry, error) {
	if limit <= 0 || limit > DefaultTimelineLimit {
		limit = DefaultTimelineLimit
	}
	return withRetry("entries.list", []models.JournalEntry{}, func() ([]models.JournalEntry, error) {
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, user_id, content, summary, mood, created_at
			FROM journal_entries
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		`, userID, limit)
		if err != nil {
			return nil, classify("entries.list", err)
		}
		defer rows.Close()

		entries := make([]models.JournalEntry, 0, limit)
		for rows.Next() {
			var e models.JournalEntry
			var mood string
			if err := rows.Scan(&e.ID, &e.UserID, &e.Content, &e.Summary, &mood, &e.CreatedAt); err != nil {
				return nil, classify("entries.list", err)
			}
			e.Mood = models.Mood(mood)
			entries = append(entries, e)
		}
		if err := rows.Err(); err != nil {
			return nil, classify("entries.list", err)
		}
		return entries, nil
	})
}

// Verify re-reads an entry scoped to its owner. It is the read-back used
// right after Insert to confirm the row is durable and belongs to the
// authenticated user. A missing row is (nil, nil).
func (s *EntryStore) Verify(ctx context.Context, entryID, userID int64) (*models.JournalEntry, error) {
	return withRetry("entries.verify", ptrFallback[models.JournalEntry](), func() (*models.JournalEntry, error) {
		var e models.JournalEntry
		var mood string
		err := s.db.QueryRowContext(ctx, `
			SELECT id, user_id, content, summary, mood, created_at
			FROM journal_entries
			WHERE id = $1 AND user_id = $2
		`, entryID, userID).Scan(&e.ID, &e.UserID, &e.Content, &e.Summary, &mood, &e.CreatedAt)
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if err != nil {
			return nil, classify("entries.verify", err)
		}
		e.Mood = models.Mood(mood)
		return &e, nil
	})
}

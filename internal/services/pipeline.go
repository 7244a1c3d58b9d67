package services

import (
	"context"
	"fmt"
	"log"

	"github.com/inkwell-app/inkwell-backend/internal/models"
	"github.com/inkwell-app/inkwell-backend/internal/store"
)

// EntryJournal is the entry-store surface the pipeline needs.
type EntryJournal interface {
	Insert(ctx context.Context, userID int64, content, summary string, mood models.Mood) (*models.JournalEntry, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.JournalEntry, error)
	Verify(ctx context.Context, entryID, userID int64) (*models.JournalEntry, error)
}

// EntryAnalyzer annotates entry text. It must not fail.
type EntryAnalyzer interface {
	Analyze(ctx context.Context, text string) models.Analysis
}

// TimelineCacher is the cache surface the pipeline needs. It may be nil,
// in which case every listing goes to the store.
type TimelineCacher interface {
	Get(ctx context.Context, userID int64) ([]models.JournalEntry, bool)
	Set(ctx context.Context, userID int64, entries []models.JournalEntry) error
	Invalidate(ctx context.Context, userID int64) error
	PublishInvalidation(ctx context.Context, userID, entryID int64) error
}

// EntryPipeline runs a submission end to end: auth gate, analysis,
// persistence, verification read-back, cache invalidation. Each run is
// sequential within one request; there is no queue or background worker.
type EntryPipeline struct {
	entries  EntryJournal
	analyzer EntryAnalyzer
	cache    TimelineCacher
}

func NewEntryPipeline(entries EntryJournal, analyzer EntryAnalyzer, cache TimelineCacher) *EntryPipeline {
	return &EntryPipeline{entries: entries, analyzer: analyzer, cache: cache}
}

// Submit creates a new entry for user. Identical resubmissions are not
// deduplicated: the journal is a log, not a set. Terminal failures come back
// as wrapped sentinel errors so the handler can always decide an outcome.
func (p *EntryPipeline) Submit(ctx context.Context, user *models.User, content string) (*models.JournalEntry, error) {
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	// Analysis cannot fail the pipeline; the analyzer always returns a value.
	analysis := p.analyzer.Analyze(ctx, content)

	entry, err := p.entries.Insert(ctx, user.ID, content, analysis.Summary, analysis.Mood)
	if err != nil {
		return nil, fmt.Errorf("saving journal entry: %w", err)
	}
	if entry == nil {
		// Retry exhaustion against a transiently failing store. Distinct
		// from a propagated store error: the store gave up, it did not fail.
		return nil, ErrInsertReturnedEmpty
	}

	verified, err := p.entries.Verify(ctx, entry.ID, user.ID)
	if err != nil {
		log.Printf("pipeline: verify read-back for entry %d failed: %v", entry.ID, err)
		return nil, fmt.Errorf("%w: entry %d", ErrVerificationMismatch, entry.ID)
	}
	if verified == nil {
		// Guards against phantom inserts and cross-user leakage under a
		// misbehaving backend. The row may actually exist; the caller sees
		// a failure anyway, favoring visible safety over silent optimism.
		return nil, fmt.Errorf("%w: entry %d", ErrVerificationMismatch, entry.ID)
	}

	p.signalChanged(ctx, user.ID, verified.ID)

	return verified, nil
}

// Timeline returns the user's 50 most recent entries, newest first,
// cache-first.
func (p *EntryPipeline) Timeline(ctx context.Context, user *models.User) ([]models.JournalEntry, error) {
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	if p.cache != nil {
		if entries, ok := p.cache.Get(ctx, user.ID); ok {
			return entries, nil
		}
	}

	entries, err := p.entries.ListByUser(ctx, user.ID, store.DefaultTimelineLimit)
	if err != nil {
		return nil, fmt.Errorf("listing journal entries: %w", err)
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, user.ID, entries); err != nil {
			log.Printf("pipeline: caching timeline for user %d failed: %v", user.ID, err)
		}
	}

	return entries, nil
}

// signalChanged invalidates the user's cached timeline and broadcasts the
// change. Best-effort: a stale cache is bounded by its TTL.
func (p *EntryPipeline) signalChanged(ctx context.Context, userID, entryID int64) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Invalidate(ctx, userID); err != nil {
		log.Printf("pipeline: invalidating timeline cache for user %d failed: %v", userID, err)
	}
	if err := p.cache.PublishInvalidation(ctx, userID, entryID); err != nil {
		log.Printf("pipeline: publishing invalidation for user %d failed: %v", userID, err)
	}
}

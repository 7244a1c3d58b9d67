package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-app/inkwell-backend/internal/models"
)

// fakeEntryStore is an in-memory EntryJournal. Verify misses and insert
// behavior are script-able to drive the pipeline's failure paths.
type fakeEntryStore struct {
	nextID  int64
	entries map[int64][]models.JournalEntry

	insertErr     error
	insertEmpty   bool
	verifyMissing bool
	inserts       int
}

func newFakeEntryStore() *fakeEntryStore {
	return &fakeEntryStore{nextID: 1, entries: make(map[int64][]models.JournalEntry)}
}

func (f *fakeEntryStore) Insert(ctx context.Context, userID int64, content, summary string, mood models.Mood) (*models.JournalEntry, error) {
	f.inserts++
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	if f.insertEmpty {
		return nil, nil
	}
	e := models.JournalEntry{
		ID:        f.nextID,
		UserID:    userID,
		Content:   content,
		Summary:   summary,
		Mood:      mood,
		CreatedAt: time.Now(),
	}
	f.nextID++
	f.entries[userID] = append([]models.JournalEntry{e}, f.entries[userID]...)
	return &e, nil
}

func (f *fakeEntryStore) ListByUser(ctx context.Context, userID int64, limit int) ([]models.JournalEntry, error) {
	list := f.entries[userID]
	if len(list) > limit {
		list = list[:limit]
	}
	out := make([]models.JournalEntry, len(list))
	copy(out, list)
	return out, nil
}

func (f *fakeEntryStore) Verify(ctx context.Context, entryID, userID int64) (*models.JournalEntry, error) {
	if f.verifyMissing {
		return nil, nil
	}
	for _, e := range f.entries[userID] {
		if e.ID == entryID {
			e := e
			return &e, nil
		}
	}
	return nil, nil
}

type fakeAnalyzer struct{}

func (fakeAnalyzer) Analyze(ctx context.Context, text string) models.Analysis {
	return fallbackAnalysis(text)
}

type fakeCache struct {
	timelines   map[int64][]models.JournalEntry
	invalidated []int64
	published   []int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{timelines: make(map[int64][]models.JournalEntry)}
}

func (f *fakeCache) Get(ctx context.Context, userID int64) ([]models.JournalEntry, bool) {
	entries, ok := f.timelines[userID]
	return entries, ok
}

func (f *fakeCache) Set(ctx context.Context, userID int64, entries []models.JournalEntry) error {
	f.timelines[userID] = entries
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context, userID int64) error {
	delete(f.timelines, userID)
	f.invalidated = append(f.invalidated, userID)
	return nil
}

func (f *fakeCache) PublishInvalidation(ctx context.Context, userID, entryID int64) error {
	f.published = append(f.published, entryID)
	return nil
}

func testUser(id int64) *models.User {
	return &models.User{ID: id, Name: "test", LoginCode: "ABC123", CreatedAt: time.Now()}
}

func TestSubmitRoundTrip(t *testing.T) {
	store := newFakeEntryStore()
	cache := newFakeCache()
	p := NewEntryPipeline(store, fakeAnalyzer{}, cache)
	ctx := context.Background()

	entry, err := p.Submit(ctx, testUser(1), "I feel so happy today")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, int64(1), entry.UserID)
	assert.Equal(t, models.MoodHappy, entry.Mood)
	assert.NotEmpty(t, entry.Summary)

	// Retrievable for the owner...
	mine, err := p.Timeline(ctx, testUser(1))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, entry.ID, mine[0].ID)

	// ...and absent from another user's list.
	theirs, err := p.Timeline(ctx, testUser(2))
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestSubmitUnauthenticatedWritesNothing(t *testing.T) {
	store := newFakeEntryStore()
	p := NewEntryPipeline(store, fakeAnalyzer{}, newFakeCache())

	entry, err := p.Submit(context.Background(), nil, "some text")
	assert.Nil(t, entry)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, store.inserts, "store must not be touched for anonymous submissions")
}

func TestSubmitInsertEmptyFallback(t *testing.T) {
	store := newFakeEntryStore()
	store.insertEmpty = true
	p := NewEntryPipeline(store, fakeAnalyzer{}, newFakeCache())

	entry, err := p.Submit(context.Background(), testUser(1), "text")
	assert.Nil(t, entry)
	assert.ErrorIs(t, err, ErrInsertReturnedEmpty)
}

func TestSubmitInsertErrorPropagates(t *testing.T) {
	store := newFakeEntryStore()
	store.insertErr = errors.New("connection refused")
	p := NewEntryPipeline(store, fakeAnalyzer{}, newFakeCache())

	entry, err := p.Submit(context.Background(), testUser(1), "text")
	assert.Nil(t, entry)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInsertReturnedEmpty)
	assert.ErrorIs(t, err, store.insertErr)
}

func TestSubmitVerificationMismatch(t *testing.T) {
	store := newFakeEntryStore()
	store.verifyMissing = true
	cache := newFakeCache()
	p := NewEntryPipeline(store, fakeAnalyzer{}, cache)

	entry, err := p.Submit(context.Background(), testUser(1), "text")
	assert.Nil(t, entry)
	assert.ErrorIs(t, err, ErrVerificationMismatch)
	assert.Empty(t, cache.invalidated, "no invalidation signal on failed submission")
}

func TestSubmitSignalsCacheInvalidation(t *testing.T) {
	store := newFakeEntryStore()
	cache := newFakeCache()
	cache.timelines[1] = []models.JournalEntry{{ID: 99}}
	p := NewEntryPipeline(store, fakeAnalyzer{}, cache)

	entry, err := p.Submit(context.Background(), testUser(1), "text")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, cache.invalidated)
	assert.Equal(t, []int64{entry.ID}, cache.published)
}

func TestSubmitDoesNotDeduplicate(t *testing.T) {
	store := newFakeEntryStore()
	p := NewEntryPipeline(store, fakeAnalyzer{}, newFakeCache())
	ctx := context.Background()

	first, err := p.Submit(ctx, testUser(1), "same text")
	require.NoError(t, err)
	second, err := p.Submit(ctx, testUser(1), "same text")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	entries, err := p.Timeline(ctx, testUser(1))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestTimelineCacheFirst(t *testing.T) {
	store := newFakeEntryStore()
	cache := newFakeCache()
	cached := []models.JournalEntry{{ID: 7, UserID: 1, Content: "cached"}}
	cache.timelines[1] = cached
	p := NewEntryPipeline(store, fakeAnalyzer{}, cache)

	entries, err := p.Timeline(context.Background(), testUser(1))
	require.NoError(t, err)
	assert.Equal(t, cached, entries)
}

func TestTimelineMissFillsCache(t *testing.T) {
	store := newFakeEntryStore()
	cache := newFakeCache()
	p := NewEntryPipeline(store, fakeAnalyzer{}, cache)
	ctx := context.Background()

	_, err := p.Submit(ctx, testUser(1), "text")
	require.NoError(t, err)

	entries, err := p.Timeline(ctx, testUser(1))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entries, cache.timelines[int64(1)])
}

func TestTimelineAnonymous(t *testing.T) {
	p := NewEntryPipeline(newFakeEntryStore(), fakeAnalyzer{}, newFakeCache())
	_, err := p.Timeline(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

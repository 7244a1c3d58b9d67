package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/inkwell-app/inkwell-backend/internal/models"
)

const (
	// timelineKeyPrefix is the Redis key prefix for cached timelines
	timelineKeyPrefix = "cache:timeline:"
	// TimelineCacheTTL bounds staleness if an invalidation is ever missed
	TimelineCacheTTL = 8 * time.Hour
	// InvalidationChannel carries "this user's timeline changed" events
	InvalidationChannel = "journal:invalidate"
)

// InvalidationEvent is the payload published when a user's timeline changes.
// Interested readers (other instances, future realtime layers) subscribe to
// InvalidationChannel; delivery is fire-and-forget.
type InvalidationEvent struct {
	EventID string    `json:"event_id"`
	UserID  int64     `json:"user_id"`
	EntryID int64     `json:"entry_id"`
	At      time.Time `json:"at"`
}

// TimelineCache caches each user's reverse-chronological entry list in Redis
// and emits the cache-invalidation signal when the list changes.
type TimelineCache struct {
	rdb *redis.Client
}

func NewTimelineCache(rdb *redis.Client) *TimelineCache {
	return &TimelineCache{rdb: rdb}
}

func timelineKey(userID int64) string {
	return fmt.Sprintf("%s%d", timelineKeyPrefix, userID)
}

// Get returns the cached timeline for a user. Any Redis error is a cache
// miss, not an error.
func (c *TimelineCache) Get(ctx context.Context, userID int64) ([]models.JournalEntry, bool) {
	val, err := c.rdb.Get(ctx, timelineKey(userID)).Result()
	if err != nil {
		return nil, false
	}

	var entries []models.JournalEntry
	if err := json.Unmarshal([]byte(val), &entries); err != nil {
		return nil, false
	}
	return entries, true
}

// Set stores a user's timeline with the default TTL.
func (c *TimelineCache) Set(ctx context.Context, userID int64, entries []models.JournalEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, timelineKey(userID), data, TimelineCacheTTL).Err()
}

// Invalidate drops the cached timeline for a user.
func (c *TimelineCache) Invalidate(ctx context.Context, userID int64) error {
	return c.rdb.Del(ctx, timelineKey(userID)).Err()
}

// PublishInvalidation broadcasts that the user's timeline changed.
func (c *TimelineCache) PublishInvalidation(ctx context.Context, userID, entryID int64) error {
	event := InvalidationEvent{
		EventID: uuid.NewString(),
		UserID:  userID,
		EntryID: entryID,
		At:      time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return c.rdb.Publish(ctx, InvalidationChannel, data).Err()
}

// StartInvalidationSubscriber drops local cached timelines when another
// instance publishes an invalidation. Runs until ctx is cancelled;
// reconnects with capped backoff on subscriber errors.
func (c *TimelineCache) StartInvalidationSubscriber(ctx context.Context) {
	go func() {
		backoff := time.Second

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			func() {
				pubsub := c.rdb.Subscribe(ctx, InvalidationChannel)
				defer pubsub.Close()

				log.Printf("✅ Timeline invalidation subscriber started (channel: %s)", InvalidationChannel)

				for {
					msg, err := pubsub.ReceiveMessage(ctx)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						log.Printf("invalidation subscriber error: %v", err)
						time.Sleep(backoff)
						backoff *= 2
						if backoff > 30*time.Second {
							backoff = 30 * time.Second
						}
						return
					}

					backoff = time.Second

					var event InvalidationEvent
					if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
						log.Printf("failed to unmarshal invalidation event: %v", err)
						continue
					}

					if err := c.Invalidate(ctx, event.UserID); err != nil {
						log.Printf("failed to invalidate timeline for user %d: %v", event.UserID, err)
					}
				}
			}()
		}
	}()
}

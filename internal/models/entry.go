package models

import "time"

// Mood is one of the closed set of labels an entry can be tagged with.
type Mood string

const (
	MoodHappy      Mood = "happy"
	MoodSad        Mood = "sad"
	MoodAnxious    Mood = "anxious"
	MoodExcited    Mood = "excited"
	MoodCalm       Mood = "calm"
	MoodFrustrated Mood = "frustrated"
	MoodGrateful   Mood = "grateful"
	MoodReflective Mood = "reflective"
	MoodEnergetic  Mood = "energetic"
	MoodPeaceful   Mood = "peaceful"
)

// Moods lists every valid mood label, in a stable order.
func Moods() []Mood {
	return []Mood{
		MoodHappy, MoodSad, MoodAnxious, MoodExcited, MoodCalm,
		MoodFrustrated, MoodGrateful, MoodReflective, MoodEnergetic, MoodPeaceful,
	}
}

// Valid reports whether m belongs to the closed mood set.
func (m Mood) Valid() bool {
	for _, v := range Moods() {
		if m == v {
			return true
		}
	}
	return false
}

// JournalEntry is a single immutable journal record. Summary and Mood are
// always populated before the entry is persisted.
type JournalEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	Summary   string    `json:"summary"`
	Mood      Mood      `json:"mood"`
	CreatedAt time.Time `json:"created_at"`
}

// Analysis is the derived annotation attached to an entry at submission time.
type Analysis struct {
	Summary string `json:"summary"`
	Mood    Mood   `json:"mood"`
}

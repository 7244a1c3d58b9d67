package services

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/inkwell-app/inkwell-backend/internal/models"
)

func TestAnalyzeWithoutCredentialUsesFallback(t *testing.T) {
	a := NewAnalyzer(context.Background(), "", "gemini-2.0-flash")

	long := strings.Repeat("a very long journal entry ", 40)
	analysis := a.Analyze(context.Background(), long)

	assert.True(t, analysis.Mood.Valid())
	assert.LessOrEqual(t, utf8.RuneCountInString(analysis.Summary), fallbackSummaryMax+1)
	assert.True(t, strings.HasSuffix(analysis.Summary, "…"))
}

func TestFallbackSummaryShortTextUnchanged(t *testing.T) {
	assert.Equal(t, "a quiet day", fallbackSummary("a quiet day", fallbackSummaryMax))
}

func TestFallbackSummaryTrimsTrailingWhitespaceBeforeEllipsis(t *testing.T) {
	text := strings.Repeat("x", 118) + "  tail"
	got := fallbackSummary(text, fallbackSummaryMax)
	assert.Equal(t, strings.Repeat("x", 118)+"…", got)
}

func TestFallbackSummaryCountsRunesNotBytes(t *testing.T) {
	text := strings.Repeat("ä", 130)
	got := fallbackSummary(text, fallbackSummaryMax)
	assert.Equal(t, fallbackSummaryMax+1, utf8.RuneCountInString(got))
}

func TestDetectMoodFromText(t *testing.T) {
	cases := []struct {
		text string
		want models.Mood
	}{
		{"I feel so happy today", models.MoodHappy},
		{"I am anxious about tomorrow", models.MoodAnxious},
		{"just a normal day", models.MoodReflective},
		{"feeling DOWN lately", models.MoodSad},
		{"so thankful for my friends", models.MoodGrateful},
		{"everything was serene this morning", models.MoodCalm},
		{"really annoyed at the bus", models.MoodFrustrated},
		{"pumped for the race", models.MoodEnergetic},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, detectMoodFromText(tc.text), "text: %q", tc.text)
	}
}

func TestDetectMoodFirstRuleWins(t *testing.T) {
	// "happy" (rule 1) and "sad" (rule 2) both present: the earlier rule wins.
	assert.Equal(t, models.MoodHappy, detectMoodFromText("happy but also sad"))
	// "great" outranks "angry" by rule order even though it appears later.
	assert.Equal(t, models.MoodHappy, detectMoodFromText("angry at first, great now"))
}

func TestAnalyzeAlwaysReturnsClosedSetMood(t *testing.T) {
	a := NewAnalyzer(context.Background(), "", "")
	for _, text := range []string{"", "hello", strings.Repeat("blah ", 1000), "!!!"} {
		analysis := a.Analyze(context.Background(), text)
		assert.True(t, analysis.Mood.Valid(), "text: %q", text)
	}
}

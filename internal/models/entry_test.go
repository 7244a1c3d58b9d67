package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoodValid(t *testing.T) {
	for _, m := range Moods() {
		assert.True(t, m.Valid(), "mood %q", m)
	}
	assert.False(t, Mood("ecstatic").Valid())
	assert.False(t, Mood("").Valid())
	assert.False(t, Mood("HAPPY").Valid())
}

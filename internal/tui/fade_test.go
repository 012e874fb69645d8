package tui

import (
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestFadeStore_RunsToCompletion(t *testing.T) {
	s := NewFadeStore()
	neutral := lipgloss.Color("#1a1b26")

	s.Start("a", "#5bb75b", 1500*time.Millisecond)
	assert.True(t, s.Active())

	c, ok := s.Colour("a", neutral)
	assert.True(t, ok)
	assert.Equal(t, lipgloss.Color("#5bb75b"), c, "a new fade starts at the level colour")

	ticks := int(1500 * time.Millisecond / fadeTickInterval)
	for i := 0; i < ticks-1; i++ {
		assert.True(t, s.Tick())
	}
	c, ok = s.Colour("a", neutral)
	assert.True(t, ok)
	assert.NotEqual(t, lipgloss.Color("#5bb75b"), c)

	assert.True(t, s.Tick())
	_, ok = s.Colour("a", neutral)
	assert.False(t, ok)
	assert.False(t, s.Active())
	assert.False(t, s.Tick(), "nothing left to tick")
}

func TestFadeStore_RestartAndRemove(t *testing.T) {
	s := NewFadeStore()
	s.Start("a", "#b75b5b", 100*time.Millisecond)
	s.Tick()
	s.Start("a", "#b75b5b", 100*time.Millisecond)

	f := s.fades["a"]
	assert.Equal(t, f.TicksMax, f.TicksLeft)

	s.Remove("a")
	assert.False(t, s.Active())
}

func TestFadeStore_ShortDurationStillTicks(t *testing.T) {
	s := NewFadeStore()
	s.Start("a", "#f6b83f", time.Millisecond)
	assert.Equal(t, 1, s.fades["a"].TicksMax)
}

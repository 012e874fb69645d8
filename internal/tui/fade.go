package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/jtl/internal/core/styles"
)

// fadeTickInterval is how often highlighted log blocks are repainted.
const fadeTickInterval = 50 * time.Millisecond

// Fade is an active highlight on one log block.
type Fade struct {
	From      lipgloss.Color
	TicksLeft int
	TicksMax  int
}

// progress is how far the fade has run, 0 at start and 1 when done.
func (f Fade) progress() float64 {
	if f.TicksMax <= 0 {
		return 1
	}
	return 1 - float64(f.TicksLeft)/float64(f.TicksMax)
}

// FadeStore tracks highlight fades for log blocks.
type FadeStore struct {
	fades map[string]Fade // block ID -> fade
}

// NewFadeStore creates an empty fade store.
func NewFadeStore() *FadeStore {
	return &FadeStore{fades: make(map[string]Fade)}
}

// Start paints id in colour and fades it out over d. Starting a fade on a
// block that is already fading restarts it.
func (s *FadeStore) Start(id string, colour lipgloss.Color, d time.Duration) {
	ticks := int(d / fadeTickInterval)
	if ticks < 1 {
		ticks = 1
	}
	s.fades[id] = Fade{From: colour, TicksLeft: ticks, TicksMax: ticks}
}

// Colour returns the background id should be painted with, blended towards
// neutral. ok is false when id is not fading.
func (s *FadeStore) Colour(id string, neutral lipgloss.Color) (lipgloss.Color, bool) {
	f, ok := s.fades[id]
	if !ok {
		return "", false
	}
	return styles.Blend(f.From, neutral, f.progress()), true
}

// Tick advances every fade by one step and removes finished ones.
// Returns true if any fade changed (for triggering rerender).
func (s *FadeStore) Tick() bool {
	changed := false
	for id, f := range s.fades {
		f.TicksLeft--
		if f.TicksLeft <= 0 {
			delete(s.fades, id)
		} else {
			s.fades[id] = f
		}
		changed = true
	}
	return changed
}

// Remove drops the fade of id, if any.
func (s *FadeStore) Remove(id string) {
	delete(s.fades, id)
}

// Active reports whether any fade is running.
func (s *FadeStore) Active() bool {
	return len(s.fades) > 0
}

package presenter

import (
	"context"
	"fmt"
	"time"

	"github.com/hay-kot/jtl/internal/core/activity"
)

// HighlightFade is how long a new entry takes to fade from its level colour.
const HighlightFade = 1500 * time.Millisecond

var levelColours = map[activity.Level]string{
	activity.LevelInfo:  "#5bb75b",
	activity.LevelWarn:  "#f6b83f",
	activity.LevelError: "#b75b5b",
}

// LevelColour returns the highlight colour for level.
func LevelColour(level activity.Level) string {
	if c, ok := levelColours[level.OrDefault()]; ok {
		return c
	}
	return levelColours[activity.LevelInfo]
}

// RenderLogBlock converts an entry into the block the surface displays.
func RenderLogBlock(e activity.Entry) LogBlock {
	level := e.Level.OrDefault()
	return LogBlock{
		ID:        e.ID,
		Level:     level,
		Timestamp: e.Timestamp(),
		Text:      fmt.Sprintf("%s: %s", level, activity.SanitizeMessage(e.Message)),
	}
}

// AddActivityLog puts e at the top of the activity log. Live entries are
// animated; replayed history is not.
func (p *Presenter) AddActivityLog(e activity.Entry, animate bool) {
	block := RenderLogBlock(e)
	p.surface.PrependLog(block)
	p.surface.ScrollLogToTop()
	if !animate {
		return
	}
	p.surface.Highlight(block.ID, LevelColour(block.Level), HighlightFade)
}

// RemoveActivityLog removes e's block from the activity log.
func (p *Presenter) RemoveActivityLog(e activity.Entry) {
	p.surface.RemoveLog(e.ID)
}

func (p *Presenter) populateActivityLog(ctx context.Context) error {
	entries, err := p.app.ActivityLogs(ctx)
	if err != nil {
		return fmt.Errorf("load activity history: %w", err)
	}
	for _, e := range entries {
		p.AddActivityLog(e, false)
	}
	return nil
}

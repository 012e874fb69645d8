package presenter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/jtl/internal/core/activity"
	"github.com/hay-kot/jtl/internal/presenter"
)

func TestInit_ReplaysHistoryNewestFirst(t *testing.T) {
	h := newHarness(t)

	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	e1 := activity.New(activity.LevelInfo, "first", base)
	e2 := activity.New(activity.LevelWarn, "second", base.Add(time.Minute))
	e3 := activity.New(activity.LevelError, "third", base.Add(2*time.Minute))
	h.app.history = []activity.Entry{e1, e2, e3}

	require.NoError(t, h.p.Init(context.Background()))

	ids := make([]string, 0, len(h.surf.Logs))
	for _, b := range h.surf.Logs {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{e3.ID, e2.ID, e1.ID}, ids)
	assert.Empty(t, h.surf.Highlights, "replayed history is not animated")

	assert.Equal(t, "v1.2.3", h.surf.Text(presenter.RegionVersion))
	assert.Equal(t, "2026", h.surf.Text(presenter.RegionCopyYear))
	assert.Equal(t, "Reset", h.surf.Text(presenter.RegionClearTimeButton))
	assert.Equal(t, "0m", h.surf.Text(presenter.RegionLoggedTotal))
	assert.Equal(t, "0m", h.surf.Text(presenter.RegionDayGrandTotal))
	assert.Equal(t, "0m", h.surf.Text(presenter.RegionTimeAuto))
}

func TestInit_HistoryFailureStillStampsScreen(t *testing.T) {
	h := newHarness(t)
	h.app.historyErr = errBoom

	err := h.p.Init(context.Background())
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, "v1.2.3", h.surf.Text(presenter.RegionVersion))
	assert.Empty(t, h.surf.Logs)
}

func TestAddActivityLog_AnimatesLiveEntries(t *testing.T) {
	h := newHarness(t)

	e := activity.New(activity.LevelWarn, "<b>careful</b>", time.Now())
	h.p.AddActivityLog(e, true)

	require.Len(t, h.surf.Logs, 1)
	assert.Equal(t, e.ID, h.surf.Logs[0].ID)
	assert.Contains(t, h.surf.Logs[0].Text, "WARN: ")
	assert.Contains(t, h.surf.Logs[0].Text, "careful")
	assert.NotContains(t, h.surf.Logs[0].Text, "<b>")
	assert.Equal(t, 1, h.surf.Scrolls)

	require.Len(t, h.surf.Highlights, 1)
	assert.Equal(t, e.ID, h.surf.Highlights[0].ID)
	assert.Equal(t, "#f6b83f", h.surf.Highlights[0].Colour)
	assert.Equal(t, presenter.HighlightFade, h.surf.Highlights[0].Duration)

	h.p.RemoveActivityLog(e)
	assert.Empty(t, h.surf.Logs)
}

func TestLevelColour(t *testing.T) {
	tests := []struct {
		level activity.Level
		want  string
	}{
		{activity.LevelInfo, "#5bb75b"},
		{activity.LevelWarn, "#f6b83f"},
		{activity.LevelError, "#b75b5b"},
		{"", "#5bb75b"},
		{"DEBUG", "#5bb75b"},
	}
	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			assert.Equal(t, tt.want, presenter.LevelColour(tt.level))
		})
	}
}

func TestToggleTimeMode(t *testing.T) {
	h := newHarness(t)

	h.p.ToggleTimeMode()
	assert.True(t, h.app.manual)
	assert.True(t, h.surf.Visible(presenter.FieldTimeManual))
	assert.False(t, h.surf.Visible(presenter.FieldTimeAuto))
	assert.Equal(t, presenter.FieldTimeManual, h.surf.Focused)
	assert.Equal(t, "Cancel", h.surf.Text(presenter.RegionClearTimeButton))

	h.typeTime("2h")
	h.settle()
	assert.False(t, h.surf.HasState(presenter.FieldTimeManual, presenter.StateError))

	h.typeTime("soon")
	h.settle()
	assert.True(t, h.surf.HasState(presenter.FieldTimeManual, presenter.StateError))

	h.p.ToggleTimeMode()
	assert.False(t, h.app.manual)
	assert.True(t, h.surf.Visible(presenter.FieldTimeAuto))
	assert.False(t, h.surf.Visible(presenter.FieldTimeManual))
	assert.Empty(t, h.surf.Value(presenter.FieldTimeManual))
	assert.Equal(t, "Reset", h.surf.Text(presenter.RegionClearTimeButton))

	h.settle()
	assert.False(t, h.surf.HasState(presenter.FieldTimeManual, presenter.StateError),
		"automatic mode clears the manual field's error")
}

func TestTimePhrase_OnlyLastEditSettles(t *testing.T) {
	h := newHarness(t)
	h.p.ToggleTimeMode()

	h.typeTime("1")
	h.loop.Advance(300 * time.Millisecond)
	h.typeTime("1h")
	h.loop.Advance(presenter.DefaultDebounce - time.Millisecond)
	assert.False(t, h.surf.HasState(presenter.FieldTimeManual, presenter.StateError),
		"the stale settle for \"1\" never ran")

	h.loop.Advance(time.Millisecond)
	assert.False(t, h.surf.HasState(presenter.FieldTimeManual, presenter.StateError))
	assert.Equal(t, 0, h.loop.PendingTimers())
}

func TestClearTime(t *testing.T) {
	t.Run("automatic restarts the stopwatch", func(t *testing.T) {
		h := newHarness(t)
		h.app.autoTime = "0m"

		h.p.ClearTime()
		assert.Equal(t, 1, h.app.timerResets)
		assert.Equal(t, "0m", h.surf.Text(presenter.RegionTimeAuto))
	})

	t.Run("manual switches back to automatic", func(t *testing.T) {
		h := newHarness(t)
		h.p.ToggleTimeMode()
		h.typeTime("1h")

		h.p.ClearTime()
		assert.False(t, h.app.manual)
		assert.Equal(t, 0, h.app.timerResets)
		assert.True(t, h.surf.Visible(presenter.FieldTimeAuto))
		assert.Empty(t, h.surf.Value(presenter.FieldTimeManual))
	})
}

func TestConfirmLoggedTimeReset(t *testing.T) {
	t.Run("accept", func(t *testing.T) {
		h := newHarness(t)
		h.app.logged = "3h"

		h.p.ConfirmLoggedTimeReset()
		assert.Contains(t, h.surf.ConfirmPrompt, "new day")

		h.surf.Accept()
		assert.Equal(t, []bool{true}, h.app.resets)
		assert.Equal(t, "0m", h.surf.Text(presenter.RegionLoggedTotal))
	})

	t.Run("decline", func(t *testing.T) {
		h := newHarness(t)

		h.p.ConfirmLoggedTimeReset()
		h.surf.Decline()
		assert.Empty(t, h.app.resets)
	})
}

func TestTestJiraConnection(t *testing.T) {
	t.Run("connected", func(t *testing.T) {
		h := newHarness(t)

		h.p.TestJiraConnection()
		assert.True(t, h.surf.MaskVisible)
		assert.Contains(t, h.surf.Mask, "Testing JIRA connection")

		h.loop.CompleteNext()
		assert.False(t, h.surf.MaskVisible)
		assert.Equal(t, 1, h.app.connTests)

		e := h.lastEntry(t)
		assert.Equal(t, activity.LevelInfo, e.Level)
		assert.Equal(t, "Connected to JIRA", e.Message)
	})

	t.Run("failed", func(t *testing.T) {
		h := newHarness(t)
		h.app.connErr = errBoom

		h.p.TestJiraConnection()
		h.loop.CompleteNext()

		assert.False(t, h.surf.MaskVisible)
		e := h.lastEntry(t)
		assert.Equal(t, activity.LevelError, e.Level)
		assert.Contains(t, e.Message, "boom")
	})
}

func TestUpdateTotals_ExplicitValuesWin(t *testing.T) {
	h := newHarness(t)

	h.p.UpdateLoggedTotal("2h")
	h.p.UpdateDayGrandTotal("5h 30m")
	h.p.UpdateTimeAuto("45m")

	assert.Equal(t, "2h", h.surf.Text(presenter.RegionLoggedTotal))
	assert.Equal(t, "5h 30m", h.surf.Text(presenter.RegionDayGrandTotal))
	assert.Equal(t, "45m", h.surf.Text(presenter.RegionTimeAuto))
}

package tui

import (
	"context"
	"regexp"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/jtl/internal/core/activity"
	"github.com/hay-kot/jtl/internal/core/eventloop/looptest"
	"github.com/hay-kot/jtl/internal/core/issuekey"
	"github.com/hay-kot/jtl/internal/core/timephrase"
	"github.com/hay-kot/jtl/internal/presenter"
	"github.com/hay-kot/jtl/internal/worklog"
	"github.com/hay-kot/jtl/pkg/tuitest"
)

type stubApp struct {
	manual  bool
	entries []activity.Entry
}

func (a *stubApp) TimeManual() bool                             { return a.manual }
func (a *stubApp) SetTimeManual(manual bool)                    { a.manual = manual }
func (a *stubApp) ResetTimer()                                  {}
func (a *stubApp) TimeAutoString(time.Duration) string          { return "12m" }
func (a *stubApp) LoggedTotalString() string                    { return "1h" }
func (a *stubApp) DayGrandTotalString() string                  { return "3h 15m" }
func (a *stubApp) Version() string                              { return "1.2.3" }
func (a *stubApp) TestConnection(context.Context) error         { return nil }
func (a *stubApp) ResetLoggedTotal(context.Context, bool) error { return nil }

func (a *stubApp) LogWork(context.Context, worklog.Submission) error { return nil }

func (a *stubApp) ActivityLogs(context.Context) ([]activity.Entry, error) {
	return a.entries, nil
}

func (a *stubApp) Log(_ context.Context, level activity.Level, message string) (activity.Entry, error) {
	e := activity.New(level, message, time.Now())
	a.entries = append(a.entries, e)
	return e, nil
}

func (a *stubApp) IssueSummary(context.Context, string) (string, error) {
	return "Fix login", nil
}

type stubConfig struct{}

func (stubConfig) DefaultProjectKey() (string, bool) { return "jtl", true }
func (stubConfig) TimePattern() *regexp.Regexp {
	return regexp.MustCompile(timephrase.DefaultPattern)
}
func (stubConfig) IssueKeyPattern() *regexp.Regexp {
	return regexp.MustCompile(issuekey.DefaultPattern)
}

type modelHarness struct {
	m    *Model
	app  *stubApp
	loop *looptest.Loop
	p    *presenter.Presenter
}

func newModelHarness(t *testing.T) *modelHarness {
	t.Helper()

	h := &modelHarness{
		m:    New(Options{}),
		app:  &stubApp{},
		loop: looptest.New(),
	}
	h.p = presenter.New(h.m, h.app, stubConfig{}, h.loop, presenter.Options{
		Now: func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) },
	})
	h.m.SetPresenter(h.p)
	require.NoError(t, h.p.Init(context.Background()))
	return h
}

func (h *modelHarness) send(msgs ...tea.Msg) {
	for _, msg := range msgs {
		h.m.Update(msg)
	}
}

func (h *modelHarness) typeText(s string) {
	for _, k := range tuitest.Type(s) {
		h.send(k)
	}
}

func TestModel_InitialLayout(t *testing.T) {
	m := New(Options{})

	assert.True(t, m.Visible(presenter.FieldTimeAuto))
	assert.False(t, m.Visible(presenter.FieldTimeManual))
	assert.Equal(t, presenter.FieldIssue, m.focus)
	assert.True(t, m.Checked(presenter.FieldResetTimer))
	assert.Equal(t, "auto", m.Value(presenter.FieldAdjustEstimate))
}

func TestModel_ValuesAndReset(t *testing.T) {
	m := New(Options{})

	m.SetValue(presenter.FieldIssue, "ABC-1")
	m.SetValue(presenter.FieldAdjustEstimate, "leave")
	m.SetValue(presenter.FieldAdjustEstimate, "bogus")
	m.controls[presenter.FieldResetTimer].checked = false

	assert.Equal(t, "ABC-1", m.Value(presenter.FieldIssue))
	assert.Equal(t, "leave", m.Value(presenter.FieldAdjustEstimate))
	assert.False(t, m.Checked(presenter.FieldResetTimer))
	assert.Empty(t, m.Value("missing"))

	m.ResetForm()
	assert.Empty(t, m.Value(presenter.FieldIssue))
	assert.Equal(t, "auto", m.Value(presenter.FieldAdjustEstimate))
	assert.True(t, m.Checked(presenter.FieldResetTimer))
}

func TestModel_States(t *testing.T) {
	m := New(Options{})

	m.AddState(presenter.FieldIssue, presenter.StateError)
	m.AddState(presenter.FieldTimeManual, presenter.StateError)
	assert.True(t, m.HasState(presenter.FieldIssue, presenter.StateError))

	m.RemoveState(presenter.FieldIssue, presenter.StateError)
	assert.False(t, m.HasState(presenter.FieldIssue, presenter.StateError))
	assert.True(t, m.HasState(presenter.FieldTimeManual, presenter.StateError))

	m.ClearState(presenter.StateError)
	assert.False(t, m.HasState(presenter.FieldTimeManual, presenter.StateError))
}

func TestModel_LogBlocks(t *testing.T) {
	m := New(Options{})

	m.PrependLog(presenter.LogBlock{ID: "a", Text: "INFO: first"})
	m.PrependLog(presenter.LogBlock{ID: "b", Text: "INFO: second"})
	require.Len(t, m.Logs(), 2)
	assert.Equal(t, "b", m.Logs()[0].ID)

	m.Highlight("b", "#5bb75b", 200*time.Millisecond)
	assert.True(t, m.fadeTicking)
	assert.True(t, m.fades.Active())
	assert.Len(t, m.pending, 1, "the fade tick is scheduled once")

	m.Highlight("a", "#5bb75b", 200*time.Millisecond)
	assert.Len(t, m.pending, 1)

	m.RemoveLog("b")
	require.Len(t, m.Logs(), 1)
	assert.Equal(t, "a", m.Logs()[0].ID)
}

func TestModel_TrimmedEntryLeavesLogPane(t *testing.T) {
	h := newModelHarness(t)
	h.send(tuitest.WindowSize(100, 30))

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	oldest := activity.New(activity.LevelInfo, "Logged 30m to ABC-7", now)
	newest := activity.New(activity.LevelInfo, "Logged 1h to ABC-8", now.Add(time.Minute))
	h.p.AddActivityLog(oldest, false)
	h.p.AddActivityLog(newest, false)
	require.Contains(t, tuitest.StripANSI(h.m.View()), "ABC-7")

	h.m.Queue().Post(func() { h.p.RemoveActivityLog(oldest) })
	h.send(drainMsg{})

	require.Len(t, h.m.Logs(), 1)
	assert.Equal(t, newest.ID, h.m.Logs()[0].ID)
	view := tuitest.StripANSI(h.m.View())
	assert.NotContains(t, view, "ABC-7")
	assert.Contains(t, view, "ABC-8")
}

func TestModel_TypingRoutesToPresenter(t *testing.T) {
	h := newModelHarness(t)

	h.typeText("12")
	assert.Equal(t, "12", h.m.Value(presenter.FieldIssue))
	assert.Equal(t, presenter.SummaryWaiting, h.m.Text(presenter.RegionSummary))

	h.loop.Advance(presenter.DefaultDebounce)
	assert.Equal(t, "jtl-12", h.m.Value(presenter.FieldIssue))
	assert.Equal(t, presenter.SummaryChecking, h.m.Text(presenter.RegionSummary))

	h.loop.CompleteNext()
	assert.Equal(t, "Fix login", h.m.Text(presenter.RegionSummary))
}

func TestModel_FocusSkipsHiddenControls(t *testing.T) {
	h := newModelHarness(t)

	h.send(tuitest.KeyTab())
	assert.Equal(t, presenter.FieldComment, h.m.focus)

	h.send(tuitest.Key(tea.KeyShiftTab))
	assert.Equal(t, presenter.FieldIssue, h.m.focus)
}

func TestModel_ToggleTimeShowsManualField(t *testing.T) {
	h := newModelHarness(t)

	h.send(tuitest.Key(tea.KeyCtrlT))
	assert.True(t, h.app.manual)
	assert.True(t, h.m.Visible(presenter.FieldTimeManual))
	assert.Equal(t, presenter.FieldTimeManual, h.m.focus)

	h.typeText("1h")
	assert.Equal(t, "1h", h.m.Value(presenter.FieldTimeManual))
}

func TestModel_CheckboxAndEnum(t *testing.T) {
	h := newModelHarness(t)

	h.m.Focus(presenter.FieldResetTimer)
	h.send(tuitest.KeyPress(' '))
	assert.False(t, h.m.Checked(presenter.FieldResetTimer))

	h.m.Focus(presenter.FieldAdjustEstimate)
	h.send(tuitest.Key(tea.KeyRight))
	assert.Equal(t, "leave", h.m.Value(presenter.FieldAdjustEstimate))
	h.send(tuitest.Key(tea.KeyRight))
	assert.Equal(t, "auto", h.m.Value(presenter.FieldAdjustEstimate))
}

func TestModel_ConfirmModal(t *testing.T) {
	t.Run("yes", func(t *testing.T) {
		h := newModelHarness(t)
		called := false
		h.m.Confirm("Reset the total?", func() { called = true })

		view := tuitest.StripANSI(h.m.View())
		assert.Contains(t, view, "Reset the total?")

		h.send(tuitest.KeyPress('y'))
		assert.True(t, called)
		assert.Nil(t, h.m.modal)
	})

	t.Run("no", func(t *testing.T) {
		h := newModelHarness(t)
		called := false
		h.m.Confirm("Reset the total?", func() { called = true })

		h.send(tuitest.KeyPress('n'))
		assert.False(t, called)
		assert.Nil(t, h.m.modal)
		assert.Empty(t, h.m.Value(presenter.FieldIssue), "modal keys never reach the form")
	})
}

func TestModel_MaskBlocksInput(t *testing.T) {
	h := newModelHarness(t)

	h.m.ShowMask("Logging work, please wait")
	h.typeText("a")
	assert.Empty(t, h.m.Value(presenter.FieldIssue))
	assert.Contains(t, tuitest.StripANSI(h.m.View()), "Logging work, please wait")

	h.m.HideMask()
	h.typeText("a")
	assert.Equal(t, "a", h.m.Value(presenter.FieldIssue))
}

func TestModel_View(t *testing.T) {
	h := newModelHarness(t)
	h.send(tuitest.WindowSize(100, 30))

	h.p.AddActivityLog(activity.New(activity.LevelInfo, "Logged 1h to ABC-1", time.Now()), true)
	h.typeText("ABC-1")

	view := tuitest.StripANSI(h.m.View())
	assert.Contains(t, view, "ABC-1")
	assert.Contains(t, view, presenter.SummaryWaiting)
	assert.Contains(t, view, "12m")
	assert.Contains(t, view, "Logged: 1h")
	assert.Contains(t, view, "Today: 3h 15m")
	assert.Contains(t, view, "INFO: Logged 1h to ABC-1")
	assert.Contains(t, view, "jtl v1.2.3")
	assert.Contains(t, view, "2026")
}

func TestModel_HelpOverlay(t *testing.T) {
	h := newModelHarness(t)

	h.send(tuitest.Key(tea.KeyF1))
	assert.True(t, h.m.showHelp)
	assert.Contains(t, tuitest.StripANSI(h.m.View()), "Log time against JIRA issues.")

	h.send(tuitest.Key(tea.KeyEsc))
	assert.False(t, h.m.showHelp)
}

func TestModel_QuitRendersNothing(t *testing.T) {
	h := newModelHarness(t)

	_, cmd := h.m.Update(tuitest.Key(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.Empty(t, h.m.View())
}

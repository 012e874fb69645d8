package presenter_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/jtl/internal/core/activity"
	"github.com/hay-kot/jtl/internal/presenter"
	"github.com/hay-kot/jtl/internal/worklog"
)

func TestGetTimeFormValues(t *testing.T) {
	h := newHarness(t)
	h.app.autoTime = "1h 5m"
	h.surf.SetValue(presenter.FieldIssue, "ABC-1")
	h.surf.SetValue(presenter.FieldComment, "did things")
	h.surf.SetText(presenter.RegionSummary, "Fix login")

	want := presenter.FormSnapshot{
		"issue":          "ABC-1",
		"timeManual":     "",
		"comment":        "did things",
		"adjustEstimate": "auto",
		"resetTimer":     true,
		"time":           "1h 5m",
		"summary":        "Fix login",
	}
	if diff := cmp.Diff(want, h.p.GetTimeFormValues()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestGetTimeFormValues_ManualTime(t *testing.T) {
	h := newHarness(t)
	h.p.ToggleTimeMode()
	h.typeTime("2h 30m")

	snap := h.p.GetTimeFormValues()
	assert.Equal(t, "2h 30m", snap.Text(presenter.SnapshotTime))
}

func TestGetTimeFormValues_SummaryExclusions(t *testing.T) {
	tests := []struct {
		name    string
		summary string
	}{
		{"empty", ""},
		{"waiting", presenter.SummaryWaiting},
		{"checking", presenter.SummaryChecking},
		{"invalid", presenter.SummaryInvalid},
		{"not found", "ABC-1 not found"},
		{"contains key", "ABC-1: duplicate of another issue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.surf.SetValue(presenter.FieldIssue, "ABC-1")
			h.surf.SetText(presenter.RegionSummary, tt.summary)

			_, ok := h.p.GetTimeFormValues().Summary()
			assert.False(t, ok)
		})
	}
}

func TestValidateTimeForm(t *testing.T) {
	t.Run("automatic mode only checks the issue", func(t *testing.T) {
		h := newHarness(t)

		errs := h.p.ValidateTimeForm()
		assert.Equal(t, []string{"'' does not appear to be a valid JIRA issue key"}, errs)
		assert.True(t, h.surf.HasState(presenter.FieldIssue, presenter.StateError))
		assert.False(t, h.surf.HasState(presenter.FieldTimeManual, presenter.StateError))
	})

	t.Run("manual mode checks both", func(t *testing.T) {
		h := newHarness(t)
		h.p.ToggleTimeMode()
		h.surf.SetValue(presenter.FieldTimeManual, "soon")
		h.surf.SetValue(presenter.FieldIssue, "nope")

		errs := h.p.ValidateTimeForm()
		assert.Equal(t, []string{
			"'soon' does not appear to be a valid JIRA time phrase",
			"'nope' does not appear to be a valid JIRA issue key",
		}, errs)
		assert.True(t, h.surf.HasState(presenter.FieldIssue, presenter.StateError))
		assert.True(t, h.surf.HasState(presenter.FieldTimeManual, presenter.StateError))
	})

	t.Run("valid form clears stale errors", func(t *testing.T) {
		h := newHarness(t)
		h.surf.AddState(presenter.FieldIssue, presenter.StateError)
		h.surf.SetValue(presenter.FieldIssue, "ABC-1")

		assert.Empty(t, h.p.ValidateTimeForm())
		assert.False(t, h.surf.HasState(presenter.FieldIssue, presenter.StateError))
	})
}

func TestResetTimeForm(t *testing.T) {
	h := newHarness(t)
	h.p.ToggleTimeMode()
	h.typeTime("1h")
	h.typeIssue("ABC-1")
	h.surf.SetValue(presenter.FieldComment, "notes")

	h.p.ResetTimeForm()
	h.settle()

	assert.Equal(t, 0, h.loop.PendingJobs(), "pending lookups are cancelled")
	assert.Empty(t, h.summary())
	assert.Empty(t, h.surf.Value(presenter.FieldIssue))
	assert.Empty(t, h.surf.Value(presenter.FieldComment))
	assert.False(t, h.app.manual)
	assert.True(t, h.surf.Visible(presenter.FieldTimeAuto))
	assert.Equal(t, presenter.ResolverIdle, h.p.ResolverState())
}

func TestResetTimeForm_DropsInFlightLookup(t *testing.T) {
	h := newHarness(t)
	h.app.summaries["ABC-1"] = "First"

	h.typeIssue("ABC-1")
	h.settle()
	h.p.ResetTimeForm()
	h.loop.CompleteNext()

	assert.Empty(t, h.summary())
}

func TestSubmitTimeForm_InvalidRecordsOneWarning(t *testing.T) {
	h := newHarness(t)
	h.p.ToggleTimeMode()
	h.surf.SetValue(presenter.FieldTimeManual, "soon")
	h.surf.SetValue(presenter.FieldIssue, "nope")

	h.p.SubmitTimeForm()

	assert.Equal(t, 0, h.loop.PendingJobs())
	assert.False(t, h.surf.MaskVisible)
	require.Len(t, h.app.entries, 1)
	e := h.app.entries[0]
	assert.Equal(t, activity.LevelWarn, e.Level)
	assert.Equal(t,
		"'soon' does not appear to be a valid JIRA time phrase\n'nope' does not appear to be a valid JIRA issue key",
		e.Message,
	)
}

func TestSubmitTimeForm_Success(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.p.Init(context.Background()))

	h.app.autoTime = "1h 5m"
	h.surf.SetValue(presenter.FieldIssue, "ABC-1")
	h.surf.SetValue(presenter.FieldComment, "did things")
	h.surf.SetText(presenter.RegionSummary, "Fix login")

	h.p.SubmitTimeForm()
	assert.True(t, h.p.Submitting())
	assert.True(t, h.surf.MaskVisible)

	h.p.SubmitTimeForm()
	require.Equal(t, 1, h.loop.PendingJobs(), "a second submit is ignored while one is in flight")

	h.loop.CompleteNext()

	want := []worklog.Submission{{
		IssueKey:       "ABC-1",
		TimeSpent:      "1h 5m",
		Comment:        "did things",
		AdjustEstimate: "auto",
		ResetTimer:     true,
		Summary:        "Fix login",
	}}
	if diff := cmp.Diff(want, h.app.submissions); diff != "" {
		t.Errorf("submissions mismatch (-want +got):\n%s", diff)
	}

	assert.False(t, h.p.Submitting())
	assert.False(t, h.surf.MaskVisible)
	assert.Empty(t, h.surf.Value(presenter.FieldIssue))
	assert.Empty(t, h.summary())
	assert.Equal(t, "1h 5m", h.surf.Text(presenter.RegionLoggedTotal))
	assert.Equal(t, "1h 5m", h.surf.Text(presenter.RegionDayGrandTotal))
}

func TestSubmitTimeForm_FailureKeepsForm(t *testing.T) {
	h := newHarness(t)
	h.app.logWorkErr = errBoom
	h.surf.SetValue(presenter.FieldIssue, "ABC-1")
	h.surf.SetValue(presenter.FieldComment, "did things")

	h.p.SubmitTimeForm()
	h.loop.CompleteNext()

	assert.False(t, h.p.Submitting())
	assert.False(t, h.surf.MaskVisible)
	assert.Equal(t, "ABC-1", h.surf.Value(presenter.FieldIssue))
	assert.Equal(t, "did things", h.surf.Value(presenter.FieldComment))
}

package presenter_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/hay-kot/jtl/internal/core/activity"
	"github.com/hay-kot/jtl/internal/core/eventloop/looptest"
	"github.com/hay-kot/jtl/internal/core/issuekey"
	"github.com/hay-kot/jtl/internal/core/timephrase"
	"github.com/hay-kot/jtl/internal/presenter"
	"github.com/hay-kot/jtl/internal/presenter/surfacetest"
	"github.com/hay-kot/jtl/internal/worklog"
)

var errBoom = errors.New("boom")

type fakeApp struct {
	manual      bool
	timerResets int
	autoTime    string
	logged      string
	day         string
	version     string

	history    []activity.Entry
	historyErr error
	entries    []activity.Entry

	summaries map[string]string
	lookupErr error
	lookups   []string

	resets      []bool
	submissions []worklog.Submission
	logWorkErr  error
	connErr     error
	connTests   int
}

func newFakeApp() *fakeApp {
	return &fakeApp{
		autoTime:  "0m",
		logged:    "0m",
		day:       "0m",
		version:   "1.2.3",
		summaries: map[string]string{},
	}
}

func (a *fakeApp) TimeManual() bool                     { return a.manual }
func (a *fakeApp) SetTimeManual(manual bool)            { a.manual = manual }
func (a *fakeApp) ResetTimer()                          { a.timerResets++ }
func (a *fakeApp) TimeAutoString(time.Duration) string  { return a.autoTime }
func (a *fakeApp) LoggedTotalString() string            { return a.logged }
func (a *fakeApp) DayGrandTotalString() string          { return a.day }
func (a *fakeApp) Version() string                      { return a.version }
func (a *fakeApp) TestConnection(context.Context) error { a.connTests++; return a.connErr }

func (a *fakeApp) ActivityLogs(context.Context) ([]activity.Entry, error) {
	return a.history, a.historyErr
}

func (a *fakeApp) Log(_ context.Context, level activity.Level, message string) (activity.Entry, error) {
	e := activity.New(level, message, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	a.entries = append(a.entries, e)
	return e, nil
}

func (a *fakeApp) IssueSummary(_ context.Context, key string) (string, error) {
	a.lookups = append(a.lookups, key)
	if a.lookupErr != nil {
		return "", a.lookupErr
	}
	return a.summaries[key], nil
}

func (a *fakeApp) ResetLoggedTotal(_ context.Context, announce bool) error {
	a.resets = append(a.resets, announce)
	a.logged = "0m"
	return nil
}

func (a *fakeApp) LogWork(_ context.Context, sub worklog.Submission) error {
	a.submissions = append(a.submissions, sub)
	if a.logWorkErr != nil {
		return a.logWorkErr
	}
	a.logged = sub.TimeSpent
	a.day = sub.TimeSpent
	return nil
}

type fakeConfig struct {
	project string
	enabled bool
	timeRe  *regexp.Regexp
	issueRe *regexp.Regexp
}

func newFakeConfig(project string) *fakeConfig {
	return &fakeConfig{
		project: project,
		enabled: project != "",
		timeRe:  regexp.MustCompile(timephrase.DefaultPattern),
		issueRe: regexp.MustCompile(issuekey.DefaultPattern),
	}
}

func (c *fakeConfig) DefaultProjectKey() (string, bool) { return c.project, c.enabled }
func (c *fakeConfig) TimePattern() *regexp.Regexp       { return c.timeRe }
func (c *fakeConfig) IssueKeyPattern() *regexp.Regexp   { return c.issueRe }

type harness struct {
	p    *presenter.Presenter
	app  *fakeApp
	cfg  *fakeConfig
	surf *surfacetest.Recorder
	loop *looptest.Loop
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		app:  newFakeApp(),
		cfg:  newFakeConfig("jtl"),
		surf: surfacetest.New(),
		loop: looptest.New(),
	}
	h.p = presenter.New(h.surf, h.app, h.cfg, h.loop, presenter.Options{
		Now: func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) },
	})
	return h
}

// typeIssue simulates an edit that leaves text in the issue field.
func (h *harness) typeIssue(text string) {
	h.surf.SetValue(presenter.FieldIssue, text)
	h.p.IssueKeyEntered()
}

func (h *harness) typeTime(text string) {
	h.surf.SetValue(presenter.FieldTimeManual, text)
	h.p.ManualTimeEntered()
}

func (h *harness) settle() {
	h.loop.Advance(presenter.DefaultDebounce)
}

func (h *harness) summary() string {
	return h.surf.Text(presenter.RegionSummary)
}

func (h *harness) lastEntry(t *testing.T) activity.Entry {
	t.Helper()
	if len(h.app.entries) == 0 {
		t.Fatal("no activity entries recorded")
	}
	return h.app.entries[len(h.app.entries)-1]
}

// Package presenter is the controller behind the time logging screen.
//
// It owns the two debounced validators (manual time phrase and issue key),
// reconciles asynchronous issue summary lookups with what is on screen,
// feeds the activity log and turns the form into a worklog submission.
// All of its methods must be called from the event loop it was built with;
// it renders exclusively through the injected Surface.
package presenter

import (
	"context"
	"regexp"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/jtl/internal/core/activity"
	"github.com/hay-kot/jtl/internal/core/eventloop"
	"github.com/hay-kot/jtl/internal/core/logging"
	"github.com/hay-kot/jtl/internal/worklog"
)

const (
	// DefaultDebounce is the quiet period before a typed field is evaluated.
	DefaultDebounce = 500 * time.Millisecond

	defaultLookupTimeout = 15 * time.Second
	defaultSubmitTimeout = 30 * time.Second
)

// Placeholder texts shown in the summary region.
const (
	SummaryWaiting  = "*Waiting...*"
	SummaryChecking = "*Checking...*"
	SummaryInvalid  = "*Invalid issue key*"
)

const (
	clearButtonCancel = "Cancel"
	clearButtonReset  = "Reset"

	jiraTestMessage = "Testing JIRA connection, please wait"
	submitMessage   = "Logging work, please wait"

	newDayPrompt = "It looks like this is a new day,\ndo you want to reset the logged total as well?"
)

// App is the application service the presenter reads from and reports to.
type App interface {
	TimeManual() bool
	SetTimeManual(manual bool)
	ResetTimer()
	TimeAutoString(round time.Duration) string
	LoggedTotalString() string
	DayGrandTotalString() string
	Version() string

	// ActivityLogs returns history in the order it should be replayed.
	ActivityLogs(ctx context.Context) ([]activity.Entry, error)
	Log(ctx context.Context, level activity.Level, message string) (activity.Entry, error)

	// IssueSummary returns "" with a nil error when the issue does not exist.
	IssueSummary(ctx context.Context, key string) (string, error)
	ResetLoggedTotal(ctx context.Context, announce bool) error
	LogWork(ctx context.Context, sub worklog.Submission) error
	TestConnection(ctx context.Context) error
}

// Config supplies the user-tunable parts of validation.
type Config interface {
	// DefaultProjectKey returns the project used to qualify bare issue
	// numbers. ok is false when the fallback is disabled.
	DefaultProjectKey() (key string, ok bool)
	TimePattern() *regexp.Regexp
	IssueKeyPattern() *regexp.Regexp
}

// Options tunes a Presenter. Zero values select defaults.
type Options struct {
	Debounce      time.Duration
	LookupTimeout time.Duration
	SubmitTimeout time.Duration
	Fields        []FieldSpec
	Now           func() time.Time
}

// Presenter drives the time logging screen.
type Presenter struct {
	ctx     context.Context
	surface Surface
	app     App
	cfg     Config
	loop    eventloop.Loop
	opts    Options
	log     zerolog.Logger

	timePhrase *timePhraseValidator
	issueKey   *issueKeyResolver
	submitting bool
}

// New wires a presenter. Call Init once the surface is ready to draw.
func New(surface Surface, app App, cfg Config, loop eventloop.Loop, opts Options) *Presenter {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.LookupTimeout <= 0 {
		opts.LookupTimeout = defaultLookupTimeout
	}
	if opts.SubmitTimeout <= 0 {
		opts.SubmitTimeout = defaultSubmitTimeout
	}
	if opts.Fields == nil {
		opts.Fields = DefaultFields
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	p := &Presenter{
		ctx:     context.Background(),
		surface: surface,
		app:     app,
		cfg:     cfg,
		loop:    loop,
		opts:    opts,
		log:     logging.Component("presenter"),
	}
	p.timePhrase = newTimePhraseValidator(p)
	p.issueKey = newIssueKeyResolver(p)
	return p
}

// Init replays the activity history and stamps the static regions. A
// history failure is reported but does not stop the rest of the screen
// from initialising.
func (p *Presenter) Init(ctx context.Context) error {
	p.ctx = ctx

	err := p.populateActivityLog(ctx)
	p.setVersion()
	p.setCopyrightYear()
	p.UpdateTimeAuto("")
	p.UpdateLoggedTotal("")
	p.UpdateDayGrandTotal("")
	p.surface.SetText(RegionClearTimeButton, clearButtonReset)

	return err
}

// ConfigChanged swaps in a freshly loaded configuration. Pending debounce
// cycles evaluate against the new patterns when they settle.
func (p *Presenter) ConfigChanged(cfg Config) {
	p.cfg = cfg
	p.log.Info().Msg("configuration reloaded")
}

// ShowTimeManual switches the time row to manual entry.
func (p *Presenter) ShowTimeManual() {
	if p.surface.Visible(FieldTimeManual) {
		return
	}
	p.surface.Hide(FieldTimeAuto)
	p.surface.Show(FieldTimeManual)
	p.surface.Focus(FieldTimeManual)
	p.surface.SetText(RegionClearTimeButton, clearButtonCancel)
}

// ShowTimeAuto switches the time row back to the stopwatch, discarding any
// manual text.
func (p *Presenter) ShowTimeAuto() {
	if p.surface.Visible(FieldTimeAuto) {
		return
	}
	p.surface.SetValue(FieldTimeManual, "")
	p.ManualTimeEntered()
	p.surface.Hide(FieldTimeManual)
	p.surface.Show(FieldTimeAuto)
	p.surface.SetText(RegionClearTimeButton, clearButtonReset)
}

// ToggleTimeMode flips between manual and automatic time entry.
func (p *Presenter) ToggleTimeMode() {
	manual := !p.app.TimeManual()
	p.app.SetTimeManual(manual)
	if manual {
		p.ShowTimeManual()
		return
	}
	p.ShowTimeAuto()
}

// ClearTime is the Cancel/Reset button: it leaves manual mode, or restarts
// the stopwatch when already in automatic mode.
func (p *Presenter) ClearTime() {
	if p.app.TimeManual() {
		p.app.SetTimeManual(false)
		p.ShowTimeAuto()
		return
	}
	p.app.ResetTimer()
	p.UpdateTimeAuto("")
}

// UpdateLoggedTotal shows total, or the application's current value if empty.
func (p *Presenter) UpdateLoggedTotal(total string) {
	if total == "" {
		total = p.app.LoggedTotalString()
	}
	p.surface.SetText(RegionLoggedTotal, total)
}

// UpdateDayGrandTotal shows total, or the application's current value if empty.
func (p *Presenter) UpdateDayGrandTotal(total string) {
	if total == "" {
		total = p.app.DayGrandTotalString()
	}
	p.surface.SetText(RegionDayGrandTotal, total)
}

// UpdateTimeAuto shows t, or the current stopwatch reading if empty.
func (p *Presenter) UpdateTimeAuto(t string) {
	if t == "" {
		t = p.app.TimeAutoString(0)
	}
	p.surface.SetText(RegionTimeAuto, t)
}

// ConfirmLoggedTimeReset asks whether the logged total should be reset
// because a new day has started.
func (p *Presenter) ConfirmLoggedTimeReset() {
	p.surface.Confirm(newDayPrompt, func() {
		if err := p.app.ResetLoggedTotal(p.ctx, true); err != nil {
			p.log.Error().Err(err).Msg("reset logged total")
			return
		}
		p.UpdateLoggedTotal("")
	})
}

// ShowJiraTestMessage masks the screen while the connection is tested.
func (p *Presenter) ShowJiraTestMessage() {
	p.surface.ShowMask(jiraTestMessage)
}

// HideJiraTestMessage removes the connection test mask.
func (p *Presenter) HideJiraTestMessage() {
	p.surface.HideMask()
}

// TestJiraConnection masks the screen, checks the JIRA connection off the
// loop and reports the outcome in the activity log.
func (p *Presenter) TestJiraConnection() {
	p.ShowJiraTestMessage()

	ctx := p.ctx
	timeout := p.opts.LookupTimeout
	p.loop.Go(func() func() {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		err := p.app.TestConnection(ctx)
		return func() {
			p.HideJiraTestMessage()
			if err != nil {
				p.log.Warn().Err(err).Msg("jira connection test failed")
				p.record(activity.LevelError, "Could not connect to JIRA: "+err.Error())
				return
			}
			p.record(activity.LevelInfo, "Connected to JIRA")
		}
	})
}

func (p *Presenter) setVersion() {
	p.surface.SetText(RegionVersion, "v"+p.app.Version())
}

func (p *Presenter) setCopyrightYear() {
	p.surface.SetText(RegionCopyYear, strconv.Itoa(p.opts.Now().Year()))
}

// record writes an activity entry through the application so it is
// persisted and broadcast like every other entry.
func (p *Presenter) record(level activity.Level, message string) {
	if _, err := p.app.Log(p.ctx, level, message); err != nil {
		p.log.Error().Err(err).Str("message", message).Msg("record activity")
	}
}

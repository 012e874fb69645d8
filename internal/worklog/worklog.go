// Package worklog is the application behind the time logging screen: the
// stopwatch, the running totals, the activity feed and worklog submission.
package worklog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/jtl/internal/core/activity"
	"github.com/hay-kot/jtl/internal/core/kv"
	"github.com/hay-kot/jtl/internal/core/logging"
	"github.com/hay-kot/jtl/internal/core/timephrase"
	"github.com/hay-kot/jtl/internal/jira"
)

// ErrNothingToLog is returned when a submission's time is zero.
var ErrNothingToLog = errors.New("nothing to log")

const (
	totalsNamespace = "totals"
	totalsKey       = "current"
	dateLayout      = "2006-01-02"
)

// Submission is a reconciled worklog form.
type Submission struct {
	IssueKey       string
	TimeSpent      string
	Comment        string
	AdjustEstimate string
	ResetTimer     bool
	Summary        string
}

// Jira is the part of the JIRA client the service posts through.
type Jira interface {
	AddWorklog(ctx context.Context, key string, w jira.Worklog, adjustEstimate string) error
	Myself(ctx context.Context) (jira.User, error)
}

// Totals are the persisted running sums.
type Totals struct {
	Logged time.Duration `json:"logged"`
	Day    time.Duration `json:"day"`
	Date   string        `json:"date"`
}

// Options tunes a Service. Zero values select defaults.
type Options struct {
	Version string
	Units   timephrase.Units
	Now     func() time.Time
	// ActivityLimit is the number of activity entries kept. Zero keeps all.
	ActivityLimit int
}

// Service implements the application the presenter drives. It is safe for
// concurrent use: submissions run off the event loop while the stopwatch is
// read on it.
type Service struct {
	jira     Jira
	lookup   jira.SummaryLookup
	activity activity.Store
	totals   *kv.TypedKV[Totals]

	version string
	units   timephrase.Units
	now     func() time.Time
	limit   int
	log     zerolog.Logger

	mu      sync.Mutex
	started time.Time
	manual  bool
	current Totals
	subs    []func(activity.Entry)
	removed []func(activity.Entry)
}

// New loads the persisted totals and starts the stopwatch.
func New(ctx context.Context, j Jira, lookup jira.SummaryLookup, store activity.Store, kvStore kv.KV, opts Options) (*Service, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Units == (timephrase.Units{}) {
		opts.Units = timephrase.DefaultUnits
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	s := &Service{
		jira:     j,
		lookup:   lookup,
		activity: store,
		totals:   kv.Scoped[Totals](kvStore, totalsNamespace),
		version:  opts.Version,
		units:    opts.Units,
		now:      opts.Now,
		limit:    opts.ActivityLimit,
		log:      logging.Component("worklog"),
	}
	s.started = s.now()

	totals, err := s.totals.GetOr(ctx, totalsKey, Totals{Date: s.today()})
	if err != nil {
		return nil, fmt.Errorf("load totals: %w", err)
	}
	s.current = totals

	return s, nil
}

// Subscribe registers fn to receive every entry logged from now on. fn may
// be called from any goroutine.
func (s *Service) Subscribe(fn func(activity.Entry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// SubscribeRemoved registers fn to receive every entry dropped from the
// activity log to stay within the limit. fn may be called from any
// goroutine.
func (s *Service) SubscribeRemoved(fn func(activity.Entry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, fn)
}

// Version reports the build version.
func (s *Service) Version() string {
	return s.version
}

// TimeManual reports whether time is entered by hand.
func (s *Service) TimeManual() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manual
}

// SetTimeManual switches between manual and stopwatch time.
func (s *Service) SetTimeManual(manual bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manual = manual
}

// ResetTimer restarts the stopwatch.
func (s *Service) ResetTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = s.now()
}

// Elapsed returns the stopwatch reading.
func (s *Service) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now().Sub(s.started)
}

// TimeAutoString renders the stopwatch as a time phrase. A positive round
// rounds to that unit first; otherwise seconds are truncated.
func (s *Service) TimeAutoString(round time.Duration) string {
	elapsed := s.Elapsed()
	if round > 0 {
		elapsed = elapsed.Round(round)
	}
	return timephrase.Format(elapsed)
}

// Totals returns a copy of the running sums.
func (s *Service) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// LoggedTotalString renders the time logged since the last reset.
func (s *Service) LoggedTotalString() string {
	return timephrase.Format(s.Totals().Logged)
}

// DayGrandTotalString renders the time logged today.
func (s *Service) DayGrandTotalString() string {
	return timephrase.Format(s.Totals().Day)
}

// NewDay reports whether the calendar day changed since totals were last
// written. When it has, the day total is zeroed and persisted, so only the
// first call after a rollover returns true.
func (s *Service) NewDay(ctx context.Context) (bool, error) {
	s.mu.Lock()
	today := s.today()
	if s.current.Date == today {
		s.mu.Unlock()
		return false, nil
	}
	s.current.Day = 0
	s.current.Date = today
	totals := s.current
	s.mu.Unlock()

	s.log.Info().Str("date", today).Msg("new day")
	if err := s.totals.Set(ctx, totalsKey, totals); err != nil {
		return true, fmt.Errorf("save totals: %w", err)
	}
	return true, nil
}

// ResetLoggedTotal zeroes the logged total. When announce is set an entry
// is added to the activity log.
func (s *Service) ResetLoggedTotal(ctx context.Context, announce bool) error {
	s.mu.Lock()
	s.current.Logged = 0
	totals := s.current
	s.mu.Unlock()

	if err := s.totals.Set(ctx, totalsKey, totals); err != nil {
		return fmt.Errorf("save totals: %w", err)
	}

	if announce {
		if _, err := s.Log(ctx, activity.LevelInfo, "Logged total has been reset"); err != nil {
			return err
		}
	}
	return nil
}

// Log persists an activity entry and hands it to subscribers.
func (s *Service) Log(ctx context.Context, level activity.Level, message string) (activity.Entry, error) {
	e := activity.New(level, message, s.now())
	if err := s.activity.Save(ctx, e); err != nil {
		return activity.Entry{}, fmt.Errorf("save activity entry: %w", err)
	}

	s.mu.Lock()
	subs := slices.Clone(s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(e)
	}

	s.trim(ctx)
	return e, nil
}

// trim deletes the entries past the activity limit, oldest first, and
// reports each one to the removal subscribers.
func (s *Service) trim(ctx context.Context) {
	if s.limit <= 0 {
		return
	}

	entries, err := s.activity.List(ctx)
	if err != nil {
		s.log.Error().Ctx(ctx).Err(err).Msg("list activity for trim")
		return
	}
	if len(entries) <= s.limit {
		return
	}

	s.mu.Lock()
	subs := slices.Clone(s.removed)
	s.mu.Unlock()

	stale := entries[s.limit:]
	for i := len(stale) - 1; i >= 0; i-- {
		e := stale[i]
		if err := s.activity.Delete(ctx, e.ID); err != nil {
			s.log.Error().Ctx(ctx).Err(err).Str("entry", e.ID).Msg("delete activity entry")
			return
		}
		for _, fn := range subs {
			fn(e)
		}
	}
	s.log.Debug().Ctx(ctx).Int("removed", len(stale)).Msg("activity log trimmed")
}

// ActivityLogs returns the stored history oldest first, the order in which
// replaying it leaves the newest entry on top.
func (s *Service) ActivityLogs(ctx context.Context) ([]activity.Entry, error) {
	entries, err := s.activity.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	slices.Reverse(entries)
	return entries, nil
}

// IssueSummary returns the summary of key, or "" if JIRA has no such issue.
func (s *Service) IssueSummary(ctx context.Context, key string) (string, error) {
	summary, err := s.lookup.IssueSummary(ctx, key)
	if errors.Is(err, jira.ErrIssueNotFound) {
		return "", nil
	}
	return summary, err
}

// TestConnection checks the JIRA credentials.
func (s *Service) TestConnection(ctx context.Context) error {
	u, err := s.jira.Myself(ctx)
	if err != nil {
		return err
	}
	s.log.Info().Str("user", u.DisplayName).Msg("jira connection ok")
	return nil
}

// LogWork posts sub to JIRA and adds it to the totals. Every outcome is
// recorded in the activity log; the returned error is for the caller's
// control flow only.
func (s *Service) LogWork(ctx context.Context, sub Submission) error {
	ctx = logging.WithIssueKey(ctx, sub.IssueKey)

	spent, err := s.units.Parse(sub.TimeSpent)
	if err == nil && spent < time.Minute {
		err = ErrNothingToLog
	}
	if err != nil {
		s.fail(ctx, activity.LevelWarn, fmt.Sprintf("Cannot log '%s' to %s: %v", sub.TimeSpent, sub.IssueKey, err))
		return fmt.Errorf("parse time spent: %w", err)
	}

	w := jira.Worklog{
		TimeSpent: sub.TimeSpent,
		Comment:   sub.Comment,
		Started:   s.now().Add(-spent),
	}
	if err := s.jira.AddWorklog(ctx, sub.IssueKey, w, sub.AdjustEstimate); err != nil {
		s.log.Error().Ctx(ctx).Err(err).Msg("add worklog")
		s.fail(ctx, activity.LevelError, fmt.Sprintf("Failed to log %s to %s: %v", sub.TimeSpent, sub.IssueKey, err))
		return err
	}

	s.mu.Lock()
	s.current.Logged += spent
	s.current.Day += spent
	s.current.Date = s.today()
	totals := s.current
	if sub.ResetTimer {
		s.started = s.now()
	}
	s.mu.Unlock()

	if err := s.totals.Set(ctx, totalsKey, totals); err != nil {
		s.log.Error().Ctx(ctx).Err(err).Msg("save totals")
	}

	msg := fmt.Sprintf("Logged %s to %s", timephrase.Format(spent), sub.IssueKey)
	if sub.Summary != "" {
		msg += " (" + sub.Summary + ")"
	}
	s.log.Info().Ctx(ctx).Dur("spent", spent).Msg("worklog added")
	if _, err := s.Log(ctx, activity.LevelInfo, msg); err != nil {
		s.log.Error().Ctx(ctx).Err(err).Msg("record worklog")
	}
	return nil
}

func (s *Service) fail(ctx context.Context, level activity.Level, msg string) {
	if _, err := s.Log(ctx, level, msg); err != nil {
		s.log.Error().Ctx(ctx).Err(err).Msg("record failure")
	}
}

func (s *Service) today() string {
	return s.now().Local().Format(dateLayout)
}

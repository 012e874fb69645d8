package presenter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hay-kot/jtl/internal/core/activity"
	"github.com/hay-kot/jtl/internal/worklog"
)

// FieldKind decides how a field's value is read into a snapshot.
type FieldKind int

const (
	KindText FieldKind = iota
	KindBool
	KindEnum
)

// FieldSpec declares one form control.
type FieldSpec struct {
	Name    Field
	Kind    FieldKind
	Options []string // KindEnum only; the first option is the default
	Default bool     // KindBool only
}

// DefaultFields are the controls of the worklog form.
var DefaultFields = []FieldSpec{
	{Name: FieldIssue, Kind: KindText},
	{Name: FieldTimeManual, Kind: KindText},
	{Name: FieldComment, Kind: KindText},
	{Name: FieldAdjustEstimate, Kind: KindEnum, Options: []string{"auto", "leave"}},
	{Name: FieldResetTimer, Kind: KindBool, Default: true},
}

// Snapshot keys that are derived rather than read from a control.
const (
	SnapshotTime    = "time"
	SnapshotSummary = "summary"
)

// ellipsis marks the in-flight summary placeholders.
const ellipsis = "..."

// FormSnapshot is the reconciled form: control name to value (string for
// text and enum controls, bool for boolean controls) plus the derived
// "time" and, when it is a real summary, "summary".
type FormSnapshot map[string]any

// Text returns the string value stored under name.
func (s FormSnapshot) Text(name string) string {
	v, _ := s[name].(string)
	return v
}

// Bool returns the boolean value stored under name.
func (s FormSnapshot) Bool(name string) bool {
	v, _ := s[name].(bool)
	return v
}

// Summary returns the issue summary if the snapshot carries one.
func (s FormSnapshot) Summary() (string, bool) {
	v, ok := s[SnapshotSummary].(string)
	return v, ok
}

// Submission converts the snapshot into the worklog the application posts.
func (s FormSnapshot) Submission() worklog.Submission {
	summary, _ := s.Summary()
	return worklog.Submission{
		IssueKey:       s.Text(string(FieldIssue)),
		TimeSpent:      s.Text(SnapshotTime),
		Comment:        s.Text(string(FieldComment)),
		AdjustEstimate: s.Text(string(FieldAdjustEstimate)),
		ResetTimer:     s.Bool(string(FieldResetTimer)),
		Summary:        summary,
	}
}

// GetTimeFormValues reads the form into a snapshot.
func (p *Presenter) GetTimeFormValues() FormSnapshot {
	snap := make(FormSnapshot, len(p.opts.Fields)+2)
	for _, spec := range p.opts.Fields {
		if spec.Kind == KindBool {
			snap[string(spec.Name)] = p.surface.Checked(spec.Name)
			continue
		}
		snap[string(spec.Name)] = p.surface.Value(spec.Name)
	}

	if p.app.TimeManual() {
		snap[SnapshotTime] = p.surface.Value(FieldTimeManual)
	} else {
		snap[SnapshotTime] = p.app.TimeAutoString(time.Minute)
	}

	summary := p.surface.Text(RegionSummary)
	issue := snap.Text(string(FieldIssue))
	if isRealSummary(summary, issue) {
		snap[SnapshotSummary] = summary
	}

	return snap
}

// isRealSummary rejects empty text, placeholders and "<key> not found".
func isRealSummary(summary, issue string) bool {
	return summary != "" &&
		!strings.Contains(summary, issue) &&
		!strings.Contains(summary, ellipsis) &&
		summary != SummaryInvalid
}

// ValidateTimeForm re-checks both validated fields, marks failures on the
// surface and returns one message per failing field. It ignores debounce
// state entirely.
func (p *Presenter) ValidateTimeForm() []string {
	p.surface.ClearState(StateError)

	var errs []string
	if p.app.TimeManual() {
		v := p.surface.Value(FieldTimeManual)
		if v == "" || !p.cfg.TimePattern().MatchString(v) {
			p.surface.AddState(FieldTimeManual, StateError)
			errs = append(errs, fmt.Sprintf("'%s' does not appear to be a valid JIRA time phrase", v))
		}
	}

	v := p.surface.Value(FieldIssue)
	if v == "" || !p.cfg.IssueKeyPattern().MatchString(v) {
		p.surface.AddState(FieldIssue, StateError)
		errs = append(errs, fmt.Sprintf("'%s' does not appear to be a valid JIRA issue key", v))
	}

	return errs
}

// ResetTimeForm clears the form back to its defaults and automatic time.
func (p *Presenter) ResetTimeForm() {
	p.issueKey.reset()
	p.timePhrase.cancel()

	p.surface.ClearState(StateError)
	p.surface.SetText(RegionSummary, "")
	p.surface.ResetForm()

	p.app.SetTimeManual(false)
	p.ShowTimeAuto()
}

// Submitting reports whether a submission is in flight.
func (p *Presenter) Submitting() bool {
	return p.submitting
}

// SubmitTimeForm validates the form and, if it passes, posts the worklog
// off the loop. Validation failures are reported as one warning entry.
func (p *Presenter) SubmitTimeForm() {
	if p.submitting {
		return
	}

	if errs := p.ValidateTimeForm(); len(errs) > 0 {
		p.record(activity.LevelWarn, strings.Join(errs, "\n"))
		return
	}

	sub := p.GetTimeFormValues().Submission()
	p.submitting = true
	p.surface.ShowMask(submitMessage)

	ctx := p.ctx
	timeout := p.opts.SubmitTimeout
	app := p.app
	p.loop.Go(func() func() {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		err := app.LogWork(ctx, sub)
		return func() { p.submitted(sub, err) }
	})
}

func (p *Presenter) submitted(sub worklog.Submission, err error) {
	p.submitting = false
	p.surface.HideMask()

	if err != nil {
		// The application has already recorded the failure; keep the form
		// so the user can retry.
		p.log.Error().Err(err).Str("issue", sub.IssueKey).Msg("log work")
		return
	}

	p.ResetTimeForm()
	p.UpdateTimeAuto("")
	p.UpdateLoggedTotal("")
	p.UpdateDayGrandTotal("")
}

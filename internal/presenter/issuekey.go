package presenter

import (
	"context"

	"github.com/hay-kot/jtl/internal/core/activity"
	"github.com/hay-kot/jtl/internal/core/debounce"
	"github.com/hay-kot/jtl/internal/core/issuekey"
	"github.com/hay-kot/jtl/internal/core/logging"
)

// ResolverState is where the issue key field is in its edit cycle.
type ResolverState int

const (
	ResolverIdle ResolverState = iota
	ResolverTyping
	ResolverChecking
	ResolverResolved
	ResolverInvalid
)

func (s ResolverState) String() string {
	switch s {
	case ResolverTyping:
		return "typing"
	case ResolverChecking:
		return "checking"
	case ResolverResolved:
		return "resolved"
	case ResolverInvalid:
		return "invalid"
	default:
		return "idle"
	}
}

// issueKeyResolver owns the debounce slot and lookup sequence of the issue
// field. seq is bumped whenever an outstanding lookup stops being the one
// the screen is waiting for: on every edit and on every new lookup. A
// response is only applied if it still carries the latest seq.
type issueKeyResolver struct {
	p         *Presenter
	timer     *debounce.Timer
	state     ResolverState
	seq       uint64
	key       string
	scheduled string
}

func newIssueKeyResolver(p *Presenter) *issueKeyResolver {
	return &issueKeyResolver{p: p, timer: debounce.New(p.loop)}
}

// IssueKeyEntered is called on every edit of the issue field.
func (p *Presenter) IssueKeyEntered() {
	r := p.issueKey
	r.timer.CancelIfPending()
	r.supersede()
	r.state = ResolverTyping
	r.scheduled = p.surface.Value(FieldIssue)

	p.surface.SetText(RegionSummary, SummaryWaiting)
	r.timer.Schedule(p.opts.Debounce, r.settle)
}

// EnterIssueKey fills the issue field programmatically, as if typed.
func (p *Presenter) EnterIssueKey(key string) {
	p.surface.SetValue(FieldIssue, key)
	p.IssueKeyEntered()
}

// ResolverState reports the issue field's current cycle state.
func (p *Presenter) ResolverState() ResolverState {
	return p.issueKey.state
}

func (r *issueKeyResolver) settle() {
	p := r.p
	text := p.surface.Value(FieldIssue)
	project, ok := p.cfg.DefaultProjectKey()
	if !ok {
		project = ""
	}

	res := issuekey.Resolve(text, p.cfg.IssueKeyPattern(), project)

	p.log.Debug().
		Str("value", text).
		Str("kind", res.Kind.String()).
		Bool("changed_since_schedule", text != r.scheduled).
		Msg("issue key settled")

	switch res.Kind {
	case issuekey.Full:
		r.check(res.Key)
	case issuekey.Prefixed:
		p.surface.SetValue(FieldIssue, res.Key)
		r.check(res.Key)
	default:
		r.state = ResolverInvalid
		r.key = ""
		p.surface.AddState(FieldIssue, StateError)
		p.surface.SetText(RegionSummary, SummaryInvalid)
	}
}

// check clears the field's error state and shows the checking placeholder
// before the lookup is issued, so nothing older than this cycle can be left
// on screen once the lookup is in flight.
func (r *issueKeyResolver) check(key string) {
	p := r.p
	p.surface.RemoveState(FieldIssue, StateError)
	p.surface.SetText(RegionSummary, SummaryChecking)

	r.seq++
	seq := r.seq
	r.state = ResolverChecking
	r.key = key

	ctx := logging.WithRequestID(logging.WithIssueKey(p.ctx, key), seq)
	timeout := p.opts.LookupTimeout
	app := p.app

	p.log.Debug().Ctx(ctx).Msg("issue lookup issued")

	p.loop.Go(func() func() {
		lookupCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		summary, err := app.IssueSummary(lookupCtx, key)
		return func() { r.resolved(ctx, seq, key, summary, err) }
	})
}

func (r *issueKeyResolver) resolved(ctx context.Context, seq uint64, key, summary string, err error) {
	p := r.p
	if seq != r.seq {
		p.log.Debug().Ctx(ctx).Uint64("latest", r.seq).Msg("stale issue lookup dropped")
		return
	}

	r.state = ResolverResolved
	if err != nil {
		p.log.Warn().Ctx(ctx).Err(err).Msg("issue lookup failed")
		p.record(activity.LevelWarn, "Could not look up "+key+": "+err.Error())
		summary = ""
	}
	if summary == "" {
		summary = key + " not found"
	}
	p.surface.SetText(RegionSummary, summary)
}

// supersede invalidates any lookup still in flight.
func (r *issueKeyResolver) supersede() {
	r.seq++
}

func (r *issueKeyResolver) reset() {
	r.timer.CancelIfPending()
	r.supersede()
	r.state = ResolverIdle
	r.key = ""
}

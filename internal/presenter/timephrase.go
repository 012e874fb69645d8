package presenter

import "github.com/hay-kot/jtl/internal/core/debounce"

// timePhraseValidator owns the debounce slot of the manual time field.
type timePhraseValidator struct {
	p         *Presenter
	timer     *debounce.Timer
	scheduled string // value when the latest settle was scheduled; diagnostics only
}

func newTimePhraseValidator(p *Presenter) *timePhraseValidator {
	return &timePhraseValidator{p: p, timer: debounce.New(p.loop)}
}

// ManualTimeEntered is called on every edit of the manual time field.
func (p *Presenter) ManualTimeEntered() {
	v := p.timePhrase
	v.scheduled = p.surface.Value(FieldTimeManual)
	v.timer.Schedule(p.opts.Debounce, v.settle)
}

func (v *timePhraseValidator) settle() {
	p := v.p
	text := p.surface.Value(FieldTimeManual)

	p.log.Debug().
		Str("value", text).
		Bool("changed_since_schedule", text != v.scheduled).
		Msg("time phrase settled")

	// The field is hidden and ignored outside manual mode.
	if !p.app.TimeManual() {
		p.surface.RemoveState(FieldTimeManual, StateError)
		return
	}

	if !p.cfg.TimePattern().MatchString(text) {
		p.surface.AddState(FieldTimeManual, StateError)
		return
	}
	p.surface.RemoveState(FieldTimeManual, StateError)
}

func (v *timePhraseValidator) cancel() {
	v.timer.CancelIfPending()
}

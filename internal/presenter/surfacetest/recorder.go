// Package surfacetest provides an in-memory presenter.Surface for tests.
package surfacetest

import (
	"slices"
	"time"

	"github.com/hay-kot/jtl/internal/presenter"
)

// Highlight is one recorded Highlight call.
type Highlight struct {
	ID       string
	Colour   string
	Duration time.Duration
}

// Recorder keeps the state a real surface would render and a history of
// region text writes, so tests can assert on ordering as well as outcome.
type Recorder struct {
	Values  map[presenter.Field]string
	Checks  map[presenter.Field]bool
	Shown   map[presenter.Field]bool
	Texts   map[presenter.Region]string
	States  map[presenter.Field]map[presenter.State]bool
	Focused presenter.Field

	// Logs holds rendered blocks, newest first.
	Logs       []presenter.LogBlock
	Highlights []Highlight
	Scrolls    int

	Mask        string
	MaskVisible bool

	ConfirmPrompt string
	confirmYes    func()

	Resets      int
	textHistory map[presenter.Region][]string
	defaults    []presenter.FieldSpec
}

var _ presenter.Surface = (*Recorder)(nil)

// New returns a recorder laid out like a freshly loaded form: automatic
// time visible, manual time hidden, controls at their declared defaults.
func New() *Recorder {
	r := &Recorder{
		Values:      map[presenter.Field]string{},
		Checks:      map[presenter.Field]bool{},
		Shown:       map[presenter.Field]bool{presenter.FieldTimeAuto: true},
		Texts:       map[presenter.Region]string{},
		States:      map[presenter.Field]map[presenter.State]bool{},
		textHistory: map[presenter.Region][]string{},
		defaults:    presenter.DefaultFields,
	}
	r.ResetForm()
	r.Resets = 0
	return r
}

func (r *Recorder) Value(f presenter.Field) string       { return r.Values[f] }
func (r *Recorder) SetValue(f presenter.Field, v string) { r.Values[f] = v }
func (r *Recorder) Checked(f presenter.Field) bool       { return r.Checks[f] }
func (r *Recorder) Visible(f presenter.Field) bool       { return r.Shown[f] }
func (r *Recorder) Show(f presenter.Field)               { r.Shown[f] = true }
func (r *Recorder) Hide(f presenter.Field)               { r.Shown[f] = false }
func (r *Recorder) Focus(f presenter.Field)              { r.Focused = f }
func (r *Recorder) Text(reg presenter.Region) string     { return r.Texts[reg] }

func (r *Recorder) SetText(reg presenter.Region, text string) {
	r.Texts[reg] = text
	r.textHistory[reg] = append(r.textHistory[reg], text)
}

// TextHistory returns every value written to reg, oldest first.
func (r *Recorder) TextHistory(reg presenter.Region) []string {
	return r.textHistory[reg]
}

func (r *Recorder) AddState(f presenter.Field, s presenter.State) {
	if r.States[f] == nil {
		r.States[f] = map[presenter.State]bool{}
	}
	r.States[f][s] = true
}

func (r *Recorder) RemoveState(f presenter.Field, s presenter.State) {
	delete(r.States[f], s)
}

func (r *Recorder) ClearState(s presenter.State) {
	for _, states := range r.States {
		delete(states, s)
	}
}

// HasState reports whether f currently carries s.
func (r *Recorder) HasState(f presenter.Field, s presenter.State) bool {
	return r.States[f][s]
}

func (r *Recorder) ResetForm() {
	r.Resets++
	for _, spec := range r.defaults {
		switch spec.Kind {
		case presenter.KindBool:
			r.Checks[spec.Name] = spec.Default
		case presenter.KindEnum:
			if len(spec.Options) > 0 {
				r.Values[spec.Name] = spec.Options[0]
			}
		default:
			r.Values[spec.Name] = ""
		}
	}
}

func (r *Recorder) PrependLog(b presenter.LogBlock) {
	r.Logs = append([]presenter.LogBlock{b}, r.Logs...)
}

func (r *Recorder) RemoveLog(id string) {
	r.Logs = slices.DeleteFunc(r.Logs, func(b presenter.LogBlock) bool { return b.ID == id })
}

func (r *Recorder) ScrollLogToTop() { r.Scrolls++ }

func (r *Recorder) Highlight(id string, colour string, d time.Duration) {
	r.Highlights = append(r.Highlights, Highlight{ID: id, Colour: colour, Duration: d})
}

func (r *Recorder) Confirm(prompt string, onYes func()) {
	r.ConfirmPrompt = prompt
	r.confirmYes = onYes
}

// Accept answers yes to the pending confirmation.
func (r *Recorder) Accept() {
	if r.confirmYes == nil {
		return
	}
	yes := r.confirmYes
	r.confirmYes = nil
	r.ConfirmPrompt = ""
	yes()
}

// Decline dismisses the pending confirmation.
func (r *Recorder) Decline() {
	r.confirmYes = nil
	r.ConfirmPrompt = ""
}

func (r *Recorder) ShowMask(text string) {
	r.Mask = text
	r.MaskVisible = true
}

func (r *Recorder) HideMask() {
	r.MaskVisible = false
}

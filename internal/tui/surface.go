package tui

import (
	"slices"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/jtl/internal/presenter"
)

// Value implements presenter.Surface.
func (m *Model) Value(f presenter.Field) string {
	c, ok := m.controls[f]
	if !ok {
		return ""
	}
	switch c.spec.Kind {
	case presenter.KindText:
		return c.input.Value()
	case presenter.KindEnum:
		if len(c.spec.Options) == 0 {
			return ""
		}
		return c.spec.Options[c.option]
	default:
		return ""
	}
}

// SetValue implements presenter.Surface.
func (m *Model) SetValue(f presenter.Field, v string) {
	c, ok := m.controls[f]
	if !ok {
		return
	}
	switch c.spec.Kind {
	case presenter.KindText:
		c.input.SetValue(v)
		c.input.CursorEnd()
	case presenter.KindEnum:
		if i := slices.Index(c.spec.Options, v); i >= 0 {
			c.option = i
		}
	}
}

// Checked implements presenter.Surface.
func (m *Model) Checked(f presenter.Field) bool {
	c, ok := m.controls[f]
	return ok && c.spec.Kind == presenter.KindBool && c.checked
}

// Visible implements presenter.Surface.
func (m *Model) Visible(f presenter.Field) bool {
	return m.visible[f]
}

// Show implements presenter.Surface.
func (m *Model) Show(f presenter.Field) {
	m.visible[f] = true
}

// Hide implements presenter.Surface. Hiding the focused control moves
// focus on to the next visible one.
func (m *Model) Hide(f presenter.Field) {
	m.visible[f] = false
	if f == m.focus {
		m.focusStep(1)
	}
}

// Focus implements presenter.Surface.
func (m *Model) Focus(f presenter.Field) {
	next, ok := m.controls[f]
	if !ok || !m.visible[f] {
		return
	}
	if cur := m.focused(); cur != nil && cur.spec.Kind == presenter.KindText {
		cur.input.Blur()
	}
	m.focus = f
	if next.spec.Kind == presenter.KindText {
		m.deferCmd(next.input.Focus())
	}
}

// Text implements presenter.Surface.
func (m *Model) Text(r presenter.Region) string {
	return m.texts[r]
}

// SetText implements presenter.Surface.
func (m *Model) SetText(r presenter.Region, text string) {
	m.texts[r] = text
}

// AddState implements presenter.Surface.
func (m *Model) AddState(f presenter.Field, s presenter.State) {
	if m.states[f] == nil {
		m.states[f] = make(map[presenter.State]bool)
	}
	m.states[f][s] = true
}

// RemoveState implements presenter.Surface.
func (m *Model) RemoveState(f presenter.Field, s presenter.State) {
	delete(m.states[f], s)
}

// ClearState implements presenter.Surface.
func (m *Model) ClearState(s presenter.State) {
	for _, states := range m.states {
		delete(states, s)
	}
}

// HasState reports whether f currently carries s.
func (m *Model) HasState(f presenter.Field, s presenter.State) bool {
	return m.states[f][s]
}

// ResetForm implements presenter.Surface.
func (m *Model) ResetForm() {
	for _, c := range m.controls {
		switch c.spec.Kind {
		case presenter.KindText:
			c.input.Reset()
		case presenter.KindEnum:
			c.option = 0
		case presenter.KindBool:
			c.checked = c.spec.Default
		}
	}
}

// PrependLog implements presenter.Surface.
func (m *Model) PrependLog(b presenter.LogBlock) {
	m.logs = slices.Insert(m.logs, 0, b)
	m.refreshLog()
}

// RemoveLog implements presenter.Surface.
func (m *Model) RemoveLog(id string) {
	m.logs = slices.DeleteFunc(m.logs, func(b presenter.LogBlock) bool { return b.ID == id })
	m.fades.Remove(id)
	m.refreshLog()
}

// Logs returns the log blocks, newest first.
func (m *Model) Logs() []presenter.LogBlock {
	return m.logs
}

// ScrollLogToTop implements presenter.Surface.
func (m *Model) ScrollLogToTop() {
	m.logView.GotoTop()
}

// Highlight implements presenter.Surface.
func (m *Model) Highlight(id string, colour string, d time.Duration) {
	m.fades.Start(id, lipgloss.Color(colour), d)
	m.refreshLog()
	if !m.fadeTicking {
		m.fadeTicking = true
		m.deferCmd(fadeTick())
	}
}

// Confirm implements presenter.Surface.
func (m *Model) Confirm(prompt string, onYes func()) {
	m.modal = NewModal("Confirm", prompt, onYes)
}

// ShowMask implements presenter.Surface.
func (m *Model) ShowMask(text string) {
	wasMasked := m.masked
	m.masked = true
	m.mask = text
	if !wasMasked {
		m.deferCmd(m.spinner.Tick)
	}
}

// HideMask implements presenter.Surface.
func (m *Model) HideMask() {
	m.masked = false
	m.mask = ""
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/jtl/internal/core/styles"
	"github.com/hay-kot/jtl/internal/presenter"
)

const (
	labelWidth   = 16
	formHeight   = 12
	footerHeight = 3
)

var labels = map[presenter.Field]string{
	presenter.FieldIssue:          "Issue",
	presenter.FieldTimeManual:     "Time",
	presenter.FieldComment:        "Comment",
	presenter.FieldAdjustEstimate: "Estimate",
	presenter.FieldResetTimer:     "Reset timer",
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	switch {
	case m.modal != nil:
		return m.modal.Overlay(m.width, m.height)
	case m.masked:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			styles.ModalStyle.Render(m.spinner.View()+" "+m.mask))
	case m.showHelp:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Top,
			renderHelp(m.width-4))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderForm(),
		m.renderLog(),
		m.renderFooter(),
	)
}

func (m *Model) renderForm() string {
	rows := []string{styles.TitleStyle.Render("JIRA time logger"), ""}

	for _, f := range m.order {
		switch f {
		case presenter.FieldTimeManual:
			rows = append(rows, m.renderTimeRow())
			continue
		case presenter.FieldIssue:
			rows = append(rows, m.renderField(f))
			rows = append(rows, m.renderSummary())
			continue
		}
		if m.visible[f] {
			rows = append(rows, m.renderField(f))
		}
	}

	rows = append(rows, "", styles.TotalStyle.Render(fmt.Sprintf("Logged: %s   Today: %s",
		orDash(m.texts[presenter.RegionLoggedTotal]),
		orDash(m.texts[presenter.RegionDayGrandTotal]),
	)))

	return strings.Join(rows, "\n")
}

func (m *Model) renderSummary() string {
	summary := m.texts[presenter.RegionSummary]
	return strings.Repeat(" ", labelWidth+2) + styles.SummaryStyle.Render(summary)
}

// renderTimeRow shows the stopwatch or the manual entry, whichever is
// visible, followed by the clear button.
func (m *Model) renderTimeRow() string {
	button := styles.ButtonStyle.Render(orDash(m.texts[presenter.RegionClearTimeButton]))
	if m.visible[presenter.FieldTimeManual] {
		return m.renderField(presenter.FieldTimeManual) + "  " + button
	}

	label := styles.LabelStyle.Render("Time")
	value := styles.FormFieldStyle.Render(orDash(m.texts[presenter.RegionTimeAuto]))
	return lipgloss.JoinHorizontal(lipgloss.Center, label, value, "  ", button)
}

func (m *Model) renderField(f presenter.Field) string {
	c := m.controls[f]
	if c == nil {
		return ""
	}

	var value string
	switch c.spec.Kind {
	case presenter.KindText:
		value = c.input.View()
	case presenter.KindEnum:
		value = "‹ " + m.Value(f) + " ›"
	case presenter.KindBool:
		mark := "[ ]"
		if c.checked {
			mark = "[x]"
		}
		value = styles.CheckboxStyle.Render(mark)
	}

	style := styles.FormFieldStyle
	switch {
	case m.HasState(f, presenter.StateError):
		style = styles.FormFieldErrorStyle
	case f == m.focus:
		style = styles.FormFieldFocusedStyle
	}

	label := labels[f]
	if label == "" {
		label = string(f)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, styles.LabelStyle.Render(label), style.Render(value))
}

func (m *Model) renderLog() string {
	title := styles.MutedStyle.Render("Activity")
	return styles.PaneStyle.Width(max(m.width-2, 10)).Render(title + "\n" + m.logView.View())
}

// refreshLog rebuilds the log pane content from the blocks and fades.
func (m *Model) refreshLog() {
	if len(m.logs) == 0 {
		m.logView.SetContent(styles.MutedStyle.Render("No activity yet"))
		return
	}

	neutral := styles.CurrentPalette.Background
	lines := make([]string, 0, len(m.logs))
	for _, b := range m.logs {
		line := styles.TimestampStyle.Render(b.Timestamp) + "  " +
			lipgloss.NewStyle().Foreground(lipgloss.Color(presenter.LevelColour(b.Level))).Render(b.Text)

		style := lipgloss.NewStyle().Width(m.logView.Width)
		if bg, ok := m.fades.Colour(b.ID, neutral); ok {
			style = style.Background(bg)
		}
		lines = append(lines, style.Render(line))
	}
	m.logView.SetContent(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter() string {
	credit := fmt.Sprintf("jtl %s  ©%s", m.texts[presenter.RegionVersion], m.texts[presenter.RegionCopyYear])
	return lipgloss.JoinVertical(lipgloss.Left,
		m.help.View(m.keys),
		styles.FooterStyle.Render(credit),
	)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

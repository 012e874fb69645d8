package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/jtl/internal/core/styles"
)

// Modal is a yes/no confirmation dialog.
type Modal struct {
	title       string
	message     string
	yesSelected bool
	onYes       func()
}

// NewModal creates a modal that calls onYes when the user accepts.
func NewModal(title, message string, onYes func()) *Modal {
	return &Modal{
		title:       title,
		message:     message,
		yesSelected: true,
		onYes:       onYes,
	}
}

// ToggleSelection switches the selected button.
func (m *Modal) ToggleSelection() {
	m.yesSelected = !m.yesSelected
}

// YesSelected returns true if the yes button is selected.
func (m *Modal) YesSelected() bool {
	return m.yesSelected
}

// Accept runs the accept callback.
func (m *Modal) Accept() {
	if m.onYes != nil {
		m.onYes()
	}
}

// Message returns the question being asked.
func (m *Modal) Message() string {
	return m.message
}

// Overlay renders the modal centred in a width x height area.
func (m *Modal) Overlay(width, height int) string {
	var yesBtn, noBtn string
	if m.yesSelected {
		yesBtn = styles.ModalButtonSelectedStyle.Render("Yes")
		noBtn = styles.ModalButtonStyle.Render("No")
	} else {
		yesBtn = styles.ModalButtonStyle.Render("Yes")
		noBtn = styles.ModalButtonSelectedStyle.Render("No")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, yesBtn, "  ", noBtn)
	buttonRow := lipgloss.NewStyle().MarginTop(1).Render(buttons)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(m.title),
		"",
		m.message,
		buttonRow,
		styles.ModalHelpStyle.Render("←/→ select  enter confirm  y/n  esc cancel"),
	)

	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(content),
	)
}

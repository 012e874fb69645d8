package tuitest

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	in := "\x1b[31mred\x1b[0m   \nplain  \n\n"
	assert.Equal(t, "red\nplain", StripANSI(in))
}

func TestType(t *testing.T) {
	msgs := Type("ab")
	assert.Len(t, msgs, 2)
	assert.Equal(t, "a", msgs[0].String())
	assert.Equal(t, tea.KeyRunes, msgs[1].Type)
}

package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/hay-kot/jtl/internal/core/styles"
)

const helpMarkdown = `# jtl

Log time against JIRA issues.

## Issue

Type a full key such as ` + "`ABC-123`" + `. A bare number is qualified
with the default project key. The summary is looked up once you stop typing.

## Time

The stopwatch runs from start-up or the last reset. Switch to manual entry
to type a JIRA time phrase such as ` + "`1h 30m`" + ` or ` + "`2d`" + `.

## Keys

| Key | Action |
|---|---|
| tab / shift+tab | move between fields |
| space | toggle checkbox |
| ←/→ | change estimate adjustment |
| enter / ctrl+s | log work |
| ctrl+t | switch manual/auto time |
| ctrl+r | reset stopwatch or cancel manual time |
| ctrl+g | test the JIRA connection |
| pgup / pgdn | scroll the activity log |
| f1 / esc | close this help |
| ctrl+c | quit |
`

// renderHelp renders the help page for the given width. Rendering errors
// fall back to the raw markdown.
func renderHelp(width int) string {
	if width < 20 {
		width = 20
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}

	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return strings.TrimRight(out, "\n")
}

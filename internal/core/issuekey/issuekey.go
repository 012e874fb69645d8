// Package issuekey classifies text typed into the issue field.
package issuekey

import (
	"regexp"
	"strings"
)

// DefaultPattern matches a full JIRA issue key such as "JTL-123". Project
// keys are accepted in either case because the default project fallback
// is configured by users in lower case more often than not.
const DefaultPattern = `^[A-Za-z][A-Za-z0-9_]*-\d+$`

var numericRe = regexp.MustCompile(`^\d+$`)

// Kind describes how a piece of text resolved.
type Kind int

const (
	// Invalid text is neither a full key nor a usable bare number.
	Invalid Kind = iota
	// Full text already matches the issue key pattern.
	Full
	// Prefixed text was a bare number qualified with the default project.
	Prefixed
)

func (k Kind) String() string {
	switch k {
	case Full:
		return "full"
	case Prefixed:
		return "prefixed"
	default:
		return "invalid"
	}
}

// Resolution is the outcome of Resolve.
type Resolution struct {
	Key  string
	Kind Kind
}

// IsNumeric reports whether s is a non-empty run of ASCII digits.
func IsNumeric(s string) bool {
	return numericRe.MatchString(s)
}

// Qualify joins a project key and a bare issue number.
func Qualify(project, number string) string {
	return project + "-" + number
}

// Resolve classifies text against pattern. A bare number is qualified with
// defaultProject when one is configured (non-empty); otherwise it is
// ambiguous and resolves as Invalid.
func Resolve(text string, pattern *regexp.Regexp, defaultProject string) Resolution {
	if pattern.MatchString(text) {
		return Resolution{Key: text, Kind: Full}
	}

	if IsNumeric(text) {
		if project := strings.TrimSpace(defaultProject); project != "" {
			return Resolution{Key: Qualify(project, text), Kind: Prefixed}
		}
	}

	return Resolution{Key: text, Kind: Invalid}
}

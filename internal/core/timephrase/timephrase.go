// Package timephrase handles JIRA duration phrases such as "1d 2h 30m".
package timephrase

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultPattern matches a JIRA time phrase: one or more number+unit
// groups using w(eeks), d(ays), h(ours) and m(inutes).
const DefaultPattern = `^\s*(\d+(\.\d+)?\s*[wdhm]\s*)+$`

var (
	// ErrEmpty is returned when parsing a blank phrase.
	ErrEmpty = errors.New("empty time phrase")

	tokenRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([wdhm])`)
)

// Units converts the calendar-ish JIRA units into wall-clock durations.
type Units struct {
	HoursPerDay float64 `yaml:"hours_per_day"`
	DaysPerWeek float64 `yaml:"days_per_week"`
}

// DefaultUnits mirrors JIRA's out-of-the-box time tracking settings.
var DefaultUnits = Units{HoursPerDay: 8, DaysPerWeek: 5}

// Parse converts phrase to a duration using JIRA semantics for days and weeks.
func (u Units) Parse(phrase string) (time.Duration, error) {
	phrase = strings.TrimSpace(strings.ToLower(phrase))
	if phrase == "" {
		return 0, ErrEmpty
	}

	if rest := strings.TrimSpace(tokenRe.ReplaceAllString(phrase, "")); rest != "" {
		return 0, fmt.Errorf("invalid time phrase %q: unexpected %q", phrase, rest)
	}

	var total float64
	for _, m := range tokenRe.FindAllStringSubmatch(phrase, -1) {
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid time phrase %q: %w", phrase, err)
		}

		switch m[2] {
		case "w":
			total += n * u.DaysPerWeek * u.HoursPerDay * float64(time.Hour)
		case "d":
			total += n * u.HoursPerDay * float64(time.Hour)
		case "h":
			total += n * float64(time.Hour)
		case "m":
			total += n * float64(time.Minute)
		}
	}

	return time.Duration(math.Round(total)), nil
}

// Format renders d as hours and minutes ("1h 5m", "2h", "45m"). Seconds are
// truncated; a duration under a minute renders as "0m".
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	hours := d / time.Hour
	minutes := (d % time.Hour) / time.Minute

	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

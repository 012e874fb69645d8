package presenter

import (
	"time"

	"github.com/hay-kot/jtl/internal/core/activity"
)

// Field names a form control or toggleable block on the surface.
type Field string

const (
	FieldIssue          Field = "issue"
	FieldTimeManual     Field = "timeManual"
	FieldTimeAuto       Field = "timeAuto"
	FieldComment        Field = "comment"
	FieldAdjustEstimate Field = "adjustEstimate"
	FieldResetTimer     Field = "resetTimer"
)

// Region names a read-only text area on the surface.
type Region string

const (
	RegionSummary         Region = "summary"
	RegionTimeAuto        Region = "timeAuto"
	RegionLoggedTotal     Region = "loggedTotal"
	RegionDayGrandTotal   Region = "dayGrandTotal"
	RegionVersion         Region = "version"
	RegionCopyYear        Region = "copyYear"
	RegionClearTimeButton Region = "clearTimeButton"
)

// State is a presentation state applied to a field's container.
type State string

// StateError marks a field container as failing validation.
const StateError State = "error"

// LogBlock is the rendered form of an activity entry.
type LogBlock struct {
	ID        string
	Level     activity.Level
	Timestamp string
	Text      string
}

// Surface is the rendering target the presenter drives. All methods are
// called from the presenter's event loop.
type Surface interface {
	Value(f Field) string
	SetValue(f Field, v string)
	Checked(f Field) bool

	Visible(f Field) bool
	Show(f Field)
	Hide(f Field)
	Focus(f Field)

	Text(r Region) string
	SetText(r Region, text string)

	AddState(f Field, s State)
	RemoveState(f Field, s State)
	// ClearState removes s from every field.
	ClearState(s State)

	// ResetForm restores every form control to its declared default.
	ResetForm()

	PrependLog(b LogBlock)
	RemoveLog(id string)
	ScrollLogToTop()
	// Highlight paints the block in colour (a hex string) and fades it to
	// the neutral background over d.
	Highlight(id string, colour string, d time.Duration)

	// Confirm asks the user a yes/no question and calls onYes on the loop
	// if they accept.
	Confirm(prompt string, onYes func())

	ShowMask(text string)
	HideMask()
}

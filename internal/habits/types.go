package habits

import (
	"errors"
	"time"
)

// DateLayout is the canonical check-in date format. Date-granular
// YYYY-MM-DD strings compare correctly with plain string ordering.
const DateLayout = "2006-01-02"

// Today returns the current local date in DateLayout.
func Today() string {
	return time.Now().Format(DateLayout)
}

// DefaultUser owns all habits in the single-user local setup.
const DefaultUser = "local"

// Cadence is the expected repetition interval of a habit.
type Cadence string

const (
	CadenceDaily  Cadence = "daily"
	CadenceWeekly Cadence = "weekly"
)

// Valid reports whether the cadence is a known value.
func (c Cadence) Valid() bool {
	return c == CadenceDaily || c == CadenceWeekly
}

// CheckinStatus is the recorded outcome of a habit for a day.
type CheckinStatus string

const (
	CheckinDone    CheckinStatus = "done"
	CheckinSkipped CheckinStatus = "skipped"
	CheckinPartial CheckinStatus = "partial"
)

// Valid reports whether the status is a known value.
func (s CheckinStatus) Valid() bool {
	return s == CheckinDone || s == CheckinSkipped || s == CheckinPartial
}

var (
	// ErrFutureCheckin is returned when a check-in is dated after today.
	ErrFutureCheckin = errors.New("check-in date must not be in the future")

	// ErrHabitNotFound is returned when the referenced habit does not exist.
	ErrHabitNotFound = errors.New("habit not found")

	// ErrInvalidCadence is returned for an unknown cadence value.
	ErrInvalidCadence = errors.New("cadence must be daily or weekly")

	// ErrInvalidStatus is returned for an unknown check-in status.
	ErrInvalidStatus = errors.New("status must be done, skipped or partial")
)

// Habit is a tracked habit. Habits are never mutated after creation
// except by deletion.
type Habit struct {
	ID        string
	UserID    string
	Name      string
	Cadence   Cadence
	CreatedAt time.Time
}

// Checkin records a habit's outcome for one day. There is one logical
// row per (habit, date); recording again for the same day updates the
// status in place.
type Checkin struct {
	ID      string
	HabitID string
	Date    string // YYYY-MM-DD
	Status  CheckinStatus
}

// HabitStatus is the display-ready state of one habit on a given day.
type HabitStatus struct {
	Habit  Habit
	Today  CheckinStatus // empty if nothing recorded for the day
	Streak int           // consecutive cadence periods marked done
}

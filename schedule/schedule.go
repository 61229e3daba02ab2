// Package schedule decides whether a job posting is visible at a given instant.
package schedule

import (
	"errors"
	"time"

	"zayro/models"
)

type State string

const (
	UnscheduledActive State = "unscheduled-active"
	Scheduled         State = "scheduled"
	Active            State = "active"
	Expired           State = "expired"
)

// ErrInvalidSchedule marks a posting whose window is missing or inverted.
var ErrInvalidSchedule = errors.New("schedule: invalid scheduling window")

// Public reports whether the public careers pages show a job in this state.
func (s State) Public() bool {
	return s == UnscheduledActive || s == Active
}

// Classify places job in exactly one state at now. The window is inclusive at
// both ends.
func Classify(job models.Job, now time.Time) (State, error) {
	if !job.HasDuration {
		return UnscheduledActive, nil
	}
	if job.StartDate == nil || job.EndDate == nil || job.StartDate.IsZero() || job.EndDate.IsZero() {
		return "", ErrInvalidSchedule
	}
	start, end := *job.StartDate, *job.EndDate
	if end.Before(start) {
		return "", ErrInvalidSchedule
	}
	switch {
	case now.Before(start):
		return Scheduled, nil
	case now.After(end):
		return Expired, nil
	default:
		return Active, nil
	}
}

// IsOpen is Classify for public consumers: a data error is never open.
func IsOpen(job models.Job, now time.Time) bool {
	s, err := Classify(job, now)
	return err == nil && s.Public()
}

// Label is the operator-facing annotation for a row in the admin lists.
// Unscheduled postings carry no label.
func Label(job models.Job, now time.Time) string {
	s, err := Classify(job, now)
	if err != nil {
		return "Invalid schedule"
	}
	switch s {
	case Scheduled:
		return "Scheduled"
	case Expired:
		return "Expired"
	case Active:
		return "Active"
	}
	return ""
}

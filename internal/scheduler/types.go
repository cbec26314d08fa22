// Package scheduler registers future reminders and fires a callback when
// they come due.
package scheduler

import (
	"fmt"
	"time"

	"github.com/adhocore/gronx"
)

// Kind identifies how a task's firing time is expressed.
type Kind string

const (
	// KindAt is a one-shot at an absolute time.
	KindAt Kind = "at"
	// KindIn is a one-shot after a delay from registration.
	KindIn Kind = "in"
	// KindCron is a recurring cron expression.
	KindCron Kind = "cron"
)

// Task is one registered reminder. Description is the payload handed back
// to the firing callback.
type Task struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Description    string    `json:"description"`
	When           When      `json:"when"`
	CreatedAt      time.Time `json:"createdAt"`
}

// When describes a task's schedule. Exactly one of At, Delay or Cron is
// meaningful, selected by Kind.
type When struct {
	Kind  Kind          `json:"kind"`
	At    time.Time     `json:"at,omitempty"`
	Delay time.Duration `json:"delay,omitempty"`
	Cron  string        `json:"cron,omitempty"`
}

// Validate checks the schedule is well formed.
func (w When) Validate() error {
	switch w.Kind {
	case KindAt:
		if w.At.IsZero() {
			return fmt.Errorf("absolute schedule needs a time")
		}
	case KindIn:
		if w.Delay <= 0 {
			return fmt.Errorf("delay schedule needs a positive delay")
		}
	case KindCron:
		if !gronx.New().IsValid(w.Cron) {
			return fmt.Errorf("invalid cron expression %q", w.Cron)
		}
	default:
		return fmt.Errorf("unknown schedule kind %q", w.Kind)
	}
	return nil
}

// Recurring reports whether the task fires more than once.
func (t Task) Recurring() bool { return t.When.Kind == KindCron }

// NextRun returns the task's next firing time strictly after the given
// instant, or false when no future run exists.
func (t Task) NextRun(after time.Time) (time.Time, bool) {
	switch t.When.Kind {
	case KindAt:
		if t.When.At.After(after) {
			return t.When.At, true
		}
		return time.Time{}, false
	case KindIn:
		due := t.CreatedAt.Add(t.When.Delay)
		if due.After(after) {
			return due, true
		}
		return time.Time{}, false
	case KindCron:
		next, err := gronx.NextTickAfter(t.When.Cron, after, false)
		if err != nil {
			return time.Time{}, false
		}
		return next, true
	default:
		return time.Time{}, false
	}
}

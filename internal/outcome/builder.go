package outcome

import (
	"strings"
	"time"
)

// RawEvent is one execution event as emitted by the engine. Every field except
// ID is optional.
type RawEvent struct {
	ID               string        `json:"id"`
	ProfileID        string        `json:"profile_id,omitempty"`
	Status           string        `json:"status"`
	FullDescription  string        `json:"full_description,omitempty"`
	GroupDescription string        `json:"group_description,omitempty"`
	DescriptionArgs  []string      `json:"description_args,omitempty"`
	PendingMessage   string        `json:"pending_message,omitempty"`
	DescribedClass   string        `json:"described_class,omitempty"`
	Exception        *RawException `json:"exception,omitempty"`
	RunTime          *float64      `json:"run_time,omitempty"`
	StartedAt        *time.Time    `json:"started_at,omitempty"`
}

// RawException is a failure captured by the engine while running a check.
type RawException struct {
	Class     string   `json:"class"`
	Message   string   `json:"message"`
	Backtrace []string `json:"backtrace,omitempty"`
}

// Build normalizes a raw event into a Record. It never fails: anything missing
// stays absent.
func Build(ev RawEvent) Record {
	rec := Record{
		ID:        ev.ID,
		ProfileID: ev.ProfileID,
		Result: Result{
			Status:      normalizeStatus(ev.Status),
			Description: describe(ev),
		},
	}

	if rec.Status == StatusSkipped {
		rec.SkipMessage = ev.PendingMessage
		rec.Resource = ev.DescribedClass
	}

	if ex := ev.Exception; ex != nil {
		rec.Message = ex.Message
		rec.Exception = ex.Class
		if len(ex.Backtrace) > 0 {
			rec.Backtrace = append([]string(nil), ex.Backtrace...)
		}
	}

	if ev.RunTime != nil {
		rt := *ev.RunTime
		rec.RunTime = &rt
	}
	if ev.StartedAt != nil && !ev.StartedAt.IsZero() {
		st := *ev.StartedAt
		rec.StartTime = &st
	}
	return rec
}

// describe picks the enclosing group's description when the check carries its
// own description segments, so a skip reason is never mistaken for the check
// description.
func describe(ev RawEvent) string {
	if len(ev.DescriptionArgs) > 0 {
		return ev.GroupDescription
	}
	return ev.FullDescription
}

func normalizeStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "passed":
		return StatusPassed
	case "failed":
		return StatusFailed
	case "pending", "skipped":
		return StatusSkipped
	default:
		return StatusUnknown
	}
}

package outcome

import "time"

// Status is the normalized result of one executed check.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	StatusUnknown Status = "unknown"
)

// Result is the per-check payload that ends up under a group once the record
// has been attached. It carries nothing used only for matching.
type Result struct {
	Status      Status     `json:"status" yaml:"status"`
	Description string     `json:"code_desc" yaml:"code_desc"`
	Message     string     `json:"message,omitempty" yaml:"message,omitempty"`
	SkipMessage string     `json:"skip_message,omitempty" yaml:"skip_message,omitempty"`
	Resource    string     `json:"resource,omitempty" yaml:"resource,omitempty"`
	Exception   string     `json:"exception,omitempty" yaml:"exception,omitempty"`
	Backtrace   []string   `json:"backtrace,omitempty" yaml:"backtrace,omitempty"`
	RunTime     *float64   `json:"run_time,omitempty" yaml:"run_time,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty" yaml:"start_time,omitempty"`
}

// Record is a single outcome as delivered by the execution engine, after
// normalization. ID and ProfileID exist to find the owning group.
type Record struct {
	ID        string `json:"id" yaml:"id"`
	ProfileID string `json:"profile_id,omitempty" yaml:"profile_id,omitempty"`
	Result    `yaml:",inline"`
}

// DisplayMessage is the text shown for a result on its own detail line.
func (r Result) DisplayMessage() string {
	switch {
	case r.Message != "":
		return r.Message
	case r.SkipMessage != "":
		return r.SkipMessage
	default:
		return r.Description
	}
}

// Package events reads raw execution events encoded as JSON lines.
//
// Only a line that is not a JSON object stops the stream. Inside an object,
// a field whose value has the wrong shape is dropped and logged, and the rest
// of the event is kept.
package events

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"controlreport/internal/outcome"
)

const maxLineBytes = 4 << 20

// Reader yields one RawEvent per non-blank line.
type Reader struct {
	sc   *bufio.Scanner
	log  *zap.Logger
	line int
}

// NewReader reads events from r. A nil logger discards field warnings.
func NewReader(r io.Reader, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Reader{sc: sc, log: logger}
}

// Next returns the next event, or io.EOF once the input is exhausted.
func (r *Reader) Next() (outcome.RawEvent, error) {
	for r.sc.Scan() {
		r.line++
		b := bytes.TrimSpace(r.sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(b, &fields); err != nil {
			return outcome.RawEvent{}, fmt.Errorf("line %d: not a JSON object: %w", r.line, err)
		}
		if fields == nil {
			return outcome.RawEvent{}, fmt.Errorf("line %d: not a JSON object", r.line)
		}
		return r.decode(fields), nil
	}
	if err := r.sc.Err(); err != nil {
		return outcome.RawEvent{}, fmt.Errorf("line %d: %w", r.line+1, err)
	}
	return outcome.RawEvent{}, io.EOF
}

func (r *Reader) decode(fields map[string]json.RawMessage) outcome.RawEvent {
	var ev outcome.RawEvent
	field(r, fields, "id", &ev.ID)
	field(r, fields, "profile_id", &ev.ProfileID)
	field(r, fields, "status", &ev.Status)
	field(r, fields, "full_description", &ev.FullDescription)
	field(r, fields, "group_description", &ev.GroupDescription)
	field(r, fields, "description_args", &ev.DescriptionArgs)
	field(r, fields, "pending_message", &ev.PendingMessage)
	field(r, fields, "described_class", &ev.DescribedClass)
	field(r, fields, "exception", &ev.Exception)
	field(r, fields, "run_time", &ev.RunTime)
	field(r, fields, "started_at", &ev.StartedAt)
	if ev.ID == "" {
		r.log.Warn("event without id", zap.Int("line", r.line))
	}
	return ev
}

// field decodes fields[name] into dst. Absent, null or ill-typed values leave
// dst untouched.
func field[T any](r *Reader, fields map[string]json.RawMessage, name string, dst *T) {
	raw, ok := fields[name]
	if !ok || bytes.Equal(raw, []byte("null")) {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		r.log.Warn("dropped malformed event field",
			zap.Int("line", r.line),
			zap.String("field", name),
			zap.Error(err),
		)
		return
	}
	*dst = v
}

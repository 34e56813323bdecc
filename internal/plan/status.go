package plan

import (
	"encoding/json"
	"fmt"
)

// Status is the tri-state completion marker on a task.
type Status int

const (
	StatusNotStarted Status = iota
	StatusInProgress
	StatusDone
)

var statusNames = map[Status]string{
	StatusNotStarted: "not_started",
	StatusInProgress: "in_progress",
	StatusDone:       "done",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "not_started"
}

// Next advances along the fixed cycle not_started → in_progress → done → not_started.
func (s Status) Next() Status {
	switch s {
	case StatusNotStarted:
		return StatusInProgress
	case StatusInProgress:
		return StatusDone
	default:
		return StatusNotStarted
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the string names and, for legacy payloads,
// the bare integers 0..2.
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		for st, n := range statusNames {
			if n == name {
				*s = st
				return nil
			}
		}
		// Unknown status names decode to not_started rather than failing.
		*s = StatusNotStarted
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode status: %w", err)
	}
	if n < int(StatusNotStarted) || n > int(StatusDone) {
		n = int(StatusNotStarted)
	}
	*s = Status(n)
	return nil
}

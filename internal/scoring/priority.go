package scoring

import (
	"errors"
	"strings"
)

// Priority is the closed set of priority classes a task can carry.
type Priority int

const (
	PriorityUnset Priority = iota
	PriorityUrgent
	PriorityImportant
	PriorityUnhurried
)

var ErrUnknownPriority = errors.New("unknown priority")

var priorityNames = map[Priority]string{
	PriorityUnset:     "unset",
	PriorityUrgent:    "urgent",
	PriorityImportant: "important",
	PriorityUnhurried: "unhurried",
}

// The task database labels its select options in Portuguese, so both
// spellings are accepted.
var priorityValues = map[string]Priority{
	"URGENT":     PriorityUrgent,
	"URGENTE":    PriorityUrgent,
	"IMPORTANT":  PriorityImportant,
	"IMPORTANTE": PriorityImportant,
	"UNHURRIED":  PriorityUnhurried,
	"SEM_PRESSA": PriorityUnhurried,
}

// ParsePriority maps a select option name onto a Priority. Blank input yields
// PriorityUnset with a nil error; unrecognised names yield PriorityUnset and
// ErrUnknownPriority.
func ParsePriority(s string) (Priority, error) {
	key := normalizePriority(s)
	if key == "" {
		return PriorityUnset, nil
	}
	p, ok := priorityValues[key]
	if !ok {
		return PriorityUnset, ErrUnknownPriority
	}
	return p, nil
}

func normalizePriority(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "unknown"
}

// IsSet reports whether p is one of the three weighted classes.
func (p Priority) IsSet() bool {
	return p == PriorityUrgent || p == PriorityImportant || p == PriorityUnhurried
}

// TaskRecord is a single item fetched from the remote task database.
type TaskRecord struct {
	ID        string   `json:"id,omitempty"`
	Completed bool     `json:"completed"`
	Priority  Priority `json:"priority"`
}

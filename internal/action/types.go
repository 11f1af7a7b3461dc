package action

import (
	"time"

	"github.com/google/uuid"
)

// The Default scope exists in every store under this id and name.
const (
	DefaultScopeID   int64 = 0
	DefaultScopeName       = "Default"
)

// Scope is a named partition of actions.
type Scope struct {
	ID   int64
	Name string
}

// Action is an operator-supplied action definition. Scope is resolved by
// name and created on first use.
type Action struct {
	Level   int
	Scope   string
	Delay   int // seconds
	Command string
}

// Entry is a stored action joined with its scope.
type Entry struct {
	ScopeID int64
	Scope   string
	Level   int
	Delay   int // seconds
	Command string
}

// DelayDuration returns Delay as a time.Duration.
func (e Entry) DelayDuration() time.Duration {
	return time.Duration(e.Delay) * time.Second
}

// Execution records the outcome of handing one selected entry to the executor.
type Execution struct {
	Entry

	// StartedAt is when the command was handed to the executor.
	StartedAt time.Time

	// Err is the executor's error, if any. It is informational only.
	Err error
}

// Cycle is the result of one select-and-run pass.
type Cycle struct {
	// ID correlates log lines, MQTT events and metrics of one pass.
	ID string

	// Level is the observed illuminance the selection was made for.
	Level int

	StartedAt  time.Time
	Executions []Execution
}

// GenerateID returns a new cycle identifier.
func GenerateID() string {
	return uuid.NewString()
}

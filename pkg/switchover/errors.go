package switchover

import (
	"fmt"

	"github.com/pierreforstmann/pg-kit/pkg/postgres"
	"github.com/pkg/errors"
)

// Kind classifies why a switchover stopped.
type Kind int

const (
	// KindConnection means a database server could not be reached.
	KindConnection Kind = iota + 1

	// KindQuery means a server rejected a statement.
	KindQuery

	// KindNotFound means a required row (or value) was missing. For the
	// standby lookup this is a topology problem, not a protocol failure.
	KindNotFound

	// KindProcess means a local command exited non-zero.
	KindProcess

	// KindAllocation means a command or connection string could not be built.
	KindAllocation
)

// ErrInvalidConfig is returned before any step runs when the orchestrator's
// configuration cannot work (bad port, malformed command template).
var ErrInvalidConfig = errors.New("invalid switchover configuration")

var kindNames = map[Kind]string{
	KindConnection: "connection error",
	KindQuery:      "query error",
	KindNotFound:   "not found",
	KindProcess:    "process error",
	KindAllocation: "allocation error",
}

// String returns a human readable name for the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is returned by Orchestrator.Run and Orchestrator.Plan when a step fails.
type Error struct {
	// Kind classifies the failure
	Kind Kind

	// Step is the step that failed
	Step Step

	// Detail names the failing statement or command, or describes the problem
	Detail string

	// Err is the underlying error, if any
	Err error

	// ActionDone is set when the step's own action finished and a check that
	// follows it failed, such as the readiness wait after the start command.
	ActionDone bool
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s during %s", e.Kind, e.Step)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Partial reports whether the failure happened after durable role changes
// were made (primary_conninfo written). Such a cluster needs manual
// remediation: nothing is rolled back.
func (e *Error) Partial() bool {
	return e.Step > StepReconfigurePrimary
}

// LastCompleted returns the last step whose action finished before the failure.
func (e *Error) LastCompleted() Step {
	if e.ActionDone {
		return e.Step
	}

	return e.Step - 1
}

// IsKind reports whether err is a switchover *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}

// queryFailure classifies a session error. Missing rows and NULL values are
// KindNotFound; everything else the server reported is KindQuery.
func queryFailure(step Step, detail string, err error) *Error {
	kind := KindQuery
	if errors.Is(err, postgres.ErrNoRows) || errors.Is(err, postgres.ErrNullValue) {
		kind = KindNotFound
	}

	return &Error{Kind: kind, Step: step, Detail: detail, Err: err}
}

package ops

import "fmt"

// ExecStatus is the execution status an operation finished with. The
// numeric values are part of the transition magic wire contract and must
// not change.
type ExecStatus int

const (
	// ExecUnknown means the status of the operation is not known.
	ExecUnknown ExecStatus = -2

	// ExecPending means the operation has not yet produced an outcome.
	ExecPending ExecStatus = -1

	// ExecDone means the operation ran to completion; its return code
	// decides success.
	ExecDone ExecStatus = 0

	// ExecCancelled means the operation was cancelled before completing.
	ExecCancelled ExecStatus = 1

	// ExecTimeout means the operation exceeded its timeout.
	ExecTimeout ExecStatus = 2

	// ExecNotSupported means the agent does not implement the operation.
	ExecNotSupported ExecStatus = 3

	// ExecError means the executor failed to run the operation.
	ExecError ExecStatus = 4

	// ExecNotConnected means the executor connection was lost.
	ExecNotConnected ExecStatus = 5

	// ExecInvalid means the operation was rejected as invalid.
	ExecInvalid ExecStatus = 6

	// ExecNotInstalled means the agent is not installed on the node.
	ExecNotInstalled ExecStatus = 7
)

// String returns the human-readable status name.
func (s ExecStatus) String() string {
	switch s {
	case ExecUnknown:
		return "unknown"
	case ExecPending:
		return "pending"
	case ExecDone:
		return "complete"
	case ExecCancelled:
		return "cancelled"
	case ExecTimeout:
		return "timed out"
	case ExecNotSupported:
		return "not supported"
	case ExecError:
		return "error"
	case ExecNotConnected:
		return "not connected"
	case ExecInvalid:
		return "invalid"
	case ExecNotInstalled:
		return "not installed"
	default:
		return fmt.Sprintf("status %d", int(s))
	}
}

// DidFail reports whether an operation result counts as a failure.
//
// Cancelled and pending operations have no definitive outcome yet and are
// never failures. Statuses that rule out a usable result (not supported,
// timeout, error, not connected, invalid) are failures unconditionally.
// Any other terminal status is a failure iff the actual return code differs
// from the expected one.
func DidFail(status ExecStatus, actualRC, targetRC int) bool {
	switch status {
	case ExecCancelled, ExecPending:
		return false

	case ExecNotSupported, ExecTimeout, ExecError, ExecNotConnected, ExecInvalid:
		return true

	default:
		return actualRC != targetRC
	}
}

// ExpectedRC extracts the planner's expected return code from an
// operation's private user data. If userData decodes as a valid transition
// key its target return code is returned, otherwise zero.
func ExpectedRC(userData string) int {
	if userData == "" {
		return 0
	}
	key, err := DecodeTransitionKey(userData)
	if err != nil {
		return 0
	}
	return key.TargetRC
}

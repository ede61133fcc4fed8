package stores

import (
	"time"

	"github.com/smesilov-dev/pacemaker/pkg/ops"
)

// OperationRecord is one operation result held in the status cache.
type OperationRecord struct {
	// ID is the unique identifier of this record.
	ID string `json:"id"`

	// RscID is the id of the resource the operation ran on.
	RscID string `json:"rsc_id"`

	// OpType is the operation name.
	OpType string `json:"op_type"`

	// IntervalMS is the operation recurrence interval in milliseconds.
	IntervalMS uint32 `json:"interval_ms"`

	// OpKey is the encoded operation key. Derived from the fields above
	// when empty at record time.
	OpKey string `json:"op_key"`

	// Node is the node the operation ran on.
	Node string `json:"node"`

	// Magic is the transition magic string reported by the executor,
	// empty for operations that did not originate from a transition.
	Magic string `json:"magic,omitempty"`

	// TransitionID and ActionID correlate the result with planner
	// intent. Derived from Magic when it is present.
	TransitionID int `json:"transition_id"`
	ActionID     int `json:"action_id"`

	// Status is the execution status the operation finished with.
	Status ops.ExecStatus `json:"status"`

	// RC is the return code the operation actually produced.
	RC int `json:"rc"`

	// TargetRC is the return code the planner expected.
	TargetRC int `json:"target_rc"`

	// Failed records whether the result classified as a failure.
	Failed bool `json:"failed"`

	// Digest is the parameter digest at execution time, used to detect
	// configuration drift.
	Digest string `json:"digest,omitempty"`

	// ExecutedAt is when the operation finished.
	ExecutedAt time.Time `json:"executed_at"`

	// CreatedAt is when the record was written.
	CreatedAt time.Time `json:"created_at"`
}

// Config holds SQLite store configuration.
type Config struct {
	// Path is the database file path, or ":memory:".
	Path string

	// MaxOpenConns limits open connections; defaults to 25.
	MaxOpenConns int

	// MaxIdleConns limits idle connections; defaults to 5.
	MaxIdleConns int

	// ConnMaxLifetime bounds connection reuse; defaults to 5 minutes.
	ConnMaxLifetime time.Duration
}

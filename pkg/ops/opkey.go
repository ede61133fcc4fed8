package ops

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Notify wrapper infixes stripped from a parsed resource id. The post form
// is checked first, matching the wire contract.
const (
	postNotifyInfix = "_post_notify"
	preNotifyInfix  = "_pre_notify"
)

// NotifyType identifies when a notification action runs relative to the
// operation it wraps.
type NotifyType string

const (
	// NotifyPre runs before the wrapped operation.
	NotifyPre NotifyType = "pre"

	// NotifyPost runs after the wrapped operation.
	NotifyPost NotifyType = "post"
)

// OperationKey identifies one operation instance: which resource, which
// action, and the recurrence interval in milliseconds. Its string form
// "<rsc_id>_<op_type>_<interval_ms>" is a cluster-wide wire contract.
//
// The format performs no escaping. Embedded underscores in RscID are
// tolerated by the parser, but a literal "_pre_notify" or "_post_notify"
// substring in a real resource id would be misread as a notify wrapper.
type OperationKey struct {
	// RscID is the id of the resource being operated on.
	RscID string `json:"rsc_id"`

	// OpType is the operation name (start, monitor, ...).
	OpType string `json:"op_type"`

	// IntervalMS is the operation recurrence interval in milliseconds,
	// zero for one-shot operations.
	IntervalMS uint32 `json:"interval_ms"`
}

// String returns the canonical encoded key. It does not validate; use
// BuildOperationKey when the inputs are not already known to be non-empty.
func (k OperationKey) String() string {
	return fmt.Sprintf("%s_%s_%d", k.RscID, k.OpType, k.IntervalMS)
}

// BuildOperationKey encodes an operation key, failing with an
// invalid-argument error if rscID or opType is absent.
func BuildOperationKey(rscID, opType string, intervalMS uint32) (string, error) {
	if rscID == "" {
		return "", NewInvalidArgumentError("resource id is required")
	}
	if opType == "" {
		return "", NewInvalidArgumentError("operation type is required")
	}
	return OperationKey{RscID: rscID, OpType: opType, IntervalMS: intervalMS}.String(), nil
}

// BuildNotifyKey encodes the key for a pre/post notification action wrapped
// around opType: "<rsc_id>_<notify_type>_notify_<op_type>_0". There is no
// dedicated parse counterpart; notify keys are parsed back through
// ParseOperationKey, which strips the notify infix from the resource id.
func BuildNotifyKey(rscID string, notifyType NotifyType, opType string) (string, error) {
	if rscID == "" {
		return "", NewInvalidArgumentError("resource id is required")
	}
	if notifyType == "" {
		return "", NewInvalidArgumentError("notify type is required")
	}
	if opType == "" {
		return "", NewInvalidArgumentError("operation type is required")
	}
	return fmt.Sprintf("%s_%s_notify_%s_0", rscID, notifyType, opType), nil
}

// ParseOperationKey splits an encoded operation key back into its parts.
//
// The format has no escaping, so the scan runs right to left: the trailing
// digit run is the interval, the underscore before it terminates the
// operation type, the next underscore to the left terminates the resource
// id. Interval digits accumulate with 32-bit unsigned wraparound, matching
// the wire contract's native integer width. A "_post_notify" or
// "_pre_notify" wrapper left in the resource id by BuildNotifyKey is
// stripped. The parse is all or nothing; on failure an invalid-format error
// is returned and no partial result.
func ParseOperationKey(key string) (OperationKey, error) {
	if key == "" {
		return OperationKey{}, NewInvalidFormatError("operation key is empty", key)
	}

	// Trailing digit run is the interval. Position 0 is never consumed as
	// a digit; a key that is all digits fails the separator check below.
	offset := len(key) - 1
	var intervalMS uint32
	for offset > 0 && isDigit(key[offset]) {
		ch := uint64(key[offset] - '0')
		for digits := len(key) - offset; digits > 1; digits-- {
			ch *= 10
		}
		intervalMS += uint32(ch)
		offset--
	}
	log.Trace().Str("key", key).Uint32("interval_ms", intervalMS).
		Msg("parsed operation key interval")

	if offset == len(key)-1 || key[offset] != '_' {
		return OperationKey{}, NewInvalidFormatError(
			"operation key has no interval suffix", key)
	}

	// key[:offset] is now "<rsc_id>_<op_type>". Scan back to the next
	// underscore; the segment after it is the operation type.
	end := offset
	offset--
	for offset > 0 && key[offset] != '_' {
		offset--
	}
	if key[offset] != '_' {
		return OperationKey{}, NewInvalidFormatError(
			"operation key has no operation type segment", key)
	}

	opType := key[offset+1 : end]
	rscID := key[:offset]

	// Strip a notify wrapper. Only the first occurrence is considered,
	// and only when it is the exact suffix of the candidate.
	if idx := strings.Index(rscID, postNotifyInfix); idx >= 0 && rscID[idx:] == postNotifyInfix {
		rscID = rscID[:idx]
	}
	if idx := strings.Index(rscID, preNotifyInfix); idx >= 0 && rscID[idx:] == preNotifyInfix {
		rscID = rscID[:idx]
	}

	log.Trace().Str("rsc_id", rscID).Str("op_type", opType).
		Msg("parsed operation key")

	return OperationKey{RscID: rscID, OpType: opType, IntervalMS: intervalMS}, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

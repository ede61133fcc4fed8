// Package ops implements the identifier codecs that correlate resource
// operation events between the scheduler, the executor, and the status cache.
//
// # Identifier Families
//
// Three string identifier families are covered, all of them cluster-wide wire
// contracts that must stay byte-exact:
//
//   - Operation keys: "<rsc_id>_<op_type>_<interval_ms>", built by
//     OperationKey.String and recovered by ParseOperationKey.
//   - Notify keys: "<rsc_id>_<notify_type>_notify_<op_type>_0", built by
//     NotifyKey.String and parsed back through ParseOperationKey.
//   - Transition keys and magic: "<action_id>:<transition_id>:<target_rc>:<node>"
//     with the node field padded to at least 36 characters, and the wrapping
//     "<op_status>:<op_rc>;<transition_key>" magic string.
//
// None of the formats escape their delimiters. Parsing relies on positional
// scanning (rightmost digit run, rightmost underscore, embedded literal
// substrings), so the scanners here are hand-written and scan right to left
// exactly as the wire contract requires; a generic split would change the
// tie-breaks and silently corrupt correlation.
//
// # Supporting Routines
//
// FilterForDigest strips the attributes that must not affect an operation's
// parameter digest, Digest computes the stable hash over what remains,
// DidFail classifies a terminal operation result against its expected return
// code, and NeedsMetadata decides whether agent metadata has to be fetched
// for a resource class and action.
//
// # Errors
//
// Failures are classified as invalid-argument (required input absent, a
// caller bug) or invalid-format (malformed string, recoverable by
// discarding the input). Soft conditions, such as a transition key whose
// node field is not UUID-sized, are logged and never returned as errors.
//
// All functions are pure, synchronous, and safe for concurrent use on
// independent inputs; the only mutation is the in-place parameter filtering,
// whose concurrency discipline belongs to the owner of the set.
package ops

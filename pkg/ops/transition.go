package ops

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// nodeFieldWidth is the minimum encoded width of the node field in a
// transition key. The field is named for the node but sized for a UUID;
// shorter node identifiers are space-padded, longer ones are never
// truncated on encode, and a decoded node of a different length is only a
// soft warning.
const nodeFieldWidth = 36

// TransitionKey identifies which planned transition and action produced an
// operation result, plus the return code the planner expected. Its string
// form "<action_id>:<transition_id>:<target_rc>:<node>" is a cluster-wide
// wire contract.
type TransitionKey struct {
	// TransitionID is the id of the planned transition.
	TransitionID int `json:"transition_id"`

	// ActionID is the id of the action within the transition.
	ActionID int `json:"action_id"`

	// TargetRC is the return code the planner expects from the action.
	TargetRC int `json:"target_rc"`

	// NodeUUID is the identifier of the node the action ran on. Callers
	// must not rely on it being exactly 36 characters.
	NodeUUID string `json:"node_uuid"`
}

// TransitionMagic combines an operation's final execution status and return
// code with its originating transition key, encoded as
// "<op_status>:<op_rc>;<transition_key>". The executor reports it back so
// results can be correlated with planner intent.
type TransitionMagic struct {
	// OpStatus is the execution status the operation finished with.
	OpStatus ExecStatus `json:"op_status"`

	// OpRC is the return code the operation actually produced.
	OpRC int `json:"op_rc"`

	// Key is the originating transition key.
	Key TransitionKey `json:"key"`
}

// EncodeTransitionKey encodes a transition key, failing with an
// invalid-argument error if node is absent. The node field is left-justified
// and space-padded to at least 36 characters.
func EncodeTransitionKey(transitionID, actionID, targetRC int, node string) (string, error) {
	if node == "" {
		return "", NewInvalidArgumentError("node identifier is required")
	}
	return fmt.Sprintf("%d:%d:%d:%-*s",
		actionID, transitionID, targetRC, nodeFieldWidth, node), nil
}

// DecodeTransitionKey splits an encoded transition key back into its parts.
//
// Exactly four colon-separated fields are required, the fourth read with a
// maximum width of 36 characters; characters beyond 36 are ignored, not an
// error. A node field whose length is not 36 is logged as a warning but
// still decodes successfully. On any structural failure an invalid-format
// error is returned and no partial result.
func DecodeTransitionKey(key string) (TransitionKey, error) {
	sc := fieldScanner{s: key}

	actionID, ok := sc.scanInt()
	if ok {
		ok = sc.expect(':')
	}
	transitionID := -1
	if ok {
		transitionID, ok = sc.scanInt()
	}
	if ok {
		ok = sc.expect(':')
	}
	targetRC := -1
	if ok {
		targetRC, ok = sc.scanInt()
	}
	if ok {
		ok = sc.expect(':')
	}
	var uuid string
	if ok {
		uuid, ok = sc.scanWord(nodeFieldWidth)
	}
	if !ok {
		log.Error().Str("key", key).Msg("invalid transition key")
		return TransitionKey{}, NewInvalidFormatError(
			"transition key does not have 4 fields", key)
	}

	if len(uuid) != nodeFieldWidth {
		log.Warn().Str("uuid", uuid).Str("key", key).
			Msg("transition key node field is not UUID-sized")
	}

	return TransitionKey{
		TransitionID: transitionID,
		ActionID:     actionID,
		TargetRC:     targetRC,
		NodeUUID:     uuid,
	}, nil
}

// EncodeTransitionMagic encodes a transition magic string, failing with an
// invalid-argument error if node is absent.
func EncodeTransitionMagic(opStatus ExecStatus, opRC, transitionID, actionID, targetRC int,
	node string) (string, error) {
	key, err := EncodeTransitionKey(transitionID, actionID, targetRC, node)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d:%d;%s", int(opStatus), opRC, key), nil
}

// DecodeTransitionMagic parses the leading "<op_status>:<op_rc>;" prefix and
// decodes the remainder as a transition key. The embedded key ends at the
// first whitespace, which in a well-formed magic string is the padding after
// a short node identifier. A scan that recognizes nothing at all is
// distinguished from a partial match only in the log detail; both fail with
// an invalid-format error.
func DecodeTransitionMagic(magic string) (TransitionMagic, error) {
	sc := fieldScanner{s: magic}

	items := 0
	opStatus, ok := sc.scanInt()
	if ok {
		items++
		ok = sc.expect(':')
	}
	opRC := -1
	if ok {
		opRC, ok = sc.scanInt()
	}
	if ok {
		items++
		ok = sc.expect(';')
	}
	var key string
	if ok {
		// The key term has no width limit; it runs to the next
		// whitespace.
		key, ok = sc.scanWord(len(magic))
	}
	if ok {
		items++
	}
	if items < 3 {
		if items == 0 {
			log.Error().Str("magic", magic).
				Msg("could not decode transition information")
		} else {
			log.Warn().Str("magic", magic).Int("items", items).
				Msg("transition information incomplete")
		}
		return TransitionMagic{}, NewInvalidFormatError(
			"transition magic does not have 3 fields", magic)
	}

	decoded, err := DecodeTransitionKey(key)
	if err != nil {
		return TransitionMagic{}, err
	}

	return TransitionMagic{
		OpStatus: ExecStatus(opStatus),
		OpRC:     opRC,
		Key:      decoded,
	}, nil
}

// fieldScanner reproduces the subset of C scanf matching the wire formats
// were defined with: integer conversions skip leading whitespace and accept
// an optional sign, string conversions skip leading whitespace and stop at
// whitespace or a maximum width, and literal separators match exactly.
type fieldScanner struct {
	s   string
	pos int
}

func (sc *fieldScanner) skipSpace() {
	for sc.pos < len(sc.s) && isSpace(sc.s[sc.pos]) {
		sc.pos++
	}
}

// scanInt matches an optionally signed decimal integer.
func (sc *fieldScanner) scanInt() (int, bool) {
	sc.skipSpace()
	start := sc.pos
	neg := false
	if sc.pos < len(sc.s) && (sc.s[sc.pos] == '-' || sc.s[sc.pos] == '+') {
		neg = sc.s[sc.pos] == '-'
		sc.pos++
	}
	digits := sc.pos
	n := 0
	for sc.pos < len(sc.s) && isDigit(sc.s[sc.pos]) {
		n = n*10 + int(sc.s[sc.pos]-'0')
		sc.pos++
	}
	if sc.pos == digits {
		sc.pos = start
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// expect matches a literal separator character.
func (sc *fieldScanner) expect(c byte) bool {
	if sc.pos < len(sc.s) && sc.s[sc.pos] == c {
		sc.pos++
		return true
	}
	return false
}

// scanWord matches a run of up to max non-whitespace characters.
func (sc *fieldScanner) scanWord(max int) (string, bool) {
	sc.skipSpace()
	start := sc.pos
	for sc.pos < len(sc.s) && sc.pos-start < max && !isSpace(sc.s[sc.pos]) {
		sc.pos++
	}
	if sc.pos == start {
		return "", false
	}
	return sc.s[start:sc.pos], true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\v' || c == '\f' || c == '\r'
}

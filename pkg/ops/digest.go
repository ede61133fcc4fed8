package ops

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/smesilov-dev/pacemaker/pkg/params"
)

// Attribute names shared with the cluster-wide operation parameter model.
const (
	// AttrID is the identity attribute of an operation entry.
	AttrID = "id"

	// AttrCRMVersion is the protocol feature-set attribute.
	AttrCRMVersion = "crm_feature_set"

	// AttrOpDigest holds a previously computed parameter digest.
	AttrOpDigest = "op-digest"

	// AttrTargetNode is the name of the node the operation targets.
	AttrTargetNode = "on_node"

	// AttrTargetNodeUUID is the uuid of the node the operation targets.
	AttrTargetNodeUUID = "on_node_uuid"

	// AttrExternalIP is the externally-visible address attribute injected
	// for container bundles.
	AttrExternalIP = "pcmk_external_ip"

	// MetaPrefix marks manager-injected meta-attributes, distinguishing
	// them from agent-specific parameters.
	MetaPrefix = "CRM_meta"
)

// digestAttrFilter lists attributes that never affect reproducibility of an
// operation's parameter digest.
var digestAttrFilter = []string{
	AttrID,
	AttrCRMVersion,
	AttrOpDigest,
	AttrTargetNode,
	AttrTargetNodeUUID,
	AttrExternalIP,
}

// MetaName returns the meta-attribute name for an operation field, mapping
// dashes to underscores as the wire format requires.
func MetaName(field string) string {
	return MetaPrefix + "_" + strings.ReplaceAll(field, "-", "_")
}

// FilterForDigest removes from set every attribute that must not affect
// the operation's parameter digest, mutating the set in place. Ownership of
// the set stays with the caller.
//
// All meta-attributes are removed, with one exception: recurring operations
// keep their timeout, so that a changed timeout still changes the digest.
// The meta prefix is compared case-insensitively; that is a legacy
// compatibility quirk of the wire format, preserved deliberately.
func FilterForDigest(set *params.Set) {
	if set == nil {
		return
	}

	for _, name := range digestAttrFilter {
		set.Remove(name)
	}

	intervalMS := uint32(0)
	if v, ok := set.Lookup(MetaName("interval")); ok {
		if parsed, err := strconv.ParseUint(v, 10, 32); err == nil {
			intervalMS = uint32(parsed)
		}
	}

	timeoutName := MetaName("timeout")
	timeout, hadTimeout := set.Lookup(timeoutName)

	set.Each(func(name, _ string) {
		if len(name) >= len(MetaPrefix) &&
			strings.EqualFold(name[:len(MetaPrefix)], MetaPrefix) {
			set.Remove(name)
		}
	})

	if intervalMS != 0 && hadTimeout {
		// Add the timeout back, it's useful for recurring operation
		// digests.
		set.Set(timeoutName, timeout)
	}
}

// Digest computes the stable hash of a parameter set, used to detect
// configuration drift that requires re-execution. Attributes are joined as
// name=value pairs in sorted name order so the digest is independent of
// insertion order. Callers normally filter the set first with
// FilterForDigest.
func Digest(set *params.Set) string {
	attrs := set.Attrs()
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })

	var b strings.Builder
	for _, a := range attrs {
		b.WriteString(a.Name)
		b.WriteByte('=')
		b.WriteString(a.Value)
		b.WriteByte('\n')
	}
	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

package ops

import "strings"

// Resource agent class names.
const (
	ClassOCF     = "ocf"
	ClassLSB     = "lsb"
	ClassService = "service"
	ClassSystemd = "systemd"
	ClassUpstart = "upstart"
	ClassNagios  = "nagios"
	ClassStonith = "stonith"
)

// RACapability is a bit set of the behaviors a resource agent class
// supports.
type RACapability uint32

const (
	// RACapProvider means agents of this class are namespaced by provider.
	RACapProvider RACapability = 1 << iota

	// RACapParams means agents of this class take parameters.
	RACapParams

	// RACapUnique means agent instances can be tagged globally unique.
	RACapUnique

	// RACapPromotable means agents of this class can run promotable
	// clone resources.
	RACapPromotable

	// RACapStdin means agents of this class read parameters from stdin.
	RACapStdin

	// RACapFenceParams means fencing-specific parameters apply to this
	// class.
	RACapFenceParams

	// RACapStatus means agents of this class support the legacy status
	// action.
	RACapStatus
)

// Has reports whether all capabilities in want are present.
func (c RACapability) Has(want RACapability) bool {
	return c&want == want
}

// ClassCapabilities maps a resource agent class name to its capability
// flags. Class names compare case-insensitively; an unknown class has no
// capabilities.
func ClassCapabilities(class string) RACapability {
	switch {
	case strings.EqualFold(class, ClassOCF):
		return RACapProvider | RACapParams | RACapUnique | RACapPromotable
	case strings.EqualFold(class, ClassStonith):
		return RACapParams | RACapUnique | RACapStdin | RACapFenceParams
	case strings.EqualFold(class, ClassService),
		strings.EqualFold(class, ClassLSB),
		strings.EqualFold(class, ClassSystemd),
		strings.EqualFold(class, ClassUpstart):
		return RACapStatus
	case strings.EqualFold(class, ClassNagios):
		return RACapStatus | RACapParams
	default:
		return 0
	}
}

// Operation action names shared with the cluster-wide scheduler model.
const (
	ActionStart       = "start"
	ActionStop        = "stop"
	ActionStatus      = "monitor"
	ActionPromote     = "promote"
	ActionDemote      = "demote"
	ActionReload      = "reload"
	ActionMigrateTo   = "migrate_to"
	ActionMigrateFrom = "migrate_from"
	ActionNotify      = "notify"
)

// NeedsMetadata decides whether an agent's descriptive metadata must be
// fetched for a resource class and action. Metadata is used to determine
// whether a reload is possible and to evaluate versioned parameters, so it
// is only needed for classes that take parameters and for the actions those
// features apply to.
//
// Either argument may be empty to skip that check, but not both; passing
// both empty fails with an invalid-argument error. An empty action matches,
// so a class-only query answers from the capability flags alone.
func NeedsMetadata(class, action string) (bool, error) {
	if class == "" && action == "" {
		return false, NewInvalidArgumentError(
			"resource class or action is required")
	}

	if class != "" && !ClassCapabilities(class).Has(RACapParams) {
		// Metadata is only needed for classes that use parameters.
		return false, nil
	}

	switch action {
	case "", ActionStart, ActionStatus, ActionPromote, ActionDemote,
		ActionReload, ActionMigrateTo, ActionMigrateFrom, ActionNotify:
		return true, nil
	default:
		return false, nil
	}
}

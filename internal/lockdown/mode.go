package lockdown

import (
	"context"
	"fmt"
	"go.mongodb.org/mongo-driver/bson"
	"lockdown-service/internal/directory"
)

// lockedPermissions are the permission bits a lockdown takes away from
// members: seeing channels and sending messages.
const lockedPermissions = directory.PermissionViewChannels | directory.PermissionSendMessages

// Mode is one lockdown strategy. Every mode implements the full capability
// set; there are no partial implementations.
//
// The data blobs produced by Setup and consumed by Revert/Shareable are
// opaque to everything but the mode itself.
type Mode interface {
	// Test dry-runs the strategy against the snapshot and reports whether
	// it can be applied perfectly given the community's current layout.
	Test(snapshot *directory.Community, critical map[string]directory.Role) TestResult

	// Setup captures the pre-lockdown state of every resource the mode is
	// about to touch. When an older, still-active lockdown has already
	// snapshotted a resource, that older snapshot is propagated so stacked
	// lockdowns restore to the true original state.
	Setup(snapshot *directory.Community, critical map[string]directory.Role, active []*Lockdown) (bson.Raw, error)

	// Shareable decodes the mode's data blob into the maps other modes use
	// for the underlying-state lookup.
	Shareable(data bson.Raw) (*SharedState, error)

	// Create mutates the community to apply the restriction, skipping any
	// resource already claimed at an equal-or-higher specificity. Returns
	// the snapshot updated with the objects the directory handed back.
	Create(ctx context.Context, dir directory.Directory, snapshot *directory.Community, critical map[string]directory.Role, handles *Handles) (*directory.Community, error)

	// Revert restores the state captured in data, with the same
	// skip-owned-resources rule.
	Revert(ctx context.Context, dir directory.Directory, snapshot *directory.Community, critical map[string]directory.Role, data bson.Raw, handles *Handles) (*directory.Community, error)

	// Handles declares which roles and channels the mode claims.
	Handles(snapshot *directory.Community, critical map[string]directory.Role) Handle

	// Specificity orders overlapping lockdowns: higher wins.
	Specificity() int

	// String is the stable identifier persisted with each record and fed
	// back through the registry on load.
	String() string
}

// TestResult is the outcome of a Mode.Test dry run.
type TestResult interface {
	CanApplyPerfectly() bool
	// DisplayResult renders a human-readable (markdown) diff of what keeps
	// the strategy from applying perfectly.
	DisplayResult(snapshot *directory.Community) string
}

// perfectTestResult is the TestResult of modes with no layout constraints.
type perfectTestResult struct{}

func (perfectTestResult) CanApplyPerfectly() bool { return true }

func (perfectTestResult) DisplayResult(_ *directory.Community) string { return "" }

// OverwriteState is the pre-lockdown state of one (channel, role) overwrite.
// Existed false means the role had no overwrite on the channel at all.
type OverwriteState struct {
	Existed bool                  `bson:"existed"`
	Allow   directory.Permissions `bson:"allow"`
	Deny    directory.Permissions `bson:"deny"`
}

// SharedState is a mode's data blob decoded into the shape other modes
// consult when snapshotting resources the older lockdown already covers.
type SharedState struct {
	RolePermissions   map[string]directory.Permissions
	ChannelOverwrites map[string]map[string]OverwriteState
}

// underlyingRolePermissions looks for a pre-lockdown snapshot of the
// role's permissions among the active lockdowns, oldest first. The first
// match wins: the oldest lockdown saw the true original state.
func underlyingRolePermissions(active []*Lockdown, roleId string) (directory.Permissions, bool, error) {
	for _, ld := range active {
		shared, err := ld.Mode.Shareable(ld.Data)
		if err != nil {
			return 0, false, fmt.Errorf("failed to decode %s lockdown data: %w", ld.Mode, err)
		}
		if perms, ok := shared.RolePermissions[roleId]; ok {
			return perms, true, nil
		}
	}
	return 0, false, nil
}

// underlyingOverwrite is underlyingRolePermissions for a (channel, role)
// overwrite.
func underlyingOverwrite(active []*Lockdown, channelId string, roleId string) (OverwriteState, bool, error) {
	for _, ld := range active {
		shared, err := ld.Mode.Shareable(ld.Data)
		if err != nil {
			return OverwriteState{}, false, fmt.Errorf("failed to decode %s lockdown data: %w", ld.Mode, err)
		}
		if states, ok := shared.ChannelOverwrites[channelId]; ok {
			if state, ok := states[roleId]; ok {
				return state, true, nil
			}
		}
	}
	return OverwriteState{}, false, nil
}

// currentOverwriteState reads the (channel, role) overwrite straight from
// the snapshot.
func currentOverwriteState(channel *directory.Channel, roleId string) OverwriteState {
	if overwrite, ok := channel.Overwrite(roleId); ok {
		return OverwriteState{Existed: true, Allow: overwrite.Allow, Deny: overwrite.Deny}
	}
	return OverwriteState{}
}

// snapshotChannelStates captures, for one channel, the pre-lockdown
// overwrite state of every critical role, preferring snapshots already
// held by older active lockdowns.
func snapshotChannelStates(channel *directory.Channel, critical map[string]directory.Role, active []*Lockdown) (map[string]OverwriteState, error) {
	states := make(map[string]OverwriteState, len(critical))
	for roleId := range critical {
		state, ok, err := underlyingOverwrite(active, channel.Id, roleId)
		if err != nil {
			return nil, err
		}
		if !ok {
			state = currentOverwriteState(channel, roleId)
		}
		states[roleId] = state
	}
	return states, nil
}

// lockChannel issues the deny-overwrite edit for one channel, adding an
// overwrite for every critical role that has none. Returns false when the
// channel needed no edit.
func lockChannel(ctx context.Context, dir directory.Directory, snapshot *directory.Community, channel directory.Channel, critical map[string]directory.Role) (bool, error) {
	overwrites := append([]directory.Overwrite(nil), channel.Overwrites...)
	edited := false
	for roleId := range critical {
		if _, ok := channel.Overwrite(roleId); ok {
			continue
		}
		overwrites = append(overwrites, directory.Overwrite{RoleId: roleId, Deny: lockedPermissions})
		edited = true
	}
	if !edited {
		return false, nil
	}

	updated, err := dir.EditChannelOverwrites(ctx, channel.Id, overwrites)
	if err != nil {
		return false, err
	}
	snapshot.SetChannel(*updated)
	return true, nil
}

// unlockChannel restores one channel's overwrites to the captured states.
func unlockChannel(ctx context.Context, dir directory.Directory, snapshot *directory.Community, channel directory.Channel, states map[string]OverwriteState) error {
	overwrites := make([]directory.Overwrite, 0, len(channel.Overwrites))
	restored := make(map[string]struct{}, len(states))
	for _, overwrite := range channel.Overwrites {
		state, ok := states[overwrite.RoleId]
		if !ok {
			overwrites = append(overwrites, overwrite)
			continue
		}
		restored[overwrite.RoleId] = struct{}{}
		if state.Existed {
			overwrites = append(overwrites, directory.Overwrite{RoleId: overwrite.RoleId, Allow: state.Allow, Deny: state.Deny})
		}
		// A state that never existed drops the overwrite entirely.
	}
	// Overwrites that were captured but are gone from the channel are
	// re-created when they originally existed.
	for roleId, state := range states {
		if _, ok := restored[roleId]; ok {
			continue
		}
		if state.Existed {
			overwrites = append(overwrites, directory.Overwrite{RoleId: roleId, Allow: state.Allow, Deny: state.Deny})
		}
	}

	updated, err := dir.EditChannelOverwrites(ctx, channel.Id, overwrites)
	if err != nil {
		return err
	}
	snapshot.SetChannel(*updated)
	return nil
}

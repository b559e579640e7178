package lockdown

import (
	"context"
	"fmt"
	"go.mongodb.org/mongo-driver/bson"
	"lockdown-service/internal/directory"
	"strings"
)

// QuickLock locks a community by flipping the view/send bits off on every
// critical role. Cheapest strategy, lowest specificity: it only works
// perfectly when no other role leaks those permissions to members.
type QuickLock struct{}

func (QuickLock) Specificity() int { return 0 }

func (QuickLock) String() string { return "ql" }

func (QuickLock) Test(snapshot *directory.Community, critical map[string]directory.Role) TestResult {
	result := quickLockTestResult{}
	for _, role := range snapshot.Roles {
		if _, ok := critical[role.Id]; ok {
			continue
		}
		if role.Permissions.HasAny(lockedPermissions) {
			result.leakingRoles = append(result.leakingRoles, role.Id)
		}
	}
	return result
}

type quickLockTestResult struct {
	// leakingRoles are non-critical roles that grant view/send, so locking
	// only the critical roles would leave members with access.
	leakingRoles []string
}

func (r quickLockTestResult) CanApplyPerfectly() bool {
	return len(r.leakingRoles) == 0
}

func (r quickLockTestResult) DisplayResult(snapshot *directory.Community) string {
	if len(r.leakingRoles) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("These roles grant members access a quick lock cannot revoke:\n")
	for _, roleId := range r.leakingRoles {
		name := roleId
		var perms directory.Permissions
		if role, ok := snapshot.Role(roleId); ok {
			name = role.Name
			perms = role.Permissions
		}
		fmt.Fprintf(&b, "- `%s` allows %s\n", name, describePermissions(perms&lockedPermissions))
	}
	return b.String()
}

func describePermissions(perms directory.Permissions) string {
	var names []string
	if perms.Has(directory.PermissionViewChannels) {
		names = append(names, "View Channels")
	}
	if perms.Has(directory.PermissionSendMessages) {
		names = append(names, "Send Messages")
	}
	return strings.Join(names, ", ")
}

type quickLockData struct {
	// Roles maps each critical role to its pre-lockdown permission bits.
	Roles map[string]directory.Permissions `bson:"roles"`
}

func (QuickLock) Setup(snapshot *directory.Community, critical map[string]directory.Role, active []*Lockdown) (bson.Raw, error) {
	data := quickLockData{Roles: make(map[string]directory.Permissions, len(critical))}
	for roleId, role := range critical {
		perms, ok, err := underlyingRolePermissions(active, roleId)
		if err != nil {
			return nil, err
		}
		if !ok {
			perms = role.Permissions
		}
		data.Roles[roleId] = perms
	}

	raw, err := bson.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode quick lock data: %w", err)
	}
	return raw, nil
}

func (QuickLock) Shareable(data bson.Raw) (*SharedState, error) {
	var decoded quickLockData
	if err := bson.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode quick lock data: %w", err)
	}
	return &SharedState{
		RolePermissions:   decoded.Roles,
		ChannelOverwrites: make(map[string]map[string]OverwriteState),
	}, nil
}

func (m QuickLock) Create(ctx context.Context, dir directory.Directory, snapshot *directory.Community, critical map[string]directory.Role, handles *Handles) (*directory.Community, error) {
	for roleId, role := range critical {
		if handles.IsRoleLocked(roleId, m.Specificity()) {
			continue
		}

		updated, err := dir.EditRole(ctx, snapshot.Id, roleId, role.Permissions.Without(lockedPermissions))
		if fatalDirectoryError(err) {
			return snapshot, fmt.Errorf("failed to lock role %s: %w", roleId, err)
		}
		if err != nil {
			continue
		}
		snapshot.SetRole(*updated)
	}
	return snapshot, nil
}

func (m QuickLock) Revert(ctx context.Context, dir directory.Directory, snapshot *directory.Community, _ map[string]directory.Role, data bson.Raw, handles *Handles) (*directory.Community, error) {
	var decoded quickLockData
	if err := bson.Unmarshal(data, &decoded); err != nil {
		return snapshot, fmt.Errorf("failed to decode quick lock data: %w", err)
	}

	for roleId, perms := range decoded.Roles {
		if handles.IsRoleLocked(roleId, m.Specificity()) {
			continue
		}

		updated, err := dir.EditRole(ctx, snapshot.Id, roleId, perms)
		if fatalDirectoryError(err) {
			return snapshot, fmt.Errorf("failed to restore role %s: %w", roleId, err)
		}
		if err != nil {
			continue
		}
		snapshot.SetRole(*updated)
	}
	return snapshot, nil
}

func (QuickLock) Handles(_ *directory.Community, critical map[string]directory.Role) Handle {
	handle := NewHandle()
	for roleId := range critical {
		handle.Roles[roleId] = struct{}{}
	}
	return handle
}

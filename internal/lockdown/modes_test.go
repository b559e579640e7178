package lockdown

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lockdown-service/internal/directory"
	"testing"
	"time"

	"github.com/google/uuid"
)

const lockableBits = directory.PermissionViewChannels | directory.PermissionSendMessages

func testCommunity() *directory.Community {
	return &directory.Community{
		Id:   "community-1",
		Name: "Test Community",
		Roles: []directory.Role{
			{Id: "everyone", Name: "everyone", Permissions: lockableBits, Default: true},
			{Id: "mods", Name: "Moderators", Permissions: 0},
		},
		Channels: []directory.Channel{
			{Id: "42", Name: "general"},
			{Id: "7", Name: "support"},
		},
	}
}

func criticalFor(snapshot *directory.Community, roleIds ...string) map[string]directory.Role {
	critical := make(map[string]directory.Role)
	for _, id := range roleIds {
		role, ok := snapshot.Role(id)
		if !ok {
			panic("unknown role " + id)
		}
		critical[id] = *role
	}
	return critical
}

func TestSpecificityOrdering(t *testing.T) {
	assert.Greater(t, SingleChannelLock{}.Specificity(), FullLock{}.Specificity())
	assert.Greater(t, FullLock{}.Specificity(), QuickLock{}.Specificity())
}

func TestQuickLock_TestFlagsLeakingRoles(t *testing.T) {
	snapshot := testCommunity()
	snapshot.Roles[1].Permissions = directory.PermissionViewChannels

	result := QuickLock{}.Test(snapshot, criticalFor(snapshot, "everyone"))
	assert.False(t, result.CanApplyPerfectly())

	diff := result.DisplayResult(snapshot)
	assert.Contains(t, diff, "Moderators")
	assert.Contains(t, diff, "View Channels")
}

func TestQuickLock_TestPassesOnCleanLayout(t *testing.T) {
	snapshot := testCommunity()

	result := QuickLock{}.Test(snapshot, criticalFor(snapshot, "everyone"))
	assert.True(t, result.CanApplyPerfectly())
	assert.Empty(t, result.DisplayResult(snapshot))
}

func TestLayoutFreeModesAlwaysApplyPerfectly(t *testing.T) {
	snapshot := testCommunity()
	snapshot.Roles[1].Permissions = lockableBits

	critical := criticalFor(snapshot, "everyone")
	assert.True(t, FullLock{}.Test(snapshot, critical).CanApplyPerfectly())
	assert.True(t, SingleChannelLock{ChannelId: "42"}.Test(snapshot, critical).CanApplyPerfectly())
}

func TestQuickLock_SetupCapturesCurrentPermissions(t *testing.T) {
	snapshot := testCommunity()
	critical := criticalFor(snapshot, "everyone")

	data, err := QuickLock{}.Setup(snapshot, critical, nil)
	require.NoError(t, err)

	shared, err := QuickLock{}.Shareable(data)
	require.NoError(t, err)
	assert.Equal(t, lockableBits, shared.RolePermissions["everyone"])
}

func TestQuickLock_SetupPropagatesUnderlyingState(t *testing.T) {
	snapshot := testCommunity()
	critical := criticalFor(snapshot, "everyone")

	// An older quick lock captured the true original permissions and the
	// role is currently locked.
	original, err := QuickLock{}.Setup(snapshot, critical, nil)
	require.NoError(t, err)
	older := &Lockdown{Id: uuid.New(), CreatedAt: time.Now().Add(-time.Hour), Mode: QuickLock{}, Data: original}

	lockedRole, _ := snapshot.Role("everyone")
	lockedRole.Permissions = 0
	critical = criticalFor(snapshot, "everyone")

	data, err := QuickLock{}.Setup(snapshot, critical, []*Lockdown{older})
	require.NoError(t, err)

	shared, err := QuickLock{}.Shareable(data)
	require.NoError(t, err)
	assert.Equal(t, lockableBits, shared.RolePermissions["everyone"],
		"stacked lockdown must snapshot the pre-lockdown state, not the locked state")
}

func TestSingleChannelLock_SetupPropagatesUnderlyingOverwrite(t *testing.T) {
	snapshot := testCommunity()
	critical := criticalFor(snapshot, "everyone")

	// The older full lock saw channel 42 with no overwrite for everyone.
	fullData, err := FullLock{}.Setup(snapshot, critical, nil)
	require.NoError(t, err)
	older := &Lockdown{Id: uuid.New(), Mode: FullLock{}, Data: fullData}

	// The channel now carries the full lock's deny overwrite.
	channel, _ := snapshot.Channel("42")
	channel.Overwrites = []directory.Overwrite{{RoleId: "everyone", Deny: lockableBits}}

	data, err := SingleChannelLock{ChannelId: "42"}.Setup(snapshot, critical, []*Lockdown{older})
	require.NoError(t, err)

	shared, err := SingleChannelLock{ChannelId: "42"}.Shareable(data)
	require.NoError(t, err)
	state := shared.ChannelOverwrites["42"]["everyone"]
	assert.False(t, state.Existed, "must propagate the pre-lockdown absence of the overwrite")
}

func TestSingleChannelLock_SetupUnknownChannel(t *testing.T) {
	snapshot := testCommunity()

	_, err := SingleChannelLock{ChannelId: "999"}.Setup(snapshot, criticalFor(snapshot, "everyone"), nil)
	assert.ErrorIs(t, err, ErrChannelNotFound)
}

func TestQuickLock_CreateAndRevert(t *testing.T) {
	fake := newFakeDirectory(testCommunity())
	snapshot, _ := fake.GetCommunity(context.Background(), "community-1")
	critical := criticalFor(snapshot, "everyone")

	data, err := QuickLock{}.Setup(snapshot, critical, nil)
	require.NoError(t, err)

	snapshot, err = QuickLock{}.Create(context.Background(), fake, snapshot, critical, NewHandles())
	require.NoError(t, err)

	locked, _ := fake.community.Role("everyone")
	assert.Equal(t, directory.Permissions(0), locked.Permissions&lockableBits)

	_, err = QuickLock{}.Revert(context.Background(), fake, snapshot, critical, data, NewHandles())
	require.NoError(t, err)

	restored, _ := fake.community.Role("everyone")
	assert.Equal(t, lockableBits, restored.Permissions)
}

func TestQuickLock_CreateSkipsOwnedRoles(t *testing.T) {
	fake := newFakeDirectory(testCommunity())
	snapshot, _ := fake.GetCommunity(context.Background(), "community-1")
	critical := criticalFor(snapshot, "everyone")

	handles := NewHandles()
	handles.Add(handleFor([]string{"everyone"}, nil), QuickLock{}.Specificity())

	_, err := QuickLock{}.Create(context.Background(), fake, snapshot, critical, handles)
	require.NoError(t, err)
	assert.Empty(t, fake.editRoleCalls, "an equal-specificity claim owns the role")
}

func TestFullLock_CreateSkipsClaimedChannels(t *testing.T) {
	fake := newFakeDirectory(testCommunity())
	snapshot, _ := fake.GetCommunity(context.Background(), "community-1")
	critical := criticalFor(snapshot, "everyone")

	handles := NewHandles()
	handles.Add(handleFor(nil, []string{"42"}), SingleChannelLock{}.Specificity())

	_, err := FullLock{}.Create(context.Background(), fake, snapshot, critical, handles)
	require.NoError(t, err)

	assert.Equal(t, []string{"7"}, fake.editChannelCalls)

	untouched, _ := fake.community.Channel("42")
	assert.Empty(t, untouched.Overwrites)
	lockedChannel, _ := fake.community.Channel("7")
	overwrite, ok := lockedChannel.Overwrite("everyone")
	require.True(t, ok)
	assert.Equal(t, lockableBits, overwrite.Deny)
}

func TestFullLock_CreateToleratesVanishedChannel(t *testing.T) {
	fake := newFakeDirectory(testCommunity())
	snapshot, _ := fake.GetCommunity(context.Background(), "community-1")
	critical := criticalFor(snapshot, "everyone")

	// Channel 42 disappears between the snapshot and the edit.
	fake.channelEditErrors["42"] = directory.ErrNotFound

	_, err := FullLock{}.Create(context.Background(), fake, snapshot, critical, NewHandles())
	require.NoError(t, err)

	lockedChannel, _ := fake.community.Channel("7")
	_, ok := lockedChannel.Overwrite("everyone")
	assert.True(t, ok, "the loop must continue past a vanished channel")
}

func TestFullLock_CreateAbortsOnFatalError(t *testing.T) {
	fake := newFakeDirectory(testCommunity())
	snapshot, _ := fake.GetCommunity(context.Background(), "community-1")
	critical := criticalFor(snapshot, "everyone")

	fake.channelEditErrors["42"] = assert.AnError
	fake.channelEditErrors["7"] = assert.AnError

	_, err := FullLock{}.Create(context.Background(), fake, snapshot, critical, NewHandles())
	assert.Error(t, err)
}

func TestFullLock_RevertRestoresExistingOverwrite(t *testing.T) {
	community := testCommunity()
	community.Channels[0].Overwrites = []directory.Overwrite{
		{RoleId: "everyone", Allow: directory.PermissionViewChannels},
	}
	fake := newFakeDirectory(community)
	snapshot, _ := fake.GetCommunity(context.Background(), "community-1")
	critical := criticalFor(snapshot, "everyone")

	data, err := FullLock{}.Setup(snapshot, critical, nil)
	require.NoError(t, err)

	// The pre-existing overwrite is left alone; only bare channels get a
	// deny overwrite.
	snapshot, err = FullLock{}.Create(context.Background(), fake, snapshot, critical, NewHandles())
	require.NoError(t, err)
	kept, _ := fake.community.Channel("42")
	overwrite, ok := kept.Overwrite("everyone")
	require.True(t, ok)
	assert.Equal(t, directory.PermissionViewChannels, overwrite.Allow)

	_, err = FullLock{}.Revert(context.Background(), fake, snapshot, critical, data, NewHandles())
	require.NoError(t, err)

	restored, _ := fake.community.Channel("42")
	overwrite, ok = restored.Overwrite("everyone")
	require.True(t, ok)
	assert.Equal(t, directory.PermissionViewChannels, overwrite.Allow)
	assert.Equal(t, directory.Permissions(0), overwrite.Deny)

	bare, _ := fake.community.Channel("7")
	_, ok = bare.Overwrite("everyone")
	assert.False(t, ok, "the added deny overwrite must be removed")
}

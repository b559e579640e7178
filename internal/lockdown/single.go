package lockdown

import (
	"context"
	"fmt"
	"go.mongodb.org/mongo-driver/bson"
	"lockdown-service/internal/directory"
)

// SingleChannelLock locks exactly one channel with a deny overwrite for
// the critical roles. Most specific strategy: it owns its channel against
// any community-wide lockdown.
type SingleChannelLock struct {
	ChannelId string
}

func (SingleChannelLock) Specificity() int { return 2 }

func (m SingleChannelLock) String() string { return singleChannelPrefix + m.ChannelId }

func (SingleChannelLock) Test(_ *directory.Community, _ map[string]directory.Role) TestResult {
	return perfectTestResult{}
}

type singleChannelLockData struct {
	// Overwrites maps critical role id -> pre-lockdown overwrite state on
	// the target channel.
	Overwrites map[string]OverwriteState `bson:"overwrites"`
}

func (m SingleChannelLock) Setup(snapshot *directory.Community, critical map[string]directory.Role, active []*Lockdown) (bson.Raw, error) {
	channel, ok := snapshot.Channel(m.ChannelId)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, m.ChannelId)
	}

	states, err := snapshotChannelStates(channel, critical, active)
	if err != nil {
		return nil, err
	}

	raw, err := bson.Marshal(singleChannelLockData{Overwrites: states})
	if err != nil {
		return nil, fmt.Errorf("failed to encode single-channel lock data: %w", err)
	}
	return raw, nil
}

func (m SingleChannelLock) Shareable(data bson.Raw) (*SharedState, error) {
	var decoded singleChannelLockData
	if err := bson.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode single-channel lock data: %w", err)
	}
	return &SharedState{
		RolePermissions:   make(map[string]directory.Permissions),
		ChannelOverwrites: map[string]map[string]OverwriteState{m.ChannelId: decoded.Overwrites},
	}, nil
}

func (m SingleChannelLock) Create(ctx context.Context, dir directory.Directory, snapshot *directory.Community, critical map[string]directory.Role, handles *Handles) (*directory.Community, error) {
	if handles.IsChannelLocked(m.ChannelId, m.Specificity()) {
		return snapshot, nil
	}

	channel, ok := snapshot.Channel(m.ChannelId)
	if !ok {
		return snapshot, nil
	}

	_, err := lockChannel(ctx, dir, snapshot, *channel, critical)
	if fatalDirectoryError(err) {
		return snapshot, fmt.Errorf("failed to lock channel %s: %w", m.ChannelId, err)
	}
	return snapshot, nil
}

func (m SingleChannelLock) Revert(ctx context.Context, dir directory.Directory, snapshot *directory.Community, _ map[string]directory.Role, data bson.Raw, handles *Handles) (*directory.Community, error) {
	var decoded singleChannelLockData
	if err := bson.Unmarshal(data, &decoded); err != nil {
		return snapshot, fmt.Errorf("failed to decode single-channel lock data: %w", err)
	}

	if handles.IsChannelLocked(m.ChannelId, m.Specificity()) {
		return snapshot, nil
	}

	channel, ok := snapshot.Channel(m.ChannelId)
	if !ok {
		return snapshot, nil
	}

	err := unlockChannel(ctx, dir, snapshot, *channel, decoded.Overwrites)
	if fatalDirectoryError(err) {
		return snapshot, fmt.Errorf("failed to restore channel %s: %w", m.ChannelId, err)
	}
	return snapshot, nil
}

func (m SingleChannelLock) Handles(_ *directory.Community, _ map[string]directory.Role) Handle {
	handle := NewHandle()
	handle.Channels[m.ChannelId] = struct{}{}
	return handle
}

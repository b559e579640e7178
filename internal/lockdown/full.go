package lockdown

import (
	"context"
	"fmt"
	"go.mongodb.org/mongo-driver/bson"
	"lockdown-service/internal/directory"
)

// FullLock locks every channel individually with a deny overwrite for the
// critical roles. Heavier than a quick lock (one edit per channel) but
// immune to leaky role layouts.
type FullLock struct{}

func (FullLock) Specificity() int { return 1 }

func (FullLock) String() string { return "fl" }

func (FullLock) Test(_ *directory.Community, _ map[string]directory.Role) TestResult {
	// Per-channel overwrites do not depend on the role layout.
	return perfectTestResult{}
}

type fullLockData struct {
	// Channels maps channel id -> critical role id -> pre-lockdown
	// overwrite state.
	Channels map[string]map[string]OverwriteState `bson:"channels"`
}

func (FullLock) Setup(snapshot *directory.Community, critical map[string]directory.Role, active []*Lockdown) (bson.Raw, error) {
	data := fullLockData{Channels: make(map[string]map[string]OverwriteState, len(snapshot.Channels))}
	for i := range snapshot.Channels {
		channel := &snapshot.Channels[i]
		states, err := snapshotChannelStates(channel, critical, active)
		if err != nil {
			return nil, err
		}
		data.Channels[channel.Id] = states
	}

	raw, err := bson.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode full lock data: %w", err)
	}
	return raw, nil
}

func (FullLock) Shareable(data bson.Raw) (*SharedState, error) {
	var decoded fullLockData
	if err := bson.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode full lock data: %w", err)
	}
	return &SharedState{
		RolePermissions:   make(map[string]directory.Permissions),
		ChannelOverwrites: decoded.Channels,
	}, nil
}

func (m FullLock) Create(ctx context.Context, dir directory.Directory, snapshot *directory.Community, critical map[string]directory.Role, handles *Handles) (*directory.Community, error) {
	for _, channel := range snapshot.Channels {
		if handles.IsChannelLocked(channel.Id, m.Specificity()) {
			continue
		}

		_, err := lockChannel(ctx, dir, snapshot, channel, critical)
		if fatalDirectoryError(err) {
			return snapshot, fmt.Errorf("failed to lock channel %s: %w", channel.Id, err)
		}
	}
	return snapshot, nil
}

func (m FullLock) Revert(ctx context.Context, dir directory.Directory, snapshot *directory.Community, _ map[string]directory.Role, data bson.Raw, handles *Handles) (*directory.Community, error) {
	var decoded fullLockData
	if err := bson.Unmarshal(data, &decoded); err != nil {
		return snapshot, fmt.Errorf("failed to decode full lock data: %w", err)
	}

	for channelId, states := range decoded.Channels {
		if handles.IsChannelLocked(channelId, m.Specificity()) {
			continue
		}

		channel, ok := snapshot.Channel(channelId)
		if !ok {
			// Deleted since the lockdown was applied.
			continue
		}

		err := unlockChannel(ctx, dir, snapshot, *channel, states)
		if fatalDirectoryError(err) {
			return snapshot, fmt.Errorf("failed to restore channel %s: %w", channelId, err)
		}
	}
	return snapshot, nil
}

func (FullLock) Handles(snapshot *directory.Community, _ map[string]directory.Role) Handle {
	handle := NewHandle()
	for _, channel := range snapshot.Channels {
		handle.Channels[channel.Id] = struct{}{}
	}
	return handle
}

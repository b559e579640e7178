package lockdown

import (
	"context"
	"fmt"
	"lockdown-service/internal/directory"
)

// fakeDirectory is a stateful in-memory directory. Edits mutate the stored
// community, so revert paths observe what earlier creates did.
type fakeDirectory struct {
	community *directory.Community

	roleEditErrors    map[string]error
	channelEditErrors map[string]error

	editRoleCalls    []string
	editChannelCalls []string
}

func newFakeDirectory(community *directory.Community) *fakeDirectory {
	return &fakeDirectory{
		community:         community,
		roleEditErrors:    make(map[string]error),
		channelEditErrors: make(map[string]error),
	}
}

func copyCommunity(c *directory.Community) *directory.Community {
	out := &directory.Community{Id: c.Id, Name: c.Name}
	out.Roles = append(out.Roles, c.Roles...)
	for _, channel := range c.Channels {
		copied := directory.Channel{Id: channel.Id, Name: channel.Name}
		copied.Overwrites = append(copied.Overwrites, channel.Overwrites...)
		out.Channels = append(out.Channels, copied)
	}
	return out
}

func (f *fakeDirectory) GetCommunity(_ context.Context, communityId string) (*directory.Community, error) {
	if communityId != f.community.Id {
		return nil, fmt.Errorf("community %s: %w", communityId, directory.ErrNotFound)
	}
	return copyCommunity(f.community), nil
}

func (f *fakeDirectory) GetChannels(_ context.Context, communityId string) ([]directory.Channel, error) {
	if communityId != f.community.Id {
		return nil, fmt.Errorf("community %s: %w", communityId, directory.ErrNotFound)
	}
	return copyCommunity(f.community).Channels, nil
}

func (f *fakeDirectory) EditRole(_ context.Context, _ string, roleId string, permissions directory.Permissions) (*directory.Role, error) {
	f.editRoleCalls = append(f.editRoleCalls, roleId)
	if err, ok := f.roleEditErrors[roleId]; ok {
		return nil, err
	}

	role, ok := f.community.Role(roleId)
	if !ok {
		return nil, fmt.Errorf("role %s: %w", roleId, directory.ErrNotFound)
	}
	role.Permissions = permissions
	updated := *role
	return &updated, nil
}

func (f *fakeDirectory) EditChannelOverwrites(_ context.Context, channelId string, overwrites []directory.Overwrite) (*directory.Channel, error) {
	f.editChannelCalls = append(f.editChannelCalls, channelId)
	if err, ok := f.channelEditErrors[channelId]; ok {
		return nil, err
	}

	channel, ok := f.community.Channel(channelId)
	if !ok {
		return nil, fmt.Errorf("channel %s: %w", channelId, directory.ErrNotFound)
	}
	channel.Overwrites = append([]directory.Overwrite(nil), overwrites...)
	updated := *channel
	return &updated, nil
}

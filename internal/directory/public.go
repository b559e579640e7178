package directory

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the directory reports that a community,
// role or channel no longer exists. Callers iterating over many resources
// treat it as skip-and-continue; every other directory error is fatal for
// the current operation.
var ErrNotFound = errors.New("resource not found")

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Directory reads and mutates community state (roles, channels, permission
// overwrites). It is the only transport the lockdown engine talks to.
type Directory interface {
	GetCommunity(ctx context.Context, communityId string) (*Community, error)
	GetChannels(ctx context.Context, communityId string) ([]Channel, error)
	EditRole(ctx context.Context, communityId string, roleId string, permissions Permissions) (*Role, error)
	EditChannelOverwrites(ctx context.Context, channelId string, overwrites []Overwrite) (*Channel, error)
}

package directory

// Permissions is a bitfield of community permissions. Only the bits the
// lockdown engine manipulates are named here; everything else passes
// through untouched.
type Permissions uint64

const (
	PermissionViewChannels Permissions = 1 << 10
	PermissionSendMessages Permissions = 1 << 11
)

func (p Permissions) Has(flag Permissions) bool {
	return p&flag == flag
}

func (p Permissions) HasAny(flags Permissions) bool {
	return p&flags != 0
}

func (p Permissions) With(flags Permissions) Permissions {
	return p | flags
}

func (p Permissions) Without(flags Permissions) Permissions {
	return p &^ flags
}

// Community is a point-in-time snapshot of one community's roles and
// channels. Mutating directory calls return updated objects which are
// folded back into the snapshot by the caller.
type Community struct {
	Id       string    `json:"id"`
	Name     string    `json:"name"`
	Roles    []Role    `json:"roles"`
	Channels []Channel `json:"channels"`
}

type Role struct {
	Id          string      `json:"id"`
	Name        string      `json:"name"`
	Permissions Permissions `json:"permissions,string"`
	// Default marks the everyone-equivalent role every member implicitly holds.
	Default bool `json:"default"`
}

type Channel struct {
	Id         string      `json:"id"`
	Name       string      `json:"name"`
	Overwrites []Overwrite `json:"overwrites"`
}

// Overwrite is a per-channel permission override for one role.
type Overwrite struct {
	RoleId string      `json:"roleId"`
	Allow  Permissions `json:"allow,string"`
	Deny   Permissions `json:"deny,string"`
}

// Role returns the role with the given id, if present.
func (c *Community) Role(id string) (*Role, bool) {
	for i := range c.Roles {
		if c.Roles[i].Id == id {
			return &c.Roles[i], true
		}
	}
	return nil, false
}

// DefaultRole returns the community's everyone-equivalent role.
func (c *Community) DefaultRole() (*Role, bool) {
	for i := range c.Roles {
		if c.Roles[i].Default {
			return &c.Roles[i], true
		}
	}
	return nil, false
}

// Channel returns the channel with the given id, if present.
func (c *Community) Channel(id string) (*Channel, bool) {
	for i := range c.Channels {
		if c.Channels[i].Id == id {
			return &c.Channels[i], true
		}
	}
	return nil, false
}

// SetRole replaces the stored role with an updated copy returned by the
// directory, or appends it if the snapshot did not contain it.
func (c *Community) SetRole(role Role) {
	for i := range c.Roles {
		if c.Roles[i].Id == role.Id {
			c.Roles[i] = role
			return
		}
	}
	c.Roles = append(c.Roles, role)
}

// SetChannel replaces the stored channel with an updated copy returned by
// the directory, or appends it if the snapshot did not contain it.
func (c *Community) SetChannel(channel Channel) {
	for i := range c.Channels {
		if c.Channels[i].Id == channel.Id {
			c.Channels[i] = channel
			return
		}
	}
	c.Channels = append(c.Channels, channel)
}

// Overwrite returns the channel's overwrite for the given role, if present.
func (ch *Channel) Overwrite(roleId string) (*Overwrite, bool) {
	for i := range ch.Overwrites {
		if ch.Overwrites[i].RoleId == roleId {
			return &ch.Overwrites[i], true
		}
	}
	return nil, false
}

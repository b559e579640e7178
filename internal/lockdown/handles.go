package lockdown

// Handle is the set of resources one lockdown instance claims, whether or
// not it actually mutated them (it may have skipped some because a more
// specific lockdown owned them).
type Handle struct {
	Roles    map[string]struct{}
	Channels map[string]struct{}
}

func NewHandle() Handle {
	return Handle{
		Roles:    make(map[string]struct{}),
		Channels: make(map[string]struct{}),
	}
}

// Handles is the union view of every active lockdown's claims, keyed by
// specificity. It is recomputed on demand and never persisted.
type Handles struct {
	Roles    *PrioritySet[string]
	Channels *PrioritySet[string]
}

func NewHandles() *Handles {
	return &Handles{
		Roles:    NewPrioritySet[string](),
		Channels: NewPrioritySet[string](),
	}
}

func (h *Handles) Add(handle Handle, specificity int) {
	for roleId := range handle.Roles {
		h.Roles.Add(roleId, specificity)
	}
	for channelId := range handle.Channels {
		h.Channels.Add(channelId, specificity)
	}
}

func (h *Handles) Remove(handle Handle, specificity int) {
	for roleId := range handle.Roles {
		h.Roles.Remove(roleId, specificity)
	}
	for channelId := range handle.Channels {
		h.Channels.Remove(channelId, specificity)
	}
}

// IsRoleLocked reports whether another lockdown claims the role at the
// given specificity or higher. Such a claim owns the role: an equal or
// less specific lockdown must not touch it.
func (h *Handles) IsRoleLocked(roleId string, specificity int) bool {
	highest, ok := h.Roles.HighestPriority(roleId)
	return ok && highest >= specificity
}

// IsChannelLocked is IsRoleLocked for channels.
func (h *Handles) IsChannelLocked(channelId string, specificity int) bool {
	highest, ok := h.Channels.HighestPriority(channelId)
	return ok && highest >= specificity
}

package lockdown

import (
	"fmt"
	"strings"
)

const singleChannelPrefix = "scl/"

// ModeFactory parses a full mode identifier string into a Mode. It returns
// false when the string is not a valid identifier for this factory's mode.
type ModeFactory func(s string) (Mode, bool)

type registryEntry struct {
	prefix  string
	factory ModeFactory
}

// Registry maps mode identifier prefixes to factories. It is an explicit
// value constructed once at startup and injected wherever modes are parsed
// or reconstructed from storage.
type Registry struct {
	entries []registryEntry
}

// NewRegistry returns a registry with the built-in modes registered.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register("ql", parseQuickLock)
	r.Register("fl", parseFullLock)
	r.Register(singleChannelPrefix, parseSingleChannelLock)
	return r
}

// Register adds a factory. New modes must use a specificity consistent
// with "more specific wins" relative to the built-ins.
func (r *Registry) Register(prefix string, factory ModeFactory) {
	r.entries = append(r.entries, registryEntry{prefix: prefix, factory: factory})
}

// Parse resolves a mode identifier string, trying each registered factory
// in registration order.
func (r *Registry) Parse(s string) (Mode, error) {
	for _, entry := range r.entries {
		if !strings.HasPrefix(s, entry.prefix) {
			continue
		}
		if mode, ok := entry.factory(s); ok {
			return mode, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func parseQuickLock(s string) (Mode, bool) {
	if s != "ql" {
		return nil, false
	}
	return QuickLock{}, true
}

func parseFullLock(s string) (Mode, bool) {
	if s != "fl" {
		return nil, false
	}
	return FullLock{}, true
}

func parseSingleChannelLock(s string) (Mode, bool) {
	channelId := strings.TrimPrefix(s, singleChannelPrefix)
	if channelId == s || channelId == "" {
		return nil, false
	}
	return SingleChannelLock{ChannelId: channelId}, true
}

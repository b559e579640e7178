package lockdown

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestRegistry_RoundTrip(t *testing.T) {
	registry := NewRegistry()

	for _, mode := range []Mode{QuickLock{}, FullLock{}, SingleChannelLock{ChannelId: "123"}} {
		t.Run(mode.String(), func(t *testing.T) {
			parsed, err := registry.Parse(mode.String())
			assert.NoError(t, err)
			assert.Equal(t, mode, parsed)
			assert.Equal(t, mode.String(), parsed.String())
		})
	}
}

func TestRegistry_UnknownMode(t *testing.T) {
	registry := NewRegistry()

	for _, s := range []string{"", "nuke", "qlx", "scl/", "scl"} {
		t.Run(s, func(t *testing.T) {
			_, err := registry.Parse(s)
			assert.ErrorIs(t, err, ErrUnknownMode)
		})
	}
}

func TestRegistry_CustomMode(t *testing.T) {
	registry := NewRegistry()
	registry.Register("custom", func(s string) (Mode, bool) {
		if s != "custom" {
			return nil, false
		}
		return FullLock{}, true
	})

	parsed, err := registry.Parse("custom")
	assert.NoError(t, err)
	assert.Equal(t, FullLock{}, parsed)
}

package lockdown

import (
	"errors"
	"fmt"
	"lockdown-service/internal/directory"
)

var (
	// ErrUnknownMode is returned when no registered factory recognises a
	// mode identifier string.
	ErrUnknownMode = errors.New("unknown lockdown mode")

	// ErrChannelNotFound is returned when a single-channel lockdown names
	// a channel the community does not have.
	ErrChannelNotFound = errors.New("channel not found")

	// ErrIndexOutOfBounds is returned when a removal index does not match
	// an active lockdown.
	ErrIndexOutOfBounds = errors.New("no lockdown at that index")

	// ErrNoDefaultRole is returned when the critical-role fallback cannot
	// find an everyone-equivalent role in the snapshot.
	ErrNoDefaultRole = errors.New("community has no default role")
)

// TestFailedError is returned by Apply when the community's layout keeps
// the mode from applying perfectly and the settings require a clean test.
// Diff is a rendered markdown description for the command layer.
type TestFailedError struct {
	Mode Mode
	Diff string
}

func (e *TestFailedError) Error() string {
	return fmt.Sprintf("%s lockdown cannot be applied cleanly:\n%s", e.Mode, e.Diff)
}

// fatalDirectoryError reports whether a directory failure must abort the
// current operation. A vanished resource is tolerated inside per-resource
// loops; everything else is fatal.
func fatalDirectoryError(err error) bool {
	return err != nil && !directory.IsNotFound(err)
}

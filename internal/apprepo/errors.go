package apprepo

import (
	"errors"
	"fmt"

	"appstore/internal/settings"
)

// ErrInvalidArgument reports a missing or empty argument. It is the same
// value the settings store returns, so either source matches errors.Is.
var ErrInvalidArgument = settings.ErrInvalidArgument

var ErrNoMirror = errors.New("no local mirror of the app repository, run update first")
var ErrNetwork = errors.New("remote operation failed")
var ErrTimeout = fmt.Errorf("%w: timed out", ErrNetwork)
var ErrUnknownBranch = errors.New("unknown branch")

package efficiency

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidTable   = errors.New("invalid efficiency table")
	ErrUnknownVariant = errors.New("unknown efficiency variant")
)

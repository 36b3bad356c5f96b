package metric

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnknownMetric = errors.New("unknown metric")
)

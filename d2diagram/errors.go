package d2diagram

import "errors"

// ErrInvalidZoom is returned for zoom levels and zoom minimums that are not greater than zero.
var ErrInvalidZoom = errors.New("zoom must be greater than zero")

var errBehaviorRegistered = errors.New("behavior already registered")

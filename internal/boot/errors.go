package boot

import "errors"

// ErrInvalidValue reports a boot ROM image of an unrecognized length.
var ErrInvalidValue = errors.New("boot: invalid value")

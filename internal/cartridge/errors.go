package cartridge

import "errors"

// Sentinel errors, analogous to a closed error enum: callers use errors.Is
// to classify a failure without depending on its exact wrapped message.
var (
	// ErrIo wraps failures loading, resizing or writing through to the
	// battery-backed RAM sink.
	ErrIo = errors.New("cartridge: io error")
	// ErrInvalidValue reports malformed input: bad header fields, an image
	// too small to hold a header, an out-of-range bank write.
	ErrInvalidValue = errors.New("cartridge: invalid value")
	// ErrUTF8 reports a header string field that is not valid UTF-8.
	ErrUTF8 = errors.New("cartridge: invalid utf8")
	// ErrInvalidState reports a cartridge that cannot be constructed in
	// its current configuration (e.g. a battery-backed type loaded without
	// a save sink).
	ErrInvalidState = errors.New("cartridge: invalid state")
)

package stego

import "errors"

var (
	// ErrCapacityExceeded signals the framed payload needs more LSBs than the carrier has
	ErrCapacityExceeded = errors.New("stego: capacity exceeded")
	// ErrTruncatedFrame signals the declared payload length runs past the available bits
	ErrTruncatedFrame = errors.New("stego: truncated frame")
	// ErrInvalidChannelCount signals channels is zero or more than the pixel carries
	ErrInvalidChannelCount = errors.New("stego: invalid channel count")
	// ErrPayloadTooLarge signals a payload whose length cannot be held by the 32-bit prefix
	ErrPayloadTooLarge = errors.New("stego: payload too large")
	// ErrInvalidGrid signals a nil or inconsistently sized pixel grid
	ErrInvalidGrid = errors.New("stego: invalid grid")
)

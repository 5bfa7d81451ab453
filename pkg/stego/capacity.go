package stego

import (
	"fmt"
	"math"
)

// SetLSB returns v with its lowest bit replaced by bit
func SetLSB(v uint8, bit uint8) uint8 {
	return (v & 0xFE) | (bit & 1)
}

// LSB returns the lowest bit of v
func LSB(v uint8) uint8 {
	return v & 1
}

// CheckChannels validates the grid and that 1 <= channels <= g.Channels
func CheckChannels(g *Grid, channels int) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if channels < 1 || channels > g.Channels {
		return fmt.Errorf("%w: %d, pixel has %d", ErrInvalidChannelCount, channels, g.Channels)
	}
	return nil
}

// Capacity returns the number of LSBs available: Width*Height*channels
func Capacity(g *Grid, channels int) int {
	return g.NumPixels() * channels
}

// MaxPayload returns the largest payload in bytes that fits behind the length prefix
func MaxPayload(g *Grid, channels int) int {
	n := (Capacity(g, channels) - HeaderBits) / 8
	if n < 0 {
		return 0
	}
	return int(min(uint64(n), math.MaxUint32))
}

// Fits reports whether a payload of n bytes fits
func Fits(g *Grid, channels int, n int) bool {
	return FramedLen(n) <= Capacity(g, channels)
}

package stego

import (
	"context"
	"fmt"
)

// RevealPlane renders the LSB plane of the first channels channels as 0 or 255.
// Remaining channels, usually alpha, are copied so the result stays viewable.
func RevealPlane(g *Grid, channels int) (*Grid, error) {
	if err := CheckChannels(g, channels); err != nil {
		return nil, err
	}
	out := g.Clone()
	for p := 0; p < out.NumPixels(); p++ {
		px := out.Pixel(p)
		for c := 0; c < channels; c++ {
			px[c] = LSB(px[c]) * 0xFF
		}
	}
	return out, nil
}

// HeaderLength reads only the 32-bit length prefix.
// It says nothing about whether the frame is complete; Decode checks that.
func HeaderLength(g *Grid, channels int) (uint32, error) {
	if err := CheckChannels(g, channels); err != nil {
		return 0, err
	}
	if Capacity(g, channels) < HeaderBits {
		return 0, fmt.Errorf("%w: capacity %d bits, length prefix needs %d", ErrTruncatedFrame, Capacity(g, channels), HeaderBits)
	}
	// the prefix lives in the first ceil(32/channels) pixels
	pixels := (HeaderBits + channels - 1) / channels
	head := &Grid{Width: pixels, Height: 1, Channels: g.Channels, Pix: g.Pix[:pixels*g.Channels]}
	bits, err := ExtractContext(context.Background(), head, &Options{Channels: channels})
	if err != nil {
		return 0, err
	}
	length, _, err := readHeader(bits)
	return length, err
}

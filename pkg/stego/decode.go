package stego

import (
	"context"
	"log/slog"
)

// Decode extracts the payload embedded in the first channels channels of stego.
// channels must match the value used by Encode.
func Decode(stego *Grid, channels int) ([]byte, error) {
	return DecodeContext(context.Background(), stego, &Options{Channels: channels})
}

// DecodeContext is Decode with options. Truncate is ignored.
func DecodeContext(ctx context.Context, stego *Grid, opts *Options) ([]byte, error) {
	channels := opts.channels()
	if err := CheckChannels(stego, channels); err != nil {
		return nil, err
	}
	bits, err := ExtractContext(ctx, stego, opts)
	if err != nil {
		return nil, err
	}
	length, payload, err := Unframe(bits)
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "extracted payload",
		slog.Int("capacityBits", bits.Len()),
		slog.Uint64("length", uint64(length)),
		slog.Int("channels", channels))
	return payload, nil
}

// ExtractContext reads the LSB of the first channels channels of every pixel in
// raster order. The result always spans the full capacity, since the frame
// length is unknown until the prefix is read.
func ExtractContext(ctx context.Context, g *Grid, opts *Options) (*Bits, error) {
	channels := opts.channels()
	if err := CheckChannels(g, channels); err != nil {
		return nil, err
	}
	capacity := Capacity(g, channels)
	bits := NewBits(capacity)
	bits.Grow(capacity)
	err := forEachBand(ctx, g.NumPixels(), opts.workers(), func(lo, hi int) {
		extract(g, bits, channels, lo, hi)
	})
	if err != nil {
		return nil, err
	}
	return bits, nil
}

func extract(g *Grid, bits *Bits, channels, lo, hi int) {
	for p := lo; p < hi; p++ {
		px := g.Pixel(p)
		for c := 0; c < channels; c++ {
			bits.Set(p*channels+c, LSB(px[c]))
		}
	}
}

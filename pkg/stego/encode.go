package stego

import (
	"context"
	"fmt"
	"log/slog"
)

// Encode embeds payload in the LSBs of the first channels channels of cover.
// cover is not modified. A payload whose frame exceeds the capacity fails with
// ErrCapacityExceeded and no grid.
func Encode(cover *Grid, payload []byte, channels int) (*Grid, error) {
	return EncodeContext(context.Background(), cover, payload, &Options{Channels: channels})
}

// EncodeContext is Encode with options.
// With opts.Truncate the leading bits that fit are embedded and the rest dropped.
func EncodeContext(ctx context.Context, cover *Grid, payload []byte, opts *Options) (*Grid, error) {
	channels := opts.channels()
	if err := CheckChannels(cover, channels); err != nil {
		return nil, err
	}
	bits, err := Frame(payload)
	if err != nil {
		return nil, err
	}

	capacity := Capacity(cover, channels)
	n := bits.Len()
	if n > capacity {
		if !opts.truncate() {
			return nil, fmt.Errorf("%w: need %d bits, have %d", ErrCapacityExceeded, n, capacity)
		}
		slog.WarnContext(ctx, "payload truncated to carrier capacity",
			slog.Int("framedBits", n),
			slog.Int("capacityBits", capacity))
		n = capacity
	}

	out := cover.Clone()
	// only pixels up to the last written bit are touched, the rest stay as cloned
	touched := (n + channels - 1) / channels
	err = forEachBand(ctx, touched, opts.workers(), func(lo, hi int) {
		embed(out, bits, channels, n, lo, hi)
	})
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "embedded payload",
		slog.Int("payloadBytes", len(payload)),
		slog.Int("bits", n),
		slog.Int("pixels", touched),
		slog.Int("channels", channels))
	return out, nil
}

// embed writes bits [lo*channels, min(hi*channels, n)) into pixels [lo, hi)
func embed(g *Grid, bits *Bits, channels, n, lo, hi int) {
	for p := lo; p < hi; p++ {
		px := g.Pixel(p)
		for c := 0; c < channels; c++ {
			i := p*channels + c
			if i >= n {
				return
			}
			px[c] = SetLSB(px[c], bits.At(i))
		}
	}
}

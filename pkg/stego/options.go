package stego

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultChannels is RGBA, matching the command line default
const DefaultChannels = 4

// Options for encoding and decoding
type Options struct {
	Channels int  // leading channels of each pixel that carry bits
	Truncate bool // embed what fits instead of failing with ErrCapacityExceeded
	Workers  int  // concurrent pixel bands, <= 1 runs a single pass
}

func (o *Options) channels() int {
	if o == nil {
		return DefaultChannels
	}
	return o.Channels
}

func (o *Options) truncate() bool {
	return o != nil && o.Truncate
}

func (o *Options) workers() int {
	if o == nil {
		return 1
	}
	return o.Workers
}

// minBandPixels keeps tiny grids on the single pass path
const minBandPixels = 4096

// forEachBand splits [0, pixels) into contiguous bands and runs fn over them.
// Band boundaries are multiples of 8 pixels, so for any channel count each band's
// bit range starts on a byte boundary of a packed Bits.
func forEachBand(ctx context.Context, pixels, workers int, fn func(lo, hi int)) error {
	if workers <= 1 || pixels < 2*minBandPixels {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(0, pixels)
		return nil
	}
	size := (pixels + workers - 1) / workers
	size = max((size+7)&^7, minBandPixels)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for lo := 0; lo < pixels; lo += size {
		hi := min(lo+size, pixels)
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			fn(lo, hi)
			return nil
		})
	}
	return eg.Wait()
}

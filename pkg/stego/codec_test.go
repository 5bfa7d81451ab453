package stego

import (
	"bytes"
	"context"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCover fills a grid with deterministic noise
func newCover(width, height, channels int, seed uint64) *Grid {
	g := NewGrid(width, height, channels)
	rng := rand.New(rand.NewPCG(seed, seed^0x5eed))
	for i := range g.Pix {
		g.Pix[i] = uint8(rng.UintN(256))
	}
	return g
}

func makePayload(n int, seed uint64) []byte {
	rng := rand.New(rand.NewPCG(seed, 7))
	p := make([]byte, n)
	for i := range p {
		p[i] = uint8(rng.UintN(256))
	}
	return p
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	cover := newCover(32, 16, 4, 1) // 512 pixels
	for channels := 1; channels <= 4; channels++ {
		maxLen := MaxPayload(cover, channels)
		for _, n := range []int{0, 1, 7, maxLen / 2, maxLen} {
			payload := makePayload(n, uint64(n))
			stego, err := Encode(cover, payload, channels)
			require.NoError(t, err, "channels=%d len=%d", channels, n)

			got, err := Decode(stego, channels)
			require.NoError(t, err, "channels=%d len=%d", channels, n)
			assert.Equal(t, payload, got, "channels=%d len=%d", channels, n)
		}
	}
}

func TestEncode_CapacityExceeded(t *testing.T) {
	cover := newCover(8, 8, 4, 2)
	for channels := 1; channels <= 4; channels++ {
		payload := make([]byte, MaxPayload(cover, channels)+1)
		out, err := Encode(cover, payload, channels)
		require.ErrorIs(t, err, ErrCapacityExceeded, "channels=%d", channels)
		assert.Nil(t, out)
	}
}

func TestEncode_TinyImageScenario(t *testing.T) {
	// 2x1 RGB: 6 bits of capacity cannot hold a 40 bit frame
	cover := &Grid{Width: 2, Height: 1, Channels: 3, Pix: []uint8{10, 20, 30, 40, 50, 60}}
	out, err := Encode(cover, []byte{0x01}, 3)
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Nil(t, out)
	assert.Equal(t, []uint8{10, 20, 30, 40, 50, 60}, cover.Pix)
}

func TestEncode_TruncatePolicy(t *testing.T) {
	// the six available bits are the leading zero bits of the length prefix
	cover := &Grid{Width: 2, Height: 1, Channels: 3, Pix: []uint8{11, 21, 31, 41, 51, 61}}
	out, err := EncodeContext(context.Background(), cover, []byte{0x01}, &Options{Channels: 3, Truncate: true})
	require.NoError(t, err)
	assert.Equal(t, []uint8{10, 20, 30, 40, 50, 60}, out.Pix)

	// exactly the prefix fits, the payload byte is dropped
	cover = newCover(8, 1, 4, 3)
	out, err = EncodeContext(context.Background(), cover, []byte{0xFF}, &Options{Channels: 4, Truncate: true})
	require.NoError(t, err)
	length, err := HeaderLength(out, 4)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), length)
	_, err = Decode(out, 4)
	assert.ErrorIs(t, err, ErrTruncatedFrame)
}

func TestEncode_TruncateLogsWarning(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	cover := newCover(8, 1, 4, 3)
	_, err := EncodeContext(context.Background(), cover, []byte{0xFF}, &Options{Channels: 4, Truncate: true})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "payload truncated to carrier capacity")
	assert.Contains(t, buf.String(), "framedBits=40")
	assert.Contains(t, buf.String(), "capacityBits=32")

	buf.Reset()
	_, err = EncodeContext(context.Background(), cover, nil, &Options{Channels: 4, Truncate: true})
	require.NoError(t, err)
	assert.Empty(t, buf.String(), "a payload that fits is not truncated")
}

func TestEncode_ChannelIsolation(t *testing.T) {
	cover := newCover(16, 16, 4, 4)
	payload := makePayload(MaxPayload(cover, 3), 4)
	out, err := Encode(cover, payload, 3)
	require.NoError(t, err)

	for p := 0; p < cover.NumPixels(); p++ {
		assert.Equal(t, cover.Pixel(p)[3], out.Pixel(p)[3], "alpha of pixel %d", p)
	}
}

func TestEncode_UpperBitsPreserved(t *testing.T) {
	cover := newCover(16, 16, 4, 5)
	out, err := Encode(cover, makePayload(100, 5), 4)
	require.NoError(t, err)

	require.Len(t, out.Pix, len(cover.Pix))
	for i := range cover.Pix {
		if out.Pix[i]&0xFE != cover.Pix[i]&0xFE {
			t.Fatalf("upper bits changed at %d: %08b -> %08b", i, cover.Pix[i], out.Pix[i])
		}
	}
}

func TestEncode_UntouchedTail(t *testing.T) {
	cover := newCover(16, 16, 4, 6)
	out, err := Encode(cover, []byte("hi"), 4)
	require.NoError(t, err)

	// 48 bits over 4 channels ends at pixel 12
	assert.Equal(t, cover.Pix[12*4:], out.Pix[12*4:])
}

func TestEncode_EmptyPayload(t *testing.T) {
	cover := newCover(4, 4, 4, 7)
	out, err := Encode(cover, nil, 4)
	require.NoError(t, err)

	for i := 0; i < HeaderBits; i++ {
		assert.Equal(t, uint8(0), LSB(out.Pix[i]), "prefix bit %d", i)
	}
	got, err := Decode(out, 4)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEncode_DoesNotMutateCover(t *testing.T) {
	cover := newCover(16, 16, 4, 8)
	before := cover.Clone()
	_, err := Encode(cover, makePayload(64, 8), 4)
	require.NoError(t, err)
	assert.Equal(t, before, cover)
}

func TestEncode_Deterministic(t *testing.T) {
	cover := newCover(16, 16, 3, 9)
	payload := makePayload(50, 9)
	a, err := Encode(cover, payload, 3)
	require.NoError(t, err)
	b, err := Encode(cover, payload, 3)
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestEncodeDecode_Parallel(t *testing.T) {
	cover := newCover(128, 128, 4, 10) // 16384 pixels, four bands
	ctx := context.Background()
	for channels := 1; channels <= 4; channels++ {
		payload := makePayload(MaxPayload(cover, channels), uint64(channels))

		seq, err := Encode(cover, payload, channels)
		require.NoError(t, err)
		par, err := EncodeContext(ctx, cover, payload, &Options{Channels: channels, Workers: 4})
		require.NoError(t, err)
		require.Equal(t, seq.Pix, par.Pix, "channels=%d", channels)

		got, err := DecodeContext(ctx, par, &Options{Channels: channels, Workers: 3})
		require.NoError(t, err)
		assert.Equal(t, payload, got, "channels=%d", channels)
	}
}

func TestEncodeDecode_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cover := newCover(128, 128, 4, 11)

	out, err := EncodeContext(ctx, cover, []byte("x"), &Options{Channels: 4, Workers: 4})
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, out)

	payload, err := DecodeContext(ctx, cover, &Options{Channels: 4})
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, payload)
}

func TestEncodeDecode_InvalidChannelCount(t *testing.T) {
	cover := newCover(4, 4, 3, 12)
	for _, channels := range []int{-1, 0, 4} {
		_, err := Encode(cover, []byte{1}, channels)
		assert.ErrorIs(t, err, ErrInvalidChannelCount, "encode channels=%d", channels)
		_, err = Decode(cover, channels)
		assert.ErrorIs(t, err, ErrInvalidChannelCount, "decode channels=%d", channels)
	}
}

func TestEncodeDecode_InvalidGrid(t *testing.T) {
	_, err := Encode(nil, nil, 4)
	assert.ErrorIs(t, err, ErrInvalidGrid)
	_, err = Decode(&Grid{Width: 2, Height: 2, Channels: 4, Pix: make([]uint8, 3)}, 4)
	assert.ErrorIs(t, err, ErrInvalidGrid)
}

func TestDecode_TruncatedFrame(t *testing.T) {
	// length prefix claims more bytes than the image can carry
	g := NewGrid(16, 1, 4)
	for i := 0; i < HeaderBits; i++ {
		g.Pix[i] = 1
	}
	payload, err := Decode(g, 4)
	require.ErrorIs(t, err, ErrTruncatedFrame)
	assert.Nil(t, payload)
}

func TestDecode_ChannelMismatch(t *testing.T) {
	cover := newCover(32, 32, 4, 13)
	payload := []byte("channel count is out of band")
	out, err := Encode(cover, payload, 4)
	require.NoError(t, err)

	got, err := Decode(out, 3)
	if err == nil {
		assert.NotEqual(t, payload, got)
	}
}

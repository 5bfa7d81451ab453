package stego

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/icza/bitio"
)

// HeaderBits is the width of the big-endian payload length prefix
const HeaderBits = 32

// FramedLen returns the number of bits Frame produces for a payload of n bytes
func FramedLen(n int) int {
	return HeaderBits + 8*n
}

// Frame lays out the payload as length_bits(32) ++ payload_bits(8*len).
// No padding, terminator or checksum is added.
func Frame(payload []byte) (*Bits, error) {
	if uint64(len(payload)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(payload))
	}
	var buf bytes.Buffer
	buf.Grow(HeaderBits/8 + len(payload))
	w := bitio.NewWriter(&buf)
	if err := w.WriteBits(uint64(len(payload)), HeaderBits); err != nil {
		return nil, fmt.Errorf("stego: write length prefix: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return nil, fmt.Errorf("stego: write payload bits: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("stego: flush frame: %w", err)
	}
	return BitsFromBytes(buf.Bytes(), FramedLen(len(payload))), nil
}

// Unframe reads the length prefix and exactly 8*length payload bits.
// Bits past the end of the frame are ignored.
func Unframe(bits *Bits) (uint32, []byte, error) {
	length, r, err := readHeader(bits)
	if err != nil {
		return 0, nil, err
	}
	need := uint64(HeaderBits) + 8*uint64(length)
	if uint64(bits.Len()) < need {
		return 0, nil, fmt.Errorf("%w: length %d needs %d bits, have %d", ErrTruncatedFrame, length, need, bits.Len())
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrTruncatedFrame, err)
	}
	return length, payload, nil
}

// readHeader consumes the length prefix and returns a reader positioned at the payload
func readHeader(bits *Bits) (uint32, *bitio.Reader, error) {
	if bits.Len() < HeaderBits {
		return 0, nil, fmt.Errorf("%w: %d bits, length prefix needs %d", ErrTruncatedFrame, bits.Len(), HeaderBits)
	}
	r := bitio.NewReader(bytes.NewReader(bits.Bytes()))
	v, err := r.ReadBits(HeaderBits)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrTruncatedFrame, err)
	}
	return uint32(v), r, nil
}

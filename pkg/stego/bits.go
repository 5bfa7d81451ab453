package stego

// Bits is a bit sequence packed most-significant bit first.
// It grows by appending and is read by index.
type Bits struct {
	buf []byte
	n   int
}

// NewBits creates an empty sequence with room for capacity bits
func NewBits(capacity int) *Bits {
	return &Bits{buf: make([]byte, 0, (capacity+7)/8)}
}

// BitsFromBytes copies the first n bits of packed data
func BitsFromBytes(data []byte, n int) *Bits {
	n = max(0, min(n, len(data)*8))
	buf := make([]byte, (n+7)/8)
	copy(buf, data)
	if n&7 != 0 {
		buf[len(buf)-1] &= 0xFF << (8 - uint(n&7))
	}
	return &Bits{buf: buf, n: n}
}

// Len returns the number of bits
func (b *Bits) Len() int {
	return b.n
}

// Bytes returns the packed bits; a trailing partial byte is zero padded
func (b *Bits) Bytes() []byte {
	return b.buf[:(b.n+7)/8]
}

// At returns bit i
func (b *Bits) At(i int) uint8 {
	return (b.buf[i>>3] >> (7 - uint(i&7))) & 1
}

// Append adds one bit to the end
func (b *Bits) Append(bit uint8) {
	if b.n>>3 >= len(b.buf) {
		b.buf = append(b.buf, 0)
	}
	b.Set(b.n, bit)
	b.n++
}

// Grow extends the sequence to n zero bits.
// Set may then be used on any index below n.
func (b *Bits) Grow(n int) {
	if n <= b.n {
		return
	}
	used := (b.n + 7) / 8
	if b.n&7 != 0 {
		b.buf[used-1] &= 0xFF << (8 - uint(b.n&7))
	}
	size := (n + 7) / 8
	clear(b.buf[used:min(size, len(b.buf))])
	if size > len(b.buf) {
		b.buf = append(b.buf, make([]byte, size-len(b.buf))...)
	}
	b.n = n
}

// Set overwrites bit i. Callers writing concurrently must own whole bytes.
func (b *Bits) Set(i int, bit uint8) {
	mask := byte(0x80) >> uint(i&7)
	if bit&1 == 1 {
		b.buf[i>>3] |= mask
	} else {
		b.buf[i>>3] &^= mask
	}
}

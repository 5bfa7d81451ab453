// Package stego hides a byte payload in the least-significant bits of 8-bit
// pixel channels and recovers it bit-exact.
//
// Wire format, one bit per (pixel, channel) LSB:
//
//	bit 0..31     payload length, uint32, big-endian
//	bit 32..32+8L payload bytes, most-significant bit first
//
// Channels 0..channels-1 of a pixel are visited before moving on to the next
// pixel, and pixels are visited in raster order. The channel count is not part
// of the format: Encode and Decode callers must agree on it. A mismatch is not
// detectable here and shows up as garbage or ErrTruncatedFrame.
package stego

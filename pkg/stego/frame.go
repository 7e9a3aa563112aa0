package stego

import "encoding/binary"

// HeaderBits is the width of the length header that prefixes every frame.
const HeaderBits = 32

// BuildFrame wraps payload into the on-wire frame: a 32-bit big-endian
// length header followed by the payload bytes, flattened to individual bits
// (most significant bit first within each byte). The returned slice holds
// one bit per element, each either 0 or 1.
func BuildFrame(payload []byte) []byte {
	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, uint32(len(payload)))

	bits := make([]byte, 0, HeaderBits+len(payload)*8)
	bits = appendBits(bits, header)
	bits = appendBits(bits, payload)
	return bits
}

// appendBits appends the bits of data to dst, MSB first within each byte.
func appendBits(dst []byte, data []byte) []byte {
	for _, b := range data {
		for shift := 7; shift >= 0; shift-- {
			dst = append(dst, (b>>uint(shift))&1)
		}
	}
	return dst
}

// BitReader yields the low-order bit of each carrier byte in sequence.
// The traversal order is exactly the order of the carrier slice, which is
// the single ordering contract shared with Embed.
type BitReader struct {
	carrier []byte
	pos     int
}

// NewBitReader returns a reader positioned at the first carrier byte.
func NewBitReader(carrier []byte) *BitReader {
	return &BitReader{carrier: carrier}
}

// Remaining reports how many bits are left to read.
func (r *BitReader) Remaining() int {
	return len(r.carrier) - r.pos
}

// ReadBit returns the LSB of the next carrier byte. ok is false once the
// carrier is exhausted.
func (r *BitReader) ReadBit() (bit byte, ok bool) {
	if r.pos >= len(r.carrier) {
		return 0, false
	}
	bit = r.carrier[r.pos] & 1
	r.pos++
	return bit, true
}

// readByte assembles the next 8 bits into a byte, MSB first.
func (r *BitReader) readByte() (byte, bool) {
	var b byte
	for i := 0; i < 8; i++ {
		bit, ok := r.ReadBit()
		if !ok {
			return 0, false
		}
		b = b<<1 | bit
	}
	return b, true
}

// ParseFrame reads a frame from r: 32 header bits recovering the payload
// length, then exactly that many payload bytes. The header is rejected when
// it promises more bytes than the remaining bits can hold, which is how a
// carrier without an embedded frame is detected. A zero length is valid and
// yields an empty payload.
func ParseFrame(r *BitReader) ([]byte, error) {
	if r.Remaining() < HeaderBits {
		return nil, &FrameError{Reason: "carrier too small for length header"}
	}

	var length uint32
	for i := 0; i < HeaderBits; i++ {
		bit, _ := r.ReadBit()
		length = length<<1 | uint32(bit)
	}

	if int64(length) > int64(r.Remaining()/8) {
		return nil, &FrameError{Reason: "corrupt or absent header"}
	}

	payload := make([]byte, length)
	for i := range payload {
		b, ok := r.readByte()
		if !ok {
			return nil, &FrameError{Reason: "carrier exhausted mid-payload"}
		}
		payload[i] = b
	}
	return payload, nil
}

package stego

// Embed writes each frame bit into the low-order bit of the corresponding
// carrier byte and returns the mutated copy. Carrier bytes past the frame
// are returned bit-for-bit unchanged, and the input slice is never
// modified. Embedding and extraction share one ordering contract: index i
// of the frame always lands in index i of the carrier.
func Embed(carrier []byte, frameBits []byte) ([]byte, error) {
	if len(carrier) == 0 {
		return nil, &InputError{Reason: "empty carrier"}
	}
	if len(frameBits) > len(carrier) {
		needed := 0
		if len(frameBits) > HeaderBits {
			needed = (len(frameBits) - HeaderBits + 7) / 8
		}
		return nil, &CapacityError{
			NeededBytes:    needed,
			AvailableBytes: CapacityBytes(len(carrier)),
		}
	}

	out := make([]byte, len(carrier))
	copy(out, carrier)
	for i, bit := range frameBits {
		out[i] = out[i]&0xFE | bit
	}
	return out, nil
}

// Extract reads back the low-order bit of the first count carrier bytes in
// embedding order.
func Extract(carrier []byte, count int) ([]byte, error) {
	if count > len(carrier) {
		return nil, &InputError{Reason: "bit count exceeds carrier length"}
	}
	bits := make([]byte, count)
	for i := 0; i < count; i++ {
		bits[i] = carrier[i] & 1
	}
	return bits, nil
}

package stego

// CapacityBytes reports the largest payload, in bytes, that a carrier of n
// channel bytes can hold once the 32-bit length header is accounted for.
// Carriers smaller than the header have zero capacity.
func CapacityBytes(n int) int {
	if n < HeaderBits {
		return 0
	}
	return (n - HeaderBits) / 8
}

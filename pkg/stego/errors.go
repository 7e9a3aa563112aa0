package stego

import "fmt"

// CapacityError is returned when a framed payload does not fit into the
// carrier. It is always reported before any carrier byte is touched.
type CapacityError struct {
	NeededBytes    int // payload size after optional encryption
	AvailableBytes int // carrier capacity under the header overhead
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("message of %d bytes exceeds carrier capacity of %d bytes",
		e.NeededBytes, e.AvailableBytes)
}

// FrameError is returned when no valid frame can be recovered from a
// carrier: the length header is missing or inconsistent with the number of
// bits actually available.
type FrameError struct {
	Reason string
}

func (e *FrameError) Error() string {
	return "invalid frame: " + e.Reason
}

// InputError marks a usage error: an empty or undersized carrier handed to
// an operation that cannot possibly succeed on it.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Reason
}

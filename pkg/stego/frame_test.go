package stego

import (
	"bytes"
	"errors"
	"testing"
)

func TestBuildFrameHeaderAndPayloadBits(t *testing.T) {
	bits := BuildFrame([]byte("hi"))

	if len(bits) != 48 {
		t.Fatalf("frame for %q has %d bits, want 48", "hi", len(bits))
	}

	// Header is 2 in 32-bit big-endian: 30 zero bits, then 1, 0.
	for i := 0; i < 30; i++ {
		if bits[i] != 0 {
			t.Fatalf("header bit %d = %d, want 0", i, bits[i])
		}
	}
	if bits[30] != 1 || bits[31] != 0 {
		t.Fatalf("header tail bits = %d,%d, want 1,0", bits[30], bits[31])
	}

	// 'h' = 0x68, 'i' = 0x69, MSB first.
	wantPayload := []byte{
		0, 1, 1, 0, 1, 0, 0, 0,
		0, 1, 1, 0, 1, 0, 0, 1,
	}
	if !bytes.Equal(bits[32:], wantPayload) {
		t.Fatalf("payload bits = %v, want %v", bits[32:], wantPayload)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	payloads := [][]byte{
		nil,
		[]byte("hi"),
		[]byte("a longer message with spaces and punctuation!"),
		{0x00, 0xFF, 0x80, 0x7F, 0x01},
	}

	for _, payload := range payloads {
		bits := BuildFrame(payload)
		carrier := make([]byte, len(bits)+100)
		mutated, err := Embed(carrier, bits)
		if err != nil {
			t.Fatalf("Embed(%d payload bytes): %v", len(payload), err)
		}

		got, err := ParseFrame(NewBitReader(mutated))
		if err != nil {
			t.Fatalf("ParseFrame(%d payload bytes): %v", len(payload), err)
		}
		if !bytes.Equal(got, payload) {
			t.Errorf("round trip of %v = %v", payload, got)
		}
	}
}

func TestParseFrameZeroLength(t *testing.T) {
	carrier := make([]byte, 64)
	got, err := ParseFrame(NewBitReader(carrier))
	if err != nil {
		t.Fatalf("ParseFrame on zero header: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("zero-length frame yielded %d bytes", len(got))
	}
}

func TestParseFrameCorruptHeader(t *testing.T) {
	// All-ones LSBs spell a length far beyond what the carrier can hold.
	carrier := bytes.Repeat([]byte{0xFF}, 100)

	_, err := ParseFrame(NewBitReader(carrier))
	var frameErr *FrameError
	if !errors.As(err, &frameErr) {
		t.Fatalf("ParseFrame on corrupt header: got %v, want FrameError", err)
	}
}

func TestParseFrameCarrierTooSmall(t *testing.T) {
	_, err := ParseFrame(NewBitReader(make([]byte, 10)))
	var frameErr *FrameError
	if !errors.As(err, &frameErr) {
		t.Fatalf("ParseFrame on 10-byte carrier: got %v, want FrameError", err)
	}
}

func TestBitReaderExhaustion(t *testing.T) {
	r := NewBitReader([]byte{0x01, 0x00})
	if r.Remaining() != 2 {
		t.Fatalf("Remaining = %d, want 2", r.Remaining())
	}

	bit, ok := r.ReadBit()
	if !ok || bit != 1 {
		t.Fatalf("first bit = %d,%v, want 1,true", bit, ok)
	}
	bit, ok = r.ReadBit()
	if !ok || bit != 0 {
		t.Fatalf("second bit = %d,%v, want 0,true", bit, ok)
	}
	if _, ok := r.ReadBit(); ok {
		t.Fatal("read past the end succeeded")
	}
}

package stego

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/joemunene-by/stegano/pkg/crypt"
)

// testCodec uses a cheap iteration count so encrypted round trips stay fast.
func testCodec() *Codec {
	return NewCodecWithCrypter(crypt.NewCrypter(1000))
}

// testCarrier builds a deterministic pseudo-natural carrier.
func testCarrier(n int) []byte {
	rng := rand.New(rand.NewSource(42))
	carrier := make([]byte, n)
	for i := range carrier {
		carrier[i] = byte(rng.Intn(256))
	}
	return carrier
}

func TestEncodeDecodePlain(t *testing.T) {
	codec := testCodec()
	carrier := testCarrier(4096)

	messages := []Message{
		Text("hi"),
		Text(""),
		Text("Test message with unicode: 你好, 🌍, café"),
		Text("Line 1\nLine 2\tTabbed\nSpecial: !@#$%^&*()"),
		Bytes([]byte{0x00, 0x01, 0x02, 0xFE, 0xFF}),
	}

	for _, msg := range messages {
		mutated, err := codec.Encode(carrier, msg, "")
		if err != nil {
			t.Fatalf("Encode(%q): %v", msg.Payload(), err)
		}

		got, err := codec.Decode(mutated, "")
		if err != nil {
			t.Fatalf("Decode(%q): %v", msg.Payload(), err)
		}
		if !bytes.Equal(got, msg.Payload()) {
			t.Errorf("round trip of %q = %q", msg.Payload(), got)
		}
	}
}

func TestEncodeDecodeEncrypted(t *testing.T) {
	codec := testCodec()
	carrier := testCarrier(8192)
	message := Text("secret dispatch")

	mutated, err := codec.Encode(carrier, message, "correct horse")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := codec.Decode(mutated, "correct horse")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(got) != "secret dispatch" {
		t.Fatalf("decrypted round trip = %q", got)
	}
}

func TestDecodeWrongPassphrase(t *testing.T) {
	codec := testCodec()
	carrier := testCarrier(8192)

	mutated, err := codec.Encode(carrier, Text("secret"), "right")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := codec.Decode(mutated, "wrong")
	if err == nil {
		t.Fatalf("Decode with wrong passphrase returned %q, want error", got)
	}
	var cryptoErr *crypt.CryptoError
	if !errors.As(err, &cryptoErr) {
		t.Fatalf("Decode with wrong passphrase: got %v, want CryptoError", err)
	}
}

func TestEncodeCapacityBoundary(t *testing.T) {
	codec := testCodec()
	carrier := testCarrier(1000) // capacity = (1000-32)/8 = 121 bytes

	exact := Bytes(bytes.Repeat([]byte{'A'}, 121))
	mutated, err := codec.Encode(carrier, exact, "")
	if err != nil {
		t.Fatalf("Encode at exact capacity: %v", err)
	}
	got, err := codec.Decode(mutated, "")
	if err != nil {
		t.Fatalf("Decode at exact capacity: %v", err)
	}
	if !bytes.Equal(got, exact.Payload()) {
		t.Fatal("round trip at exact capacity corrupted payload")
	}

	over := Bytes(bytes.Repeat([]byte{'A'}, 122))
	_, err = codec.Encode(carrier, over, "")
	var capErr *CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("Encode one byte over capacity: got %v, want CapacityError", err)
	}
	if capErr.NeededBytes != 122 || capErr.AvailableBytes != 121 {
		t.Fatalf("CapacityError = %d/%d, want 122/121", capErr.NeededBytes, capErr.AvailableBytes)
	}
}

func TestEncodeDoesNotMutateInput(t *testing.T) {
	codec := testCodec()
	carrier := testCarrier(2048)
	snapshot := append([]byte(nil), carrier...)

	if _, err := codec.Encode(carrier, Text("message"), ""); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(carrier, snapshot) {
		t.Fatal("Encode mutated its input carrier")
	}
}

func TestEncodeEmptyCarrier(t *testing.T) {
	_, err := testCodec().Encode(nil, Text("hi"), "")
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("Encode on empty carrier: got %v, want InputError", err)
	}
}

func TestEncodeEncryptedEmptyPassphraseIsPlain(t *testing.T) {
	// An empty passphrase means "no encryption", never an encrypted
	// envelope with an empty secret.
	codec := testCodec()
	carrier := testCarrier(2048)

	mutated, err := codec.Encode(carrier, Text("plain"), "")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := codec.Decode(mutated, "")
	if err != nil || string(got) != "plain" {
		t.Fatalf("Decode = %q, %v", got, err)
	}
}

func TestDecodeCarrierBelowHeaderMinimum(t *testing.T) {
	_, err := testCodec().Decode(make([]byte, 16), "")
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("Decode on tiny carrier: got %v, want InputError", err)
	}
}

func TestDecodeNoFrame(t *testing.T) {
	// All-ones LSBs promise an impossible length.
	carrier := bytes.Repeat([]byte{0xFF}, 256)

	_, err := testCodec().Decode(carrier, "")
	var frameErr *FrameError
	if !errors.As(err, &frameErr) {
		t.Fatalf("Decode on frameless carrier: got %v, want FrameError", err)
	}
}

func TestHasMessage(t *testing.T) {
	codec := testCodec()

	carrier := testCarrier(4096)
	mutated, err := codec.Encode(carrier, Text("probe me"), "")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !codec.HasMessage(mutated) {
		t.Error("HasMessage = false on a carrier with an embedded frame")
	}

	if codec.HasMessage(bytes.Repeat([]byte{0xFF}, 256)) {
		t.Error("HasMessage = true on an all-ones carrier")
	}
	if codec.HasMessage(make([]byte, 256)) {
		t.Error("HasMessage = true on an all-zero carrier")
	}
	if codec.HasMessage(make([]byte, 16)) {
		t.Error("HasMessage = true on a carrier below the header minimum")
	}
}

func TestMessageVariants(t *testing.T) {
	if got := Text("héllo").Payload(); string(got) != "héllo" {
		t.Errorf("Text payload = %q", got)
	}
	raw := []byte{0xDE, 0xAD}
	if got := Bytes(raw).Payload(); !bytes.Equal(got, raw) {
		t.Errorf("Bytes payload = %v", got)
	}
	var zero Message
	if len(zero.Payload()) != 0 {
		t.Error("zero Message has a non-empty payload")
	}
}

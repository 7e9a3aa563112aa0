// Package stego implements the core embedding protocol: a length-prefixed
// frame written one bit at a time into the least significant bits of a
// carrier's channel bytes, with optional passphrase encryption of the
// payload. The package is stateless and safe for concurrent use on
// independent carriers.
package stego

import (
	"github.com/joemunene-by/stegano/pkg/crypt"
)

// Message is the payload handed to Encode: either text (UTF-8 encoded
// before framing) or raw bytes. The zero value is an empty byte payload.
type Message struct {
	data []byte
}

// Text builds a message from a string.
func Text(s string) Message {
	return Message{data: []byte(s)}
}

// Bytes builds a message from raw bytes.
func Bytes(b []byte) Message {
	return Message{data: b}
}

// Payload returns the normalized byte form of the message.
func (m Message) Payload() []byte {
	return m.data
}

// Codec ties the frame protocol to a cipher configuration. The default
// codec uses the production PBKDF2 iteration count; tests inject a cheaper
// Crypter instead.
type Codec struct {
	crypter *crypt.Crypter
}

// NewCodec returns a codec with the default cipher configuration.
func NewCodec() *Codec {
	return NewCodecWithCrypter(crypt.NewCrypter(crypt.DefaultIterations))
}

// NewCodecWithCrypter returns a codec using the given crypter.
func NewCodecWithCrypter(c *crypt.Crypter) *Codec {
	return &Codec{crypter: c}
}

// Encode embeds msg into a copy of carrier and returns it. When passphrase
// is non-empty the payload is encrypted first, so the embedded bytes are a
// salt/iv/ciphertext envelope instead of the raw message. The carrier is
// never mutated on failure.
func (c *Codec) Encode(carrier []byte, msg Message, passphrase string) ([]byte, error) {
	if len(carrier) == 0 {
		return nil, &InputError{Reason: "empty carrier"}
	}

	payload := msg.Payload()
	if passphrase != "" {
		var err error
		payload, err = c.crypter.Encrypt(payload, passphrase)
		if err != nil {
			return nil, err
		}
	}

	if len(payload) > CapacityBytes(len(carrier)) {
		return nil, &CapacityError{
			NeededBytes:    len(payload),
			AvailableBytes: CapacityBytes(len(carrier)),
		}
	}

	return Embed(carrier, BuildFrame(payload))
}

// Decode recovers the embedded payload from carrier. When passphrase is
// non-empty the payload is treated as a crypto envelope and decrypted; a
// wrong passphrase surfaces as a crypt.CryptoError, never as garbage bytes.
// Interpreting the result as UTF-8 text is up to the caller.
func (c *Codec) Decode(carrier []byte, passphrase string) ([]byte, error) {
	if len(carrier) < HeaderBits {
		return nil, &InputError{Reason: "carrier smaller than the 32-bit header minimum"}
	}

	payload, err := ParseFrame(NewBitReader(carrier))
	if err != nil {
		return nil, err
	}

	if passphrase != "" {
		return c.crypter.Decrypt(payload, passphrase)
	}
	return payload, nil
}

// HasMessage probes the first header's worth of carrier bits for a
// plausible frame. It is a heuristic: a clean image whose natural low bits
// happen to spell a small in-bounds length will report true, so callers
// must treat the answer as a probabilistic signal, not proof. Zero-valued
// headers are not counted because flat dark carriers produce them for free.
func (c *Codec) HasMessage(carrier []byte) bool {
	if len(carrier) < HeaderBits {
		return false
	}

	r := NewBitReader(carrier)
	var length uint32
	for i := 0; i < HeaderBits; i++ {
		bit, _ := r.ReadBit()
		length = length<<1 | uint32(bit)
	}
	return length > 0 && int64(length) <= int64(CapacityBytes(len(carrier)))
}

// Package crypt provides the passphrase layer of the embedding protocol:
// PBKDF2 key derivation and an AES-256-CBC envelope of the form
// salt || iv || ciphertext.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"io"
	"math/big"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the length of the random salt stored at the front of
	// every envelope.
	SaltSize = 16
	// IVSize is the CBC initialization vector length, equal to the AES
	// block size.
	IVSize = aes.BlockSize
	// KeySize selects AES-256.
	KeySize = 32
	// DefaultIterations is the production PBKDF2 iteration count.
	DefaultIterations = 100000
)

// CryptoError covers every failure of the passphrase layer: misuse (empty
// passphrase), malformed envelopes, and decryption failures. A wrong
// passphrase and corrupted ciphertext are deliberately indistinguishable.
type CryptoError struct {
	Reason string
}

func (e *CryptoError) Error() string {
	return "crypto: " + e.Reason
}

var errDecryptFailed = &CryptoError{Reason: "decryption failed: wrong passphrase or corrupted data"}

// Crypter encrypts and decrypts payloads under a passphrase. The iteration
// count is fixed at construction so tests can substitute a cheap one
// without global state.
type Crypter struct {
	iterations int
}

// NewCrypter returns a Crypter deriving keys with the given PBKDF2
// iteration count.
func NewCrypter(iterations int) *Crypter {
	return &Crypter{iterations: iterations}
}

// DeriveKey stretches passphrase and salt into a 256-bit AES key. The
// result is deterministic for a given (passphrase, salt) pair; keys are
// never cached because every encryption uses a fresh salt anyway.
func (c *Crypter) DeriveKey(passphrase []byte, salt []byte) []byte {
	return pbkdf2.Key(passphrase, salt, c.iterations, KeySize, sha256.New)
}

// Encrypt encrypts plaintext under passphrase and returns the envelope
// salt || iv || ciphertext. Salt and IV are freshly random per call, so
// encrypting the same plaintext twice never yields the same envelope.
func (c *Crypter) Encrypt(plaintext []byte, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, &CryptoError{Reason: "empty passphrase"}
	}

	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, &CryptoError{Reason: "failed to generate salt: " + err.Error()}
	}
	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, &CryptoError{Reason: "failed to generate iv: " + err.Error()}
	}

	block, err := aes.NewCipher(c.DeriveKey([]byte(passphrase), salt))
	if err != nil {
		return nil, &CryptoError{Reason: "cipher init failed: " + err.Error()}
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	envelope := make([]byte, 0, SaltSize+IVSize+len(ciphertext))
	envelope = append(envelope, salt...)
	envelope = append(envelope, iv...)
	envelope = append(envelope, ciphertext...)
	return envelope, nil
}

// Decrypt splits envelope by the fixed offsets (salt, iv, ciphertext),
// re-derives the key and decrypts. Padding validation is the sole
// detection mechanism for a wrong passphrase, and its failure mode never
// reveals which byte differed.
func (c *Crypter) Decrypt(envelope []byte, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, &CryptoError{Reason: "empty passphrase"}
	}
	if len(envelope) < SaltSize+IVSize {
		return nil, &CryptoError{Reason: "envelope shorter than salt and iv"}
	}

	salt := envelope[:SaltSize]
	iv := envelope[SaltSize : SaltSize+IVSize]
	ciphertext := envelope[SaltSize+IVSize:]
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, errDecryptFailed
	}

	block, err := aes.NewCipher(c.DeriveKey([]byte(passphrase), salt))
	if err != nil {
		return nil, &CryptoError{Reason: "cipher init failed: " + err.Error()}
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)
	return pkcs7Unpad(padded, aes.BlockSize)
}

// pkcs7Pad appends 1..blockSize bytes, each holding the pad length.
func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

// pkcs7Unpad validates and strips the padding in constant time over the
// final block, returning a single generic error on any inconsistency.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errDecryptFailed
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, errDecryptFailed
	}
	good := 1
	for i := len(data) - n; i < len(data); i++ {
		good &= subtle.ConstantTimeByteEq(data[i], byte(n))
	}
	if good != 1 {
		return nil, errDecryptFailed
	}
	return data[:len(data)-n], nil
}

// passwordAlphabet matches the generator in the web tooling: mixed-case
// letters, digits and common symbols.
const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*-_=+"

// GeneratePassword returns a random password of the given length drawn
// uniformly from the alphabet above.
func GeneratePassword(length int) (string, error) {
	if length <= 0 {
		return "", &CryptoError{Reason: "password length must be positive"}
	}
	out := make([]byte, length)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", &CryptoError{Reason: "randomness unavailable: " + err.Error()}
		}
		out[i] = passwordAlphabet[idx.Int64()]
	}
	return string(out), nil
}

// Package payload implements the file-payload conventions layered on top
// of the raw byte contract: text files travel as "TEXT_FILE:<content>" and
// binary files as "BINARY_FILE:<name>:<base64>". The core embedding
// packages know nothing about these prefixes.
package payload

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/joemunene-by/stegano/pkg/models"
)

const (
	textFilePrefix   = "TEXT_FILE:"
	binaryFilePrefix = "BINARY_FILE:"
)

// WrapTextFile marks content as a text-file payload.
func WrapTextFile(content []byte) []byte {
	return append([]byte(textFilePrefix), content...)
}

// WrapBinaryFile packs a named binary file into a payload.
func WrapBinaryFile(name string, data []byte) []byte {
	encoded := base64.StdEncoding.EncodeToString(data)
	return []byte(binaryFilePrefix + name + ":" + encoded)
}

// WrapFile picks the text or binary convention based on whether the file
// content is valid UTF-8.
func WrapFile(name string, data []byte) []byte {
	if utf8.Valid(data) {
		return WrapTextFile(data)
	}
	return WrapBinaryFile(name, data)
}

// Classify interprets a decoded payload: a prefixed file payload is
// unpacked, anything else is reported as plain text when it is valid
// UTF-8 and as raw binary otherwise.
func Classify(decoded []byte) (*models.DecodedPayload, error) {
	s := string(decoded)

	switch {
	case strings.HasPrefix(s, textFilePrefix):
		return &models.DecodedPayload{
			Type:    "text_file",
			Message: s[len(textFilePrefix):],
		}, nil

	case strings.HasPrefix(s, binaryFilePrefix):
		rest := s[len(binaryFilePrefix):]
		sep := strings.Index(rest, ":")
		if sep < 0 {
			return nil, fmt.Errorf("malformed binary file payload: missing filename separator")
		}
		name, encoded := rest[:sep], rest[sep+1:]
		if _, err := base64.StdEncoding.DecodeString(encoded); err != nil {
			return nil, fmt.Errorf("malformed binary file payload: %w", err)
		}
		return &models.DecodedPayload{
			Type:     "binary_file",
			Filename: name,
			Data:     encoded,
		}, nil

	case utf8.Valid(decoded):
		return &models.DecodedPayload{Type: "text", Message: s}, nil

	default:
		return &models.DecodedPayload{
			Type: "binary_file",
			Data: base64.StdEncoding.EncodeToString(decoded),
		}, nil
	}
}

// FileData returns the raw bytes of a binary_file payload.
func FileData(p *models.DecodedPayload) ([]byte, error) {
	if p.Type != "binary_file" {
		return nil, fmt.Errorf("payload is not a binary file")
	}
	return base64.StdEncoding.DecodeString(p.Data)
}

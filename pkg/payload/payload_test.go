package payload

import (
	"bytes"
	"testing"
)

func TestTextFileRoundTrip(t *testing.T) {
	wrapped := WrapTextFile([]byte("notes\nwith lines"))

	classified, err := Classify(wrapped)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if classified.Type != "text_file" {
		t.Fatalf("type = %q, want text_file", classified.Type)
	}
	if classified.Message != "notes\nwith lines" {
		t.Fatalf("message = %q", classified.Message)
	}
}

func TestBinaryFileRoundTrip(t *testing.T) {
	raw := []byte{0x00, 0xFF, 0x10, 0x80}
	wrapped := WrapBinaryFile("blob.bin", raw)

	classified, err := Classify(wrapped)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if classified.Type != "binary_file" || classified.Filename != "blob.bin" {
		t.Fatalf("classified = %+v", classified)
	}

	data, err := FileData(classified)
	if err != nil {
		t.Fatalf("FileData: %v", err)
	}
	if !bytes.Equal(data, raw) {
		t.Fatalf("file data = %v, want %v", data, raw)
	}
}

func TestWrapFilePicksConvention(t *testing.T) {
	if got, _ := Classify(WrapFile("a.txt", []byte("plain text"))); got.Type != "text_file" {
		t.Errorf("UTF-8 content wrapped as %q, want text_file", got.Type)
	}
	if got, _ := Classify(WrapFile("a.bin", []byte{0xFF, 0xFE, 0x00})); got.Type != "binary_file" {
		t.Errorf("binary content wrapped as %q, want binary_file", got.Type)
	}
}

func TestClassifyPlainText(t *testing.T) {
	classified, err := Classify([]byte("just a message"))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if classified.Type != "text" || classified.Message != "just a message" {
		t.Fatalf("classified = %+v", classified)
	}
}

func TestClassifyRawBinary(t *testing.T) {
	classified, err := Classify([]byte{0xFF, 0xFE, 0xFD})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if classified.Type != "binary_file" || classified.Data == "" {
		t.Fatalf("classified = %+v", classified)
	}
}

func TestClassifyMalformedBinaryPayload(t *testing.T) {
	if _, err := Classify([]byte("BINARY_FILE:no-separator-or-data")); err == nil {
		t.Fatal("malformed binary payload accepted")
	}
	if _, err := Classify([]byte("BINARY_FILE:name:!!not-base64!!")); err == nil {
		t.Fatal("invalid base64 accepted")
	}
}

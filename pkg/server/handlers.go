// Package server exposes the embedding tool as a REST API, mirroring the
// encode/decode/analyze surfaces of the CLI.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/joemunene-by/stegano/pkg/analysis"
	"github.com/joemunene-by/stegano/pkg/crypt"
	"github.com/joemunene-by/stegano/pkg/imgcodec"
	"github.com/joemunene-by/stegano/pkg/payload"
	"github.com/joemunene-by/stegano/pkg/stego"
)

// MaxUploadSize limits uploaded image size to 16MB, matching the web
// front-end's form limit.
const MaxUploadSize = 16 << 20

// StegoHandler serves the steganography endpoints.
type StegoHandler struct {
	codec *stego.Codec
}

// NewStegoHandler returns a handler with the default codec configuration.
func NewStegoHandler() *StegoHandler {
	return &StegoHandler{codec: stego.NewCodec()}
}

// HealthCheck reports service liveness.
func (h *StegoHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "stegano"})
}

// EncodeMessage embeds a message (or an uploaded payload file) into the
// uploaded cover image and streams back a stego PNG.
func (h *StegoHandler) EncodeMessage(c *gin.Context) {
	carrier, err := h.loadCarrier(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := formPayload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	passphrase := c.PostForm("passphrase")
	mutated, err := h.codec.Encode(carrier.Pix, message, passphrase)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	out, err := carrier.WithPix(mutated)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := imgcodec.Encode(&buf, out, "png"); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="encoded.png"`)
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// DecodeMessage recovers the payload from an uploaded stego image and
// reports it as classified JSON.
func (h *StegoHandler) DecodeMessage(c *gin.Context) {
	carrier, err := h.loadCarrier(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	decoded, err := h.codec.Decode(carrier.Pix, c.PostForm("passphrase"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	classified, err := payload.Classify(decoded)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, classified)
}

// AnalyzeImage returns capacity, the heuristic message probe and LSB
// statistics for an uploaded image.
func (h *StegoHandler) AnalyzeImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no image file provided"})
		return
	}
	defer file.Close()

	carrier, err := imgcodec.Decode(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	report, err := analysis.BuildReport(header.Filename, format, carrier, h.codec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// GeneratePassword returns a fresh random passphrase.
func (h *StegoHandler) GeneratePassword(c *gin.Context) {
	pw, err := crypt.GeneratePassword(32)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"password": pw})
}

// loadCarrier pulls the "image" form file and flattens it.
func (h *StegoHandler) loadCarrier(c *gin.Context) (*imgcodec.Carrier, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadSize)

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		return nil, fmt.Errorf("no image file provided")
	}
	defer file.Close()

	return imgcodec.Decode(file)
}

// formPayload builds the message from either the "message" field or an
// uploaded "payload" file wrapped in the file conventions.
func formPayload(c *gin.Context) (stego.Message, error) {
	if file, header, err := c.Request.FormFile("payload"); err == nil {
		defer file.Close()
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(file); err != nil {
			return stego.Message{}, fmt.Errorf("failed to read payload file: %w", err)
		}
		return stego.Bytes(payload.WrapFile(header.Filename, buf.Bytes())), nil
	}

	message := c.PostForm("message")
	if message == "" {
		return stego.Message{}, fmt.Errorf("message cannot be empty")
	}
	return stego.Text(message), nil
}

// statusFor maps the error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	var capErr *stego.CapacityError
	var frameErr *stego.FrameError
	var inputErr *stego.InputError
	var cryptoErr *crypt.CryptoError

	switch {
	case errors.As(err, &capErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &frameErr):
		return http.StatusNotFound
	case errors.As(err, &inputErr):
		return http.StatusBadRequest
	case errors.As(err, &cryptoErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Package filehandler covers the file plumbing around the codec: format
// detection, size-capped reads, saving results and fetching remote cover
// images.
package filehandler

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MaxFileSize caps how much image data is loaded into memory at once.
const MaxFileSize = 100 * 1024 * 1024

// SupportedImageFormats maps file extensions to format names the codec
// understands.
var SupportedImageFormats = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".gif":  "gif",
	".bmp":  "bmp",
	".tiff": "tiff",
	".tif":  "tiff",
	".webp": "webp",
}

// DetectFileFormat identifies an image file's format, first by extension
// and then by sniffing its content.
func DetectFileFormat(filePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	if format, ok := SupportedImageFormats[ext]; ok {
		return format, nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	buffer := make([]byte, 512)
	if _, err := file.Read(buffer); err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	contentType := http.DetectContentType(buffer)
	switch {
	case strings.Contains(contentType, "image/png"):
		return "png", nil
	case strings.Contains(contentType, "image/jpeg"):
		return "jpeg", nil
	case strings.Contains(contentType, "image/gif"):
		return "gif", nil
	case strings.Contains(contentType, "image/bmp"):
		return "bmp", nil
	case strings.Contains(contentType, "image/tiff"):
		return "tiff", nil
	case strings.Contains(contentType, "image/webp"):
		return "webp", nil
	default:
		return "", fmt.Errorf("unsupported file format: %s", contentType)
	}
}

// ReadFileBytes reads a file into memory, refusing anything over
// MaxFileSize.
func ReadFileBytes(filePath string) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("file too large (max %d bytes)", MaxFileSize)
	}

	content := make([]byte, info.Size())
	if _, err := io.ReadFull(file, content); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return content, nil
}

// SaveFile writes data to filePath, creating parent directories as needed.
func SaveFile(data []byte, filePath string) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// IsURL reports whether path names a remote resource.
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// DownloadFile fetches a remote cover image into a temporary file and
// returns its path.
func DownloadFile(url string) (string, error) {
	tempFilePath := filepath.Join(os.TempDir(),
		fmt.Sprintf("stegano_cover_%d", time.Now().UnixNano()))

	out, err := os.Create(tempFilePath)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer out.Close()

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s", resp.Status)
	}
	if resp.ContentLength > MaxFileSize {
		return "", fmt.Errorf("file too large (max %d bytes)", MaxFileSize)
	}

	if _, err := io.Copy(out, io.LimitReader(resp.Body, MaxFileSize)); err != nil {
		return "", fmt.Errorf("failed to save downloaded file: %w", err)
	}
	return tempFilePath, nil
}

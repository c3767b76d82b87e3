package gateways

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ChecksumSuffix is appended to the archive path for the checksum sidecar
const ChecksumSuffix = ".sha256"

// checksumWriter writes sha256sum-compatible sidecar files
type checksumWriter struct{}

// NewChecksumWriter creates a new checksum writer
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewChecksumWriter() *checksumWriter {
	return &checksumWriter{}
}

// WriteChecksum writes "<sum>  <basename>" to path+".sha256" and returns the sum
func (w *checksumWriter) WriteChecksum(path string) (string, error) {
	sum, err := w.CalculateChecksum(path)
	if err != nil {
		return "", err
	}

	line := fmt.Sprintf("%s  %s\n", sum, filepath.Base(path))
	if err := os.WriteFile(path+ChecksumSuffix, []byte(line), 0600); err != nil {
		return "", fmt.Errorf("failed to write checksum file: %w", err)
	}
	return sum, nil
}

// CalculateChecksum calculates the SHA256 checksum of a file
func (w *checksumWriter) CalculateChecksum(path string) (string, error) {
	//nolint:gosec // G304: path is the archive produced by this run
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

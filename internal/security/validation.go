// Package security provides input hardening helpers for contrastcheck.
package security

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ValidateDocumentPath checks that path names a readable regular file no larger than maxBytes.
// A maxBytes of zero disables the size check.
func ValidateDocumentPath(path string, maxBytes int64) error {
	if path == "" {
		return fmt.Errorf("empty document path")
	}

	info, err := os.Stat(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("document not found: %s", path)
		}
		return fmt.Errorf("failed to stat document: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a document: %s", path)
	}

	if maxBytes > 0 && info.Size() > maxBytes {
		return fmt.Errorf("document is %d bytes, limit is %d", info.Size(), maxBytes)
	}

	return nil
}

// SafeUint8 clamps an int to the uint8 range.
func SafeUint8(val int) uint8 {
	if val < 0 {
		return 0
	}
	if val > 255 {
		return 255
	}
	return uint8(val) // #nosec G115 - bounds checked above
}

// LimitedReader wraps an io.Reader and limits the total bytes that can be read.
// This prevents decompression bomb attacks when reading compressed documents.
type LimitedReader struct {
	R         io.Reader
	Remaining int64
}

// Read implements io.Reader with size limits.
func (l *LimitedReader) Read(p []byte) (int, error) {
	if l.Remaining <= 0 {
		return 0, fmt.Errorf("decompression size limit exceeded")
	}
	if int64(len(p)) > l.Remaining {
		p = p[:l.Remaining]
	}
	n, err := l.R.Read(p)
	l.Remaining -= int64(n)
	return n, err
}

// NewLimitedReader creates a new LimitedReader with the specified size limit.
func NewLimitedReader(r io.Reader, maxBytes int64) *LimitedReader {
	return &LimitedReader{
		R:         r,
		Remaining: maxBytes,
	}
}

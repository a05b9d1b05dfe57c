// Package compression detects and unwraps compressed document streams.
package compression

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/ulikunitz/xz"
)

// Kind is a single-file compression format.
type Kind string

// Supported kinds.
const (
	None  Kind = ""
	XZ    Kind = "xz"
	Gzip  Kind = "gzip"
	Bzip2 Kind = "bzip2"
)

var suffixes = []struct {
	ext  string
	kind Kind
}{
	{".xz", XZ},
	{".gz", Gzip},
	{".bz2", Bzip2},
}

// Detect returns the compression implied by a lower-cased file name and the name
// with that suffix removed.
func Detect(name string) (Kind, string) {
	for _, s := range suffixes {
		if before, ok := strings.CutSuffix(name, s.ext); ok {
			return s.kind, before
		}
	}
	return None, name
}

// Extensions lists the recognised compression suffixes.
func Extensions() []string {
	out := make([]string, len(suffixes))
	for i, s := range suffixes {
		out[i] = s.ext
	}
	return out
}

// NewReader wraps r so reads return decompressed bytes. The returned closer
// releases decoder state only; it does not close r.
func NewReader(r io.Reader, kind Kind) (io.ReadCloser, error) {
	switch kind {
	case None:
		return io.NopCloser(r), nil
	case XZ:
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return io.NopCloser(xzr), nil
	case Gzip:
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gzr, nil
	case Bzip2:
		return io.NopCloser(bzip2.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("unsupported compression: %s", kind)
	}
}

package atlaspack

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Compressor compresses atlas pixels for embedded-data manifests.
//
// Compress must write into dst, which callers allocate with capacity
// Bound(len(src)), and fail rather than grow it.
type Compressor interface {
	// Name identifies the codec in logs.
	Name() string

	// Bound returns the worst-case compressed size for n input bytes.
	Bound(n int) int

	// Compress appends the compressed form of src to dst[:0].
	Compress(dst, src []byte) ([]byte, error)

	// Decompress inflates src, which must expand to exactly rawSize bytes.
	Decompress(src []byte, rawSize int) ([]byte, error)
}

// Unavailable is the default Compressor. Every operation fails with
// ErrCompressionUnavailable.
type Unavailable struct{}

// Name implements Compressor.
func (Unavailable) Name() string { return "unavailable" }

// Bound implements Compressor.
func (Unavailable) Bound(int) int { return 0 }

// Compress implements Compressor.
func (Unavailable) Compress([]byte, []byte) ([]byte, error) {
	return nil, ErrCompressionUnavailable
}

// Decompress implements Compressor.
func (Unavailable) Decompress([]byte, int) ([]byte, error) {
	return nil, ErrCompressionUnavailable
}

// Zlib compresses with a zlib stream (deflate plus header and Adler-32).
type Zlib struct {
	Level int
}

// NewZlib returns a zlib compressor at the default level.
func NewZlib() Zlib {
	return Zlib{Level: zlib.DefaultCompression}
}

// Name implements Compressor.
func (Zlib) Name() string { return "zlib" }

// Bound implements Compressor with zlib's compressBound formula.
func (Zlib) Bound(n int) int {
	return n + n>>12 + n>>14 + n>>25 + 13
}

// Compress implements Compressor.
func (z Zlib) Compress(dst, src []byte) ([]byte, error) {
	out := &boundedBuffer{buf: dst[:0]}
	w, err := zlib.NewWriterLevel(out, z.Level)
	if err != nil {
		return nil, fmt.Errorf("atlaspack: zlib writer: %w", err)
	}
	if _, err := w.Write(src); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return out.buf, nil
}

// Decompress implements Compressor.
func (Zlib) Decompress(src []byte, rawSize int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("atlaspack: zlib reader: %w", err)
	}
	defer func() { _ = r.Close() }()

	out := make([]byte, rawSize)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("atlaspack: inflate: %w", err)
	}
	var extra [1]byte
	n, err := r.Read(extra[:])
	if n != 0 {
		return nil, fmt.Errorf("atlaspack: inflate: data longer than %d bytes", rawSize)
	}
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("atlaspack: inflate: %w", err)
	}
	return out, nil
}

// boundedBuffer is an io.Writer that refuses to grow past the capacity of
// its initial slice.
type boundedBuffer struct {
	buf []byte
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	if len(b.buf)+len(p) > cap(b.buf) {
		return 0, ErrBoundExceeded
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

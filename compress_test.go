package atlaspack

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"testing"
)

func TestUnavailable(t *testing.T) {
	var c Compressor = Unavailable{}
	if _, err := c.Compress(nil, []byte("data")); !errors.Is(err, ErrCompressionUnavailable) {
		t.Errorf("Compress() error = %v, want ErrCompressionUnavailable", err)
	}
	if _, err := c.Decompress([]byte("data"), 4); !errors.Is(err, ErrCompressionUnavailable) {
		t.Errorf("Decompress() error = %v, want ErrCompressionUnavailable", err)
	}
	if c.Bound(100) != 0 {
		t.Errorf("Bound() = %d, want 0", c.Bound(100))
	}
}

func TestZlibRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	noise := make([]byte, 64*1024)
	for i := range noise {
		noise[i] = byte(rng.IntN(256))
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"repetitive", bytes.Repeat([]byte{1, 2, 3, 255}, 4096)},
		{"incompressible", noise},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := NewZlib()
			dst := make([]byte, 0, z.Bound(len(tt.data)))
			packed, err := z.Compress(dst, tt.data)
			if err != nil {
				t.Fatalf("Compress: %v", err)
			}
			if len(packed) > z.Bound(len(tt.data)) {
				t.Errorf("compressed %d bytes, bound %d", len(packed), z.Bound(len(tt.data)))
			}
			raw, err := z.Decompress(packed, len(tt.data))
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if !bytes.Equal(raw, tt.data) {
				t.Error("round trip changed the data")
			}
		})
	}
}

func TestZlibBound(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 13},
		{4096, 4096 + 1 + 13},
		{1 << 16, 1<<16 + 16 + 4 + 13},
	}
	for _, tt := range tests {
		if got := (Zlib{}).Bound(tt.n); got != tt.want {
			t.Errorf("Bound(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestZlibBoundExceeded(t *testing.T) {
	_, err := NewZlib().Compress(make([]byte, 0, 1), []byte("some pixels"))
	if !errors.Is(err, ErrBoundExceeded) {
		t.Errorf("Compress() error = %v, want ErrBoundExceeded", err)
	}
}

func TestZlibDecompressErrors(t *testing.T) {
	z := NewZlib()
	data := bytes.Repeat([]byte("atlas"), 100)
	packed, err := z.Compress(make([]byte, 0, z.Bound(len(data))), data)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	corrupt := bytes.Clone(packed)
	corrupt[len(corrupt)-1] ^= 0xff

	tests := []struct {
		name    string
		src     []byte
		rawSize int
	}{
		{"too short", packed, len(data) + 1},
		{"too long", packed, len(data) - 1},
		{"bad checksum", corrupt, len(data)},
		{"not zlib", []byte("plain text"), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := z.Decompress(tt.src, tt.rawSize); err == nil {
				t.Error("Decompress() succeeded, want error")
			}
		})
	}
}

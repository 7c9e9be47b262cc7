package atlaspack

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gogpu/atlaspack/internal/image"
)

// Limits applied while parsing, so a corrupt length field cannot trigger a
// huge allocation.
const (
	maxNameLen  = 1 << 16
	maxFieldLen = 18
)

// Manifest is a decoded manifest file.
type Manifest struct {
	Atlases []ManifestAtlas
}

// ManifestAtlas is one decoded atlas record.
type ManifestAtlas struct {
	Mode Mode

	// File is the side image name (ModeFile only).
	File string

	// Width and Height are the crop size. In ModeFile they are known only
	// once the side image is loaded.
	Width, Height int

	// Pixels holds the atlas image unless ReadOptions.SkipPixels was set.
	Pixels *image.ImageBuf

	// Packed is the compressed payload (ModeData only).
	Packed []byte

	Entries []Placement
}

// Placements returns every entry of every atlas in order.
func (m *Manifest) Placements() []Placement {
	var out []Placement
	for _, a := range m.Atlases {
		out = append(out, a.Entries...)
	}
	return out
}

// ReadOptions controls manifest decoding.
type ReadOptions struct {
	// Dir is where ModeFile side images are loaded from.
	Dir string

	// Compressor inflates ModeData payloads. Nil means Unavailable.
	Compressor Compressor

	// SkipPixels leaves Pixels nil and skips image loading and inflation.
	SkipPixels bool
}

// LoadManifest reads the manifest at path. An empty opts.Dir defaults to
// the directory of path.
func LoadManifest(path string, opts ReadOptions) (*Manifest, error) {
	if opts.Dir == "" {
		opts.Dir = filepath.Dir(path)
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, &IOError{Op: "open manifest", Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	return ReadManifest(f, opts)
}

// ReadManifest decodes a manifest written by WriteManifest.
//
// Fields are read as decimal text up to a single space; after a length
// field the reader switches to an exact byte count, since names and
// payloads may contain spaces or any other byte.
func ReadManifest(r io.Reader, opts ReadOptions) (*Manifest, error) {
	if opts.Compressor == nil {
		opts.Compressor = Unavailable{}
	}
	mr := &manifestReader{r: bufio.NewReader(r)}
	m := &Manifest{}

	for index := 0; ; index++ {
		marker, err := mr.r.ReadByte()
		if errors.Is(err, io.EOF) {
			return m, nil
		}
		if err != nil {
			return nil, err
		}
		a, err := mr.atlas(index, Mode(marker), opts)
		if err != nil {
			return nil, fmt.Errorf("atlas %d: %w", index, err)
		}
		m.Atlases = append(m.Atlases, *a)
	}
}

type manifestReader struct {
	r *bufio.Reader
}

func (mr *manifestReader) atlas(index int, mode Mode, opts ReadOptions) (*ManifestAtlas, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: marker %q", ErrInvalidMode, byte(mode))
	}
	if err := mr.expectSpace(); err != nil {
		return nil, err
	}

	a := &ManifestAtlas{Mode: mode}
	switch mode {
	case ModeFile:
		name, err := mr.payload(maxNameLen)
		if err != nil {
			return nil, err
		}
		a.File = string(name)
		if !opts.SkipPixels {
			path := filepath.Join(opts.Dir, a.File)
			pix, err := image.LoadPNG(path)
			if err != nil {
				return nil, &IOError{Op: "read atlas image", Path: path, Err: err}
			}
			a.Pixels = pix
			a.Width, a.Height = pix.Width(), pix.Height()
		}

	case ModeData:
		w, err := mr.field()
		if err != nil {
			return nil, err
		}
		h, err := mr.field()
		if err != nil {
			return nil, err
		}
		if w < 1 || h < 1 || w > MaxAtlasSize || h > MaxAtlasSize {
			return nil, fmt.Errorf("%w: atlas size %dx%d", ErrMalformedManifest, w, h)
		}
		a.Width, a.Height = w, h
		raw := w * h * image.BytesPerPixel
		a.Packed, err = mr.payload(max(opts.Compressor.Bound(raw), Zlib{}.Bound(raw)))
		if err != nil {
			return nil, err
		}
		if !opts.SkipPixels {
			pix, err := opts.Compressor.Decompress(a.Packed, raw)
			if err != nil {
				return nil, err
			}
			a.Pixels, err = image.FromRaw(pix, w, h, w*image.BytesPerPixel)
			if err != nil {
				return nil, err
			}
		}
	}

	count, err := mr.field()
	if err != nil {
		return nil, err
	}
	a.Entries = make([]Placement, 0, min(count, 4096))
	for range count {
		name, err := mr.payload(maxNameLen)
		if err != nil {
			return nil, err
		}
		var v [4]int
		for i := range v {
			if v[i], err = mr.field(); err != nil {
				return nil, err
			}
		}
		a.Entries = append(a.Entries, Placement{
			Name:  string(name),
			Atlas: index,
			Rect:  Rect{Left: v[0], Top: v[1], Width: v[2], Height: v[3]},
		})
	}
	return a, nil
}

func (mr *manifestReader) expectSpace() error {
	b, err := mr.r.ReadByte()
	if err != nil {
		return unexpectedEOF(err)
	}
	if b != ' ' {
		return fmt.Errorf("%w: expected space, got %q", ErrMalformedManifest, b)
	}
	return nil
}

// field reads a non-negative decimal terminated by a single space.
func (mr *manifestReader) field() (int, error) {
	v, digits := 0, 0
	for {
		b, err := mr.r.ReadByte()
		if err != nil {
			return 0, unexpectedEOF(err)
		}
		if b == ' ' {
			if digits == 0 {
				return 0, fmt.Errorf("%w: empty number", ErrMalformedManifest)
			}
			return v, nil
		}
		if b < '0' || b > '9' {
			return 0, fmt.Errorf("%w: unexpected byte %q in number", ErrMalformedManifest, b)
		}
		digits++
		if digits > maxFieldLen {
			return 0, fmt.Errorf("%w: number too long", ErrMalformedManifest)
		}
		v = v*10 + int(b-'0')
	}
}

// payload reads a length field followed by exactly that many raw bytes.
func (mr *manifestReader) payload(limit int) ([]byte, error) {
	n, err := mr.field()
	if err != nil {
		return nil, err
	}
	if n > limit {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds %d", ErrMalformedManifest, n, limit)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(mr.r, buf); err != nil {
		return nil, unexpectedEOF(err)
	}
	return buf, nil
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrMalformedManifest, io.ErrUnexpectedEOF)
	}
	return err
}

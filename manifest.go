package atlaspack

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ManifestExt is the file extension of manifests.
const ManifestExt = ".mtpf"

// Mode selects how atlas pixels are stored in a manifest.
type Mode byte

const (
	// ModeFile stores each atlas as a sibling PNG referenced by name.
	ModeFile Mode = 'F'

	// ModeData embeds each atlas as compressed raw RGBA pixels.
	ModeData Mode = 'D'
)

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	return m == ModeFile || m == ModeData
}

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeFile:
		return "file"
	case ModeData:
		return "data"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, byte(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts the
// configuration names ("file", "data") and the manifest markers ("F", "D").
func (m *Mode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "file", "f":
		*m = ModeFile
	case "data", "d":
		*m = ModeData
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, text)
	}
	return nil
}

// ManifestOptions controls manifest encoding.
type ManifestOptions struct {
	Mode Mode

	// Group is appended to side image names: _ta_<index><Group>.png.
	Group string

	// Dir receives side images in ModeFile.
	Dir string

	// Compressor is required in ModeData. Nil means Unavailable.
	Compressor Compressor
}

// AtlasImageName returns the side image file name of atlas index.
func AtlasImageName(index int, group string) string {
	return "_ta_" + strconv.Itoa(index) + group + ".png"
}

// ManifestPath returns the manifest path for a job directory:
// <dir>/<base(dir)>.mtpf.
func ManifestPath(dir string) string {
	return filepath.Join(dir, GroupName(dir)+ManifestExt)
}

// GroupName returns the job name derived from a directory path: its base
// name, resolved against the working directory for relative paths like ".".
func GroupName(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return filepath.Base(dir)
}

func (o *ManifestOptions) check(set *AtlasSet) error {
	if !o.Mode.IsValid() {
		return &ConfigError{Field: "Mode", Reason: fmt.Sprintf("unknown mode %q", byte(o.Mode))}
	}
	if o.Compressor == nil {
		o.Compressor = Unavailable{}
	}
	if o.Mode == ModeData {
		if _, ok := o.Compressor.(Unavailable); ok {
			return ErrCompressionUnavailable
		}
	}
	for _, a := range set.atlases {
		if a.count == 0 {
			return fmt.Errorf("atlas %d: %w", a.index, ErrEmptyAtlas)
		}
	}
	return nil
}

// WriteManifest encodes set to w. In ModeFile the atlas images are saved
// into opts.Dir as a side effect.
//
// Every record is a mode marker followed by decimal fields, each followed
// by a single space. Names and pixel payloads are written raw straight
// after their length field, and the next field follows the payload with no
// separator:
//
//	F <len> <file><count> {<len> <name><left> <top> <width> <height> }
//	D <w> <h> <len> <zlib><count> {<len> <name><left> <top> <width> <height> }
func WriteManifest(w io.Writer, set *AtlasSet, opts ManifestOptions) error {
	_, err := writeManifest(w, set, opts)
	return err
}

// writeManifest returns the side images it created, even on failure, so
// callers can remove them.
func writeManifest(w io.Writer, set *AtlasSet, opts ManifestOptions) ([]string, error) {
	if err := opts.check(set); err != nil {
		return nil, err
	}

	var written []string
	mw := &manifestWriter{w: bufio.NewWriter(w)}
	for _, a := range set.atlases {
		crop, err := a.CropImage()
		if err != nil {
			return written, fmt.Errorf("atlas %d: %w", a.index, err)
		}

		mw.marker(opts.Mode)
		switch opts.Mode {
		case ModeFile:
			name := AtlasImageName(a.index, opts.Group)
			path := filepath.Join(opts.Dir, name)
			if err := crop.SavePNG(path); err != nil {
				return written, &IOError{Op: "write atlas image", Path: path, Err: err}
			}
			written = append(written, path)
			Logger().Info("wrote atlas image", "path", path, "width", crop.Width(), "height", crop.Height())
			mw.payload([]byte(name))

		case ModeData:
			raw := crop.Pix()
			dst := make([]byte, 0, opts.Compressor.Bound(len(raw)))
			packed, err := opts.Compressor.Compress(dst, raw)
			if err != nil {
				return written, fmt.Errorf("atlas %d: %s: %w", a.index, opts.Compressor.Name(), err)
			}
			mw.field(crop.Width())
			mw.field(crop.Height())
			mw.payload(packed)
		}

		mw.field(a.count)
		for i := range a.nodes {
			n := &a.nodes[i]
			if !n.Occupied() {
				continue
			}
			mw.payload([]byte(n.Name))
			mw.field(n.Rect.Left)
			mw.field(n.Rect.Top)
			mw.field(n.Rect.Width)
			mw.field(n.Rect.Height)
		}
	}

	if err := mw.flush(); err != nil {
		return written, err
	}
	return written, nil
}

// manifestWriter records the first write error and ignores later writes.
type manifestWriter struct {
	w   *bufio.Writer
	err error
	num []byte
}

func (mw *manifestWriter) marker(m Mode) {
	if mw.err != nil {
		return
	}
	if mw.err = mw.w.WriteByte(byte(m)); mw.err == nil {
		mw.err = mw.w.WriteByte(' ')
	}
}

func (mw *manifestWriter) field(v int) {
	if mw.err != nil {
		return
	}
	mw.num = strconv.AppendInt(mw.num[:0], int64(v), 10)
	mw.num = append(mw.num, ' ')
	_, mw.err = mw.w.Write(mw.num)
}

func (mw *manifestWriter) payload(b []byte) {
	mw.field(len(b))
	if mw.err != nil {
		return
	}
	_, mw.err = mw.w.Write(b)
}

func (mw *manifestWriter) flush() error {
	if mw.err != nil {
		return mw.err
	}
	return mw.w.Flush()
}

// Serialize writes the manifest for set to path, all or nothing.
//
// The manifest is encoded in memory, written to a temporary file next to
// path and renamed into place. If anything fails, the temporary file and
// every side image written by this call are removed. An empty opts.Dir
// defaults to the directory of path.
func Serialize(set *AtlasSet, path string, opts ManifestOptions) (err error) {
	if opts.Dir == "" {
		opts.Dir = filepath.Dir(path)
	}

	var written []string
	defer func() {
		if err == nil {
			return
		}
		for _, p := range written {
			_ = os.Remove(p)
		}
	}()

	var buf bytes.Buffer
	written, err = writeManifest(&buf, set, opts)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return &IOError{Op: "create manifest", Path: path, Err: err}
	}
	tmpPath := tmp.Name()
	if _, err = tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return &IOError{Op: "write manifest", Path: path, Err: err}
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return &IOError{Op: "write manifest", Path: path, Err: err}
	}
	if err = os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return &IOError{Op: "rename manifest", Path: path, Err: err}
	}

	Logger().Info("wrote manifest",
		"path", path, "mode", opts.Mode.String(), "atlases", set.Len(), "bytes", buf.Len())
	return nil
}

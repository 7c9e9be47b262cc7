// Package scan finds image directories and loads the images inside them.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/atlaspack/internal/image"
)

// AtlasPrefix marks atlas images written by a previous run. They are never
// loaded as input.
const AtlasPrefix = "_ta_"

// ErrNotDirectory is returned when the scan root is not a directory.
var ErrNotDirectory = errors.New("scan: not a directory")

// Image is a loaded input image.
type Image struct {
	Name   string
	Path   string
	Pixels *image.ImageBuf
}

// Dirs returns root, followed by every sub-directory of root when recursive
// is set, in lexical walk order. Hidden directories are skipped.
func Dirs(root string, recursive bool) ([]string, error) {
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}
	if !recursive {
		return []string{root}, nil
	}

	var dirs []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan: walk %s: %w", root, err)
	}
	return dirs, nil
}

// Name returns the image name recorded for a file: its base name in
// Unicode NFC, so names from NFD file systems match the rest.
func Name(path string) string {
	return norm.NFC.String(filepath.Base(path))
}

// LoadImages decodes every image file directly inside dir, sorted by file
// name. Files that are not images, and atlases from a previous run, are
// ignored. A file that fails to decode is reported in the returned error
// but does not stop the others from loading.
func LoadImages(dir string) ([]Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	var (
		images []Image
		errs   []error
	)
	for _, e := range entries {
		if e.IsDir() || !image.IsImageFile(e.Name()) || strings.HasPrefix(e.Name(), AtlasPrefix) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		pix, err := image.LoadImage(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("scan: %s: %w", path, err))
			continue
		}
		images = append(images, Image{Name: Name(path), Path: path, Pixels: pix})
	}
	return images, errors.Join(errs...)
}

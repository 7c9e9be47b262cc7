package atlaspack

import (
	stdimage "image"

	"github.com/gogpu/atlaspack/internal/image"
)

// SourceImage is a decoded image waiting to be packed.
// The packer only reads Pixels; it never modifies or retains them past
// the placement that copies them into an atlas.
type SourceImage struct {
	Name   string
	Pixels *image.ImageBuf
}

// NewSourceImage converts a standard library image into a SourceImage.
func NewSourceImage(name string, img stdimage.Image) (SourceImage, error) {
	buf, err := image.FromStdImage(img)
	if err != nil {
		return SourceImage{}, err
	}
	return SourceImage{Name: name, Pixels: buf}, nil
}

// Size returns the image dimensions. A SourceImage without pixels has
// zero size and can never be placed.
func (s SourceImage) Size() Size {
	if s.Pixels == nil {
		return Size{}
	}
	return Size{W: s.Pixels.Width(), H: s.Pixels.Height()}
}

// Package image provides the pixel buffers used by the atlas packer.
//
// Every buffer holds non-premultiplied 8-bit RGBA pixels (4 bytes per pixel),
// which is both the layout source images are decoded into and the raw layout
// written into embedded-data manifests.
package image

import "errors"

// BytesPerPixel is the size of one RGBA8 pixel.
const BytesPerPixel = 4

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrInvalidStride is returned when stride is less than minimum required.
	ErrInvalidStride = errors.New("image: stride too small for width")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("image: data buffer too small")

	// ErrOutOfBounds is returned when pixel coordinates or a region fall
	// outside image bounds.
	ErrOutOfBounds = errors.New("image: coordinates out of bounds")
)

// ImageBuf is a contiguous RGBA8 pixel buffer with an optional stride.
//
// Thread safety: ImageBuf is safe for concurrent read access. Write operations
// (SetRGBA, Blit, Clear, Fill) require external synchronization.
type ImageBuf struct {
	data   []byte
	width  int
	height int
	stride int
}

// NewImageBuf creates a zeroed (transparent black) buffer.
func NewImageBuf(width, height int) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}

	stride := width * BytesPerPixel
	return &ImageBuf{
		data:   make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
	}, nil
}

// FromRaw creates an ImageBuf from existing data without copying.
// The caller must ensure data remains valid for the lifetime of the ImageBuf.
func FromRaw(data []byte, width, height, stride int) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if stride < width*BytesPerPixel {
		return nil, ErrInvalidStride
	}

	requiredSize := stride*(height-1) + width*BytesPerPixel
	if len(data) < requiredSize {
		return nil, ErrDataTooSmall
	}

	return &ImageBuf{
		data:   data[:requiredSize],
		width:  width,
		height: height,
		stride: stride,
	}, nil
}

// Clone creates a tightly packed deep copy of the buffer.
func (b *ImageBuf) Clone() *ImageBuf {
	out, _ := NewImageBuf(b.width, b.height)
	for y := range b.height {
		copy(out.RowBytes(y), b.RowBytes(y))
	}
	return out
}

// Width returns the image width in pixels.
func (b *ImageBuf) Width() int {
	return b.width
}

// Height returns the image height in pixels.
func (b *ImageBuf) Height() int {
	return b.height
}

// Stride returns the number of bytes per row (including padding).
func (b *ImageBuf) Stride() int {
	return b.stride
}

// Bounds returns the image dimensions as (width, height).
func (b *ImageBuf) Bounds() (int, int) {
	return b.width, b.height
}

// Data returns the raw pixel data slice, stride included.
func (b *ImageBuf) Data() []byte {
	return b.data
}

// Pix returns the pixels as a tightly packed RGBA8 slice of
// width*height*4 bytes. Tightly packed buffers return their own data;
// views with a wider stride are copied.
func (b *ImageBuf) Pix() []byte {
	rowLen := b.width * BytesPerPixel
	if b.stride == rowLen {
		return b.data[:rowLen*b.height]
	}
	out := make([]byte, 0, rowLen*b.height)
	for y := range b.height {
		out = append(out, b.RowBytes(y)...)
	}
	return out
}

// RowBytes returns a slice of the pixel data for row y.
// Returns nil if y is out of bounds.
func (b *ImageBuf) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	return b.data[start : start+b.width*BytesPerPixel]
}

// PixelOffset returns the byte offset of pixel (x, y) in the data slice.
// Returns -1 if coordinates are out of bounds.
func (b *ImageBuf) PixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.stride + x*BytesPerPixel
}

// GetRGBA returns the color at (x, y).
// Returns (0,0,0,0) if coordinates are out of bounds.
func (b *ImageBuf) GetRGBA(x, y int) (r, g, bl, a uint8) {
	off := b.PixelOffset(x, y)
	if off < 0 {
		return 0, 0, 0, 0
	}
	p := b.data[off : off+BytesPerPixel]
	return p[0], p[1], p[2], p[3]
}

// SetRGBA sets the color at (x, y).
// Returns ErrOutOfBounds if coordinates are outside image bounds.
func (b *ImageBuf) SetRGBA(x, y int, r, g, bl, a uint8) error {
	off := b.PixelOffset(x, y)
	if off < 0 {
		return ErrOutOfBounds
	}
	b.data[off] = r
	b.data[off+1] = g
	b.data[off+2] = bl
	b.data[off+3] = a
	return nil
}

// Clear sets all pixels to transparent black.
func (b *ImageBuf) Clear() {
	clear(b.data)
}

// Fill sets all pixels to the given color.
func (b *ImageBuf) Fill(r, g, bl, a uint8) {
	if b.width == 0 || b.height == 0 {
		return
	}
	row := b.RowBytes(0)
	for x := 0; x < len(row); x += BytesPerPixel {
		row[x], row[x+1], row[x+2], row[x+3] = r, g, bl, a
	}
	for y := 1; y < b.height; y++ {
		copy(b.RowBytes(y), row)
	}
}

// Blit copies src into b with its top-left corner at (x, y).
// Pixels are copied verbatim, no blending. The whole source must fit.
func (b *ImageBuf) Blit(src *ImageBuf, x, y int) error {
	if x < 0 || y < 0 || x+src.width > b.width || y+src.height > b.height {
		return ErrOutOfBounds
	}
	off := x * BytesPerPixel
	for row := range src.height {
		dst := b.RowBytes(y + row)
		copy(dst[off:], src.RowBytes(row))
	}
	return nil
}

// SubImage returns a view into a rectangular region of the image.
// The returned ImageBuf shares the underlying data with the original.
// Returns nil if the bounds are invalid or outside the image.
func (b *ImageBuf) SubImage(x, y, width, height int) *ImageBuf {
	if x < 0 || y < 0 || width <= 0 || height <= 0 {
		return nil
	}
	if x+width > b.width || y+height > b.height {
		return nil
	}

	offset := y*b.stride + x*BytesPerPixel
	endOffset := (y+height-1)*b.stride + (x+width)*BytesPerPixel

	return &ImageBuf{
		data:   b.data[offset:endOffset],
		width:  width,
		height: height,
		stride: b.stride,
	}
}

// Crop returns a new, tightly packed copy of the region (x, y, width, height).
func (b *ImageBuf) Crop(x, y, width, height int) (*ImageBuf, error) {
	view := b.SubImage(x, y, width, height)
	if view == nil {
		return nil, ErrOutOfBounds
	}
	return view.Clone(), nil
}

// ByteSize returns the total size of the image data in bytes.
func (b *ImageBuf) ByteSize() int {
	return len(b.data)
}

// IsEmpty returns true if the image has zero dimensions.
func (b *ImageBuf) IsEmpty() bool {
	return b.width == 0 || b.height == 0
}

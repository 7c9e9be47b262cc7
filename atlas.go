package atlaspack

import (
	"fmt"

	"github.com/gogpu/atlaspack/internal/image"
)

// Atlas is a single texture atlas being packed.
//
// The pixel buffer always spans the full maximum size because a placement
// can land anywhere inside it; only the crop region is ever written out.
type Atlas struct {
	index   int
	padding int
	pixels  *image.ImageBuf
	pool    *image.Pool

	// nodes is the occupancy tree arena, root at index 0.
	nodes []Node

	count int
	crop  Size
}

// NewAtlas creates an empty atlas of the given maximum size.
func NewAtlas(width, height, padding int) (*Atlas, error) {
	return newAtlas(0, width, height, padding, nil)
}

// newAtlas creates an atlas whose buffer is taken from pool when non-nil.
func newAtlas(index, width, height, padding int, pool *image.Pool) (*Atlas, error) {
	var (
		pixels *image.ImageBuf
		err    error
	)
	if pool != nil {
		pixels, err = pool.Get(width, height)
	} else {
		pixels, err = image.NewImageBuf(width, height)
	}
	if err != nil {
		return nil, fmt.Errorf("%w (%dx%d): %w", ErrAtlasAllocation, width, height, err)
	}

	a := &Atlas{
		index:   index,
		padding: padding,
		pixels:  pixels,
		pool:    pool,
		nodes:   make([]Node, 1, 64),
	}
	a.nodes[0] = Node{Rect: Rect{Width: width, Height: height}}
	return a, nil
}

// Place tries to insert img. It returns false when no free leaf of the
// tree can hold the image plus padding.
func (a *Atlas) Place(img SourceImage) bool {
	s := img.Size()
	if s.W <= 0 || s.H <= 0 {
		return false
	}
	return a.place(0, img, Size{W: s.W + a.padding, H: s.H + a.padding})
}

// place inserts img into the subtree rooted at index. Free leaves are
// split guillotine style: the strip right of the image becomes the small
// child and everything below it the large child. Internal nodes are
// searched small child first, and the first leaf that fits wins.
func (a *Atlas) place(index int, img SourceImage, padded Size) bool {
	n := a.nodes[index]
	if !n.IsLeaf() {
		if a.place(n.Small, img, padded) {
			return true
		}
		return a.place(n.Large, img, padded)
	}

	if !n.Rect.Fits(padded) {
		return false
	}
	if err := a.pixels.Blit(img.Pixels, n.Rect.Left, n.Rect.Top); err != nil {
		return false
	}

	small := Node{Rect: Rect{
		Left:   n.Rect.Left + padded.W,
		Top:    n.Rect.Top,
		Width:  n.Rect.Width - padded.W,
		Height: padded.H,
	}}
	large := Node{Rect: Rect{
		Left:   n.Rect.Left,
		Top:    n.Rect.Top + padded.H,
		Width:  n.Rect.Width,
		Height: n.Rect.Height - padded.H,
	}}
	a.nodes = append(a.nodes, small, large)

	node := &a.nodes[index]
	node.Small = len(a.nodes) - 2
	node.Large = len(a.nodes) - 1
	node.Name = img.Name
	node.Rect.Width = padded.W - a.padding
	node.Rect.Height = padded.H - a.padding

	a.count++
	a.crop.W = max(a.crop.W, node.Rect.Left+padded.W)
	a.crop.H = max(a.crop.H, node.Rect.Top+padded.H)

	Logger().Debug("placed image",
		"image", img.Name, "atlas", a.index, "x", node.Rect.Left, "y", node.Rect.Top)
	return true
}

// Index returns the atlas position within its set.
func (a *Atlas) Index() int {
	return a.index
}

// MaxSize returns the full size of the atlas buffer.
func (a *Atlas) MaxSize() Size {
	return Size{W: a.nodes[0].Rect.Width, H: a.nodes[0].Rect.Height}
}

// CropSize returns the smallest size containing every placed image and its
// padding. It never shrinks.
func (a *Atlas) CropSize() Size {
	return a.crop
}

// ImageCount returns the number of images placed so far.
func (a *Atlas) ImageCount() int {
	return a.count
}

// Nodes returns a copy of the node arena in creation order.
func (a *Atlas) Nodes() []Node {
	out := make([]Node, len(a.nodes))
	copy(out, a.nodes)
	return out
}

// Placements returns the occupied nodes in arena order.
func (a *Atlas) Placements() []Placement {
	out := make([]Placement, 0, a.count)
	for i := range a.nodes {
		n := &a.nodes[i]
		if n.Occupied() {
			out = append(out, Placement{Name: n.Name, Atlas: a.index, Rect: n.Rect})
		}
	}
	return out
}

// Pixels returns the full-size atlas buffer. Callers must not modify it.
func (a *Atlas) Pixels() *image.ImageBuf {
	return a.pixels
}

// CropImage returns a new buffer holding only the crop region.
func (a *Atlas) CropImage() (*image.ImageBuf, error) {
	if a.crop.W == 0 || a.crop.H == 0 {
		return nil, ErrEmptyAtlas
	}
	if a.pixels == nil {
		return nil, ErrAtlasReleased
	}
	return a.pixels.Crop(0, 0, a.crop.W, a.crop.H)
}

// Utilization returns the fraction of the crop region covered by images.
func (a *Atlas) Utilization() float64 {
	if a.crop.W == 0 || a.crop.H == 0 {
		return 0
	}
	used := 0
	for i := range a.nodes {
		if a.nodes[i].Occupied() {
			used += a.nodes[i].Rect.Width * a.nodes[i].Rect.Height
		}
	}
	return float64(used) / float64(a.crop.W*a.crop.H)
}

// release hands the pixel buffer back to the pool. The atlas must not be
// used for pixel access afterwards.
func (a *Atlas) release() {
	if a.pool != nil && a.pixels != nil {
		a.pool.Put(a.pixels)
	}
	a.pixels = nil
}

package atlaspack

import (
	"github.com/gogpu/atlaspack/internal/image"
)

// AtlasSet is the ordered list of atlases produced by one packing job.
// It starts with a single empty atlas and grows only when an image fits in
// none of the existing ones.
type AtlasSet struct {
	name    string
	cfg     Config
	pool    *image.Pool
	atlases []*Atlas
}

// NewAtlasSet creates a set holding one empty atlas sized by cfg.
func NewAtlasSet(name string, cfg Config) (*AtlasSet, error) {
	return newAtlasSet(name, cfg, nil)
}

func newAtlasSet(name string, cfg Config, pool *image.Pool) (*AtlasSet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &AtlasSet{name: name, cfg: cfg, pool: pool}
	if _, err := s.grow(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *AtlasSet) grow() (*Atlas, error) {
	a, err := newAtlas(len(s.atlases), s.cfg.MaxWidth, s.cfg.MaxHeight, s.cfg.Padding, s.pool)
	if err != nil {
		return nil, err
	}
	s.atlases = append(s.atlases, a)
	return a, nil
}

// Fits reports whether img can be placed in an empty atlas of this set.
func (s *AtlasSet) Fits(img SourceImage) bool {
	sz := img.Size()
	return sz.W > 0 && sz.H > 0 &&
		sz.W+s.cfg.Padding <= s.cfg.MaxWidth &&
		sz.H+s.cfg.Padding <= s.cfg.MaxHeight
}

// Place puts img into exactly one atlas and returns that atlas index.
// Atlases are tried in creation order and the first one that accepts the
// image wins; a new atlas is appended only if all of them reject it.
//
// An image that can never fit yields an *UnplaceableError and leaves the
// set unchanged. Any other error comes from allocating a new atlas.
func (s *AtlasSet) Place(img SourceImage) (int, error) {
	if !s.Fits(img) {
		sz := img.Size()
		return -1, &UnplaceableError{
			Job:       s.name,
			Image:     img.Name,
			Width:     sz.W,
			Height:    sz.H,
			MaxWidth:  s.cfg.MaxWidth,
			MaxHeight: s.cfg.MaxHeight,
		}
	}

	for _, a := range s.atlases {
		if a.Place(img) {
			return a.index, nil
		}
	}

	a, err := s.grow()
	if err != nil {
		return -1, err
	}
	if !a.Place(img) {
		// Unreachable: Fits guarantees an empty atlas accepts the image.
		return -1, &UnplaceableError{Job: s.name, Image: img.Name, Width: img.Size().W, Height: img.Size().H,
			MaxWidth: s.cfg.MaxWidth, MaxHeight: s.cfg.MaxHeight}
	}
	return a.index, nil
}

// Name returns the job name the set was created for.
func (s *AtlasSet) Name() string {
	return s.name
}

// Config returns the configuration the set packs with.
func (s *AtlasSet) Config() Config {
	return s.cfg
}

// Len returns the number of atlases.
func (s *AtlasSet) Len() int {
	return len(s.atlases)
}

// Atlas returns the atlas at index i, or nil if out of range.
func (s *AtlasSet) Atlas(i int) *Atlas {
	if i < 0 || i >= len(s.atlases) {
		return nil
	}
	return s.atlases[i]
}

// Atlases returns the atlases in creation order.
func (s *AtlasSet) Atlases() []*Atlas {
	out := make([]*Atlas, len(s.atlases))
	copy(out, s.atlases)
	return out
}

// ImageCount returns the number of images placed across all atlases.
func (s *AtlasSet) ImageCount() int {
	total := 0
	for _, a := range s.atlases {
		total += a.count
	}
	return total
}

// Placements returns every placement, atlas by atlas.
func (s *AtlasSet) Placements() []Placement {
	var out []Placement
	for _, a := range s.atlases {
		out = append(out, a.Placements()...)
	}
	return out
}

// Release returns pooled pixel buffers. The set's layout stays readable
// but CropImage must not be called afterwards.
func (s *AtlasSet) Release() {
	for _, a := range s.atlases {
		a.release()
	}
}

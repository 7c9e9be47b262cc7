package atlaspack

import (
	"cmp"
	"errors"
	"slices"

	"github.com/gogpu/atlaspack/internal/image"
)

// PackReport summarizes a packing run.
type PackReport struct {
	Job     string
	Placed  int
	Atlases int

	// Unplaceable lists images that were skipped because they cannot fit
	// in an empty atlas, in packing order.
	Unplaceable []*UnplaceableError
}

// Err joins every unplaceable-image error, or returns nil if all images
// were placed.
func (r *PackReport) Err() error {
	if len(r.Unplaceable) == 0 {
		return nil
	}
	errs := make([]error, len(r.Unplaceable))
	for i, e := range r.Unplaceable {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Packer packs image lists into atlas sets. A Packer keeps a pool of atlas
// buffers, so jobs packed one after another with the same Packer reuse
// memory once the previous set has been released.
//
// Packer is not safe for concurrent use by multiple goroutines.
type Packer struct {
	cfg        Config
	pool       *image.Pool
	compressor Compressor
}

// NewPacker creates a packer for the given configuration.
func NewPacker(cfg Config, opts ...PackerOption) (*Packer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := defaultPackerOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Packer{
		cfg:        cfg,
		pool:       image.NewPool(o.poolSize),
		compressor: o.compressor,
	}, nil
}

// Config returns the packer configuration.
func (p *Packer) Config() Config {
	return p.cfg
}

// SortImages returns a copy of images ordered by descending height.
// Images of equal height keep their relative order.
func SortImages(images []SourceImage) []SourceImage {
	sorted := slices.Clone(images)
	slices.SortStableFunc(sorted, func(a, b SourceImage) int {
		return cmp.Compare(b.Size().H, a.Size().H)
	})
	return sorted
}

// Pack places every image into a new AtlasSet. Images are sorted tallest
// first so large images claim space while the atlas is still empty.
//
// Images that can never fit are skipped and listed in the report; packing
// continues with the rest. The returned error is non-nil only when an atlas
// could not be allocated, which leaves no usable set.
func (p *Packer) Pack(job string, images []SourceImage) (*AtlasSet, *PackReport, error) {
	set, err := newAtlasSet(job, p.cfg, p.pool)
	if err != nil {
		return nil, nil, err
	}

	log := jobLogger(job)
	report := &PackReport{Job: job}
	for _, img := range SortImages(images) {
		_, err := set.Place(img)
		var unplaceable *UnplaceableError
		switch {
		case err == nil:
			report.Placed++
		case errors.As(err, &unplaceable):
			log.Warn("image does not fit in an atlas",
				"image", img.Name, "width", unplaceable.Width, "height", unplaceable.Height)
			report.Unplaceable = append(report.Unplaceable, unplaceable)
		default:
			set.Release()
			return nil, nil, err
		}
	}

	report.Atlases = set.Len()
	return set, report, nil
}

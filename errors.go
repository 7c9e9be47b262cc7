package atlaspack

import (
	"errors"
	"fmt"
)

// Sentinel errors for the atlaspack package.
var (
	// ErrCompressionUnavailable is returned when embedded-data output is
	// requested but no compressor was configured.
	ErrCompressionUnavailable = errors.New("atlaspack: compression unavailable, embedded-data mode needs a compressor")

	// ErrBoundExceeded is returned when compressed output does not fit in the
	// destination buffer sized by Compressor.Bound.
	ErrBoundExceeded = errors.New("atlaspack: compressed data exceeds destination bound")

	// ErrAtlasAllocation is returned when an atlas pixel buffer cannot be
	// created at the requested dimensions.
	ErrAtlasAllocation = errors.New("atlaspack: could not create texture atlas")

	// ErrAtlasReleased is returned when pixels are requested from an atlas
	// whose buffer was already returned to the pool.
	ErrAtlasReleased = errors.New("atlaspack: atlas pixels released")

	// ErrEmptyAtlas is returned when serializing an atlas with no placed image.
	ErrEmptyAtlas = errors.New("atlaspack: atlas has no placed images")

	// ErrNothingToPack is returned by a job in which no image could be placed.
	ErrNothingToPack = errors.New("atlaspack: no placeable images")

	// ErrInvalidMode is returned for a manifest mode other than 'F' or 'D'.
	ErrInvalidMode = errors.New("atlaspack: invalid manifest mode")

	// ErrMalformedManifest is returned when a manifest cannot be parsed.
	ErrMalformedManifest = errors.New("atlaspack: malformed manifest")
)

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "atlaspack: invalid config." + e.Field + ": " + e.Reason
}

// UnplaceableError reports an image whose padded size exceeds the maximum
// atlas dimensions. It is recoverable: the image is skipped and packing
// continues.
type UnplaceableError struct {
	Job       string
	Image     string
	Width     int
	Height    int
	MaxWidth  int
	MaxHeight int
}

func (e *UnplaceableError) Error() string {
	return fmt.Sprintf("atlaspack: job %q: image %q (%dx%d plus padding) does not fit in a %dx%d atlas",
		e.Job, e.Image, e.Width, e.Height, e.MaxWidth, e.MaxHeight)
}

// IOError records a failed file operation together with the path involved.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return "atlaspack: " + e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// JobError attaches the job name to an error that aborted the job.
type JobError struct {
	Job string
	Err error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("job %q: %v", e.Job, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

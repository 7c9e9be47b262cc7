package atlaspack

// PackerOption configures a Packer during creation.
// Use functional options to customize Packer behavior.
//
// Example:
//
//	// File-reference manifests, no compression needed
//	p, err := atlaspack.NewPacker(atlaspack.DefaultConfig())
//
//	// Embedded-data manifests (dependency injection of the codec)
//	p, err := atlaspack.NewPacker(cfg, atlaspack.WithCompressor(atlaspack.NewZlib()))
type PackerOption func(*packerOptions)

// packerOptions holds optional configuration for Packer creation.
type packerOptions struct {
	compressor Compressor
	poolSize   int
}

// defaultPackerOptions returns the default packer options.
func defaultPackerOptions() packerOptions {
	return packerOptions{
		compressor: Unavailable{},
		poolSize:   4,
	}
}

// WithCompressor sets the codec used for embedded-data manifests.
// Without it, ModeData jobs fail with ErrCompressionUnavailable.
func WithCompressor(c Compressor) PackerOption {
	return func(o *packerOptions) {
		if c != nil {
			o.compressor = c
		}
	}
}

// WithBufferPool sets how many spare atlas buffers the packer keeps for
// reuse between jobs. Zero disables the limit.
func WithBufferPool(n int) PackerOption {
	return func(o *packerOptions) {
		if n >= 0 {
			o.poolSize = n
		}
	}
}

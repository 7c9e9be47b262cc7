package atlaspack

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/klauspost/compress/zlib"
)

const (
	// DefaultMaxSize is the default atlas width and height. 2048 stays on the
	// safe side of GPU texture size limits.
	DefaultMaxSize = 2048

	// DefaultPadding is the reserved border, in pixels, to the right of and
	// below every placed image. It avoids edge bleeding on GPUs without
	// texture edge clamping.
	DefaultPadding = 1

	// MaxAtlasSize is the largest accepted atlas dimension.
	MaxAtlasSize = 16384
)

// Config holds the packing configuration for a job.
type Config struct {
	// MaxWidth and MaxHeight bound every atlas. Default: 2048x2048
	MaxWidth  int `toml:"max_width"`
	MaxHeight int `toml:"max_height"`

	// Padding reserved around each placed image.
	// Default: 1
	Padding int `toml:"padding"`

	// Mode selects file-reference or embedded-data manifests.
	// Default: ModeFile
	Mode Mode `toml:"mode"`

	// CompressionLevel is the zlib level used in embedded-data mode.
	// Default: zlib.DefaultCompression
	CompressionLevel int `toml:"compression_level"`

	// Recursive packs every sub-directory as its own job.
	Recursive bool `toml:"recursive"`
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		MaxWidth:         DefaultMaxSize,
		MaxHeight:        DefaultMaxSize,
		Padding:          DefaultPadding,
		Mode:             ModeFile,
		CompressionLevel: zlib.DefaultCompression,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.MaxWidth < 1 || c.MaxWidth > MaxAtlasSize {
		return &ConfigError{Field: "MaxWidth", Reason: fmt.Sprintf("must be in [1, %d]", MaxAtlasSize)}
	}
	if c.MaxHeight < 1 || c.MaxHeight > MaxAtlasSize {
		return &ConfigError{Field: "MaxHeight", Reason: fmt.Sprintf("must be in [1, %d]", MaxAtlasSize)}
	}
	if c.Padding < 0 {
		return &ConfigError{Field: "Padding", Reason: "must be non-negative"}
	}
	if c.Padding >= min(c.MaxWidth, c.MaxHeight) {
		return &ConfigError{Field: "Padding", Reason: "must be smaller than the atlas"}
	}
	if !c.Mode.IsValid() {
		return &ConfigError{Field: "Mode", Reason: fmt.Sprintf("unknown mode %q", byte(c.Mode))}
	}
	if c.CompressionLevel < zlib.HuffmanOnly || c.CompressionLevel > zlib.BestCompression {
		return &ConfigError{Field: "CompressionLevel", Reason: "must be a zlib level in [-2, 9]"}
	}
	return nil
}

// LoadConfig reads a TOML configuration file. Keys that are absent keep
// their DefaultConfig values; unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(filepath.Clean(path), &cfg)
	if err != nil {
		return Config{}, &IOError{Op: "read config", Path: path, Err: err}
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, &ConfigError{Field: "file", Reason: "unknown keys " + strings.Join(keys, ", ")}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WriteConfig encodes cfg as TOML.
func WriteConfig(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// SaveConfig writes cfg as a TOML file at path.
func SaveConfig(path string, cfg Config) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return &IOError{Op: "create config", Path: path, Err: err}
	}
	if err := WriteConfig(f, cfg); err != nil {
		_ = f.Close()
		return &IOError{Op: "write config", Path: path, Err: err}
	}
	return f.Close()
}

// Command atlaspack packs the images of a directory into texture atlases.
//
// Usage:
//
//	atlaspack [-f dir] [-r] [-b] [-d count] [-s WxH] [-v] [-config file]
//	atlaspack -inspect file.mtpf
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gogpu/atlaspack"
	"github.com/gogpu/atlaspack/internal/debugimg"
	"github.com/gogpu/atlaspack/internal/scan"
)

// logFile is written in the working directory when -v is set.
const logFile = "log.txt"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	folder    string
	recursive bool
	binary    bool
	debug     int
	seed      uint64
	size      string
	verbose   bool
	config    string
	inspect   string
}

func parseFlags(args []string, stderr io.Writer) (*options, map[string]bool, error) {
	fs := flag.NewFlagSet("atlaspack", flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{}
	fs.StringVar(&o.folder, "f", ".", "folder holding the images to pack")
	fs.BoolVar(&o.recursive, "r", false, "pack every sub-directory as its own atlas set")
	fs.BoolVar(&o.binary, "b", false, "embed compressed pixels in the manifest")
	fs.IntVar(&o.debug, "d", 0, "generate `count` debug images instead of loading files")
	fs.Uint64Var(&o.seed, "seed", 0, "random seed for debug images (0 picks one)")
	fs.StringVar(&o.size, "s", "", "maximum atlas size as `WxH` or a single side")
	fs.BoolVar(&o.verbose, "v", false, "verbose output, also written to "+logFile)
	fs.StringVar(&o.config, "config", "", "TOML configuration `file`")
	fs.StringVar(&o.inspect, "inspect", "", "print the contents of a manifest and exit")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return o, set, nil
}

// buildConfig applies explicitly set flags on top of the config file, or
// the defaults when there is none.
func buildConfig(o *options, set map[string]bool) (atlaspack.Config, error) {
	cfg := atlaspack.DefaultConfig()
	if o.config != "" {
		var err error
		if cfg, err = atlaspack.LoadConfig(o.config); err != nil {
			return atlaspack.Config{}, err
		}
	}
	if set["r"] {
		cfg.Recursive = o.recursive
	}
	if set["b"] && o.binary {
		cfg.Mode = atlaspack.ModeData
	}
	if set["s"] {
		w, h, err := parseSize(o.size)
		if err != nil {
			return atlaspack.Config{}, err
		}
		cfg.MaxWidth, cfg.MaxHeight = w, h
	}
	if o.debug > 0 {
		cfg.Recursive = false
	}
	return cfg, cfg.Validate()
}

// parseSize accepts "WxH" or a single number used for both sides.
func parseSize(s string) (int, int, error) {
	ws, hs, found := strings.Cut(strings.ToLower(s), "x")
	if !found {
		hs = ws
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil {
		return 0, 0, &atlaspack.ConfigError{Field: "MaxWidth", Reason: fmt.Sprintf("bad size %q", s)}
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil {
		return 0, 0, &atlaspack.ConfigError{Field: "MaxHeight", Reason: fmt.Sprintf("bad size %q", s)}
	}
	return w, h, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, set, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if o.verbose {
		f, err := os.Create(logFile)
		if err != nil {
			fmt.Fprintf(stderr, "atlaspack: %v\n", err)
			return 1
		}
		defer func() { _ = f.Close() }()
		w := io.MultiWriter(stderr, f)
		atlaspack.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if o.inspect != "" {
		if err := inspect(stdout, o.inspect); err != nil {
			fmt.Fprintf(stderr, "atlaspack: %v\n", err)
			return 1
		}
		return 0
	}

	cfg, err := buildConfig(o, set)
	if err != nil {
		fmt.Fprintf(stderr, "atlaspack: %v\n", err)
		return 2
	}

	var opts []atlaspack.PackerOption
	if cfg.Mode == atlaspack.ModeData {
		opts = append(opts, atlaspack.WithCompressor(atlaspack.Zlib{Level: cfg.CompressionLevel}))
	}
	p, err := atlaspack.NewPacker(cfg, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "atlaspack: %v\n", err)
		return 2
	}

	jobs, err := collectJobs(o, cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "atlaspack: %v\n", err)
		return 1
	}

	status := 0
	for _, job := range jobs {
		res, err := p.Run(job)
		if res != nil {
			report(stdout, res)
		}
		var jobErr *atlaspack.JobError
		switch {
		case err == nil:
		case errors.As(err, &jobErr):
			// The job is lost, the rest can still be packed.
			fmt.Fprintf(stderr, "atlaspack: %v\n", err)
			status = 1
		default:
			fmt.Fprintf(stderr, "atlaspack: %v\n", err)
			return 1
		}
	}
	return status
}

// collectJobs builds one job per directory, or a single job of generated
// images in debug mode. Files that fail to load are reported and skipped.
func collectJobs(o *options, cfg atlaspack.Config, stderr io.Writer) ([]atlaspack.Job, error) {
	if o.debug > 0 {
		seed := o.seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		atlaspack.Logger().Info("generating debug images", "count", o.debug, "seed", seed)
		rng := rand.New(rand.NewPCG(seed, seed))
		generated, err := debugimg.Generate(rng, o.debug, min(cfg.MaxWidth, cfg.MaxHeight))
		if err != nil {
			return nil, err
		}
		images := make([]atlaspack.SourceImage, len(generated))
		for i, g := range generated {
			images[i] = atlaspack.SourceImage{Name: g.Name, Pixels: g.Pixels}
		}
		return []atlaspack.Job{atlaspack.NewDirJob(o.folder, images)}, nil
	}

	dirs, err := scan.Dirs(o.folder, cfg.Recursive)
	if err != nil {
		return nil, err
	}
	var jobs []atlaspack.Job
	for _, dir := range dirs {
		loaded, err := scan.LoadImages(dir)
		if err != nil {
			fmt.Fprintf(stderr, "atlaspack: %v\n", err)
		}
		if len(loaded) == 0 {
			continue
		}
		images := make([]atlaspack.SourceImage, len(loaded))
		for i, l := range loaded {
			images[i] = atlaspack.SourceImage{Name: l.Name, Pixels: l.Pixels}
		}
		jobs = append(jobs, atlaspack.NewDirJob(dir, images))
	}
	return jobs, nil
}

func report(w io.Writer, res *atlaspack.JobResult) {
	r := res.Report
	if res.Manifest != "" {
		fmt.Fprintf(w, "%s: %d images in %d atlases -> %s\n", res.Job, r.Placed, r.Atlases, res.Manifest)
	}
	for _, u := range r.Unplaceable {
		fmt.Fprintf(w, "%s: skipped %s (%dx%d), larger than %dx%d\n",
			res.Job, u.Image, u.Width, u.Height, u.MaxWidth, u.MaxHeight)
	}
}

func inspect(w io.Writer, path string) error {
	m, err := atlaspack.LoadManifest(path, atlaspack.ReadOptions{Compressor: atlaspack.NewZlib()})
	if err != nil {
		return err
	}
	for i, a := range m.Atlases {
		switch a.Mode {
		case atlaspack.ModeFile:
			fmt.Fprintf(w, "atlas %d: %s (%dx%d), %d images\n", i, a.File, a.Width, a.Height, len(a.Entries))
		default:
			fmt.Fprintf(w, "atlas %d: embedded %dx%d, %d bytes packed, %d images\n",
				i, a.Width, a.Height, len(a.Packed), len(a.Entries))
		}
		for _, e := range a.Entries {
			fmt.Fprintf(w, "  %s %d %d %d %d\n", e.Name, e.Rect.Left, e.Rect.Top, e.Rect.Width, e.Rect.Height)
		}
	}
	return nil
}

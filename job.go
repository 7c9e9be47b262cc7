package atlaspack

import (
	"errors"
	"time"
)

// Job is one packing unit: a named list of images whose layout is written
// to a single manifest.
type Job struct {
	// Name is used for log messages and as the side image group suffix.
	Name string

	// Dir receives the manifest and side images. The manifest path is
	// ManifestPath(Dir) unless Manifest is set.
	Dir string

	// Manifest overrides the manifest path.
	Manifest string

	Images []SourceImage
}

// NewDirJob returns a job for images loaded from dir, named after it.
func NewDirJob(dir string, images []SourceImage) Job {
	return Job{Name: GroupName(dir), Dir: dir, Images: images}
}

// manifestPath returns where the job's manifest is written.
func (j Job) manifestPath() string {
	if j.Manifest != "" {
		return j.Manifest
	}
	return ManifestPath(j.Dir)
}

// JobResult describes a finished job.
type JobResult struct {
	Job      string
	Manifest string
	Report   *PackReport

	// Atlases holds the crop size of every written atlas.
	Atlases []Size
}

// Run packs job and serializes the result.
//
// Images that cannot fit are skipped and listed in the report; the job
// still succeeds if at least one image was placed. Allocation failures and
// ErrCompressionUnavailable are returned as-is. Everything else, including a
// job with nothing to place, comes back as a *JobError and leaves no
// manifest behind.
func (p *Packer) Run(job Job) (*JobResult, error) {
	start := time.Now()
	log := jobLogger(job.Name)
	log.Info("packing job", "images", len(job.Images),
		"max_width", p.cfg.MaxWidth, "max_height", p.cfg.MaxHeight)

	set, report, err := p.Pack(job.Name, job.Images)
	if err != nil {
		return nil, err
	}
	defer set.Release()

	if report.Placed == 0 {
		return &JobResult{Job: job.Name, Report: report}, &JobError{Job: job.Name, Err: ErrNothingToPack}
	}

	path := job.manifestPath()
	opts := ManifestOptions{
		Mode:       p.cfg.Mode,
		Group:      job.Name,
		Dir:        job.Dir,
		Compressor: p.compressor,
	}
	if err := Serialize(set, path, opts); err != nil {
		if errors.Is(err, ErrCompressionUnavailable) {
			return nil, err
		}
		return &JobResult{Job: job.Name, Report: report}, &JobError{Job: job.Name, Err: err}
	}

	res := &JobResult{
		Job:      job.Name,
		Manifest: path,
		Report:   report,
		Atlases:  make([]Size, 0, set.Len()),
	}
	for _, a := range set.atlases {
		res.Atlases = append(res.Atlases, a.CropSize())
	}

	log.Info("packed job", "placed", report.Placed,
		"unplaceable", len(report.Unplaceable), "atlases", report.Atlases,
		"manifest", path, "elapsed", time.Since(start))
	return res, nil
}

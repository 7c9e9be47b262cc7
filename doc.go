// Package atlaspack packs many small images into a few texture atlases.
//
// # Overview
//
// Images are placed with a guillotine binary-tree packer. Each atlas starts
// as one free rectangle; placing an image splits the free leaf it lands in
// into the strip to its right and the area below it. When no atlas has room
// for an image, a new atlas is created. The layout and the pixels are then
// written to a .mtpf manifest.
//
// # Quick Start
//
//	import "github.com/gogpu/atlaspack"
//
//	p, err := atlaspack.NewPacker(atlaspack.DefaultConfig())
//	if err != nil {
//		return err
//	}
//
//	res, err := p.Run(atlaspack.NewDirJob("sprites", images))
//	if err != nil {
//		return err
//	}
//	for _, u := range res.Report.Unplaceable {
//		log.Println(u)
//	}
//
// # Manifest Modes
//
// In file mode (ModeFile) every atlas is saved as a PNG next to the
// manifest, named _ta_<index><job>.png, and the manifest references it by
// name. In data mode (ModeData) the raw RGBA pixels are compressed into the
// manifest itself. Data mode needs a Compressor:
//
//	p, err := atlaspack.NewPacker(cfg, atlaspack.WithCompressor(atlaspack.NewZlib()))
//
// # Padding
//
// Every placed image reserves Config.Padding pixels to its right and below
// it. The reserved area is never written, which avoids sampling neighbours
// on GPUs without edge clamping.
//
// # Coordinate System
//
//   - Origin (0,0) at the top-left of the atlas
//   - X increases right
//   - Y increases down
package atlaspack

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)

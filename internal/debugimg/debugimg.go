// Package debugimg generates solid-colour test images.
package debugimg

import (
	"math/rand/v2"
	"strconv"

	"github.com/gogpu/atlaspack/internal/image"
)

const (
	// MaxCount caps how many images Generate creates.
	MaxCount = 1024

	// MinSize is the smallest generated width and height.
	MinSize = 32
)

// Image is a generated test image.
type Image struct {
	Name   string
	Pixels *image.ImageBuf
}

// Generate returns count images named debug_image0, debug_image1, ...
//
// Each side is MinSize plus a random value below maxSize/16, and each image
// is filled with one opaque colour whose channels are below 255. A count
// above MaxCount is clamped. The same rng state yields the same images.
func Generate(rng *rand.Rand, count, maxSize int) ([]Image, error) {
	count = min(max(count, 0), MaxCount)
	spread := max(maxSize/16, 1)

	images := make([]Image, 0, count)
	for i := range count {
		r := uint8(rng.IntN(255))
		g := uint8(rng.IntN(255))
		b := uint8(rng.IntN(255))
		w := MinSize + rng.IntN(spread)
		h := MinSize + rng.IntN(spread)

		pix, err := image.NewImageBuf(w, h)
		if err != nil {
			return nil, err
		}
		pix.Fill(r, g, b, 255)
		images = append(images, Image{Name: "debug_image" + strconv.Itoa(i), Pixels: pix})
	}
	return images, nil
}

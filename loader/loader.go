// Package loader decodes ordered lists of screen-capture files into raster
// buffers for the stitching pipeline.
package loader

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/snapstitch/snapstitch/raster"
)

// LoadError identifies the image that failed to decode. A single failure
// aborts the whole run; there is no partial result.
type LoadError struct {
	Path  string
	Index int
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load image %d (%s): %v", e.Index+1, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadImages decodes the given paths, in order, into raster buffers.
// PNG and JPEG are supported.
func LoadImages(paths []string) ([]*raster.Image, error) {
	images := make([]*raster.Image, 0, len(paths))
	for i, path := range paths {
		img, err := loadOne(path)
		if err != nil {
			return nil, &LoadError{Path: path, Index: i, Err: err}
		}
		images = append(images, img)
	}
	return images, nil
}

func loadOne(path string) (*raster.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return raster.FromImage(src), nil
}

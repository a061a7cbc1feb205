// Package ocr defines the boundary to text-recognition providers. The
// stitching and parsing core never performs recognition itself; it hands a
// composite image to an Engine and consumes the plain text that comes
// back. The interfaces are small and transport-agnostic so engines can be
// backed by local libraries or remote services without leaking provider
// concerns into callers.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/snapstitch/snapstitch/raster"
)

// ImageFormat identifies the content type of a recognition input image.
type ImageFormat string

const (
	ImageFormatPNG  ImageFormat = "image/png"
	ImageFormatJPEG ImageFormat = "image/jpeg"
)

// Input encapsulates a single image submitted for recognition.
type Input struct {
	// ID is an optional caller-provided identifier that is echoed back in
	// the corresponding Result.
	ID string
	// Image is the encoded image payload in the format specified by Format.
	Image []byte
	// Format declares the image content type (e.g., image/png).
	Format ImageFormat
	// DPI carries the effective dots-per-inch for the image. Providers such
	// as Tesseract use this for scaling heuristics; zero means unknown.
	DPI int
	// Languages is a list of language hints (e.g., "eng", "deu") that
	// providers can use to select trained data.
	Languages []string
	// Preprocess asks the provider to normalize the image (grayscale,
	// contrast) before recognition when it supports doing so.
	Preprocess bool
	// Metadata allows callers to pass through engine-specific knobs (e.g.,
	// "tessedit_pageseg_mode") without hard-coding them into the API.
	Metadata map[string]string
}

// Result captures recognition output for a single input image.
type Result struct {
	// InputID mirrors the Input.ID that produced this result.
	InputID string
	// PlainText contains the linearized text extracted from the image.
	PlainText string
	// Language indicates the dominant language, if known.
	Language string
	// Confidence is the provider's mean word confidence in [0, 1], or zero
	// when the provider does not report one.
	Confidence float64
}

// Engine is the recognition provider contract: one image in, one result out.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}

// ProviderError wraps a recognition provider failure (network, auth,
// quota, native library). It is fatal for the current run and never
// retried automatically; the caller may re-invoke the whole pipeline.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("recognition provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// InputFromRaster PNG-encodes a composite image into a recognition input.
func InputFromRaster(id string, img *raster.Image, opts ...InputOption) (Input, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img.ToImage()); err != nil {
		return Input{}, fmt.Errorf("encode composite: %w", err)
	}
	in := Input{ID: id, Image: buf.Bytes(), Format: ImageFormatPNG}
	for _, opt := range opts {
		opt(&in)
	}
	return in, nil
}

var defaultEngine Engine = noopEngine{}

// DefaultEngine returns the process-wide default recognition engine.
// Importing the tesseract subpackage installs the Tesseract engine;
// otherwise the default is a no-op that returns empty text.
func DefaultEngine() Engine { return defaultEngine }

// SetDefaultEngine sets the process-wide default recognition engine.
func SetDefaultEngine(engine Engine) { defaultEngine = engine }

// Recognize builds an input from the composite and runs it through the
// engine. Engine failures are wrapped as ProviderError.
func Recognize(ctx context.Context, engine Engine, id string, img *raster.Image, opts ...InputOption) (Result, error) {
	in, err := InputFromRaster(id, img, opts...)
	if err != nil {
		return Result{}, err
	}
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	default:
	}
	res, err := engine.Recognize(ctx, in)
	if err != nil {
		return Result{}, &ProviderError{Provider: engine.Name(), Err: err}
	}
	return res, nil
}

type noopEngine struct{}

func (noopEngine) Name() string { return "noop" }

func (noopEngine) Recognize(ctx context.Context, input Input) (Result, error) {
	return Result{InputID: input.ID}, nil
}

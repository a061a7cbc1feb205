// Package stitch aligns and merges ordered, partially-overlapping screen
// captures into a single composite image. Detection compares the bottom
// band of the accumulated composite against the top band of the next
// capture; merging lets the newer capture win inside the overlap band.
package stitch

import (
	"context"
	"errors"

	"github.com/snapstitch/snapstitch/observability"
	"github.com/snapstitch/snapstitch/raster"
)

// ErrNoImages is returned when Stitch is invoked with an empty image list.
var ErrNoImages = errors.New("stitch: no images provided")

// Config carries the tuning constants of the overlap search. The values in
// DefaultConfig reproduce the observed behavior; none of them has a
// derivation beyond that, so they stay overridable rather than hard-coded.
type Config struct {
	// OverlapThreshold is the minimum similarity for an overlap to be
	// accepted. The UI exposes [0.6, 0.95]; the algorithm accepts [0, 1].
	OverlapThreshold float64
	// MinOverlapFrac and MaxOverlapFrac bound the candidate overlap height
	// as fractions of the shorter image. The floor avoids spurious matches
	// on near-empty strips; the ceiling avoids consuming whole images.
	MinOverlapFrac float64
	MaxOverlapFrac float64
	// SearchStep is the decrement between candidate overlap heights.
	SearchStep int
	// EarlyExitScore stops the search on the first candidate scoring above
	// it, treated as a confident exact match.
	EarlyExitScore float64
	// RowStrideDivisor subsamples rows with stride max(1, h/RowStrideDivisor).
	RowStrideDivisor int
	// ColStride subsamples columns.
	ColStride int

	Logger observability.Logger
	Tracer observability.Tracer
}

// DefaultConfig returns the stock tuning constants with a 0.80 overlap
// threshold.
func DefaultConfig() Config {
	return Config{
		OverlapThreshold: 0.80,
		MinOverlapFrac:   0.10,
		MaxOverlapFrac:   0.90,
		SearchStep:       10,
		EarlyExitScore:   0.95,
		RowStrideDivisor: 50,
		ColStride:        4,
		Logger:           observability.NopLogger{},
		Tracer:           observability.NopTracer(),
	}
}

func (c Config) logger() observability.Logger {
	if c.Logger == nil {
		return observability.NopLogger{}
	}
	return c.Logger
}

func (c Config) tracer() observability.Tracer {
	if c.Tracer == nil {
		return observability.NopTracer()
	}
	return c.Tracer
}

// Match describes a detected vertical alignment: YOffset is the row in the
// top image (the accumulated composite) at which the bottom image's first
// row should be placed. Invariant: 0 <= YOffset <= top.Height and
// 0 <= Confidence <= 1.
type Match struct {
	YOffset    int
	Confidence float64
}

// Step records the outcome of one pairwise fold. Index is the position of
// the second image of the pair in the caller's list; Match is nil when the
// pair was concatenated without a detected overlap.
type Step struct {
	Index int
	Match *Match
}

// Score compares two equal-width bands and returns a similarity in [0, 1],
// 1 meaning identical. The band of height h starting at row aTop in a is
// compared against the band starting at bTop in b, restricted to width
// columns. Rows are subsampled with stride max(1, h/RowStrideDivisor) and
// columns with stride ColStride; absolute differences are accumulated over
// the R, G and B channels. Pixel pairs where either side is out of bounds
// are skipped. A degenerate region with no sampled pairs scores 0.
func Score(a, b *raster.Image, aTop, bTop, width, height int, cfg Config) float64 {
	if width <= 0 || height <= 0 {
		return 0
	}
	rowStride := 1
	if cfg.RowStrideDivisor > 0 && height/cfg.RowStrideDivisor > 1 {
		rowStride = height / cfg.RowStrideDivisor
	}
	colStride := cfg.ColStride
	if colStride < 1 {
		colStride = 1
	}

	var total int64
	var samples int64
	for y := 0; y < height; y += rowStride {
		ay, by := aTop+y, bTop+y
		for x := 0; x < width; x += colStride {
			if !a.In(x, ay) || !b.In(x, by) {
				continue
			}
			pa := a.At(x, ay)
			pb := b.At(x, by)
			total += absDiff(pa.R, pb.R) + absDiff(pa.G, pb.G) + absDiff(pa.B, pb.B)
			samples += 3
		}
	}
	if samples == 0 {
		return 0
	}
	avg := float64(total) / float64(samples)
	return 1 - avg/255
}

func absDiff(a, b uint8) int64 {
	if a > b {
		return int64(a - b)
	}
	return int64(b - a)
}

// FindOverlap searches for the best vertical alignment of bottom's top
// rows against top's bottom rows. Candidate overlap heights run from the
// largest allowed down to the smallest in SearchStep decrements, so ties
// and near-ties resolve in favor of removing more duplicated content; the
// search stops early once a candidate scores above EarlyExitScore. The
// second return is false when no candidate reaches OverlapThreshold.
func FindOverlap(top, bottom *raster.Image, cfg Config) (Match, bool) {
	width := top.Width
	if bottom.Width < width {
		width = bottom.Width
	}
	shorter := top.Height
	if bottom.Height < shorter {
		shorter = bottom.Height
	}
	minOverlap := int(float64(shorter) * cfg.MinOverlapFrac)
	maxOverlap := int(float64(shorter) * cfg.MaxOverlapFrac)
	step := cfg.SearchStep
	if step < 1 {
		step = 1
	}

	bestScore := 0.0
	bestHeight := 0
	candidates := 0
	for h := maxOverlap; h >= minOverlap && h > 0; h -= step {
		candidates++
		score := Score(top, bottom, top.Height-h, 0, width, h, cfg)
		if score > bestScore {
			bestScore = score
			bestHeight = h
		}
		if score > cfg.EarlyExitScore {
			break
		}
	}
	cfg.logger().Debug("overlap search finished",
		observability.Int(observability.MetricOverlapCandidates, candidates),
		observability.Float64("best_score", bestScore),
		observability.Int("best_height", bestHeight))

	if bestHeight == 0 || bestScore < cfg.OverlapThreshold {
		return Match{}, false
	}
	return Match{YOffset: top.Height - bestHeight, Confidence: bestScore}, true
}

// Merge composites bottom onto top at the matched offset and returns a new
// image; neither input is modified. With a match, the canvas is
// YOffset+bottom.Height tall and bottom's pixels win anywhere the two
// overlap. With a nil match the images are stacked, no pixel lost.
func Merge(top, bottom *raster.Image, m *Match) *raster.Image {
	width := top.Width
	if bottom.Width > width {
		width = bottom.Width
	}
	var out *raster.Image
	if m != nil {
		out = raster.New(width, m.YOffset+bottom.Height)
		out.Paint(top, 0, 0)
		out.Paint(bottom, 0, m.YOffset)
	} else {
		out = raster.New(width, top.Height+bottom.Height)
		out.Paint(top, 0, 0)
		out.Paint(bottom, 0, top.Height)
	}
	return out
}

// Stitch folds the ordered image list into one composite. Each step
// compares the entire accumulated composite against the next raw image, so
// the result is order-dependent and strictly sequential. A single image is
// returned unchanged. The context is checked between pairwise steps; all
// failures abort before any partial composite is returned.
func Stitch(ctx context.Context, images []*raster.Image, cfg Config) (*raster.Image, []Step, error) {
	if len(images) == 0 {
		return nil, nil, ErrNoImages
	}
	ctx, span := cfg.tracer().StartSpan(ctx, "stitch")
	defer span.Finish()
	span.SetTag("images", len(images))

	composite := images[0]
	if len(images) == 1 {
		return composite, nil, nil
	}

	log := cfg.logger()
	steps := make([]Step, 0, len(images)-1)
	for i := 1; i < len(images); i++ {
		select {
		case <-ctx.Done():
			span.SetError(ctx.Err())
			return nil, nil, ctx.Err()
		default:
		}
		next := images[i]
		if match, ok := FindOverlap(composite, next, cfg); ok {
			log.Info("overlap found",
				observability.Int("image", i),
				observability.Float64("confidence", match.Confidence),
				observability.Int("y_offset", match.YOffset))
			composite = Merge(composite, next, &match)
			steps = append(steps, Step{Index: i, Match: &match})
		} else {
			log.Info("no overlap detected, concatenating", observability.Int("image", i))
			composite = Merge(composite, next, nil)
			steps = append(steps, Step{Index: i, Match: nil})
		}
	}
	log.Debug("stitch complete",
		observability.Int(observability.MetricCompositeHeight, composite.Height),
		observability.Int("width", composite.Width))
	return composite, steps, nil
}

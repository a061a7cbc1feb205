// Command snapstitch stitches ordered, overlapping screen captures into a
// single composite image, runs text recognition over it, and optionally
// reconstructs the recovered text into a chat transcript.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/snapstitch/snapstitch/chat"
	"github.com/snapstitch/snapstitch/config"
	"github.com/snapstitch/snapstitch/loader"
	"github.com/snapstitch/snapstitch/observability"
	"github.com/snapstitch/snapstitch/ocr"
	_ "github.com/snapstitch/snapstitch/ocr/tesseract"
	"github.com/snapstitch/snapstitch/raster"
	"github.com/snapstitch/snapstitch/stitch"
	"github.com/snapstitch/snapstitch/transcript"
)

const previewLimit = 500

type options struct {
	imagePaths       []string
	output           string
	textOutput       string
	htmlOutput       string
	configPath       string
	chatMode         bool
	textOnly         bool
	overlapThreshold float64
	noPreprocess     bool
	lang             string
	verbose          bool
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "snapstitch: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "snapstitch: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("snapstitch", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: snapstitch [flags] <image>...\n\nImages are stitched in argument order.\n\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.output, "o", "stitched_output.png", "Output image file path")
	fs.StringVar(&opts.output, "output", "stitched_output.png", "Output image file path")
	fs.StringVar(&opts.textOutput, "t", "extracted_text.txt", "Text output file path")
	fs.StringVar(&opts.textOutput, "text-output", "extracted_text.txt", "Text output file path")
	fs.StringVar(&opts.htmlOutput, "html-output", "", "Optional HTML transcript output path")
	fs.StringVar(&opts.configPath, "config", "", "Optional YAML tuning config file")
	fs.BoolVar(&opts.chatMode, "chat", false, "Force chat conversation formatting")
	fs.BoolVar(&opts.textOnly, "text-only", false, "Only extract text, don't save the stitched image")
	fs.Float64Var(&opts.overlapThreshold, "overlap-threshold", 0.80, "Minimum overlap detection threshold 0-1")
	fs.BoolVar(&opts.noPreprocess, "no-preprocess", false, "Disable image preprocessing before recognition")
	fs.StringVar(&opts.lang, "lang", "eng", "Recognition language code")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return options{}, fmt.Errorf("no images supplied")
	}
	if opts.overlapThreshold < 0 || opts.overlapThreshold > 1 {
		return options{}, fmt.Errorf("overlap-threshold must be in [0, 1], got %v", opts.overlapThreshold)
	}
	opts.imagePaths = fs.Args()
	return opts, nil
}

func run(opts options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := observability.NewWriterLogger(os.Stderr, opts.verbose)

	stitchCfg := stitch.DefaultConfig()
	stitchCfg.OverlapThreshold = opts.overlapThreshold
	stitchCfg.Logger = log
	chatCfg := chat.DefaultConfig()
	langs := []string{opts.lang}
	detectChat := false

	if opts.configPath != "" {
		file, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		file.ApplyStitch(&stitchCfg)
		file.ApplyChat(&chatCfg)
		if len(file.Languages) > 0 {
			langs = file.Languages
		}
		if file.ChatDetection != nil {
			detectChat = *file.ChatDetection
		}
	}

	images, err := loader.LoadImages(opts.imagePaths)
	if err != nil {
		return err
	}
	log.Info("images loaded", observability.Int("count", len(images)))
	images = raster.NormalizeWidths(images)

	composite, steps, err := stitch.Stitch(ctx, images, stitchCfg)
	if err != nil {
		return err
	}
	log.Info("stitch complete",
		observability.Int("width", composite.Width),
		observability.Int("height", composite.Height),
		observability.Int("steps", len(steps)))

	if !opts.textOnly {
		if err := writePNG(opts.output, composite); err != nil {
			return err
		}
		log.Info("stitched image saved", observability.String("path", opts.output))
	}

	res, err := ocr.Recognize(ctx, ocr.DefaultEngine(), "composite", composite,
		ocr.WithLanguages(langs...),
		ocr.WithPreprocess(!opts.noPreprocess))
	if err != nil {
		return err
	}
	text := res.PlainText
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no text was extracted from the image")
	}
	log.Info("text extracted", observability.Int("characters", len(text)))

	// --chat forces conversation formatting; config-enabled detection only
	// formats when the text actually reads like a chat.
	finalText := text
	var msgs []chat.Message
	if opts.chatMode || detectChat {
		likely := chat.IsLikelyChat(text, chatCfg)
		log.Info("chat detection", observability.String("likely", fmt.Sprint(likely)))
		if opts.chatMode || likely {
			msgs = chat.Parse(text)
		}
		if len(msgs) > 0 {
			finalText = transcript.Format(msgs, transcript.DefaultOptions())
			log.Info("conversation formatted", observability.Int(observability.MetricMessagesParsed, len(msgs)))
		} else {
			log.Warn("no chat messages recognized, using raw text")
		}
	}

	if err := os.WriteFile(opts.textOutput, []byte(finalText), 0o644); err != nil {
		return fmt.Errorf("write text output: %w", err)
	}
	log.Info("text saved", observability.String("path", opts.textOutput))

	if opts.htmlOutput != "" {
		if len(msgs) == 0 {
			log.Warn("html output requested but no conversation was reconstructed, skipping")
		} else {
			html, err := transcript.HTML(msgs)
			if err != nil {
				return err
			}
			if err := os.WriteFile(opts.htmlOutput, html, 0o644); err != nil {
				return fmt.Errorf("write html output: %w", err)
			}
			log.Info("html transcript saved", observability.String("path", opts.htmlOutput))
		}
	}

	printSummary(opts, composite, steps, finalText, msgs)
	return nil
}

func writePNG(path string, img *raster.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output image: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img.ToImage()); err != nil {
		return fmt.Errorf("encode output image: %w", err)
	}
	return nil
}

func printSummary(opts options, composite *raster.Image, steps []stitch.Step, text string, msgs []chat.Message) {
	bar := strings.Repeat("=", 60)
	fmt.Println(bar)
	fmt.Println("TEXT PREVIEW (first 500 characters):")
	fmt.Println(bar)
	preview := text
	if len(preview) > previewLimit {
		preview = preview[:previewLimit] + "\n... (truncated)"
	}
	fmt.Println(preview)
	fmt.Println(bar)

	overlaps := 0
	for _, s := range steps {
		if s.Match != nil {
			overlaps++
		}
	}
	fmt.Println("\nSummary:")
	fmt.Printf("  Images stitched: %d\n", len(opts.imagePaths))
	fmt.Printf("  Overlaps detected: %d/%d\n", overlaps, len(steps))
	fmt.Printf("  Composite size: %dx%d\n", composite.Width, composite.Height)
	if opts.textOnly {
		fmt.Println("  Output image: N/A (text-only mode)")
	} else {
		fmt.Printf("  Output image: %s\n", opts.output)
	}
	fmt.Printf("  Output text: %s\n", opts.textOutput)
	if opts.chatMode {
		fmt.Printf("  Chat messages: %d\n", len(msgs))
	}
}

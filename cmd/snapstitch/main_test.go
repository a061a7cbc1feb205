package main

import (
	"reflect"
	"testing"
)

func TestParseFlagsDefaults(t *testing.T) {
	opts, err := parseFlags([]string{"a.png", "b.png"})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if !reflect.DeepEqual(opts.imagePaths, []string{"a.png", "b.png"}) {
		t.Fatalf("image paths = %v", opts.imagePaths)
	}
	if opts.output != "stitched_output.png" || opts.textOutput != "extracted_text.txt" {
		t.Fatalf("default outputs = %q, %q", opts.output, opts.textOutput)
	}
	if opts.overlapThreshold != 0.80 || opts.lang != "eng" {
		t.Fatalf("defaults = %+v", opts)
	}
	if opts.chatMode || opts.textOnly || opts.noPreprocess {
		t.Fatalf("boolean defaults = %+v", opts)
	}
}

func TestParseFlagsAllOptions(t *testing.T) {
	opts, err := parseFlags([]string{
		"-o", "out.png",
		"--text-output", "out.txt",
		"--chat",
		"--text-only",
		"--overlap-threshold", "0.7",
		"--no-preprocess",
		"--lang", "deu",
		"--html-output", "out.html",
		"shot1.png", "shot2.png", "shot3.png",
	})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if opts.output != "out.png" || opts.textOutput != "out.txt" || opts.htmlOutput != "out.html" {
		t.Fatalf("outputs = %+v", opts)
	}
	if !opts.chatMode || !opts.textOnly || !opts.noPreprocess {
		t.Fatalf("flags = %+v", opts)
	}
	if opts.overlapThreshold != 0.7 || opts.lang != "deu" {
		t.Fatalf("values = %+v", opts)
	}
	if len(opts.imagePaths) != 3 {
		t.Fatalf("image paths = %v", opts.imagePaths)
	}
}

func TestParseFlagsNoImages(t *testing.T) {
	if _, err := parseFlags([]string{"--chat"}); err == nil {
		t.Fatalf("expected error when no images are supplied")
	}
}

func TestParseFlagsThresholdRange(t *testing.T) {
	if _, err := parseFlags([]string{"--overlap-threshold", "1.5", "a.png"}); err == nil {
		t.Fatalf("expected error for out-of-range threshold")
	}
}

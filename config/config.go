// Package config loads pipeline tuning constants from a YAML file. Every
// key is optional; absent keys leave the compiled-in defaults untouched.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/snapstitch/snapstitch/chat"
	"github.com/snapstitch/snapstitch/stitch"
)

// File mirrors the YAML configuration document. Pointer fields distinguish
// "absent" from explicit zero values.
type File struct {
	// OverlapThreshold is the minimum similarity for accepting an overlap.
	// The UI exposes [0.6, 0.95]; any value in [0, 1] is accepted here.
	OverlapThreshold *float64 `yaml:"overlap_threshold"`
	EarlyExitScore   *float64 `yaml:"early_exit_score"`
	SearchStep       *int     `yaml:"search_step"`
	RowStrideDivisor *int     `yaml:"row_stride_divisor"`
	ColStride        *int     `yaml:"col_stride"`
	MinOverlapFrac   *float64 `yaml:"min_overlap_frac"`
	MaxOverlapFrac   *float64 `yaml:"max_overlap_frac"`

	// ChatDetection enables the chat-likelihood check and conversation
	// formatting without the --chat flag forcing it.
	ChatDetection  *bool    `yaml:"chat_detection"`
	ChatMinLines   *int     `yaml:"chat_min_lines"`
	ChatLikelihood *float64 `yaml:"chat_likelihood"`

	// Languages are recognition language hints passed to the provider.
	Languages []string `yaml:"languages"`
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML configuration document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	checkFrac := func(name string, v *float64) error {
		if v != nil && (*v < 0 || *v > 1) {
			return fmt.Errorf("config: %s must be in [0, 1], got %v", name, *v)
		}
		return nil
	}
	for name, v := range map[string]*float64{
		"overlap_threshold": f.OverlapThreshold,
		"early_exit_score":  f.EarlyExitScore,
		"min_overlap_frac":  f.MinOverlapFrac,
		"max_overlap_frac":  f.MaxOverlapFrac,
		"chat_likelihood":   f.ChatLikelihood,
	} {
		if err := checkFrac(name, v); err != nil {
			return err
		}
	}
	for name, v := range map[string]*int{
		"search_step":        f.SearchStep,
		"row_stride_divisor": f.RowStrideDivisor,
		"col_stride":         f.ColStride,
		"chat_min_lines":     f.ChatMinLines,
	} {
		if v != nil && *v < 1 {
			return fmt.Errorf("config: %s must be at least 1, got %d", name, *v)
		}
	}
	if f.MinOverlapFrac != nil && f.MaxOverlapFrac != nil && *f.MinOverlapFrac > *f.MaxOverlapFrac {
		return fmt.Errorf("config: min_overlap_frac %v exceeds max_overlap_frac %v", *f.MinOverlapFrac, *f.MaxOverlapFrac)
	}
	return nil
}

// ApplyStitch overlays the file's stitch settings onto cfg.
func (f *File) ApplyStitch(cfg *stitch.Config) {
	if f.OverlapThreshold != nil {
		cfg.OverlapThreshold = *f.OverlapThreshold
	}
	if f.EarlyExitScore != nil {
		cfg.EarlyExitScore = *f.EarlyExitScore
	}
	if f.SearchStep != nil {
		cfg.SearchStep = *f.SearchStep
	}
	if f.RowStrideDivisor != nil {
		cfg.RowStrideDivisor = *f.RowStrideDivisor
	}
	if f.ColStride != nil {
		cfg.ColStride = *f.ColStride
	}
	if f.MinOverlapFrac != nil {
		cfg.MinOverlapFrac = *f.MinOverlapFrac
	}
	if f.MaxOverlapFrac != nil {
		cfg.MaxOverlapFrac = *f.MaxOverlapFrac
	}
}

// ApplyChat overlays the file's chat-detection settings onto cfg.
func (f *File) ApplyChat(cfg *chat.Config) {
	if f.ChatMinLines != nil {
		cfg.MinLines = *f.ChatMinLines
	}
	if f.ChatLikelihood != nil {
		cfg.LikelihoodThreshold = *f.ChatLikelihood
	}
}

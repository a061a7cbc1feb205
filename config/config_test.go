package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/snapstitch/snapstitch/chat"
	"github.com/snapstitch/snapstitch/stitch"
)

func TestParseAndApply(t *testing.T) {
	doc := `
overlap_threshold: 0.7
early_exit_score: 0.9
search_step: 5
chat_detection: true
chat_min_lines: 5
chat_likelihood: 0.5
languages: [eng, deu]
`
	f, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	scfg := stitch.DefaultConfig()
	f.ApplyStitch(&scfg)
	if scfg.OverlapThreshold != 0.7 {
		t.Fatalf("OverlapThreshold = %v", scfg.OverlapThreshold)
	}
	if scfg.EarlyExitScore != 0.9 {
		t.Fatalf("EarlyExitScore = %v", scfg.EarlyExitScore)
	}
	if scfg.SearchStep != 5 {
		t.Fatalf("SearchStep = %d", scfg.SearchStep)
	}
	// Keys absent from the document keep their defaults.
	if scfg.ColStride != stitch.DefaultConfig().ColStride {
		t.Fatalf("ColStride changed to %d", scfg.ColStride)
	}

	ccfg := chat.DefaultConfig()
	f.ApplyChat(&ccfg)
	if ccfg.MinLines != 5 || ccfg.LikelihoodThreshold != 0.5 {
		t.Fatalf("chat config = %+v", ccfg)
	}
	if !reflect.DeepEqual(f.Languages, []string{"eng", "deu"}) {
		t.Fatalf("languages = %v", f.Languages)
	}
	if f.ChatDetection == nil || !*f.ChatDetection {
		t.Fatalf("chat_detection = %v", f.ChatDetection)
	}
}

func TestParseEmptyDocumentKeepsDefaults(t *testing.T) {
	f, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	scfg := stitch.DefaultConfig()
	f.ApplyStitch(&scfg)
	if !reflect.DeepEqual(scfg.OverlapThreshold, stitch.DefaultConfig().OverlapThreshold) {
		t.Fatalf("defaults modified: %+v", scfg)
	}
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"threshold above one", "overlap_threshold: 1.5", "overlap_threshold"},
		{"negative likelihood", "chat_likelihood: -0.1", "chat_likelihood"},
		{"zero step", "search_step: 0", "search_step"},
		{"inverted fracs", "min_overlap_frac: 0.8\nmax_overlap_frac: 0.2", "min_overlap_frac"},
		{"not yaml", "overlap_threshold: [unclosed", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatalf("expected error for %q", tt.doc)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapstitch.yaml")
	if err := os.WriteFile(path, []byte("overlap_threshold: 0.65\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f.OverlapThreshold == nil || *f.OverlapThreshold != 0.65 {
		t.Fatalf("OverlapThreshold = %v", f.OverlapThreshold)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scanbind.yaml")
	data := `review: image_review.json
input: ./corrected
output: ./pdfs
copyUnchanged: true
prefix: banks_archive
quality: 90
maxSizeMB: 100
sizeRatio: 0.8
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Review != "image_review.json" {
		t.Errorf("Expected review image_review.json, got %s", cfg.Review)
	}
	if cfg.Input != "./corrected" {
		t.Errorf("Expected input ./corrected, got %s", cfg.Input)
	}
	if !cfg.CopyUnchanged {
		t.Error("Expected copyUnchanged true")
	}
	if cfg.Prefix != "banks_archive" {
		t.Errorf("Expected prefix banks_archive, got %s", cfg.Prefix)
	}
	if cfg.Quality != 90 {
		t.Errorf("Expected quality 90, got %d", cfg.Quality)
	}
	if cfg.MaxSizeMB != 100 {
		t.Errorf("Expected maxSizeMB 100, got %d", cfg.MaxSizeMB)
	}
	if cfg.SizeRatio != 0.8 {
		t.Errorf("Expected sizeRatio 0.8, got %f", cfg.SizeRatio)
	}
}

func TestLoadPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scanbind.yaml")
	if err := os.WriteFile(path, []byte("prefix: summer_batch\n"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Prefix != "summer_batch" {
		t.Errorf("Expected prefix summer_batch, got %s", cfg.Prefix)
	}
	if cfg.Quality != 0 {
		t.Errorf("Expected unset quality to be 0, got %d", cfg.Quality)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scanbind.yaml")
	if err := os.WriteFile(path, []byte("quality: [not an int\n"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected error for invalid YAML, got nil")
	}
}

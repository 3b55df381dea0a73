package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPrintUsage(t *testing.T) {
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	printUsage()

	_ = w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	output := buf.String()

	expected := []string{
		"musicmatch",
		"USAGE",
		"COMMANDS",
		"search",
		"check",
		"sync",
		"version",
		"EXAMPLES",
	}

	for _, exp := range expected {
		if !strings.Contains(output, exp) {
			t.Errorf("printUsage() output should contain %q, got: %s", exp, output)
		}
	}
}

func TestLoadMatchConfig_MissingFile(t *testing.T) {
	_, err := loadMatchConfig(filepath.Join(t.TempDir(), "nonexistent.yaml"), "")
	if err == nil {
		t.Error("Expected error for missing configuration file")
	}
}

func TestLoadMatchConfig_LibraryOverride(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(`version: 1
library:
  path: /music/from-config
spotify:
  client_id: "id"
  client_secret: "secret"
`), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadMatchConfig(configPath, "/music/from-flag")
	if err != nil {
		t.Fatalf("loadMatchConfig: %v", err)
	}
	if cfg.Library.Path != "/music/from-flag" {
		t.Errorf("Expected library flag to override config path, got %q", cfg.Library.Path)
	}

	cfg, err = loadMatchConfig(configPath, "")
	if err != nil {
		t.Fatalf("loadMatchConfig: %v", err)
	}
	if cfg.Library.Path != "/music/from-config" {
		t.Errorf("Expected configured library path, got %q", cfg.Library.Path)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
outdir: /tmp/out
format: oai
validate: true
oai:
  endpoint: https://oai.cairn.info/oai.php
  article_type: cairn
  timeout: 5s
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OutputDir != "/tmp/out" || cfg.Format != "oai" || !cfg.Validate {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.OAI.Timeout != 5*time.Second {
		t.Errorf("timeout: %v", cfg.OAI.Timeout)
	}
	// defaults survive, if not set in the file
	if cfg.OAI.MetadataPrefix != "oai_dc" || cfg.LogLevel != "warning" {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if err := cfg.Check(); err != nil {
		t.Error(err)
	}
}

func TestLoadMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Format != "jats" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("outdir: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestCheck(t *testing.T) {
	cfg := Default()
	cfg.Format = "pdf"
	if err := cfg.Check(); err == nil {
		t.Error("expected error for unknown format")
	}
	cfg.Format = "oai"
	if err := cfg.Check(); err == nil {
		t.Error("expected error for missing article type")
	}
}

func TestDefaultPathEnv(t *testing.T) {
	t.Setenv(configPathEnv, "/etc/jconv.yaml")
	if got := DefaultPath(); got != "/etc/jconv.yaml" {
		t.Errorf("got %s", got)
	}
}

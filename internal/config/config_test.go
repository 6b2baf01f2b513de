package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"oggfix/internal/config"
)

func TestLoadDefaultsWhenNoFilePresent(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogDir := filepath.Join(tempHome, ".local", "share", "oggfix", "logs")
	if cfg.Paths.LogDir != wantLogDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogDir)
	}
	if cfg.Encode.Pipeline != config.PipelineFFmpeg {
		t.Fatalf("unexpected default pipeline: %q", cfg.Encode.Pipeline)
	}
	if cfg.Encode.Quality != 6 {
		t.Fatalf("unexpected default quality: %d", cfg.Encode.Quality)
	}
	if cfg.Encode.SampleRate != 44100 {
		t.Fatalf("unexpected default sample rate: %d", cfg.Encode.SampleRate)
	}
	if !cfg.Backup.Enabled {
		t.Fatal("expected backups enabled by default")
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if cfg.HistoryDBPath() != filepath.Join(wantLogDir, "history.db") {
		t.Fatalf("unexpected history db path: %q", cfg.HistoryDBPath())
	}
}

func TestLoadParsesAndNormalizesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[encode]
pipeline = "OGGENC"
quality = 4

[logging]
format = "JSON"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected file at %q to be used, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Encode.Pipeline != config.PipelineOggenc {
		t.Fatalf("pipeline not lowercased: %q", cfg.Encode.Pipeline)
	}
	if cfg.Encode.Quality != 4 {
		t.Fatalf("unexpected quality: %d", cfg.Encode.Quality)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("format not lowercased: %q", cfg.Logging.Format)
	}
	// Unset fields keep defaults.
	if cfg.Encode.SampleRate != 44100 {
		t.Fatalf("unexpected sample rate: %d", cfg.Encode.SampleRate)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"pipeline", "[encode]\npipeline = \"lame\"\n", "encode.pipeline"},
		{"quality", "[encode]\nquality = 11\n", "encode.quality"},
		{"sample rate", "[encode]\nsample_rate = 100\n", "encode.sample_rate"},
		{"log format", "[logging]\nformat = \"xml\"\n", "logging.format"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got: %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}

	// The sample documents defaults only; parsing it must yield the same
	// settings as loading with no file at all.
	defCfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}
	if *cfg != *defCfg {
		t.Fatalf("sample config diverges from defaults:\n got %+v\nwant %+v", *cfg, *defCfg)
	}
}

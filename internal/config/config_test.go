package config

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/core/domain"
)

func validConfig() Config {
	cfg := Default()
	cfg.Root = "chest_xray"
	return cfg
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Mode != domain.DirectionRoundTrip {
		t.Errorf("Mode = %q, want roundtrip", cfg.Mode)
	}
	if cfg.SourceExt != ".jpeg" || cfg.EncryptedExt != ".enc" || cfg.ArchiveExt != ".zip" {
		t.Errorf("extensions = %q %q %q", cfg.SourceExt, cfg.EncryptedExt, cfg.ArchiveExt)
	}
	if cfg.Quality != 50 {
		t.Errorf("Quality = %d, want 50", cfg.Quality)
	}
	if cfg.BatchMode != BatchDirectory {
		t.Errorf("BatchMode = %q, want directory", cfg.BatchMode)
	}
	if cfg.DeleteOriginals {
		t.Error("source images must be kept by default")
	}
	if cfg.MirrorEnabled() {
		t.Error("mirror should be disabled by default")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid defaults", mutate: func(*Config) {}},
		{name: "encode mode", mutate: func(c *Config) { c.Mode = domain.DirectionEncode }},
		{name: "per-file batching", mutate: func(c *Config) { c.BatchMode = BatchPerFile }},
		{name: "bad mode", mutate: func(c *Config) { c.Mode = "shred" }, wantErr: true},
		{name: "bad batch mode", mutate: func(c *Config) { c.BatchMode = "tree" }, wantErr: true},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: true},
		{name: "quality zero", mutate: func(c *Config) { c.Quality = 0 }, wantErr: true},
		{name: "quality too high", mutate: func(c *Config) { c.Quality = 96 }, wantErr: true},
		{name: "extension without dot", mutate: func(c *Config) { c.SourceExt = "jpeg" }, wantErr: true},
		{name: "compound extension", mutate: func(c *Config) { c.SourceExt = ".jpeg.enc" }, wantErr: true},
		{name: "duplicate extensions", mutate: func(c *Config) { c.ArchiveExt = ".ENC" }, wantErr: true},
		{name: "missing root", mutate: func(c *Config) { c.Root = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrConfig) {
				t.Errorf("Validate() error = %v, want ErrConfig", err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"MEDCRYPT_MODE":           "ENCODE",
		"MEDCRYPT_QUALITY":        "75",
		"MEDCRYPT_BATCH_MODE":     "per-file",
		"MEDCRYPT_DELETE_ORIGINALS": "true",
		"MEDCRYPT_S3_BUCKET":      " scans-bucket ",
		"MEDCRYPT_LOG_FORMAT":     "json",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := applyEnv(&cfg, lookup); err != nil {
		t.Fatalf("applyEnv() error = %v", err)
	}
	if cfg.Mode != domain.DirectionEncode {
		t.Errorf("Mode = %q", cfg.Mode)
	}
	if cfg.Quality != 75 {
		t.Errorf("Quality = %d", cfg.Quality)
	}
	if cfg.BatchMode != BatchPerFile {
		t.Errorf("BatchMode = %q", cfg.BatchMode)
	}
	if !cfg.DeleteOriginals {
		t.Error("DeleteOriginals not applied")
	}
	if cfg.S3Bucket != "scans-bucket" || !cfg.MirrorEnabled() {
		t.Errorf("S3Bucket = %q", cfg.S3Bucket)
	}
	if cfg.LogFormat != LogFormatJSON {
		t.Errorf("LogFormat = %q", cfg.LogFormat)
	}
	if cfg.SourceExt != ".jpeg" {
		t.Errorf("unset variable changed SourceExt to %q", cfg.SourceExt)
	}
}

func TestApplyEnv_Invalid(t *testing.T) {
	for name, value := range map[string]string{
		"MEDCRYPT_QUALITY":        "high",
		"MEDCRYPT_DELETE_ORIGINALS": "sometimes",
	} {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			err := applyEnv(&cfg, func(k string) (string, bool) {
				if k == name {
					return value, true
				}
				return "", false
			})
			if !errors.Is(err, domain.ErrConfig) {
				t.Errorf("applyEnv() error = %v, want ErrConfig", err)
			}
		})
	}
}

func TestLoadEnv_File(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("MEDCRYPT_SOURCE_EXT=.png\nMEDCRYPT_QUALITY=30\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("MEDCRYPT_SOURCE_EXT")
		os.Unsetenv("MEDCRYPT_QUALITY")
	})

	cfg := Default()
	if err := LoadEnv(&cfg, envFile); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if cfg.SourceExt != ".png" || cfg.Quality != 30 {
		t.Errorf("LoadEnv() got SourceExt=%q Quality=%d", cfg.SourceExt, cfg.Quality)
	}
}

func TestLoadEnv_MissingFileIsFine(t *testing.T) {
	cfg := Default()
	if err := LoadEnv(&cfg, filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("LoadEnv() error = %v", err)
	}
}

func TestParseFlags(t *testing.T) {
	cfg := Default()
	args := []string{"-mode", "encode", "-q", "80", "-batch", "per-file", "-delete-originals", "-s3-bucket", "b", "data/chest_xray/"}
	if err := ParseFlags(&cfg, args, io.Discard); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	if cfg.Mode != domain.DirectionEncode {
		t.Errorf("Mode = %q", cfg.Mode)
	}
	if cfg.Quality != 80 {
		t.Errorf("Quality = %d", cfg.Quality)
	}
	if cfg.BatchMode != BatchPerFile {
		t.Errorf("BatchMode = %q", cfg.BatchMode)
	}
	if !cfg.DeleteOriginals {
		t.Error("DeleteOriginals not set")
	}
	if cfg.S3Bucket != "b" {
		t.Errorf("S3Bucket = %q", cfg.S3Bucket)
	}
	if cfg.Root != "data/chest_xray" {
		t.Errorf("Root = %q", cfg.Root)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	t.Run("help", func(t *testing.T) {
		cfg := Default()
		var out strings.Builder
		err := ParseFlags(&cfg, []string{"-h"}, &out)
		if !errors.Is(err, flag.ErrHelp) {
			t.Errorf("ParseFlags(-h) error = %v, want flag.ErrHelp", err)
		}
		if !strings.Contains(out.String(), "Usage: medcrypt") {
			t.Errorf("usage not printed: %q", out.String())
		}
	})

	t.Run("version", func(t *testing.T) {
		cfg := Default()
		var out strings.Builder
		if err := ParseFlags(&cfg, []string{"-version"}, &out); !errors.Is(err, ErrVersion) {
			t.Errorf("ParseFlags(-version) error = %v, want ErrVersion", err)
		}
		if !strings.Contains(out.String(), Version) {
			t.Errorf("version not printed: %q", out.String())
		}
	})

	t.Run("missing root", func(t *testing.T) {
		cfg := Default()
		if err := ParseFlags(&cfg, nil, io.Discard); !errors.Is(err, domain.ErrConfig) {
			t.Errorf("ParseFlags() error = %v, want ErrConfig", err)
		}
	})

	t.Run("root from env is kept", func(t *testing.T) {
		cfg := Default()
		cfg.Root = "from-env"
		if err := ParseFlags(&cfg, nil, io.Discard); err != nil {
			t.Errorf("ParseFlags() error = %v", err)
		}
	})

	t.Run("too many args", func(t *testing.T) {
		cfg := Default()
		if err := ParseFlags(&cfg, []string{"a", "b"}, io.Discard); !errors.Is(err, domain.ErrConfig) {
			t.Errorf("ParseFlags() error = %v, want ErrConfig", err)
		}
	})

	t.Run("unknown flag", func(t *testing.T) {
		cfg := Default()
		if err := ParseFlags(&cfg, []string{"-shred", "x"}, io.Discard); err == nil {
			t.Error("ParseFlags() accepted an unknown flag")
		}
	})
}

func TestNormalizeDirArg(t *testing.T) {
	tests := map[string]string{
		"/":          "/",
		"data/":      "data",
		"data///":    "data",
		"/srv/scans": "/srv/scans",
		"":           "",
	}
	for in, want := range tests {
		if got := NormalizeDirArg(in); got != want {
			t.Errorf("NormalizeDirArg(%q) = %q, want %q", in, got, want)
		}
	}
}

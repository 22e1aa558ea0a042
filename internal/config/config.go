// Package config holds runtime configuration: defaults, .env/environment
// overrides, CLI flags and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/core/domain"
	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/imaging"
)

// BatchMode controls how many artifacts a directory produces.
type BatchMode string

const (
	BatchDirectory BatchMode = "directory" // One archive per directory (default).
	BatchPerFile   BatchMode = "per-file"  // One archive per qualifying file, each holding every sibling.
)

// LogFormat selects the zap encoder.
type LogFormat string

const (
	LogFormatAuto    LogFormat = "auto"    // Console on a TTY, JSON otherwise.
	LogFormatConsole LogFormat = "console" // Human-readable.
	LogFormatJSON    LogFormat = "json"    // One JSON object per line.
)

const envPrefix = "MEDCRYPT_"

// Config holds all runtime settings. Populated by [Default], then [LoadEnv],
// then [ParseFlags]; later sources win.
type Config struct {
	Mode domain.Direction // Default: "roundtrip".
	Root string           // Positional argument.

	// File selection.
	SourceExt    string // Default: ".jpeg".
	EncryptedExt string // Default: ".enc".
	ArchiveExt   string // Default: ".zip".

	// Processing.
	Quality         int       // Default: 50. Range [1,95].
	BatchMode       BatchMode // Default: "directory".
	DeleteOriginals bool      // Default: false. Encode mode only.

	// Logging.
	LogLevel  string    // Default: "info".
	LogFormat LogFormat // Default: "auto".
	LogFile   string    // Optional extra sink.

	// Artifact mirror; disabled when S3Bucket is empty.
	S3Bucket       string
	S3Prefix       string // Default: "artifacts/".
	S3Region       string // Empty uses the SDK default chain.
	S3CreateBucket bool
}

// Default returns the roundtrip configuration: .jpeg sources at quality 50,
// one artifact per directory.
func Default() Config {
	return Config{
		Mode:         domain.DirectionRoundTrip,
		SourceExt:    ".jpeg",
		EncryptedExt: ".enc",
		ArchiveExt:   ".zip",
		Quality:      imaging.DefaultQuality,
		BatchMode:    BatchDirectory,
		LogLevel:     "info",
		LogFormat:    LogFormatAuto,
		S3Prefix:     "artifacts/",
	}
}

// LoadEnv reads envFile (if it exists) into the process environment and then
// applies MEDCRYPT_* variables to cfg. A missing env file is not an error.
func LoadEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: failed to load %s: %v", domain.ErrConfig, envFile, err)
		}
	}
	return applyEnv(cfg, os.LookupEnv)
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	boolean := func(name string, dst *bool) error {
		v, ok := lookup(envPrefix + name)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s%s: %v", domain.ErrConfig, envPrefix, name, err)
		}
		*dst = b
		return nil
	}

	var mode, batch, format string
	str("MODE", &mode)
	str("ROOT", &cfg.Root)
	str("SOURCE_EXT", &cfg.SourceExt)
	str("ENCRYPTED_EXT", &cfg.EncryptedExt)
	str("ARCHIVE_EXT", &cfg.ArchiveExt)
	str("BATCH_MODE", &batch)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &format)
	str("LOG_FILE", &cfg.LogFile)
	str("S3_BUCKET", &cfg.S3Bucket)
	str("S3_PREFIX", &cfg.S3Prefix)
	str("S3_REGION", &cfg.S3Region)

	if mode != "" {
		cfg.Mode = domain.Direction(strings.ToLower(mode))
	}
	if batch != "" {
		cfg.BatchMode = BatchMode(strings.ToLower(batch))
	}
	if format != "" {
		cfg.LogFormat = LogFormat(strings.ToLower(format))
	}

	if v, ok := lookup(envPrefix + "QUALITY"); ok {
		q, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %sQUALITY: %v", domain.ErrConfig, envPrefix, err)
		}
		cfg.Quality = q
	}
	if err := boolean("DELETE_ORIGINALS", &cfg.DeleteOriginals); err != nil {
		return err
	}
	return boolean("S3_CREATE_BUCKET", &cfg.S3CreateBucket)
}

// Validate checks enum fields, the quality range and that the extensions are
// distinct, dotted suffixes.
func (c *Config) Validate() error {
	switch c.Mode {
	case domain.DirectionEncode, domain.DirectionDecode, domain.DirectionRoundTrip:
		// valid
	default:
		return fmt.Errorf("%w: invalid mode %q (use 'encode', 'decode' or 'roundtrip')", domain.ErrConfig, c.Mode)
	}

	switch c.BatchMode {
	case BatchDirectory, BatchPerFile:
		// valid
	default:
		return fmt.Errorf("%w: invalid batch mode %q (use 'directory' or 'per-file')", domain.ErrConfig, c.BatchMode)
	}

	switch c.LogFormat {
	case LogFormatAuto, LogFormatConsole, LogFormatJSON:
		// valid
	default:
		return fmt.Errorf("%w: invalid log format %q", domain.ErrConfig, c.LogFormat)
	}

	if err := imaging.ValidateQuality(c.Quality); err != nil {
		return err
	}

	exts := map[string]string{"source": c.SourceExt, "encrypted": c.EncryptedExt, "archive": c.ArchiveExt}
	seen := make(map[string]string, len(exts))
	for name, ext := range exts {
		if len(ext) < 2 || !strings.HasPrefix(ext, ".") || strings.ContainsAny(ext[1:], "./\\") {
			return fmt.Errorf("%w: invalid %s extension %q", domain.ErrConfig, name, ext)
		}
		key := strings.ToLower(ext)
		if other, dup := seen[key]; dup {
			return fmt.Errorf("%w: %s and %s extensions are both %q", domain.ErrConfig, other, name, ext)
		}
		seen[key] = name
	}

	if c.Root == "" {
		return fmt.Errorf("%w: need a root directory", domain.ErrConfig)
	}
	return nil
}

// MirrorEnabled reports whether encrypted artifacts are uploaded.
func (c *Config) MirrorEnabled() bool {
	return c.S3Bucket != ""
}

package config

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/core/domain"
)

// Version is shown by -version; override with -ldflags "-X .../internal/config.Version=...".
var Version = "0.3.0-dev"

// ErrVersion is returned by ParseFlags when -version was given.
var ErrVersion = fmt.Errorf("version requested")

// ParseFlags applies command-line flags in args (without the program name) on
// top of cfg. flag.ErrHelp and ErrVersion are returned for -h and -version so
// the caller decides how to exit.
func ParseFlags(cfg *Config, args []string, output io.Writer) error {
	fs := flag.NewFlagSet("medcrypt", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() { printUsage(fs, output) }

	mode := string(cfg.Mode)
	batch := string(cfg.BatchMode)
	format := string(cfg.LogFormat)
	var showVersion bool

	fs.StringVar(&mode, "mode", mode, "Pipeline direction: encode | decode | roundtrip")
	fs.IntVar(&cfg.Quality, "quality", cfg.Quality, "JPEG quality for recompression, 1-95")
	fs.IntVar(&cfg.Quality, "q", cfg.Quality, "Same as -quality")
	fs.StringVar(&batch, "batch", batch, "Archive batching: directory | per-file")
	fs.BoolVar(&cfg.DeleteOriginals, "delete-originals", cfg.DeleteOriginals, "Remove source images once their directory is encrypted (encode mode only)")
	fs.StringVar(&cfg.SourceExt, "source-ext", cfg.SourceExt, "Extension of qualifying images")
	fs.StringVar(&cfg.EncryptedExt, "encrypted-ext", cfg.EncryptedExt, "Extension appended to encrypted artifacts")
	fs.StringVar(&cfg.ArchiveExt, "archive-ext", cfg.ArchiveExt, "Extension of transient archives")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug | info | warn | error")
	fs.StringVar(&format, "log-format", format, "auto | console | json")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Also write logs to this file")
	fs.StringVar(&cfg.S3Bucket, "s3-bucket", cfg.S3Bucket, "Mirror encrypted artifacts to this S3 bucket")
	fs.StringVar(&cfg.S3Prefix, "s3-prefix", cfg.S3Prefix, "Key prefix for mirrored artifacts")
	fs.StringVar(&cfg.S3Region, "s3-region", cfg.S3Region, "AWS region for the mirror bucket")
	fs.BoolVar(&cfg.S3CreateBucket, "s3-create-bucket", cfg.S3CreateBucket, "Create the mirror bucket if it does not exist")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if showVersion {
		fmt.Fprintln(output, "medcrypt v"+Version)
		return ErrVersion
	}

	cfg.Mode = domain.Direction(strings.ToLower(mode))
	cfg.BatchMode = BatchMode(strings.ToLower(batch))
	cfg.LogFormat = LogFormat(strings.ToLower(format))

	switch fs.NArg() {
	case 0:
		if cfg.Root == "" {
			return fmt.Errorf("%w: missing root directory", domain.ErrConfig)
		}
	case 1:
		cfg.Root = NormalizeDirArg(fs.Arg(0))
	default:
		return fmt.Errorf("%w: expected one root directory, got %d arguments", domain.ErrConfig, fs.NArg())
	}
	return nil
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "medcrypt v%s - compress, archive and encrypt image trees\n\n", Version)
	fmt.Fprintln(w, "Usage: medcrypt [flags] <root>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "The AES key lives only in memory for one run. Artifacts produced by")
	fmt.Fprintln(w, "'encode' can only be decoded within the same run ('roundtrip').")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment: MEDCRYPT_* variables (and a .env file) set defaults, flags override them.")
}

package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/config"
	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/core/domain"
	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/core/ports"
	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/storage"
)

// Options are the per-run settings the runner needs from config.
type Options struct {
	SourceExt       string
	EncryptedExt    string
	ArchiveExt      string
	Quality         int
	BatchMode       config.BatchMode
	DeleteOriginals bool // Encode only; RoundTrip restores over the sources instead.
}

// OptionsFromConfig copies the pipeline-relevant fields out of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SourceExt:       cfg.SourceExt,
		EncryptedExt:    cfg.EncryptedExt,
		ArchiveExt:      cfg.ArchiveExt,
		Quality:         cfg.Quality,
		BatchMode:       cfg.BatchMode,
		DeleteOriginals: cfg.DeleteOriginals,
	}
}

// Dependencies are the components the runner composes.
type Dependencies struct {
	Compressor ports.Compressor
	Archiver   ports.Archiver
	Cipher     ports.EncryptionService
	Store      storage.ArtifactStore // optional
}

// Runner executes the encode and decode passes with one key.
type Runner struct {
	opts Options
	key  domain.SymmetricKey
	deps Dependencies
	run  domain.RunInfo
	log  *zap.Logger
}

// New returns a Runner. key is used for every encrypt and decrypt call the
// runner makes; it is never written anywhere.
func New(opts Options, key domain.SymmetricKey, deps Dependencies, run domain.RunInfo, log *zap.Logger) (*Runner, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: empty key", domain.ErrCrypto)
	}
	if deps.Compressor == nil || deps.Archiver == nil || deps.Cipher == nil {
		return nil, fmt.Errorf("%w: compressor, archiver and cipher are required", domain.ErrConfig)
	}
	if deps.Store == nil {
		deps.Store = storage.Discard{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		opts: opts,
		key:  key,
		deps: deps,
		run:  run,
		log:  log.With(zap.String("run_id", run.ID)),
	}, nil
}

// RoundTrip encodes root and then decodes, with the same key, only the
// artifacts that encode pass wrote. Artifacts left by earlier runs are not
// touched. Sources are never deleted: each restored image replaces its source
// in place. The decode pass does not run if encoding failed.
func (r *Runner) RoundTrip(ctx context.Context, root string) (RunStats, RunStats, error) {
	enc, written, err := r.encode(ctx, root, false)
	if err != nil {
		return enc, RunStats{}, err
	}

	own := make([]Batch, 0, len(written))
	for _, b := range written {
		if len(b.Files) > 0 {
			own = append(own, b)
		}
	}
	dec, err := r.decode(ctx, root, own)
	return enc, dec, err
}

func (r *Runner) logSummary(phase string, stats *RunStats, start time.Time) {
	r.log.Info(phase+" finished",
		zap.Int("directories", stats.Directories),
		zap.Int("images", stats.Images),
		zap.Int("artifacts", stats.Artifacts),
		zap.Int("failed", stats.Failed),
		zap.Int64("input_bytes", stats.TotalInputBytes),
		zap.Int64("encrypted_bytes", stats.TotalEncryptedBytes),
		zap.Int64("space_saved", stats.SpaceSaved()),
		zap.Duration("elapsed", time.Since(start)),
	)
}

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/core/domain"
)

// DiscoverEncrypted snapshots the encrypted artifacts under root.
func DiscoverEncrypted(root, ext string) ([]Batch, error) {
	return Discover(root, ext)
}

// Decode decrypts and unpacks every artifact under root into its own
// directory. Artifacts are removed only after their contents are restored.
func (r *Runner) Decode(ctx context.Context, root string) (RunStats, error) {
	batches, err := DiscoverEncrypted(root, r.opts.EncryptedExt)
	if err != nil {
		return RunStats{}, err
	}
	return r.decode(ctx, root, batches)
}

func (r *Runner) decode(ctx context.Context, root string, batches []Batch) (RunStats, error) {
	var stats RunStats
	start := time.Now()
	stats.Directories = len(batches)
	r.log.Info("decode started",
		zap.String("root", root),
		zap.Int("directories", stats.Directories),
		zap.Int("artifacts", countFiles(batches)),
	)

	restored := make(map[string]struct{})
	for _, b := range batches {
		for _, enc := range b.Files {
			if err := ctx.Err(); err != nil {
				r.log.Warn("interrupted", zap.String("dir", b.Dir))
				return stats, err
			}

			paths, err := r.decodeArtifact(ctx, b.Dir, enc, &stats)
			if err != nil {
				stats.Failed++
				r.log.Error("decode failed",
					zap.String("artifact", enc),
					zap.String("kind", domain.KindOf(err)),
					zap.Error(err),
				)
				return stats, fmt.Errorf("decode %s: %w", enc, err)
			}
			for _, p := range paths {
				restored[p] = struct{}{}
			}
			stats.Images = len(restored)
		}
	}

	r.logSummary("decode", &stats, start)
	return stats, nil
}

func (r *Runner) decodeArtifact(ctx context.Context, dir, encPath string, stats *RunStats) ([]string, error) {
	archivePath := trimExt(encPath, r.opts.EncryptedExt) + r.opts.ArchiveExt
	if err := refuseExisting(archivePath); err != nil {
		return nil, err
	}

	info, err := os.Stat(encPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIO, err)
	}

	archiveSize, err := r.deps.Cipher.DecryptFile(ctx, encPath, archivePath, r.key)
	if err != nil {
		return nil, err
	}
	defer os.Remove(archivePath)

	paths, err := r.deps.Archiver.Unpack(archivePath, dir)
	if err != nil {
		return paths, err
	}

	if err := os.Remove(archivePath); err != nil {
		return paths, fmt.Errorf("%w: failed to remove archive %s: %v", domain.ErrIO, archivePath, err)
	}
	if err := os.Remove(encPath); err != nil {
		return paths, fmt.Errorf("%w: failed to remove %s: %v", domain.ErrIO, encPath, err)
	}

	stats.Artifacts++
	stats.TotalEncryptedBytes += info.Size()
	stats.TotalArchiveBytes += archiveSize
	r.log.Info("artifact restored",
		zap.String("artifact", encPath),
		zap.Int("files", len(paths)),
		zap.String("dir", filepath.Base(dir)),
	)
	return paths, nil
}

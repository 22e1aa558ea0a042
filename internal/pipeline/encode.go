package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/config"
	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/core/domain"
	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/encryption/service"
	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/storage"
)

// unit is one archive+encrypt operation: trigger names the outputs, members
// are packed.
type unit struct {
	trigger string
	members []string
}

// Encode recompresses, archives and encrypts every qualifying image under
// root. The first failure aborts the pass; artifacts completed before it stay
// on disk. Source images are only removed when DeleteOriginals is set.
func (r *Runner) Encode(ctx context.Context, root string) (RunStats, error) {
	stats, _, err := r.encode(ctx, root, r.opts.DeleteOriginals)
	return stats, err
}

// encode runs the encode pass and returns the artifacts it wrote, grouped by
// directory in processing order.
func (r *Runner) encode(ctx context.Context, root string, deleteOriginals bool) (RunStats, []Batch, error) {
	var stats RunStats
	var written []Batch
	start := time.Now()

	batches, err := Discover(root, r.opts.SourceExt)
	if err != nil {
		return stats, written, err
	}
	stats.Directories = len(batches)
	stats.Images = countFiles(batches)
	r.log.Info("encode started",
		zap.String("root", root),
		zap.Int("directories", stats.Directories),
		zap.Int("images", stats.Images),
		zap.String("batch_mode", string(r.opts.BatchMode)),
	)

	for _, b := range batches {
		out := Batch{Dir: b.Dir}
		for _, u := range r.plan(b) {
			if err := ctx.Err(); err != nil {
				r.log.Warn("interrupted", zap.String("dir", b.Dir))
				return stats, append(written, out), err
			}
			artifact, err := r.encodeUnit(ctx, root, b.Dir, u, &stats)
			if artifact != "" {
				out.Files = append(out.Files, artifact)
			}
			if err != nil {
				stats.Failed++
				r.log.Error("encode failed",
					zap.String("dir", b.Dir),
					zap.String("trigger", filepath.Base(u.trigger)),
					zap.String("kind", domain.KindOf(err)),
					zap.Error(err),
				)
				return stats, append(written, out), fmt.Errorf("encode %s: %w", u.trigger, err)
			}
		}
		written = append(written, out)

		if deleteOriginals {
			if err := removeAll(b.Files); err != nil {
				return stats, written, fmt.Errorf("encode %s: %w", b.Dir, err)
			}
			r.log.Info("originals removed", zap.String("dir", b.Dir), zap.Int("images", len(b.Files)))
		}
	}

	r.logSummary("encode", &stats, start)
	return stats, written, nil
}

// plan splits a directory snapshot into encode units according to the batch
// mode.
func (r *Runner) plan(b Batch) []unit {
	if r.opts.BatchMode == config.BatchPerFile {
		units := make([]unit, 0, len(b.Files))
		for _, f := range b.Files {
			units = append(units, unit{trigger: f, members: b.Files})
		}
		return units
	}
	return []unit{{trigger: b.Files[0], members: b.Files}}
}

// encodeUnit returns the encrypted artifact path once it exists on disk, even
// when a later step such as mirroring fails.
func (r *Runner) encodeUnit(ctx context.Context, root, dir string, u unit, stats *RunStats) (string, error) {
	archivePath := u.trigger + r.opts.ArchiveExt
	encPath := u.trigger + r.opts.EncryptedExt
	for _, p := range []string{archivePath, encPath} {
		if err := refuseExisting(p); err != nil {
			return "", err
		}
	}

	members, err := statAll(u.members)
	if err != nil {
		return "", err
	}

	recompressed, cleanup, err := r.recompress(dir, u.members)
	defer cleanup()
	if err != nil {
		return "", err
	}

	err = r.deps.Archiver.PackWith(dir, u.members, archivePath, func(path string) (io.ReadCloser, error) {
		return os.Open(recompressed[path])
	})
	if err != nil {
		return "", err
	}
	defer os.Remove(archivePath)
	cleanup()

	archiveInfo, err := os.Stat(archivePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrIO, err)
	}

	encSize, err := r.deps.Cipher.EncryptFile(ctx, archivePath, encPath, r.key)
	if err != nil {
		return "", err
	}
	if err := os.Remove(archivePath); err != nil {
		return encPath, fmt.Errorf("%w: failed to remove archive %s: %v", domain.ErrIO, archivePath, err)
	}

	artifact := domain.Artifact{
		Dir:           dir,
		Members:       members,
		EncryptedPath: encPath,
		ArchiveSize:   archiveInfo.Size(),
		EncryptedSize: encSize,
	}
	inputBytes := artifact.InputSize()

	stats.Artifacts++
	stats.TotalInputBytes += inputBytes
	stats.TotalArchiveBytes += artifact.ArchiveSize
	stats.TotalEncryptedBytes += artifact.EncryptedSize

	for _, m := range artifact.Members {
		r.log.Debug("packed", zap.String("image", m.Path), zap.Int64("bytes", m.Size))
	}
	r.log.Info("artifact encrypted",
		zap.String("artifact", encPath),
		zap.Int("members", len(artifact.Members)),
		zap.Int64("input_bytes", inputBytes),
		zap.Int64("archive_bytes", artifact.ArchiveSize),
		zap.Int64("encrypted_bytes", artifact.EncryptedSize),
	)

	return encPath, r.mirror(ctx, root, artifact)
}

// recompress writes a recompressed copy of each member to a hidden temp file
// in dir. The returned cleanup removes them and is safe to call twice.
func (r *Runner) recompress(dir string, members []string) (map[string]string, func(), error) {
	temps := make(map[string]string, len(members))
	cleanup := func() {
		for src, tmp := range temps {
			os.Remove(tmp)
			delete(temps, src)
		}
	}

	for _, m := range members {
		f, err := os.CreateTemp(dir, ".medcrypt-img-*")
		if err != nil {
			return temps, cleanup, fmt.Errorf("%w: failed to create temp file in %s: %v", domain.ErrIO, dir, err)
		}
		tmp := f.Name()
		f.Close()
		temps[m] = tmp

		if err := r.deps.Compressor.Compress(m, tmp, r.opts.Quality); err != nil {
			return temps, cleanup, err
		}
		r.log.Debug("recompressed", zap.String("image", m), zap.Int("quality", r.opts.Quality))
	}
	return temps, cleanup, nil
}

// mirror uploads the artifact under <runID>/<path relative to root>; the
// store adds its own prefix.
func (r *Runner) mirror(ctx context.Context, root string, a domain.Artifact) error {
	if _, discard := r.deps.Store.(storage.Discard); discard {
		return nil
	}

	f, err := os.Open(a.EncryptedPath)
	if err != nil {
		return fmt.Errorf("%w: failed to open %s: %v", domain.ErrIO, a.EncryptedPath, err)
	}
	defer f.Close()

	rel, err := filepath.Rel(root, a.EncryptedPath)
	if err != nil {
		rel = filepath.Base(a.EncryptedPath)
	}
	key := storage.ObjectKey(r.run.ID, filepath.ToSlash(rel))

	meta := domain.EncryptionMetadata{
		Algorithm:     service.Algorithm,
		RunID:         r.run.ID,
		Host:          r.run.Host,
		Members:       len(a.Members),
		OriginalSize:  a.InputSize(),
		EncryptedSize: a.EncryptedSize,
		CreatedAt:     time.Now().UTC(),
	}
	if err := r.deps.Store.PutArtifact(ctx, key, f, meta); err != nil {
		return err
	}
	r.log.Info("artifact mirrored", zap.String("key", key))
	return nil
}

func statAll(paths []string) ([]domain.ImageMetadata, error) {
	members := make([]domain.ImageMetadata, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrIO, err)
		}
		members = append(members, domain.ImageMetadata{Path: p, Size: info.Size()})
	}
	return members, nil
}

func refuseExisting(path string) error {
	if _, err := os.Lstat(path); err == nil {
		return fmt.Errorf("%w: refusing to overwrite existing %s", domain.ErrIO, path)
	}
	return nil
}

func removeAll(paths []string) error {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("%w: failed to remove %s: %v", domain.ErrIO, p, err)
		}
	}
	return nil
}

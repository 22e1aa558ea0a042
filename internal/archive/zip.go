// Package archive bundles a directory's images into a deflate-compressed zip
// container and restores them.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/core/domain"
	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/encryption/chunking"
)

// Extension is the suffix given to transient archives.
const Extension = ".zip"

type ZipArchiver struct {
	chunkSize int
}

func NewZipArchiver() *ZipArchiver {
	return &ZipArchiver{chunkSize: chunking.DefaultChunkSize}
}

// Pack stores every file under its path relative to sourceDir.
func (a *ZipArchiver) Pack(sourceDir string, files []string, outputPath string) error {
	return a.PackWith(sourceDir, files, outputPath, func(path string) (io.ReadCloser, error) {
		return os.Open(path)
	})
}

// PackWith names members after files but reads their content through open.
// On failure the partial archive is removed.
func (a *ZipArchiver) PackWith(sourceDir string, files []string, outputPath string, open func(path string) (io.ReadCloser, error)) (err error) {
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", domain.ErrArchive, outputPath, err)
	}
	defer func() {
		if err != nil {
			os.Remove(outputPath)
		}
	}()

	zw := zip.NewWriter(out)
	for _, path := range files {
		if err = a.addFile(zw, sourceDir, path, open); err != nil {
			zw.Close()
			out.Close()
			return err
		}
	}

	if err = zw.Close(); err != nil {
		out.Close()
		return fmt.Errorf("%w: failed to finalize %s: %v", domain.ErrArchive, outputPath, err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("%w: failed to close %s: %v", domain.ErrArchive, outputPath, err)
	}
	return nil
}

func (a *ZipArchiver) addFile(zw *zip.Writer, sourceDir, path string, open func(string) (io.ReadCloser, error)) error {
	name, err := memberName(sourceDir, path)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s disappeared: %v", domain.ErrArchive, path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", domain.ErrArchive, path)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("%w: failed to build header for %s: %v", domain.ErrArchive, path, err)
	}
	header.Name = name
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("%w: failed to add %s: %v", domain.ErrArchive, name, err)
	}

	rc, err := open(path)
	if err != nil {
		return fmt.Errorf("%w: failed to open %s: %v", domain.ErrArchive, path, err)
	}
	defer rc.Close()

	if _, err := chunking.Copy(w, rc, a.chunkSize); err != nil {
		return fmt.Errorf("%w: failed to compress %s: %v", domain.ErrArchive, path, err)
	}
	return nil
}

// memberName is path relative to sourceDir in zip (slash) form.
func memberName(sourceDir, path string) (string, error) {
	rel, err := filepath.Rel(sourceDir, path)
	if err != nil {
		return "", fmt.Errorf("%w: %s is not under %s: %v", domain.ErrArchive, path, sourceDir, err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is not under %s", domain.ErrArchive, path, sourceDir)
	}
	return filepath.ToSlash(rel), nil
}

// Unpack restores every entry of archivePath under destDir and returns the
// written file paths in archive order.
func (a *ZipArchiver) Unpack(archivePath, destDir string) ([]string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", domain.ErrArchive, archivePath, err)
	}
	defer zr.Close()

	var restored []string
	for _, f := range zr.File {
		target, err := entryTarget(destDir, f.Name)
		if err != nil {
			return restored, err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return restored, fmt.Errorf("%w: failed to create %s: %v", domain.ErrIO, target, err)
			}
			continue
		}

		if err := a.extract(f, target); err != nil {
			return restored, err
		}
		restored = append(restored, target)
	}
	return restored, nil
}

func (a *ZipArchiver) extract(f *zip.File, target string) (err error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", domain.ErrIO, filepath.Dir(target), err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: failed to read entry %s: %v", domain.ErrArchive, f.Name, err)
	}
	defer rc.Close()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", domain.ErrIO, target, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: failed to close %s: %v", domain.ErrIO, target, cerr)
		}
		if err != nil {
			os.Remove(target)
		}
	}()

	if _, err := chunking.Copy(out, rc, a.chunkSize); err != nil {
		return fmt.Errorf("%w: failed to inflate %s: %v", domain.ErrArchive, f.Name, err)
	}
	return nil
}

// entryTarget rejects entries that would land outside destDir.
func entryTarget(destDir, name string) (string, error) {
	if name == "" || strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: illegal entry name %q", domain.ErrArchive, name)
	}
	target := filepath.Join(destDir, filepath.FromSlash(name))
	rel, err := filepath.Rel(destDir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: entry %q escapes %s", domain.ErrArchive, name, destDir)
	}
	return target, nil
}

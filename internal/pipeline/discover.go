package pipeline

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/core/domain"
)

// Batch is the qualifying files of one directory, sorted by name.
type Batch struct {
	Dir   string
	Files []string
}

// Discover walks root and collects regular files whose final extension equals
// ext (case-insensitive), grouped per directory. Batches are ordered by
// directory path for deterministic processing.
func Discover(root, ext string) ([]Batch, error) {
	byDir := make(map[string][]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if HasExt(d.Name(), ext) {
			dir := filepath.Dir(path)
			byDir[dir] = append(byDir[dir], path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to walk %s: %v", domain.ErrIO, root, err)
	}

	batches := make([]Batch, 0, len(byDir))
	for dir, files := range byDir {
		sort.Strings(files)
		batches = append(batches, Batch{Dir: dir, Files: files})
	}
	sort.Slice(batches, func(i, j int) bool { return batches[i].Dir < batches[j].Dir })
	return batches, nil
}

// HasExt reports whether name ends in ext, ignoring case. ".jpeg" matches
// "a.JPEG" but not "a.jpeg.enc".
func HasExt(name, ext string) bool {
	return ext != "" && strings.EqualFold(filepath.Ext(name), ext)
}

// trimExt removes a suffix that HasExt matched, preserving the caller's case
// for the rest of the name.
func trimExt(path, ext string) string {
	return path[:len(path)-len(ext)]
}

func countFiles(batches []Batch) int {
	n := 0
	for _, b := range batches {
		n += len(b.Files)
	}
	return n
}

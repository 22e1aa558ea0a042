package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/core/domain"
)

// ArtifactStore receives encrypted artifacts after they are written locally.
// Only ciphertext is ever handed to a store. key is relative to the store's
// own prefix.
type ArtifactStore interface {
	PutArtifact(ctx context.Context, key string, body io.Reader, metadata domain.EncryptionMetadata) error
}

// Config holds configuration for the artifact mirror.
type Config struct {
	BucketName   string
	Region       string
	Prefix       string
	CreateBucket bool // Create the bucket when it does not exist
}

// ObjectKey joins parts into a slash-separated object key without a leading
// slash. Backslashes in parts are treated as separators.
func ObjectKey(parts ...string) string {
	clean := make([]string, 0, len(parts))
	for _, p := range parts {
		clean = append(clean, strings.ReplaceAll(p, "\\", "/"))
	}
	return strings.TrimLeft(path.Join(clean...), "/")
}

// Discard is a store that accepts and drops every artifact. It is used when no
// mirror is configured.
type Discard struct{}

func (Discard) PutArtifact(ctx context.Context, key string, body io.Reader, metadata domain.EncryptionMetadata) error {
	return nil
}

package domain

import (
	"time"
)

// SymmetricKey is the per-run AES key. It is generated once at start-up and
// handed to every encrypt and decrypt call of that run.
type SymmetricKey []byte

// Direction names the pipeline path a run executes.
type Direction string

const (
	DirectionEncode    Direction = "encode"
	DirectionDecode    Direction = "decode"
	DirectionRoundTrip Direction = "roundtrip"
)

// RunInfo identifies a single process run.
type RunInfo struct {
	ID        string
	Host      string
	Direction Direction
	StartedAt time.Time
}

// ImageMetadata describes a qualifying source image picked up by discovery.
type ImageMetadata struct {
	Path string
	Size int64
}

// Artifact records one encode unit: a directory snapshot packed into a single
// archive and encrypted into a single file.
type Artifact struct {
	Dir           string
	Members       []ImageMetadata
	EncryptedPath string
	ArchiveSize   int64
	EncryptedSize int64
}

// InputSize is the combined size of the source images before recompression.
func (a Artifact) InputSize() int64 {
	var n int64
	for _, m := range a.Members {
		n += m.Size
	}
	return n
}

// EncryptionMetadata is attached to mirrored artifacts. It never carries key
// material.
type EncryptionMetadata struct {
	Algorithm     string
	RunID         string
	Host          string
	Members       int
	OriginalSize  int64
	EncryptedSize int64
	CreatedAt     time.Time
}

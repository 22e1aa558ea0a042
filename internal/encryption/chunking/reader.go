// Package chunking bounds how much of an image is read per call while it is
// copied into or out of an archive.
package chunking

import (
	"fmt"
	"io"
)

const (
	DefaultChunkSize = 256 * 1024      // 256KB, larger than most chest X-ray JPEGs
	MinChunkSize     = 4 * 1024        // 4KB
	MaxChunkSize     = 8 * 1024 * 1024 // 8MB
)

type ChunkReader struct {
	reader    io.Reader
	chunkSize int
}

func NewChunkReader(reader io.Reader, chunkSize int) (*ChunkReader, error) {
	if chunkSize < MinChunkSize || chunkSize > MaxChunkSize {
		return nil, fmt.Errorf("invalid chunk size: must be between %d and %d bytes", MinChunkSize, MaxChunkSize)
	}

	return &ChunkReader{
		reader:    reader,
		chunkSize: chunkSize,
	}, nil
}

func (r *ChunkReader) Read(p []byte) (n int, err error) {
	if len(p) > r.chunkSize {
		p = p[:r.chunkSize]
	}
	return r.reader.Read(p)
}

// Copy moves src into dst one chunk at a time and returns the bytes copied.
func Copy(dst io.Writer, src io.Reader, chunkSize int) (int64, error) {
	reader, err := NewChunkReader(src, chunkSize)
	if err != nil {
		return 0, err
	}
	buf := make([]byte, chunkSize)
	return io.CopyBuffer(dst, reader, buf)
}

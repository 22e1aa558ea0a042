package ports

import (
	"context"
	"io"

	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/core/domain"
)

// EncryptionService turns archive bytes into IV-prefixed ciphertext and back.
type EncryptionService interface {
	Encrypt(ctx context.Context, plain []byte, key domain.SymmetricKey) ([]byte, error)
	Decrypt(ctx context.Context, ivCipher []byte, key domain.SymmetricKey) ([]byte, error)
	EncryptFile(ctx context.Context, src, dst string, key domain.SymmetricKey) (int64, error)
	DecryptFile(ctx context.Context, src, dst string, key domain.SymmetricKey) (int64, error)
}

// Encryptor is the raw block-cipher primitive in CBC mode. Inputs to
// EncryptBlocks must already be padded to the block size.
type Encryptor interface {
	GenerateKey() ([]byte, error)
	GenerateIV() ([]byte, error)
	EncryptBlocks(padded []byte, key []byte, iv []byte) ([]byte, error)
	DecryptBlocks(ciphertext []byte, key []byte, iv []byte) ([]byte, error)
	BlockSize() int
}

// Compressor re-encodes an image at a lossy quality factor.
type Compressor interface {
	Compress(sourcePath, destPath string, quality int) error
}

// Archiver bundles files into a single container and restores them.
type Archiver interface {
	Pack(sourceDir string, files []string, outputPath string) error
	PackWith(sourceDir string, files []string, outputPath string, open func(path string) (io.ReadCloser, error)) error
	Unpack(archivePath, destDir string) ([]string, error)
}

package service

import (
	"context"
	"fmt"
	"os"

	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/core/domain"
)

// Decrypt splits off the IV, decrypts the remainder under key and strips the
// padding. A wrong key or a corrupted ciphertext almost always surfaces as a
// padding failure.
func (s *EncryptionService) Decrypt(ctx context.Context, ivCipher []byte, key domain.SymmetricKey) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	blockSize := s.encryptor.BlockSize()
	iv, body, err := splitIV(ivCipher, blockSize)
	if err != nil {
		return nil, err
	}

	padded, err := s.encryptor.DecryptBlocks(body, key, iv)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decrypt: %v", domain.ErrCrypto, err)
	}

	plain, err := s.padder.Unpad(padded, blockSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCrypto, err)
	}
	return plain, nil
}

// DecryptFile decrypts src into dst and returns the plaintext size. Nothing is
// written when decryption fails.
func (s *EncryptionService) DecryptFile(ctx context.Context, src, dst string, key domain.SymmetricKey) (int64, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read %s: %v", domain.ErrIO, src, err)
	}

	plain, err := s.Decrypt(ctx, data, key)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", src, err)
	}

	if err := writeAtomic(dst, plain, 0o600); err != nil {
		return 0, fmt.Errorf("%w: failed to write %s: %v", domain.ErrIO, dst, err)
	}
	return int64(len(plain)), nil
}

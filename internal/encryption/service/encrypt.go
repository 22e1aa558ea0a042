package service

import (
	"context"
	"fmt"
	"os"

	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/core/domain"
)

// Encrypt pads plain, encrypts it under key with a fresh IV and returns
// IV || ciphertext.
func (s *EncryptionService) Encrypt(ctx context.Context, plain []byte, key domain.SymmetricKey) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	iv, err := s.encryptor.GenerateIV()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCrypto, err)
	}

	padded, err := s.padder.Pad(plain, s.encryptor.BlockSize())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to pad plaintext: %v", domain.ErrCrypto, err)
	}

	encrypted, err := s.encryptor.EncryptBlocks(padded, key, iv)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encrypt: %v", domain.ErrCrypto, err)
	}

	return joinIV(iv, encrypted), nil
}

// EncryptFile encrypts the file at src into dst and returns the number of
// bytes written. dst only appears once it is complete.
func (s *EncryptionService) EncryptFile(ctx context.Context, src, dst string, key domain.SymmetricKey) (int64, error) {
	plain, err := os.ReadFile(src)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read %s: %v", domain.ErrIO, src, err)
	}

	out, err := s.Encrypt(ctx, plain, key)
	if err != nil {
		return 0, err
	}

	if err := writeAtomic(dst, out, 0o600); err != nil {
		return 0, fmt.Errorf("%w: failed to write %s: %v", domain.ErrIO, dst, err)
	}
	return int64(len(out)), nil
}

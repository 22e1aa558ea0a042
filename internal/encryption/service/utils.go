package service

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/core/domain"
)

func joinIV(iv, encrypted []byte) []byte {
	out := make([]byte, 0, len(iv)+len(encrypted))
	out = append(out, iv...)
	return append(out, encrypted...)
}

// splitIV requires at least the IV plus one ciphertext block.
func splitIV(data []byte, blockSize int) (iv, body []byte, err error) {
	if len(data) < 2*blockSize {
		return nil, nil, fmt.Errorf("%w: ciphertext too short: %d bytes", domain.ErrCrypto, len(data))
	}
	if len(data)%blockSize != 0 {
		return nil, nil, fmt.Errorf("%w: ciphertext length %d is not a multiple of %d", domain.ErrCrypto, len(data), blockSize)
	}
	return data[:blockSize], data[blockSize:], nil
}

func writeAtomic(path string, data []byte, mode fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".medcrypt-tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

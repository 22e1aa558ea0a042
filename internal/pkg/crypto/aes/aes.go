// Package aes implements the AES-CBC primitive behind the archive cipher.
package aes

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

const (
	BlockSize = aes.BlockSize // 16 bytes
	KeySize   = 16            // AES-128
	IVSize    = BlockSize     // CBC IV is one block
)

type AESEncryptor struct {
	keySize int
	random  io.Reader
}

func NewAESEncryptor(keySize int) *AESEncryptor {
	return NewAESEncryptorWithReader(keySize, rand.Reader)
}

// NewAESEncryptorWithReader uses r as the source for keys and IVs.
func NewAESEncryptorWithReader(keySize int, r io.Reader) *AESEncryptor {
	return &AESEncryptor{
		keySize: keySize,
		random:  r,
	}
}

func (e *AESEncryptor) BlockSize() int {
	return BlockSize
}

func (e *AESEncryptor) GenerateKey() ([]byte, error) {
	key := make([]byte, e.keySize)
	if _, err := io.ReadFull(e.random, key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return key, nil
}

// GenerateIV draws a fresh IV from the random source. Every encryption gets its own.
func (e *AESEncryptor) GenerateIV() ([]byte, error) {
	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(e.random, iv); err != nil {
		return nil, fmt.Errorf("failed to generate IV: %w", err)
	}
	return iv, nil
}

func (e *AESEncryptor) EncryptBlocks(padded []byte, key []byte, iv []byte) ([]byte, error) {
	block, err := e.newBlock(key, iv, len(padded))
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return out, nil
}

func (e *AESEncryptor) DecryptBlocks(ciphertext []byte, key []byte, iv []byte) ([]byte, error) {
	block, err := e.newBlock(key, iv, len(ciphertext))
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
	return out, nil
}

func (e *AESEncryptor) newBlock(key []byte, iv []byte, dataLen int) (cipher.Block, error) {
	// Validate inputs
	if len(key) != e.keySize {
		return nil, fmt.Errorf("invalid key size: expected %d, got %d", e.keySize, len(key))
	}

	if len(iv) != IVSize {
		return nil, fmt.Errorf("invalid IV size: expected %d, got %d", IVSize, len(iv))
	}

	if dataLen%BlockSize != 0 {
		return nil, fmt.Errorf("invalid data length: %d is not a multiple of %d", dataLen, BlockSize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return block, nil
}

package mocks

import (
	"bytes"
)

// MockEncryptor defaults to an identity "cipher" with fixed key and IV so tests
// can inspect framing and padding without real crypto.
type MockEncryptor struct {
	GenerateKeyFunc   func() ([]byte, error)
	GenerateIVFunc    func() ([]byte, error)
	EncryptBlocksFunc func(padded []byte, key []byte, iv []byte) ([]byte, error)
	DecryptBlocksFunc func(ciphertext []byte, key []byte, iv []byte) ([]byte, error)
	BlockSizeValue    int
}

func NewMockEncryptor() *MockEncryptor {
	return &MockEncryptor{
		GenerateKeyFunc: func() ([]byte, error) {
			return bytes.Repeat([]byte{1}, 16), nil
		},
		GenerateIVFunc: func() ([]byte, error) {
			return bytes.Repeat([]byte{2}, 16), nil
		},
		EncryptBlocksFunc: func(padded []byte, key []byte, iv []byte) ([]byte, error) {
			return append([]byte(nil), padded...), nil
		},
		DecryptBlocksFunc: func(ciphertext []byte, key []byte, iv []byte) ([]byte, error) {
			return append([]byte(nil), ciphertext...), nil
		},
		BlockSizeValue: 16,
	}
}

func (m *MockEncryptor) GenerateKey() ([]byte, error) {
	return m.GenerateKeyFunc()
}

func (m *MockEncryptor) GenerateIV() ([]byte, error) {
	return m.GenerateIVFunc()
}

func (m *MockEncryptor) EncryptBlocks(padded []byte, key []byte, iv []byte) ([]byte, error) {
	return m.EncryptBlocksFunc(padded, key, iv)
}

func (m *MockEncryptor) DecryptBlocks(ciphertext []byte, key []byte, iv []byte) ([]byte, error) {
	return m.DecryptBlocksFunc(ciphertext, key, iv)
}

func (m *MockEncryptor) BlockSize() int {
	return m.BlockSizeValue
}

package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/core/domain"
	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/encryption/service/mocks"
	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/pkg/crypto/aes"
)

func TestEncryptionService_Encrypt(t *testing.T) {
	tests := []struct {
		name      string
		input     []byte
		wantLen   int
		wantErr   bool
		setupMock func(*mocks.MockEncryptor)
	}{
		{
			name:    "Success - Small input",
			input:   []byte("Hello, World!"),
			wantLen: 32,
		},
		{
			name:    "Success - Empty input",
			input:   []byte{},
			wantLen: 32,
		},
		{
			name:    "Success - Block aligned input",
			input:   bytes.Repeat([]byte("data"), 8),
			wantLen: 16 + 48,
		},
		{
			name:    "Failure - IV generation fails",
			input:   []byte("test"),
			wantErr: true,
			setupMock: func(m *mocks.MockEncryptor) {
				m.GenerateIVFunc = func() ([]byte, error) {
					return nil, io.ErrUnexpectedEOF
				}
			},
		},
		{
			name:    "Failure - Block encryption fails",
			input:   []byte("test"),
			wantErr: true,
			setupMock: func(m *mocks.MockEncryptor) {
				m.EncryptBlocksFunc = func([]byte, []byte, []byte) ([]byte, error) {
					return nil, errors.New("boom")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockEncryptor := mocks.NewMockEncryptor()
			if tt.setupMock != nil {
				tt.setupMock(mockEncryptor)
			}
			svc := NewService(mockEncryptor)

			out, err := svc.Encrypt(context.Background(), tt.input, make([]byte, 16))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Encrypt() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, domain.ErrCrypto) {
					t.Errorf("Encrypt() error = %v, want ErrCrypto", err)
				}
				return
			}

			if len(out) != tt.wantLen {
				t.Errorf("Encrypt() output length = %d, want %d", len(out), tt.wantLen)
			}
			if !bytes.Equal(out[:16], bytes.Repeat([]byte{2}, 16)) {
				t.Error("IV is not prepended in the clear")
			}
			if !bytes.HasPrefix(out[16:], tt.input) {
				t.Error("identity cipher should leave the plaintext ahead of the padding")
			}
		})
	}
}

func TestEncryptionService_FreshIVPerCall(t *testing.T) {
	svc := NewService(aes.NewAESEncryptor(aes.KeySize))
	key := bytes.Repeat([]byte{9}, aes.KeySize)
	plain := []byte("same plaintext, different output")

	first, err := svc.Encrypt(context.Background(), plain, key)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	second, err := svc.Encrypt(context.Background(), plain, key)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	if bytes.Equal(first[:aes.IVSize], second[:aes.IVSize]) {
		t.Error("IV reused across encryptions")
	}
	if bytes.Equal(first, second) {
		t.Error("identical plaintexts produced identical ciphertexts")
	}
}

func TestEncryptionService_CanceledContext(t *testing.T) {
	svc := NewService(mocks.NewMockEncryptor())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Encrypt(ctx, []byte("x"), make([]byte, 16)); !errors.Is(err, context.Canceled) {
		t.Errorf("Encrypt() error = %v, want context.Canceled", err)
	}
}

func TestEncryptionService_EncryptFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpeg.zip")
	dst := filepath.Join(dir, "a.jpeg.enc")
	if err := os.WriteFile(src, []byte("archive bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	svc := NewService(aes.NewAESEncryptor(aes.KeySize))
	key := bytes.Repeat([]byte{3}, aes.KeySize)

	n, err := svc.EncryptFile(context.Background(), src, dst, key)
	if err != nil {
		t.Fatalf("EncryptFile() error = %v", err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("encrypted file missing: %v", err)
	}
	if info.Size() != n || n != 32 {
		t.Errorf("EncryptFile() wrote %d bytes, file has %d, want 32", n, info.Size())
	}

	t.Run("Missing source", func(t *testing.T) {
		_, err := svc.EncryptFile(context.Background(), filepath.Join(dir, "nope.zip"), filepath.Join(dir, "nope.enc"), key)
		if !errors.Is(err, domain.ErrIO) {
			t.Errorf("EncryptFile() error = %v, want ErrIO", err)
		}
		if _, statErr := os.Stat(filepath.Join(dir, "nope.enc")); !os.IsNotExist(statErr) {
			t.Error("output written for a failed encryption")
		}
	})
}

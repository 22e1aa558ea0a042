package service

import (
	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/core/ports"
	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/pkg/crypto/padding"
)

// Algorithm names the on-disk format: IV || AES-CBC(PKCS#7(plaintext)).
const Algorithm = "AES-128-CBC-PKCS7"

type Service = ports.EncryptionService

type EncryptionService struct {
	encryptor ports.Encryptor
	padder    padding.PKCS7
}

func NewService(encryptor ports.Encryptor) Service {
	return &EncryptionService{
		encryptor: encryptor,
	}
}

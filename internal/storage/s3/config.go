package s3

import (
	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/storage"
)

// DefaultConfig provides default configuration values
var DefaultConfig = storage.Config{
	Prefix: "artifacts/",
}

// WithPrefix sets the key prefix for mirrored artifacts
func WithPrefix(prefix string) func(*storage.Config) {
	return func(c *storage.Config) {
		if prefix != "" {
			c.Prefix = prefix
		}
	}
}

// WithCreateBucket sets whether a missing bucket is created on start-up
func WithCreateBucket(create bool) func(*storage.Config) {
	return func(c *storage.Config) {
		c.CreateBucket = create
	}
}

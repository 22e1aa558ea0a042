package domain

import "errors"

// Error kinds surfaced by the pipeline. Components wrap one of these so callers
// can branch with errors.Is.
var (
	ErrIO      = errors.New("io error")
	ErrArchive = errors.New("archive error")
	ErrCrypto  = errors.New("crypto error")
	ErrConfig  = errors.New("config error")
)

// KindOf returns a short label for the error kind, or "unknown".
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCrypto):
		return "crypto"
	case errors.Is(err, ErrArchive):
		return "archive"
	case errors.Is(err, ErrConfig):
		return "config"
	case errors.Is(err, ErrIO):
		return "io"
	default:
		return "unknown"
	}
}

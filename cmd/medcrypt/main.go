// Command medcrypt recompresses, archives and encrypts the JPEG images of a
// directory tree, and restores them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/archive"
	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/config"
	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/core/domain"
	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/device"
	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/encryption/service"
	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/imaging"
	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/logging"
	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/pipeline"
	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/pkg/crypto/aes"
	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/storage"
	s3store "github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/storage/s3"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Default()
	if err := config.LoadEnv(&cfg, ".env"); err != nil {
		fmt.Fprintf(os.Stderr, "medcrypt: %v\n", err)
		return 1
	}
	if err := config.ParseFlags(&cfg, os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) || errors.Is(err, config.ErrVersion) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "medcrypt: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "medcrypt: %v\n", err)
		return 1
	}

	log, err := logging.New(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "medcrypt: %v\n", err)
		return 1
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("received interrupt, finishing current artifact")
		cancel()
	}()

	info := domain.RunInfo{
		ID:        uuid.NewString(),
		Direction: cfg.Mode,
		StartedAt: time.Now().UTC(),
	}
	if info.Host, err = device.New().HostID(); err != nil {
		log.Warn("host fingerprint unavailable", zap.Error(err))
	}

	log.Info("medcrypt starting",
		zap.String("version", config.Version),
		zap.String("run_id", info.ID),
		zap.String("host", info.Host),
		zap.String("mode", string(cfg.Mode)),
		zap.String("root", cfg.Root),
	)

	encryptor := aes.NewAESEncryptor(aes.KeySize)
	key, err := encryptor.GenerateKey()
	if err != nil {
		log.Error("failed to generate key", zap.Error(err))
		return 1
	}

	store, err := newStore(ctx, &cfg, log)
	if err != nil {
		log.Error("artifact mirror unavailable", zap.String("kind", domain.KindOf(err)), zap.Error(err))
		return 1
	}

	runner, err := pipeline.New(pipeline.OptionsFromConfig(&cfg), key, pipeline.Dependencies{
		Compressor: imaging.NewJPEGCompressor(),
		Archiver:   archive.NewZipArchiver(),
		Cipher:     service.NewService(encryptor),
		Store:      store,
	}, info, log)
	if err != nil {
		log.Error("failed to build pipeline", zap.Error(err))
		return 1
	}

	switch cfg.Mode {
	case domain.DirectionEncode:
		log.Warn("the key is discarded when this run exits; these artifacts cannot be decoded later")
		_, err = runner.Encode(ctx, cfg.Root)
	case domain.DirectionDecode:
		log.Warn("decoding with a fresh key; artifacts from earlier runs will fail to decrypt")
		_, err = runner.Decode(ctx, cfg.Root)
	default:
		_, _, err = runner.RoundTrip(ctx, cfg.Root)
	}
	if err != nil {
		log.Error("run failed", zap.String("kind", domain.KindOf(err)), zap.Error(err))
		return 1
	}
	return 0
}

// newStore returns the S3 mirror when a bucket is configured and a discarding
// store otherwise.
func newStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.ArtifactStore, error) {
	if !cfg.MirrorEnabled() {
		return storage.Discard{}, nil
	}

	awsCfg, err := s3store.LoadAWSConfig(ctx, cfg.S3Region)
	if err != nil {
		return nil, err
	}
	identity, err := s3store.VerifyIdentity(ctx, awsCfg)
	if err != nil {
		return nil, err
	}
	log.Info("artifact mirror enabled",
		zap.String("bucket", cfg.S3Bucket),
		zap.String("prefix", cfg.S3Prefix),
		zap.String("account", identity.Account),
		zap.String("arn", identity.Arn),
	)

	return s3store.NewClient(ctx, awsCfg, cfg.S3Bucket,
		s3store.WithPrefix(cfg.S3Prefix),
		s3store.WithCreateBucket(cfg.S3CreateBucket),
	)
}

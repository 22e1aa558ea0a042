package s3

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/core/domain"
	"github.com/keshavrathinavel/Effects-of-Compression-and-Encryption-on-Medical-Images/internal/storage"
)

// API is the subset of the S3 client the store uses.
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// Identity is the caller the AWS credentials resolve to.
type Identity struct {
	Account string
	Arn     string
}

type Store struct {
	client API
	config storage.Config
}

func New(client API, config storage.Config) *Store {
	return &Store{
		client: client,
		config: config,
	}
}

// LoadAWSConfig resolves credentials through the SDK default chain.
func LoadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("%w: unable to load AWS config: %v", domain.ErrIO, err)
	}
	return cfg, nil
}

// VerifyIdentity asks STS who the credentials belong to, failing fast before
// any artifact is produced.
func VerifyIdentity(ctx context.Context, cfg aws.Config) (Identity, error) {
	out, err := sts.NewFromConfig(cfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: unable to get caller identity: %v", domain.ErrIO, err)
	}
	return Identity{
		Account: aws.ToString(out.Account),
		Arn:     aws.ToString(out.Arn),
	}, nil
}

// NewClient creates an S3-backed store and makes sure the bucket is reachable.
func NewClient(ctx context.Context, cfg aws.Config, bucket string, opts ...func(*storage.Config)) (*Store, error) {
	config := DefaultConfig
	config.BucketName = bucket
	config.Region = cfg.Region
	for _, opt := range opts {
		opt(&config)
	}

	store := New(s3.NewFromConfig(cfg), config)
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// EnsureBucket checks the bucket exists, creating it when configured to.
func (s *Store) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.config.BucketName),
	})
	if err == nil {
		return nil
	}
	if !s.config.CreateBucket {
		return fmt.Errorf("%w: failed to access bucket %s: %v", domain.ErrIO, s.config.BucketName, err)
	}

	input := &s3.CreateBucketInput{
		Bucket: aws.String(s.config.BucketName),
	}
	// Only add location constraint if not in us-east-1
	if s.config.Region != "" && s.config.Region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.config.Region),
		}
	}
	if _, err := s.client.CreateBucket(ctx, input); err != nil {
		return fmt.Errorf("%w: unable to create bucket %s: %v", domain.ErrIO, s.config.BucketName, err)
	}
	return nil
}

// PutArtifact uploads one encrypted artifact to key under the configured
// prefix.
func (s *Store) PutArtifact(ctx context.Context, key string, body io.Reader, metadata domain.EncryptionMetadata) error {
	key = storage.ObjectKey(s.config.Prefix, key)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.BucketName),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String("application/octet-stream"),
		Metadata:    objectMetadata(metadata),
	})
	if err != nil {
		return fmt.Errorf("%w: failed to store artifact %s: %v", domain.ErrIO, key, err)
	}
	return nil
}

func objectMetadata(m domain.EncryptionMetadata) map[string]string {
	return map[string]string{
		"algorithm":      m.Algorithm,
		"run-id":         m.RunID,
		"host":           m.Host,
		"members":        strconv.Itoa(m.Members),
		"original-size":  strconv.FormatInt(m.OriginalSize, 10),
		"encrypted-size": strconv.FormatInt(m.EncryptedSize, 10),
		"created-at":     m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

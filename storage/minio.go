package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"wavehub/config"
	"wavehub/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Signed URL lifetimes. Listing responses carry the short window; the
// URL returned straight after an upload carries the long one. Old URLs
// stay valid until their own expiry; minting never revokes anything.
const (
	ListSignTTL   = 24 * time.Hour
	UploadSignTTL = 7 * 24 * time.Hour
)

// ObjectStore is the object-store collaborator: binary assets stored
// under stable internal keys, handed to clients only as time-bounded
// signed URLs minted at response time.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, bucket, key string) error
	// MintAccessURL presigns a GET for the internal key. Stateless and
	// idempotent aside from the remote call; every invocation yields a
	// new, independently valid URL.
	MintAccessURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}

// MinioStore implements ObjectStore on a MinIO (or S3-compatible) server.
type MinioStore struct {
	client *minio.Client
}

// NewMinioStore connects to MinIO and makes sure the audio and avatar
// buckets exist.
func NewMinioStore(cfg *config.Config) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	s := &MinioStore{client: client}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, bucket := range []string{cfg.MinioAudioBucket, cfg.MinioAvatarBucket} {
		if err := s.ensureBucket(ctx, bucket, cfg.MinioRegion); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *MinioStore) ensureBucket(ctx context.Context, name, region string) error {
	exists, err := s.client.BucketExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", name, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, name, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", name, err)
	}
	logger.Info("created bucket", logger.String("bucket", name))
	return nil
}

func (s *MinioStore) Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to store object %s: %w", key, err)
	}
	return nil
}

func (s *MinioStore) Remove(ctx context.Context, bucket, key string) error {
	if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", key, err)
	}
	return nil
}

func (s *MinioStore) MintAccessURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, bucket, key, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign object %s: %w", key, err)
	}
	return u.String(), nil
}

// Ping verifies the connection. Used by the minio subcommand.
func (s *MinioStore) Ping(ctx context.Context) error {
	if _, err := s.client.ListBuckets(ctx); err != nil {
		return fmt.Errorf("failed to list buckets: %w", err)
	}
	return nil
}

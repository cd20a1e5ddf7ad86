// Package s3blob hosts book cover images in an S3 compatible bucket (AWS S3,
// MinIO). Objects are stored under <prefix><id> and served from a public
// base URL, so the id is always the last segment of the image URL.
package s3blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/bookworm-social/bookworm-api/internal/core/ports"
)

// API is the subset of *s3.Client used by BlobStore.
type API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Config holds the bucket and endpoint settings.
type Config struct {
	Endpoint  string // empty for AWS
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string // base URL objects are served from
	KeyPrefix string
}

type BlobStore struct {
	api       API
	bucket    string
	publicURL string
	prefix    string
}

// New builds a BlobStore on top of an already configured API client.
func New(api API, cfg Config) *BlobStore {
	return &BlobStore{
		api:       api,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		prefix:    cfg.KeyPrefix,
	}
}

// NewClient creates an S3 client with static credentials. A custom endpoint
// switches to path-style addressing as required by MinIO.
func NewClient(ctx context.Context, cfg Config) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// PublicURL returns the default public base URL for cfg: the custom endpoint
// with the bucket appended, or the virtual-hosted AWS URL.
func PublicURL(cfg Config) string {
	if cfg.PublicURL != "" {
		return strings.TrimRight(cfg.PublicURL, "/")
	}
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

// URLMarker returns the host of the public base URL, used to recognise
// images hosted by this store.
func URLMarker(publicURL string) string {
	u, err := url.Parse(publicURL)
	if err != nil || u.Host == "" {
		return publicURL
	}
	return u.Host
}

// Upload stores data under a fresh id.
func (s *BlobStore) Upload(ctx context.Context, data []byte, contentType string) (ports.StoredBlob, error) {
	if len(data) == 0 {
		return ports.StoredBlob{}, errors.New("empty blob")
	}

	id := uuid.NewString()
	key := s.prefix + id

	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return ports.StoredBlob{}, fmt.Errorf("put object %s: %w", key, err)
	}

	return ports.StoredBlob{ID: id, URL: s.publicURL + "/" + key}, nil
}

// Delete removes the object with the given id.
func (s *BlobStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("empty blob id")
	}
	key := s.prefix + id
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// Ping reports whether the bucket is reachable.
func (s *BlobStore) Ping(ctx context.Context) error {
	_, err := s.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

// Package s3 implements the blob store on Amazon S3 or any S3-compatible
// object storage (MinIO, DigitalOcean Spaces, localstack).
//
// Keys are the `/`-joined logical paths derived from the folder tree; the
// bucket mirrors the folder hierarchy, which makes the storage layout
// readable on its own and allows tree reconstruction from the bucket in a
// disaster-recovery scenario.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"drivebox/internal/domain/services"
)

// Config contains the settings for the S3 blob store.
type Config struct {
	// Endpoint overrides the AWS endpoint for S3-compatible providers.
	// Empty means AWS S3 proper.
	Endpoint string

	// Region is the bucket region
	Region string

	// Bucket is the bucket name; it must already exist
	Bucket string

	// AccessKeyID / SecretAccessKey are static credentials
	AccessKeyID     string
	SecretAccessKey string

	// ForcePathStyle addresses the bucket as a path segment instead of a
	// subdomain. Required by MinIO and localstack.
	ForcePathStyle bool
}

// Store implements services.BlobStore against a single bucket.
//
// This implementation is safe for concurrent use by multiple goroutines.
// Concurrent writes to the same key are last-write-wins, which matches S3's
// own consistency model.
type Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

var _ services.BlobStore = (*Store)(nil)

// NewClient creates an S3 client from configuration parameters.
func NewClient(ctx context.Context, cfg Config) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"", // session token (empty for static credentials)
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = &cfg.Endpoint
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return client, nil
}

// New creates a blob store backed by the given bucket and verifies access to
// it. The bucket must already exist - this function does not create it.
func New(ctx context.Context, client *s3.Client, bucket string) (*Store, error) {
	if client == nil {
		return nil, errors.New("S3 client is required")
	}
	if bucket == "" {
		return nil, errors.New("bucket name is required")
	}

	_, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err != nil {
		return nil, fmt.Errorf("verify bucket %q: %w", bucket, err)
	}

	return &Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
	}, nil
}

// Put stores content under a key, overwriting any previous object.
func (s *Store) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}

// PresignedGet returns a time-limited download URL for a key.
func (s *Store) PresignedGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign object %q: %w", key, err)
	}
	return req.URL, nil
}

// Head probes content type and size without fetching the body.
func (s *Store) Head(ctx context.Context, key string) (*services.ObjectInfo, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("head object %q: %w", key, err)
	}

	info := &services.ObjectInfo{
		ContentType: aws.ToString(out.ContentType),
		Size:        aws.ToInt64(out.ContentLength),
	}
	return info, nil
}

// Delete removes an object. S3 DeleteObject succeeds on missing keys, which
// gives the idempotence the deletion engine relies on when retrying a
// partially-deleted subtree.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %q: %w", key, err)
	}
	return nil
}

// Copy duplicates an object server-side. The copy source must be
// URL-encoded since logical paths contain slashes.
func (s *Store) Copy(ctx context.Context, sourceKey, destKey string) error {
	source := s.bucket + "/" + sourceKey

	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		Key:        aws.String(destKey),
		CopySource: aws.String(url.PathEscape(source)),
	})
	if err != nil {
		return fmt.Errorf("copy object %q to %q: %w", sourceKey, destKey, err)
	}
	return nil
}

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// S3Config carries the settings for an S3-compatible blob backend.
type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string
}

// S3BlobStore implements BlobStore backed by an S3-compatible service.
type S3BlobStore struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
}

// NewS3BlobStore configures a client targeting the provided object store.
func NewS3BlobStore(ctx context.Context, cfg S3Config) (*S3BlobStore, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 blob store: bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if strings.TrimSpace(cfg.Endpoint) != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if service == s3.ServiceID {
				return aws.Endpoint{
					URL:           cfg.Endpoint,
					SigningRegion: cfg.Region,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &S3BlobStore{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
	}, nil
}

// Put uploads content under a generated key and returns the key as reference.
func (s *S3BlobStore) Put(ctx context.Context, data []byte) (string, error) {
	ref := uuid.NewString()
	if err := s.upload(ctx, ref, data); err != nil {
		return "", err
	}
	return ref, nil
}

// PutVariant uploads a derivative addressed as ref+suffix.
func (s *S3BlobStore) PutVariant(ctx context.Context, ref, suffix string, data []byte) error {
	return s.upload(ctx, ref+suffix, data)
}

// Get downloads the content for a reference.
func (s *S3BlobStore) Get(ctx context.Context, ref string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("s3 get %s: %w", ref, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read %s: %w", ref, err)
	}
	return data, nil
}

// GetVariant downloads a derivative of the original reference.
func (s *S3BlobStore) GetVariant(ctx context.Context, ref, suffix string) ([]byte, error) {
	return s.Get(ctx, ref+suffix)
}

func (s *S3BlobStore) upload(ctx context.Context, key string, data []byte) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s: %w", key, err)
	}
	return nil
}

var _ BlobStore = (*S3BlobStore)(nil)

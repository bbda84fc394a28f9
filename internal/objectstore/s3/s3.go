package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/giftedai/giftedai/internal/objectstore"
)

// cacheControl applied to every uploaded object, matching the caching policy
// of the public bucket.
const cacheControl = "max-age=3600"

// S3Store stores uploaded objects in an S3-compatible bucket (AWS or a
// MinIO-style endpoint).
type S3Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

type Options struct {
	Region    string
	Endpoint  string // optional custom endpoint for MinIO-style deployments
	AccessKey string
	SecretKey string
	Bucket    string
	// PublicBaseURL is the externally reachable address objects are served
	// from; object URLs are <PublicBaseURL>/<bucket>/<key>.
	PublicBaseURL string
}

func NewS3Store(ctx context.Context, opts Options) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client:        client,
		bucket:        opts.Bucket,
		publicBaseURL: strings.TrimSuffix(opts.PublicBaseURL, "/"),
	}, nil
}

func (s *S3Store) Upload(ctx context.Context, fileName, mimeType string, r io.Reader) (string, string, error) {
	key := objectstore.ObjectKey(fileName)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         r,
		ContentType:  aws.String(mimeType),
		CacheControl: aws.String(cacheControl),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload object: %w", err)
	}

	return key, fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, key), nil
}

func (s *S3Store) Remove(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to remove object: %w", err)
	}
	return nil
}

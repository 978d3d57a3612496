package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "github.com/dmitrijs2005/filevault/internal/server/config"
)

// S3Storage stores blobs in an S3-compatible bucket (MinIO in development).
type S3Storage struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	baseURL  string
}

// NewS3Storage builds the S3 client from the server configuration: static
// credentials and a BaseEndpoint override so MinIO and AWS both work.
func NewS3Storage(ctx context.Context, c *sc.Config) (*S3Storage, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(c.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.S3RootUser,
			c.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Storage{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   c.S3Bucket,
		baseURL:  strings.TrimRight(c.S3BaseEndpoint, "/"),
	}, nil
}

// objectURL derives the public path-style URL of a stored object.
func (s *S3Storage) objectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, key)
}

// EnsureFolder writes a zero-byte "<prefix>/" marker object for every
// segment of path. PutObject overwrites markers in place, so repeating a
// segment is harmless and "already exists" needs no special handling.
func (s *S3Storage) EnsureFolder(ctx context.Context, path string) error {
	parts := strings.Split(strings.Trim(path, "/"), "/")

	current := ""
	for _, part := range parts {
		if part == "" {
			continue
		}
		if current == "" {
			current = part
		} else {
			current = current + "/" + part
		}

		key := current + "/"
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader(nil),
		})
		if err != nil {
			return fmt.Errorf("create folder %q: %w", current, err)
		}
	}

	return nil
}

func (s *S3Storage) Upload(ctx context.Context, key, contentType string, body io.Reader) (*Object, error) {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("upload %q: %w", key, err)
	}

	return &Object{Key: key, URL: s.objectURL(key)}, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}

	return nil
}

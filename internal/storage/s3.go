package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

const defaultURLExpiry = time.Hour

// ObjectStorage stores objects in S3 or an S3-compatible store such as Cloudflare R2.
type ObjectStorage struct {
	client     *s3.S3
	uploader   *s3manager.Uploader
	bucket     string
	baseURL    string
	publicRead bool
	expiry     time.Duration
	provider   string
}

func NewObjectStorage(cfg Config) (*ObjectStorage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required for %s storage", cfg.Type)
	}

	awsConfig := &aws.Config{
		Credentials: credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		DisableSSL:  aws.Bool(cfg.Endpoint != "" && !cfg.UseSSL),
	}

	switch cfg.Type {
	case "cloudflare_r2":
		// R2 endpoint format: https://<account_id>.r2.cloudflarestorage.com
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("endpoint is required for Cloudflare R2")
		}
		awsConfig.Region = aws.String("auto")
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	default:
		awsConfig.Region = aws.String(cfg.Region)
		if cfg.Endpoint != "" {
			awsConfig.Endpoint = aws.String(cfg.Endpoint)
			awsConfig.S3ForcePathStyle = aws.Bool(true)
		}
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s session: %w", cfg.Type, err)
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		if cfg.Type == "cloudflare_r2" {
			baseURL = fmt.Sprintf("https://%s.r2.dev", cfg.Bucket)
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}

	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = defaultURLExpiry
	}

	return &ObjectStorage{
		client:     s3.New(sess),
		uploader:   s3manager.NewUploader(sess),
		bucket:     cfg.Bucket,
		baseURL:    baseURL,
		publicRead: cfg.PublicRead,
		expiry:     expiry,
		provider:   cfg.Type,
	}, nil
}

func (s *ObjectStorage) Save(ctx context.Context, path string, reader io.Reader, contentType string) error {
	input := &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(path),
		Body:        reader,
		ContentType: aws.String(contentType),
	}
	if s.publicRead {
		input.ACL = aws.String(s3.ObjectCannedACLPublicRead)
	}

	if _, err := s.uploader.UploadWithContext(ctx, input); err != nil {
		return fmt.Errorf("failed to upload to %s: %w", s.provider, err)
	}
	return nil
}

func (s *ObjectStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	result, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get from %s: %w", s.provider, err)
	}
	return result.Body, nil
}

func (s *ObjectStorage) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("failed to delete from %s: %w", s.provider, err)
	}
	return nil
}

func (s *ObjectStorage) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *ObjectStorage) URL(ctx context.Context, path string) (string, error) {
	if s.publicRead {
		return fmt.Sprintf("%s/%s", s.baseURL, path), nil
	}

	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	url, err := req.Presign(s.expiry)
	if err != nil {
		return "", fmt.Errorf("failed to generate signed URL: %w", err)
	}
	return url, nil
}

func (s *ObjectStorage) Provider() string {
	return s.provider
}

func isNotFound(err error) bool {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return true
		}
	}
	return false
}

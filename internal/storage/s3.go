package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the subset of the S3 client used for uploads
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore uploads listing images to a bucket and returns their public URL
type S3ImageStore struct {
	client  PutObjectAPI
	bucket  string
	prefix  string
	baseURL string
}

// NewS3ImageStore creates an image store. When cdnBaseURL is empty, URLs point
// at the bucket's virtual-hosted S3 endpoint in region.
func NewS3ImageStore(client PutObjectAPI, bucket, prefix, cdnBaseURL, region string) *S3ImageStore {
	base := strings.TrimRight(cdnBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &S3ImageStore{
		client:  client,
		bucket:  bucket,
		prefix:  strings.Trim(prefix, "/"),
		baseURL: base,
	}
}

// NewS3ImageStoreFromConfig builds the S3 client from a shared AWS config
func NewS3ImageStoreFromConfig(cfg aws.Config, bucket, prefix, cdnBaseURL string) *S3ImageStore {
	return NewS3ImageStore(s3.NewFromConfig(cfg), bucket, prefix, cdnBaseURL, cfg.Region)
}

// PutImage uploads body under key and returns the public URL
func (s *S3ImageStore) PutImage(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	objectKey := key
	if s.prefix != "" {
		objectKey = s.prefix + "/" + key
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return fmt.Sprintf("%s/%s", s.baseURL, objectKey), nil
}

package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

type SpacesConfig struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string
	CDNURL    string
}

// spacesStorage writes public-read objects to an S3-compatible bucket.
type spacesStorage struct {
	client   s3iface.S3API
	bucket   string
	endpoint string
	cdnURL   string
}

func NewSpacesStorage(cfg SpacesConfig) (FileStorage, error) {
	sess, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Endpoint:         aws.String(cfg.Endpoint),
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create spaces session: %w", err)
	}
	return newSpacesStorage(s3.New(sess), cfg), nil
}

func newSpacesStorage(client s3iface.S3API, cfg SpacesConfig) *spacesStorage {
	return &spacesStorage{
		client:   client,
		bucket:   cfg.Bucket,
		endpoint: strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://"),
		cdnURL:   strings.TrimSuffix(cfg.CDNURL, "/"),
	}
}

func (s *spacesStorage) Upload(ctx context.Context, r io.Reader, folder, name, contentType string) (string, error) {
	body, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("failed to read upload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	key := ObjectKey(folder, name)
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ACL:         aws.String("public-read"),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	if s.cdnURL != "" {
		return fmt.Sprintf("%s/%s", s.cdnURL, key), nil
	}
	return fmt.Sprintf("https://%s.%s/%s", s.bucket, s.endpoint, key), nil
}

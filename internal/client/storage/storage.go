// Package storage uploads user files (avatars) to an S3-compatible bucket
// and builds their public links.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// CacheControl is applied to every uploaded object.
const CacheControl = "max-age=3600"

var ErrObjectExists = errors.New("object already exists")

// ObjectStorage is what the profile synchronizer needs from object storage.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PublicURL(key string) string
}

var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

type Options struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	Bucket       string
	// PublicURL is the origin links are built from; BaseEndpoint if empty.
	PublicURL string
}

type S3Storage struct {
	opts Options

	mu     sync.Mutex
	client *s3.Client
}

func NewS3Storage(opts Options) *S3Storage {
	return &S3Storage{opts: opts}
}

func (s *S3Storage) getClient(ctx context.Context) (*s3.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.opts.AccessKey,
			s.opts.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	s.client = newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.opts.BaseEndpoint)
		}
		o.UsePathStyle = true
	})
	return s.client, nil
}

// Upload stores body under key. Existing objects are never overwritten.
func (s *S3Storage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if s.opts.Bucket == "" {
		return fmt.Errorf("storage: bucket not configured")
	}

	c, err := s.getClient(ctx)
	if err != nil {
		return err
	}

	_, err = putObject(c, ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.opts.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String(CacheControl),
		IfNoneMatch:   aws.String("*"),
	})
	if err != nil {
		if strings.Contains(err.Error(), "PreconditionFailed") {
			return fmt.Errorf("%w: %s", ErrObjectExists, key)
		}
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

// PublicURL returns <origin>/<bucket>/<key> with the key path-escaped.
func (s *S3Storage) PublicURL(key string) string {
	origin := s.opts.PublicURL
	if origin == "" {
		origin = s.opts.BaseEndpoint
	}

	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.TrimRight(origin, "/") + "/" + s.opts.Bucket + "/" + strings.Join(parts, "/")
}

package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubSeams(t *testing.T) {
	t.Helper()
	origLoad, origNew, origPut := loadDefaultAWSConfig, newS3ClientFromConfig, putObject
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, putObject = origLoad, origNew, origPut
	})
}

func TestUpload(t *testing.T) {
	stubSeams(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-west-1", lo.Region)
		return aws.Config{}, nil
	}

	builds := 0
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		builds++
		var o s3.Options
		for _, fn := range optFns {
			fn(&o)
		}
		require.NotNil(t, o.BaseEndpoint)
		assert.Equal(t, "http://minio:9000", *o.BaseEndpoint)
		assert.True(t, o.UsePathStyle)
		return &s3.Client{}
	}

	var got *s3.PutObjectInput
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		got = in
		return &s3.PutObjectOutput{}, nil
	}

	st := NewS3Storage(Options{Region: "eu-west-1", BaseEndpoint: "http://minio:9000", Bucket: "avatars"})
	require.NoError(t, st.Upload(context.Background(), "avatars/u1-1-abc.png", strings.NewReader("png"), 3, "image/png"))
	require.NoError(t, st.Upload(context.Background(), "avatars/u1-2-abc.png", strings.NewReader("png"), 3, "image/png"))

	assert.Equal(t, 1, builds)
	require.NotNil(t, got)
	assert.Equal(t, "avatars", aws.ToString(got.Bucket))
	assert.Equal(t, "avatars/u1-2-abc.png", aws.ToString(got.Key))
	assert.Equal(t, "image/png", aws.ToString(got.ContentType))
	assert.Equal(t, CacheControl, aws.ToString(got.CacheControl))
	assert.Equal(t, "*", aws.ToString(got.IfNoneMatch))

	body, err := io.ReadAll(got.Body)
	require.NoError(t, err)
	assert.Equal(t, "png", string(body))
}

func TestUpload_Errors(t *testing.T) {
	stubSeams(t)

	st := NewS3Storage(Options{})
	assert.Error(t, st.Upload(context.Background(), "k", strings.NewReader(""), 0, "image/png"))

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("boom")
	}
	st = NewS3Storage(Options{Bucket: "b"})
	err := st.Upload(context.Background(), "k", strings.NewReader(""), 0, "image/png")
	assert.ErrorContains(t, err, "load aws config")

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client { return &s3.Client{} }
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, errors.New("api error PreconditionFailed: At least one of the pre-conditions you specified did not hold")
	}
	err = st.Upload(context.Background(), "k", strings.NewReader(""), 0, "image/png")
	assert.ErrorIs(t, err, ErrObjectExists)
}

func TestPublicURL(t *testing.T) {
	st := NewS3Storage(Options{BaseEndpoint: "http://minio:9000/", Bucket: "avatars"})
	assert.Equal(t, "http://minio:9000/avatars/avatars/u1-1-a%20b.png", st.PublicURL("avatars/u1-1-a b.png"))

	st = NewS3Storage(Options{BaseEndpoint: "http://minio:9000", PublicURL: "https://cdn.example.com", Bucket: "avatars"})
	assert.Equal(t, "https://cdn.example.com/avatars/avatars/x.png", st.PublicURL("avatars/x.png"))
}

package export

import (
	"bytes"
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Sink stores one rendered page. location is the rendered path, e.g.
// "/users/1".
type Sink interface {
	Write(ctx context.Context, location string, html []byte) error
}

// pageKey maps a location to "<location>/index.html" without a leading
// slash. Query strings and fragments are dropped.
func pageKey(location string) string {
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		location = location[:i]
	}
	clean := strings.TrimPrefix(path.Clean("/"+location), "/")
	if clean == "" {
		return "index.html"
	}
	return clean + "/index.html"
}

// DirSink writes pages below Dir.
type DirSink struct {
	Dir string
}

// Write implements Sink.
func (d DirSink) Write(_ context.Context, location string, html []byte) error {
	dst := filepath.Join(d.Dir, filepath.FromSlash(pageKey(location)))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return os.WriteFile(dst, html, 0644)
}

// S3API is the part of the S3 client the sink uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads pages to Bucket under Prefix.
type S3Sink struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Sink creates an S3 sink.
//
// Example usage:
//
//	sink := export.NewS3Sink(export.NewS3Client("eu-west-1"), "my-bucket", "site")
func NewS3Sink(client S3API, bucket, prefix string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, prefix: prefix}
}

// NewS3Client creates a client for region using the credentials in the
// standard AWS environment variables.
func NewS3Client(region string) *s3.Client {
	return s3.New(s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(envCredentials()),
	})
}

func envCredentials() aws.CredentialsProviderFunc {
	return func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "environment",
		}, nil
	}
}

// Key returns the object key for location.
func (s *S3Sink) Key(location string) string {
	return path.Join(s.prefix, pageKey(location))
}

// Write implements Sink.
func (s *S3Sink) Write(ctx context.Context, location string, html []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.Key(location)),
		Body:        bytes.NewReader(html),
		ContentType: aws.String("text/html; charset=utf-8"),
	})
	return err
}

package aws

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const S3Scheme = "s3://"

// ObjectGetter is the part of *s3.Client the service needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Object is a downloaded S3 object held in memory.
type Object struct {
	Key         string
	ContentType string
	Body        []byte
}

type S3Service struct {
	client ObjectGetter
}

func NewS3Service(client ObjectGetter) *S3Service {
	return &S3Service{client: client}
}

// ParseS3URI splits "s3://bucket/key/with/slashes" into bucket and key.
func ParseS3URI(uri string) (string, string, error) {
	if !strings.HasPrefix(uri, S3Scheme) {
		return "", "", fmt.Errorf("not an s3 uri: %s", uri)
	}
	bucket, key, ok := strings.Cut(strings.TrimPrefix(uri, S3Scheme), "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 uri must look like s3://bucket/key, got: %s", uri)
	}
	return bucket, key, nil
}

// ReadObject downloads bucket/key into memory. There is no timeout of its own,
// the caller's context bounds it.
func (service *S3Service) ReadObject(ctx context.Context, bucket string, key string) (*Object, error) {
	resp, err := service.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("couldn't download object with key: %s, AWS error: %w", key, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object data: %w", err)
	}
	return &Object{
		Key:         key,
		ContentType: aws.ToString(resp.ContentType),
		Body:        body,
	}, nil
}

package extractor

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"resumescan/internal/config"
	"resumescan/internal/errors"
)

// ObjectGetter is the part of the S3 client the extractor uses.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads s3://bucket/key documents.
type S3Source struct {
	client   ObjectGetter
	maxBytes int64
}

// NewS3Source builds an S3 client from the source settings. Without static
// credentials the default AWS credential chain applies.
func NewS3Source(ctx context.Context, cfg config.S3SourceConfig, maxBytes int64) (*S3Source, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "Failed to load AWS configuration", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return NewS3SourceWithClient(client, maxBytes), nil
}

// NewS3SourceWithClient wraps an existing client.
func NewS3SourceWithClient(client ObjectGetter, maxBytes int64) *S3Source {
	return &S3Source{client: client, maxBytes: maxBytes}
}

// ParseS3URI splits s3://bucket/key.
func ParseS3URI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 uri: %s", uri)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 uri must name a bucket and a key: %s", uri)
	}
	return bucket, key, nil
}

// Get downloads the object named by uri.
func (s *S3Source) Get(ctx context.Context, uri string) ([]byte, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, err.Error(), nil)
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if stderrors.As(err, &noSuchKey) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("Object not found: %s", uri), err)
		}
		return nil, errors.NewNetworkError(errors.ErrCodeFetchFailed,
			fmt.Sprintf("Failed to get object %s", uri), err)
	}
	defer out.Body.Close()

	if s.maxBytes > 0 && out.ContentLength != nil && *out.ContentLength > s.maxBytes {
		return nil, errors.NewValidationError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("%s exceeds the %d byte limit", uri, s.maxBytes), nil)
	}
	data, err := readLimited(out.Body, s.maxBytes, uri)
	if err != nil {
		if _, ok := errors.As(err); ok {
			return nil, err
		}
		return nil, errors.NewNetworkError(errors.ErrCodeFetchFailed,
			fmt.Sprintf("Failed to read object body %s", uri), err)
	}
	return data, nil
}

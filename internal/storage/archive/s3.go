package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"meal-checkin/internal/config"
)

// S3Archive stores generated reports in an S3-compatible bucket
// (AWS S3, MinIO, R2, Spaces).
type S3Archive struct {
	log    *slog.Logger
	client *s3.Client
	bucket string
}

func NewS3(ctx context.Context, log *slog.Logger, cfg config.ArchiveConfig) (*S3Archive, error) {
	const op = "storage.archive.NewS3"

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to load AWS config: %w", op, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Info("report archive enabled",
		slog.String("bucket", cfg.Bucket),
		slog.String("region", cfg.Region),
		slog.String("endpoint", cfg.Endpoint))

	return &S3Archive{
		log:    log,
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

func (a *S3Archive) Save(ctx context.Context, key, contentType string, body io.Reader) error {
	const op = "storage.archive.Save"

	// PutObject needs a seekable body to sign the payload.
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("%s: failed to upload %s: %w", op, key, err)
	}

	return nil
}

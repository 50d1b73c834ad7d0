// Package archive stores uploaded source documents in S3-compatible object
// storage so a generated deck can be traced back to the file it came from.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/cardsmith/cardsmith/internal/logging"
)

// Config carries the object-storage settings.
type Config struct {
	RootUser     string
	RootPassword string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// s3API is the subset of the S3 client used here; tests fake it.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver uploads raw document bytes under a dated per-user key.
type S3Archiver struct {
	client s3API
	bucket string
	logger logging.Logger
}

// New builds an archiver for an S3-compatible backend (MinIO in dev).
func New(ctx context.Context, cfg Config, logger logging.Logger) (*S3Archiver, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.RootUser,
			cfg.RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return &S3Archiver{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// Archive uploads the document. The original file name travels as object
// metadata; the key itself stays opaque.
func (a *S3Archiver) Archive(ctx context.Context, userID, fileName string, data []byte) error {
	key := storageKey(userID)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
		Metadata: map[string]string{
			"filename": fileName,
			"user-id":  userID,
		},
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	a.logger.Info(ctx, "archived uploaded document", "user_id", userID, "key", key, "bytes", len(data))
	return nil
}

func storageKey(userID string) string {
	d := time.Now()
	return fmt.Sprintf("uploads/%s/%d/%d/%d/%v", userID, d.Year(), int(d.Month()), d.Day(), uuid.New())
}

package database

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

var S3Client *s3.Client

// ObjectStore wraps the S3-compatible client (Cloudflare R2 or MinIO) with
// the handful of operations the services need.
type ObjectStore struct {
	client  *s3.Client
	presign *s3.PresignClient
}

// ConnectS3 initializes the S3-compatible client
func ConnectS3(cfg *config.Config, log *zap.Logger) (*ObjectStore, error) {
	ctx := context.Background()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.S3Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpointURL := getEndpointURL(cfg.S3Endpoint, cfg.S3UseSSL)
	S3Client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpointURL)
		// Use path-style addressing for R2 and MinIO (required for custom endpoints)
		o.UsePathStyle = true
	})

	log.Info("connected to S3-compatible storage (R2/MinIO)",
		zap.String("endpoint", endpointURL), zap.String("region", cfg.S3Region),
		zap.String("media_bucket", cfg.S3BucketMedia), zap.String("audit_bucket", cfg.S3BucketAudit))

	// Test connection by trying to list buckets (non-blocking, just for verification)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := S3Client.ListBuckets(ctx, &s3.ListBucketsInput{}); err != nil {
			log.Warn("S3 connection test failed; buckets may not exist yet or permissions are restricted", zap.Error(err))
		} else {
			log.Info("S3 connection verified")
		}
	}()

	return NewObjectStore(S3Client), nil
}

func NewObjectStore(client *s3.Client) *ObjectStore {
	return &ObjectStore{client: client, presign: s3.NewPresignClient(client)}
}

// getEndpointURL constructs the full endpoint URL
func getEndpointURL(endpoint string, useSSL bool) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, endpoint)
}

// PresignUpload generates a pre-signed URL for uploading to R2/S3
func (o *ObjectStore) PresignUpload(ctx context.Context, bucket, key string, expiresIn time.Duration) (string, error) {
	request, err := o.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiresIn
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned upload URL: %w", err)
	}
	return request.URL, nil
}

// PresignDownload generates a pre-signed URL for downloading from R2/S3
func (o *ObjectStore) PresignDownload(ctx context.Context, bucket, key string, expiresIn time.Duration) (string, error) {
	request, err := o.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiresIn
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned download URL: %w", err)
	}
	return request.URL, nil
}

// PutObject uploads body under bucket/key.
func (o *ObjectStore) PutObject(ctx context.Context, bucket, key, contentType string, body []byte) error {
	_, err := o.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s/%s: %w", bucket, key, err)
	}
	return nil
}

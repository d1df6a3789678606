// =============================================================================
// Daily Sales Report - Report Publisher
// =============================================================================
//
// This module uploads a written report to an S3-compatible bucket (AWS S3 or
// MinIO) so that it is available outside the machine running the job.
//
// OBJECT LAYOUT:
//   s3://<bucket>/<prefix><report file name>
//
//   The object key is derived from the file name only, so a second run on the
//   same day overwrites the first upload just as it overwrites the local file.
//
// CREDENTIALS:
//   Explicit keys in Config are used when set. Otherwise the default AWS
//   chain applies (AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY, shared config,
//   instance role).
//
// =============================================================================

package publisher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	// ContentTypeXLSX is the media type of the uploaded workbook.
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// DefaultTimeout bounds a single upload.
	DefaultTimeout = 2 * time.Minute

	// DefaultRegion is used when Config.Region is empty.
	DefaultRegion = "us-east-1"
)

// Publisher copies a local report somewhere else and returns its location.
type Publisher interface {
	Publish(ctx context.Context, path string) (string, error)
}

// =============================================================================
// S3 PUBLISHER
// =============================================================================

// Config holds the S3 connection settings.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional; set for MinIO or other S3-compatible stores
	Prefix    string // prepended to the file name to form the object key
	PathStyle bool
	Timeout   time.Duration

	AccessKeyID     string // optional (falls back to default credentials chain)
	SecretAccessKey string // optional
	SessionToken    string // optional
}

// S3Publisher uploads reports with PutObject.
type S3Publisher struct {
	client  *s3.Client
	bucket  string
	prefix  string
	timeout time.Duration
}

// New creates an S3 publisher from cfg. optFns are applied to the S3 client
// options after the settings derived from cfg.
func New(ctx context.Context, cfg Config, optFns ...func(*s3.Options)) (*S3Publisher, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}

	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		for _, fn := range optFns {
			fn(o)
		}
	})

	return &S3Publisher{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  cfg.Prefix,
		timeout: timeout,
	}, nil
}

// Key returns the object key for the report at path.
func (p *S3Publisher) Key(path string) string {
	return p.prefix + filepath.Base(path)
}

// Publish uploads the file at path and returns its s3:// URI.
func (p *S3Publisher) Publish(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close()

	key := p.Key(path)
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(ContentTypeXLSX),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload s3://%s/%s: %w", p.bucket, key, err)
	}

	return fmt.Sprintf("s3://%s/%s", p.bucket, key), nil
}

package images

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// CacheControl is the header every uploaded image carries, per §4.7 step
// 5: a year-long public cache since a given (date, flashpoint_id, index)
// path is immutable once written (the whole directory is cleared and
// rewritten together, never patched in place).
const CacheControl = "public, max-age=31536000"

// S3Config configures the S3-compatible object store.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // non-empty for an S3-compatible provider (e.g. R2, MinIO)
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string // e.g. https://cdn.example.com -- served URLs are PublicBaseURL + "/" + key
	SignTTL         time.Duration
}

// S3Store is the ObjectStore backing the live Image Downloader.
type S3Store struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3Store builds an S3Store from cfg. It never dials the network at
// construction time; credentials and connectivity are only exercised on
// first Put/List/Delete call.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{client: client, cfg: cfg}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.cfg.Bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(CacheControl),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.cfg.Bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 list %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
	}
	return keys, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) URL(key string) string {
	if s.cfg.SignTTL > 0 {
		return s.signedURL(key)
	}
	return fmt.Sprintf("%s/%s", s.cfg.PublicBaseURL, key)
}

// signedURL is a placeholder computed without a network round trip: a
// live deployment would call s3.PresignClient.PresignGetObject, which
// needs a context and returns an error this interface has no room for.
// TODO: thread a context through ObjectStore.URL to use the real presigner.
func (s *S3Store) signedURL(key string) string {
	return fmt.Sprintf("%s/%s?ttl=%d", s.cfg.PublicBaseURL, key, int(s.cfg.SignTTL.Seconds()))
}

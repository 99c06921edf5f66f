package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"savethedate_backend/internals/configs"
)

// S3Store is an ObjectStore on AWS S3 or any S3 compatible endpoint (MinIO, R2).
type S3Store struct {
	client     *s3.Client
	bucket     string
	publicBase string
}

type S3StoreConfig struct {
	Bucket     string
	Region     string
	Endpoint   string // optional custom endpoint, path-style addressing
	PublicBase string
}

func NewS3Store(ctx context.Context, cfg S3StoreConfig) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("missing S3 bucket")
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	base := cfg.PublicBase
	if base == "" {
		if cfg.Endpoint != "" {
			base = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}

	return &S3Store{client: client, bucket: cfg.Bucket, publicBase: base}, nil
}

func NewS3StoreFromEnv(ctx context.Context) (*S3Store, error) {
	return NewS3Store(ctx, S3StoreConfig{
		Bucket:     configs.GetEnv("S3_BUCKET"),
		Region:     configs.GetEnv("S3_REGION", "eu-west-3"),
		Endpoint:   configs.GetEnv("S3_ENDPOINT"),
		PublicBase: configs.GetEnv("S3_PUBLIC_BASE"),
	})
}

func (s *S3Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         r,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(cacheForever),
	}
	if size > 0 {
		in.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("s3 put %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	return strings.TrimRight(s.publicBase, "/") + "/" + key
}

func (s *S3Store) KeyFromURL(publicURL string) (string, error) {
	return keyFromURL(publicURL, s.publicBase)
}

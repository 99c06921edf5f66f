package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/rs/zerolog/log"

	"savethedate_backend/internals/configs"
)

type OSSStore struct {
	Client     *oss.Client
	Bucket     *oss.Bucket
	Endpoint   string
	BucketName string
	PublicBase string // optional CDN base
}

func NewOSSStoreFromEnv() (*OSSStore, error) {
	endpoint := configs.GetEnv("ALI_OSS_ENDPOINT")
	ak := configs.GetEnv("ALI_OSS_ACCESS_KEY")
	sk := configs.GetEnv("ALI_OSS_SECRET_KEY")
	sts := configs.GetEnv("ALI_OSS_SECURITY_TOKEN")
	bucketName := configs.GetEnv("ALI_OSS_BUCKET")
	if endpoint == "" || ak == "" || sk == "" || bucketName == "" {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}

	var opts []oss.ClientOption
	if sts != "" {
		opts = append(opts, oss.SecurityToken(sts))
	}
	client, err := oss.New(endpoint, ak, sk, opts...)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bkt, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	if loc, err := client.GetBucketLocation(bucketName); err != nil {
		if se, ok := err.(oss.ServiceError); ok && se.StatusCode == 403 {
			log.Warn().Str("bucket", bucketName).Msg("oss: skipping location check (access denied)")
		} else {
			return nil, fmt.Errorf("verify bucket: %w", err)
		}
	} else {
		log.Info().Str("bucket", bucketName).Str("location", loc).Msg("oss bucket ready")
	}

	return &OSSStore{
		Client:     client,
		Bucket:     bkt,
		Endpoint:   endpoint,
		BucketName: bucketName,
		PublicBase: configs.GetEnv("ALI_OSS_PUBLIC_BASE"),
	}, nil
}

func (s *OSSStore) Put(ctx context.Context, key string, r io.Reader, _ int64, contentType string) error {
	return s.Bucket.PutObject(key, r,
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
		oss.CacheControl(cacheForever),
	)
}

func (s *OSSStore) Delete(ctx context.Context, key string) error {
	return s.Bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (s *OSSStore) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	if s.PublicBase != "" {
		return strings.TrimRight(s.PublicBase, "/") + "/" + key
	}
	end := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.BucketName, end, key)
}

func (s *OSSStore) KeyFromURL(publicURL string) (string, error) {
	return keyFromURL(publicURL, s.PublicBase)
}

// keyFromURL strips a known public base, else everything up to the first path slash.
func keyFromURL(publicURL, base string) (string, error) {
	if publicURL == "" {
		return "", fmt.Errorf("empty url")
	}
	if base != "" {
		base = strings.TrimRight(base, "/") + "/"
		if strings.HasPrefix(publicURL, base) {
			return strings.TrimPrefix(publicURL, base), nil
		}
	}
	u := publicURL
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
	}
	if i := strings.Index(u, "/"); i >= 0 && i+1 < len(u) {
		return u[i+1:], nil
	}
	return "", fmt.Errorf("cannot extract key from url: %s", publicURL)
}

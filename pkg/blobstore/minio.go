package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/mangafold/manga-etl/pkg/logging"
)

// Prometheus metrics for blob store operations.
var storeOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "manga_etl_store_operations_total",
	Help: "Total blob store operations by operation and status",
}, []string{"op", "status"})

// MinioConfig holds the connection settings for a MinIO-backed Store.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioStore implements Store on top of a MinIO (S3-compatible) bucket
// using path-style addressing.
type MinioStore struct {
	client *minio.Client
	bucket string
	logger zerolog.Logger
}

var _ Store = (*MinioStore)(nil)

// NewMinioStore creates a MinIO-backed store.
func NewMinioStore(cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       cfg.UseSSL,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &MinioStore{
		client: client,
		bucket: cfg.Bucket,
		logger: logging.NewLogger("blobstore"),
	}, nil
}

// EnsureBucket creates the configured bucket if it does not exist yet.
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	s.logger.Info().Str("bucket", s.bucket).Msg("Created bucket")
	return nil
}

// Put uploads body under key.
func (s *MinioStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		storeOperationsTotal.WithLabelValues("put", "failure").Inc()
		s.logger.Error().Err(err).Str("key", key).Msg("Upload failed")
		return fmt.Errorf("put %s: %w", key, err)
	}
	storeOperationsTotal.WithLabelValues("put", "success").Inc()
	s.logger.Debug().Str("key", key).Int("bytes", len(body)).Msg("Uploaded object")
	return nil
}

// Get reads the full content stored under key.
func (s *MinioStore) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		storeOperationsTotal.WithLabelValues("get", "failure").Inc()
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		storeOperationsTotal.WithLabelValues("get", "failure").Inc()
		s.logger.Error().Err(err).Str("key", key).Msg("Read failed")
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	storeOperationsTotal.WithLabelValues("get", "success").Inc()
	s.logger.Debug().Str("key", key).Int("bytes", len(data)).Msg("Read object")
	return data, nil
}

// List returns all keys under prefix. The minio client pages through
// truncated listings internally, so the result is always complete.
func (s *MinioStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			storeOperationsTotal.WithLabelValues("list", "failure").Inc()
			return nil, fmt.Errorf("list %s: %w", prefix, obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	storeOperationsTotal.WithLabelValues("list", "success").Inc()
	return keys, nil
}

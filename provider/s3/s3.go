// Package s3 serves resources from an S3-compatible object store.
package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dustfall/resfs/data"
	"github.com/dustfall/resfs/provider"
)

// Config describes the object store connection and the bucket holding
// the resources.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Prefix    string
}

// Store maps canonical backslash paths to forward-slash object keys below
// an optional prefix. A missing key answers not found; a denied request
// is a permission failure and aborts resolution.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

var _ provider.Provider = (*Store)(nil)

// New creates a store provider from cfg.
func New(cfg Config) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	return &Store{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.TrimSuffix(cfg.Prefix, "/"),
	}, nil
}

func (s *Store) key(path string) string {
	key := strings.ReplaceAll(data.NormalizePath(path), "\\", "/")
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}

	return key
}

func (s *Store) Reader(ctx context.Context, path string) (io.ReadCloser, error) {
	key := s.key(path)

	// GetObject is lazy; stat first so a missing key classifies as
	// not found instead of failing on the first read.
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		return nil, mapError(err, path)
	}

	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapError(err, path)
	}

	return object, nil
}

func (s *Store) Metadata(ctx context.Context, path string) (data.Metadata, error) {
	info, err := s.client.StatObject(ctx, s.bucket, s.key(path), minio.StatObjectOptions{})
	if err != nil {
		return data.Metadata{}, mapError(err, path)
	}

	return data.Metadata{Size: info.Size}, nil
}

func mapError(err error, path string) error {
	response := minio.ToErrorResponse(err)
	switch response.Code {
	case "NoSuchKey":
		return fmt.Errorf("%w: %s", data.ErrNotFound, path)
	case "AccessDenied":
		return fmt.Errorf("%w: %s", data.ErrPermission, path)
	}

	return err
}

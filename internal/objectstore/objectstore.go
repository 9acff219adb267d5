package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"pdfchat/internal/config"
)

// Store archives original document bytes in an S3-compatible bucket
// (Backblaze B2). Reads and writes go through separately scoped credential
// pairs, so a leaked read key cannot overwrite archived documents.
type Store struct {
	reader *minio.Client
	writer *minio.Client
	bucket string
}

func New(cfg *config.ObjectStoreConfig) (*Store, error) {
	reader, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ReadKeyID, cfg.ReadApplicationKey, ""),
		Secure: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create read client: %w", err)
	}
	writer, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.WriteKeyID, cfg.WriteApplicationKey, ""),
		Secure: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create write client: %w", err)
	}
	return &Store{reader: reader, writer: writer, bucket: cfg.Bucket}, nil
}

// Put uploads data under name, overwriting any existing object.
func (s *Store) Put(ctx context.Context, name string, data []byte, contentType string) error {
	_, err := s.writer.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return nil
}

// Get downloads the object stored under name.
func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	obj, err := s.reader.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", name, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

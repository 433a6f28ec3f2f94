package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/callnote-team/callnote/pkg/config"
)

// MinIOArchive stores copies of call recordings in object storage.
type MinIOArchive struct {
	client *minio.Client
	bucket string
}

// NewMinIOArchive creates the archive client and ensures the bucket exists.
func NewMinIOArchive(cfg *config.StorageConfig) (*MinIOArchive, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	a := &MinIOArchive{
		client: minioClient,
		bucket: cfg.BucketName,
	}

	if err := a.ensureBucket(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return a, nil
}

func (a *MinIOArchive) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// ArchiveRecording uploads the recording audio under the given object name.
func (a *MinIOArchive) ArchiveRecording(ctx context.Context, objectName string, audio []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, a.bucket, objectName, bytes.NewReader(audio), int64(len(audio)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload recording: %w", err)
	}
	return nil
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage holds evidence file binaries. The pipeline itself only ever
// reads evidence metadata rows; the bytes a user uploads live behind
// this interface and are fetched only when the user downloads them back.
type Storage interface {
	// Upload stores an evidence file and returns its storage path
	Upload(ctx context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error)

	// Download retrieves an evidence file by storage path
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes an evidence file by storage path
	Delete(ctx context.Context, storagePath string) error
}

// StorageType selects the evidence storage backend
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig holds configuration for evidence storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string // local backend root directory
	S3Bucket     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates the evidence storage backend the config selects
func NewStorage(cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// NewStorageFromEnv builds evidence storage from STORAGE_* and AWS_*
// environment variables. Local storage is the development default.
func NewStorageFromEnv() (Storage, error) {
	cfg := StorageConfig{
		Type:      StorageType(os.Getenv("STORAGE_TYPE")),
		LocalPath: os.Getenv("STORAGE_LOCAL_PATH"),
		S3Bucket:  os.Getenv("AWS_S3_BUCKET"),
		S3Region:  os.Getenv("AWS_REGION"),
	}

	if cfg.Type == "" {
		cfg.Type = StorageTypeLocal
	}

	switch cfg.Type {
	case StorageTypeLocal:
		if cfg.LocalPath == "" {
			cfg.LocalPath = "./data/evidence"
		}
	case StorageTypeS3:
		if cfg.S3Region == "" {
			cfg.S3Region = "eu-west-2"
		}
		cfg.AWSAccessKey = os.Getenv("AWS_ACCESS_KEY_ID")
		cfg.AWSSecretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET environment variable is required for S3 storage")
		}
	}

	return NewStorage(cfg)
}

// objectKey builds the storage path for an uploaded evidence file. The
// file ID guarantees uniqueness; the sanitised original name keeps the
// stored object recognisable when inspecting the bucket or directory.
func objectKey(fileID uuid.UUID, filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)
	for _, c := range []string{" ", "/", "\\"} {
		base = strings.ReplaceAll(base, c, "_")
	}
	return fmt.Sprintf("evidence/%s/%s_%s%s", fileID.String()[:2], fileID.String(), base, ext)
}

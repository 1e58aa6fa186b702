// Package storage picks and connects the image storage backend from config
package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/UnendingLoop/ImageWatermark/internal/storage/filestorage"
	"github.com/UnendingLoop/ImageWatermark/internal/storage/miniostorage"
	"github.com/wb-go/wbf/config"
)

const (
	BackendFile  = "file"
	BackendMinio = "minio"

	DefaultRoot = "./data"
)

type ImageStorage interface {
	Get(ctx context.Context, key string) (output io.ReadCloser, ctype string, err error)
	Put(ctx context.Context, key string, size int64, contentType string, r io.Reader) error
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

// NewImgStorage - по STORAGE_BACKEND выбирает локальную ФС (по дефолту) или MinIO.
// Файловое хранилище всегда с корнем: без STORAGE_ROOT это DefaultRoot.
// Для MinIO делает до attempts попыток подключения с паузой delay.
func NewImgStorage(cfg *config.Config, createDirs bool, attempts int, delay time.Duration) (ImageStorage, error) {
	backend := cfg.GetString("STORAGE_BACKEND")

	switch backend {
	case "", BackendFile:
		root := cfg.GetString("STORAGE_ROOT")
		if root == "" {
			root = DefaultRoot
		}
		log.Printf("Using file IMG-storage (root %q)", root)
		return filestorage.NewFileStorage(root, createDirs), nil
	case BackendMinio:
		return connectMinio(cfg, attempts, delay)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

func connectMinio(cfg *config.Config, attempts int, delay time.Duration) (*miniostorage.MinioImageStorage, error) {
	if attempts <= 0 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		log.Printf("Connecting to IMG-storage, try #%d...", i+1)
		var client *miniostorage.MinioImageStorage
		client, err = miniostorage.NewMinioClient(cfg)
		if err == nil {
			log.Println("Successfully connected IMG-storage!")
			return client, nil
		}
		if i < attempts-1 {
			log.Printf("Failed to init connection to IMG-storage: %v\nNext retry in %v...", err, delay)
			time.Sleep(delay)
		}
	}

	return nil, fmt.Errorf("failed to connect to IMG-storage after %d tries: %w", attempts, err)
}

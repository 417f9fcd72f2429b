package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/caarlos0/env/v10"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

var ErrArchiveDisabled = errors.New("history archive storage is not configured")

type MinIOConfig struct {
	Enabled    bool   `env:"MINIO_ENABLED" envDefault:"false"`
	Endpoint   string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	AccessKey  string `env:"MINIO_ACCESS_KEY" envDefault:"admin"`
	SecretKey  string `env:"MINIO_SECRET_KEY" envDefault:"password123"`
	UseSSL     bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	BucketName string `env:"MINIO_BUCKET_NAME" envDefault:"mindforge-archives"`
}

// MinIOService stores exported history archives.
type MinIOService struct {
	appContext.DefaultService
	client *minio.Client
	cfg    MinIOConfig
}

const MINIO_SVC = "minio_svc"

func (svc MinIOService) Id() string {
	return MINIO_SVC
}

func (svc *MinIOService) Configure(ctx *appContext.Context) error {
	if err := env.Parse(&svc.cfg); err != nil {
		return fmt.Errorf("failed to parse minio config: %w", err)
	}
	return svc.DefaultService.Configure(ctx)
}

func (svc *MinIOService) Start() error {
	if !svc.cfg.Enabled {
		log.Info("MinIO disabled, history export unavailable")
		return nil
	}

	client, err := minio.New(svc.cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(svc.cfg.AccessKey, svc.cfg.SecretKey, ""),
		Secure: svc.cfg.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %w", err)
	}
	svc.client = client

	if err := svc.ensureBucket(context.Background()); err != nil {
		return fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	log.WithFields(log.Fields{"endpoint": svc.cfg.Endpoint, "bucket": svc.cfg.BucketName}).Info("MinIO service started")
	return nil
}

func (svc *MinIOService) ensureBucket(ctx context.Context) error {
	exists, err := svc.client.BucketExists(ctx, svc.cfg.BucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := svc.client.MakeBucket(ctx, svc.cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		log.WithField("bucket", svc.cfg.BucketName).Info("Created MinIO bucket")
	}
	return nil
}

func (svc *MinIOService) PutObject(ctx context.Context, objectName string, data []byte, contentType string) error {
	if svc.client == nil {
		return ErrArchiveDisabled
	}

	_, err := svc.client.PutObject(ctx, svc.cfg.BucketName, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object to MinIO: %w", err)
	}
	return nil
}

func (svc *MinIOService) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if svc.client == nil {
		return "", ErrArchiveDisabled
	}

	u, err := svc.client.PresignedGetObject(ctx, svc.cfg.BucketName, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return u.String(), nil
}

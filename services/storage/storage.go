package storage

import (
	"context"
	"fmt"
	"time"

	"barakah/utils"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const pdfFolder = "duas"

// CloudinaryArchive uploads PDFs as raw assets and indexes the resulting
// URLs in Redis so a lookup does not need an admin API call.
type CloudinaryArchive struct {
	cld    *cloudinary.Cloudinary
	index  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCloudinaryArchive creates a CloudinaryArchive from account credentials.
func NewCloudinaryArchive(cloudName, apiKey, apiSecret string, index *redis.Client, logger *zap.Logger) (*CloudinaryArchive, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	logger.Info("pdf archive enabled", zap.String("cloud", cloudName))
	return &CloudinaryArchive{cld: cld, index: index, ttl: utils.PDFArchiveTTL, logger: logger}, nil
}

// Store uploads localPath under the dua id and returns its secure URL.
func (a *CloudinaryArchive) Store(ctx context.Context, id, localPath string) (string, error) {
	result, err := a.cld.Upload.Upload(ctx, localPath, uploader.UploadParams{
		Folder:       pdfFolder,
		PublicID:     id,
		ResourceType: "raw",
		Overwrite:    api.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("CloudinaryArchive: failed to upload file: %w", err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("CloudinaryArchive: no url returned for %s", id)
	}
	if err := a.index.Set(ctx, utils.PDFArchivePrefix+id, result.SecureURL, a.ttl).Err(); err != nil {
		return "", fmt.Errorf("CloudinaryArchive: failed to index url: %w", err)
	}
	return result.SecureURL, nil
}

// URL returns "" without error when the id was never archived or expired.
func (a *CloudinaryArchive) URL(ctx context.Context, id string) (string, error) {
	url, err := a.index.Get(ctx, utils.PDFArchivePrefix+id).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return url, nil
}

package minio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/infrastructure"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/jitter"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/google/uuid"
)

const cleanupTimeout = 30 * time.Second

// MinioInfrastructure загружает изображения продуктов и удаляет осиротевшие объекты в фоне.
type MinioInfrastructure struct {
	minioRepo   usecase.ImageRepository
	cfg         *cfg.MinIOCfg
	logger      logger.Logger
	shutdownCtx context.Context
	retry       jitter.Policy
	wg          sync.WaitGroup
}

func NewMinioInfrastructure(minioRepo usecase.ImageRepository, cfg *cfg.MinIOCfg, logger logger.Logger, shutdownCtx context.Context) *MinioInfrastructure {
	return &MinioInfrastructure{
		minioRepo:   minioRepo,
		cfg:         cfg,
		logger:      logger,
		shutdownCtx: shutdownCtx,
		retry: jitter.Policy{
			Attempts: 3,
			Base:     time.Second,
			Max:      8 * time.Second,
			Jitter:   jitter.DefaultJitter,
		},
	}
}

// UploadImage загружает изображение под ключом products/<id>/<uuid>.<ext> и возвращает его публичный адрес.
func (m *MinioInfrastructure) UploadImage(ctx context.Context, req *usecase.UploadImageReq) (*usecase.UploadImageRes, error) {
	const op = "MinioInfrastructure.UploadImage"

	ext, err := infrastructure.GetExtensionFromMIME(req.Image.MimeType)
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("invalid mime type %s for %s: %w", req.Image.MimeType, req.Image.Name, err))
	}

	imageID := uuid.NewString()
	objKey := fmt.Sprintf("products/%s/%s.%s", req.ProductID, imageID, ext)
	size := req.Image.Size
	mime := req.Image.MimeType
	image := domain.NewImage(imageID, m.cfg.BucketName, objKey, req.Image.Data, &size, &mime)

	key, err := m.minioRepo.Upload(ctx, image)
	if err != nil {
		return nil, e.Wrap(op, fmt.Errorf("upload %s failed: %w", req.Image.Name, err))
	}

	return usecase.NewUploadImageRes(key, m.objectURL(key)), nil
}

// CleanupImages запускает фоновую очистку указанных ключей MinIO
func (m *MinioInfrastructure) CleanupImages(keys []string) {
	if len(keys) == 0 {
		return
	}
	m.wg.Add(1)
	go m.cleanupUploadedKeys(keys)
}

// cleanupUploadedKeys удаляет объекты с экспоненциальной задержкой и jitter между попытками.
func (m *MinioInfrastructure) cleanupUploadedKeys(keys []string) {
	defer m.wg.Done()
	const op = "MinioInfrastructure.cleanupUploadedKeys"
	m.logger.Infof("%s: cleaning up %d uploaded key(s)", op, len(keys))

	ctx, cancel := context.WithTimeout(m.shutdownCtx, cleanupTimeout)
	defer cancel()

	for _, key := range keys {
		err := jitter.Retry(ctx, m.retry, func(ctx context.Context) error {
			return m.minioRepo.Delete(ctx, key)
		})
		if err == nil {
			continue
		}

		if ctx.Err() != nil {
			m.logger.Warnf("cleanup interrupted by shutdown, key=%v", key)
			return
		}
		m.logger.Errorf(err, "%s: failed to delete orphaned object %s", op, key)
	}
}

// WaitForCleanup ожидает завершения фоновых очисток, но не дольше shutdownTimeoutCtx.
func (m *MinioInfrastructure) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("minio cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}

func (m *MinioInfrastructure) objectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", m.cfg.PublicURL, m.cfg.BucketName, key)
}

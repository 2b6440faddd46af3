package providers

import (
	"github.com/samber/do/v2"

	"github.com/keepsakeapp/keepsake-server/internal/blob"
	"github.com/keepsakeapp/keepsake-server/internal/config"
	"github.com/keepsakeapp/keepsake-server/internal/logger"
)

// BlobStorageHandle wraps blob storage for the DI container.
type BlobStorageHandle struct {
	*blob.Storage
}

// ProvideBlobStorage provides the on-disk blob storage for uploaded media.
func ProvideBlobStorage(i do.Injector) (*BlobStorageHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := blob.NewStorage(cfg.Data.BasePath)
	if err != nil {
		return nil, err
	}

	log.Info("Blob storage initialized", "path", cfg.Data.BasePath)

	return &BlobStorageHandle{Storage: storage}, nil
}

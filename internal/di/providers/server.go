package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/keepsakeapp/keepsake-server/internal/api"
	"github.com/keepsakeapp/keepsake-server/internal/config"
	"github.com/keepsakeapp/keepsake-server/internal/logger"
	"github.com/keepsakeapp/keepsake-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	handler *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.handler.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	blobHandle := do.MustInvoke[*BlobStorageHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	// Get all services
	authService := do.MustInvoke[*service.AuthService](i)
	mediaService := do.MustInvoke[*service.MediaService](i)
	albumService := do.MustInvoke[*service.AlbumService](i)
	statsService := do.MustInvoke[*service.StatsService](i)
	sharingService := do.MustInvoke[*service.SharingService](i)

	services := &api.Services{
		Auth:    authService,
		Media:   mediaService,
		Album:   albumService,
		Stats:   statsService,
		Sharing: sharingService,
	}

	handler := api.NewServer(storeHandle.Store, services, blobHandle.Storage, cfg, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr, "base_url", cfg.Server.BaseURL)

	return &HTTPServerHandle{Server: srv, handler: handler}, nil
}

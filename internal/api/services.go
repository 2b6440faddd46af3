package api

import (
	"github.com/keepsakeapp/keepsake-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth    *service.AuthService
	Media   *service.MediaService
	Album   *service.AlbumService
	Stats   *service.StatsService
	Sharing *service.SharingService
}

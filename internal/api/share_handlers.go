package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerShareRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "resolveShare",
		Method:      http.MethodGet,
		Path:        "/api/v1/share/{token}",
		Summary:     "Resolve share link",
		Description: "Returns the media record behind a share token. Anonymous; the token is the only credential, and trashed records still resolve.",
		Tags:        []string{"Sharing"},
	}, s.handleResolveShare)
}

// ShareTokenInput identifies a shared media record.
type ShareTokenInput struct {
	Token string `path:"token" doc:"Share token"`
}

func (s *Server) handleResolveShare(ctx context.Context, input *ShareTokenInput) (*MediaOutput, error) {
	record, err := s.services.Sharing.Resolve(ctx, input.Token)
	if err != nil {
		return nil, err
	}

	return &MediaOutput{Body: mapMediaResponse(record)}, nil
}

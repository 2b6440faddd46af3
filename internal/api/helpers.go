package api

import (
	"context"
	"encoding/json/v2"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// authenticateRequest validates the Authorization header and returns the user ID.
func (s *Server) authenticateRequest(_ context.Context, authHeader string) (string, error) {
	if authHeader == "" {
		return "", huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", huma.Error401Unauthorized("Invalid authorization header format")
	}

	claims, err := s.services.Auth.VerifyAccessToken(parts[1])
	if err != nil {
		return "", huma.Error401Unauthorized("Invalid or expired token")
	}

	return claims.UserID, nil
}

// writeSuccess writes an enveloped success response for handlers that bypass
// huma (uploads and downloads).
func (s *Server) writeSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	envelope := APIEnvelope{
		Version: EnvelopeVersion,
		Success: true,
		Data:    data,
	}
	if err := json.MarshalWrite(w, envelope); err != nil {
		s.logger.Error("Failed to encode JSON response", "error", err)
	}
}

// writeError writes an enveloped error response for handlers that bypass huma.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	apiErr := apiErrorFrom(err)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(apiErr.status)

	envelope := APIErrorEnvelope{
		Version: EnvelopeVersion,
		Success: false,
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
	if err := json.MarshalWrite(w, envelope); err != nil {
		s.logger.Error("Failed to encode error response", "error", err)
	}
}

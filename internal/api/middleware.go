package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// EnvelopeVersion is the wire version of the response envelope. Clients check
// this field before parsing the rest of the payload.
const EnvelopeVersion = 1

// APIEnvelope is the standard response wrapper for success responses and
// simple errors.
type APIEnvelope struct {
	Version int    `json:"v" doc:"Envelope version"`
	Success bool   `json:"success" doc:"Whether the request succeeded"`
	Data    any    `json:"data,omitempty" doc:"Response payload"`
	Error   string `json:"error,omitempty" doc:"Error message when success is false"`
}

// APIErrorEnvelope is the response wrapper for structured errors carrying a
// machine-readable code and optional details.
type APIErrorEnvelope struct {
	Version int    `json:"v" doc:"Envelope version"`
	Success bool   `json:"success" doc:"Always false"`
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// EnvelopeTransformer wraps every response body in a versioned envelope.
// Structured errors (*APIError) keep their code and details at the top level;
// plain errors collapse to a message string. The version field is named "v"
// and clients depend on that exact name.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return APIEnvelope{Version: EnvelopeVersion, Success: true}, nil
	case *APIError:
		return APIErrorEnvelope{
			Version: EnvelopeVersion,
			Success: false,
			Code:    val.Code,
			Message: val.Message,
			Details: val.Details,
		}, nil
	case error:
		return APIEnvelope{
			Version: EnvelopeVersion,
			Success: false,
			Error:   val.Error(),
		}, nil
	default:
		return APIEnvelope{
			Version: EnvelopeVersion,
			Success: true,
			Data:    v,
		}, nil
	}
}

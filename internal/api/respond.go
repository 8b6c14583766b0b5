// internal/api/respond.go
package api

import (
	"encoding/json"
	"net/http"

	"carematch/internal/common/errors"
)

type errorBody struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   string      `json:"details,omitempty"`
	Fields    interface{} `json:"fields,omitempty"`
	RequestID string      `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := errors.Normalize(err)
	status := errors.HTTPStatus(stdErr)

	fields := map[string]interface{}{
		"requestId": RequestID(r.Context()),
		"errorCode": string(stdErr.Code),
		"status":    status,
		"details":   stdErr.Details,
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", fields)
	} else {
		s.logger.Warn("request rejected", fields)
	}

	writeJSON(w, status, errorBody{Error: errorPayload{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Fields:    stdErr.Metadata["fields"],
		RequestID: RequestID(r.Context()),
	}})
}

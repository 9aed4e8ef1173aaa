package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	mmerrors "github.com/matzehuels/museummap/pkg/errors"
	"github.com/matzehuels/museummap/pkg/session"
)

// maxRequestBody bounds every decoded request body.
const maxRequestBody = 1 << 20

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`

	// Enrichment failures also carry the upstream reply and the webhook.
	Details    any    `json:"details,omitempty"`
	WebhookURL string `json:"webhook_url,omitempty"`
	Timestamp  string `json:"timestamp,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mmerrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "status", status, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error: mmerrors.UserMessage(err),
		Code:  string(mmerrors.GetCode(err)),
	})
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched
// when allowEmpty is set.
func decodeJSON(r *http.Request, v any, allowEmpty bool) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(v)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF) && allowEmpty:
		return nil
	default:
		return mmerrors.Wrap(mmerrors.ErrCodeInvalidInput, err, "invalid request body")
	}
}

// sessionError maps store lookups onto the API's error codes.
func sessionError(id string, err error) error {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return mmerrors.New(mmerrors.ErrCodeSessionNotFound, "session %s not found", id)
	case errors.Is(err, session.ErrExpired):
		return mmerrors.New(mmerrors.ErrCodeSessionNotFound, "session %s expired", id)
	default:
		return err
	}
}

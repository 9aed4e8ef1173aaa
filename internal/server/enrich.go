package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/museummap/pkg/artifact"
	"github.com/matzehuels/museummap/pkg/enrich"
	mmerrors "github.com/matzehuels/museummap/pkg/errors"
)

// Messages shown to clients of the enrichment endpoints.
const (
	missingMessage = "No 'message' field provided in the request body."
	missingText    = "No 'text' field provided in the request body."
	askErrorReply  = "⚠️ Error connecting to the museum AI. Please try again."
)

var errNoEnrichment = mmerrors.New(mmerrors.ErrCodeUnsupported, "enrichment webhook is not configured")

type describeRequest struct {
	Message string `json:"message"`
}

// handleDescribe proxies recognized label text to the webhook and relays the
// cleaned reply with the upstream status. With ?save=true the reply is parsed
// as an artifact draft and stored; the new id is returned in X-Artifact-ID.
func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	if s.enrich == nil {
		s.writeError(w, r, errNoEnrichment)
		return
	}

	var req describeRequest
	if err := decodeJSON(r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: missingMessage,
			Code:  string(mmerrors.ErrCodeInvalidInput),
		})
		return
	}

	res, err := s.enrich.Describe(r.Context(), req.Message)
	if err != nil {
		s.writeWebhookError(w, r, err)
		return
	}

	if r.URL.Query().Get("save") == "true" {
		id, err := s.saveDraft(r, res)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("X-Artifact-ID", id)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.Status)
	_, _ = w.Write(res.Body)
}

func (s *Server) saveDraft(r *http.Request, res *enrich.Result) (string, error) {
	store, ok := s.source.(artifact.Store)
	if !ok {
		return "", mmerrors.New(mmerrors.ErrCodeUnsupported, "artifact source is read-only")
	}
	draft, err := res.Draft()
	if err != nil {
		return "", err
	}
	id, err := store.Add(r.Context(), draft)
	if err != nil {
		return "", err
	}
	s.logger.Info("artifact saved", "id", id, "no", draft.No)
	return id, nil
}

// writeWebhookError reports an enrichment failure with the upstream reply,
// the webhook URL and a timestamp, so the client can show what went wrong.
func (s *Server) writeWebhookError(w http.ResponseWriter, r *http.Request, err error) {
	status := mmerrors.HTTPStatus(err)
	s.logger.Error("webhook request failed", "status", status, "err", err)
	writeJSON(w, status, errorResponse{
		Error:      mmerrors.UserMessage(err),
		Code:       string(mmerrors.GetCode(err)),
		Details:    enrich.Details(err),
		WebhookURL: s.enrich.URL(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}

type askRequest struct {
	Text string `json:"text"`
}

type askResponse struct {
	Reply string `json:"reply"`
	Error string `json:"error,omitempty"`
}

// handleAsk forwards a follow-up question. Failures still carry a reply the
// chat window can display.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if s.enrich == nil {
		s.writeError(w, r, errNoEnrichment)
		return
	}

	var req askRequest
	if err := decodeJSON(r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, askResponse{Reply: askErrorReply, Error: missingText})
		return
	}

	reply, err := s.enrich.Ask(r.Context(), req.Text)
	if err != nil {
		s.logger.Error("follow-up failed", "err", err)
		writeJSON(w, mmerrors.HTTPStatus(err), askResponse{Reply: askErrorReply, Error: mmerrors.UserMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, askResponse{Reply: reply})
}

package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	mmerrors "github.com/matzehuels/museummap/pkg/errors"
	"github.com/matzehuels/museummap/pkg/geom"
	"github.com/matzehuels/museummap/pkg/gesture"
	"github.com/matzehuels/museummap/pkg/mapview"
	"github.com/matzehuels/museummap/pkg/scene"
	"github.com/matzehuels/museummap/pkg/session"
	"github.com/matzehuels/museummap/pkg/viewport"
)

// maxEventsPerRequest bounds one events batch.
const maxEventsPerRequest = 512

type sessionResponse struct {
	ID        string          `json:"id"`
	ExpiresAt time.Time       `json:"expires_at"`
	Viewport  viewport.State  `json:"viewport"`
	Selected  string          `json:"selected,omitempty"`
	Conflicts int             `json:"conflicts"`
	Mode      string          `json:"mode"`
	Zoom      int             `json:"zoom_percent"`
	Anchors   int             `json:"anchors"`
	Records   int             `json:"records"`
	Events    *eventsReceived `json:"events,omitempty"`
}

type eventsReceived struct {
	Received   int `json:"received"`
	Dispatched int `json:"dispatched"`
}

func newSessionResponse(sess *session.Session) sessionResponse {
	v := sess.View
	st := v.State()
	sel, _ := v.Selected()
	return sessionResponse{
		ID:        sess.ID,
		ExpiresAt: sess.ExpiresAt,
		Viewport:  st,
		Selected:  sel,
		Conflicts: len(v.Binder().Conflicts()),
		Mode:      v.Mode().String(),
		Zoom:      st.Percent(),
		Anchors:   len(v.Anchors()),
		Records:   len(v.Binder().Records()),
	}
}

// createSessionRequest optionally seeds the viewport.
type createSessionRequest struct {
	Zoom *float64    `json:"zoom,omitempty"`
	Pan  *geom.Point `json:"pan,omitempty"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createSessionRequest
	if err := decodeJSON(r, &req, true); err != nil {
		s.writeError(w, r, err)
		return
	}

	records, err := s.source.List(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	state := viewport.Initial()
	if req.Zoom != nil {
		state.Zoom = viewport.Clamp(*req.Zoom)
	}
	if req.Pan != nil {
		state.Pan = *req.Pan
	}

	view, err := mapview.Open(records, s.policy,
		mapview.WithAnchors(s.anchors),
		mapview.WithState(state),
		mapview.WithLogger(s.logger),
	)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view.Mount()

	sess, err := s.sessions.Create(ctx, view)
	if err != nil {
		view.Unmount()
		s.writeError(w, r, err)
		return
	}
	s.logger.Debug("session created", "id", sess.ID, "records", len(records))
	writeJSON(w, http.StatusCreated, newSessionResponse(sess))
}

// session resolves the {id} URL parameter. On failure the error response
// has been written and ok is false.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, sessionError(id, err))
		return nil, false
	}
	return sess, true
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, sessionError(id, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeEvents accepts either a bare array of events or {"events": [...]}.
func decodeEvents(r *http.Request) ([]gesture.Event, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return nil, mmerrors.Wrap(mmerrors.ErrCodeInvalidInput, err, "read request body")
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, mmerrors.New(mmerrors.ErrCodeInvalidInput, "no events provided")
	}

	var events []gesture.Event
	if data[0] == '[' {
		err = json.Unmarshal(data, &events)
	} else {
		var wrapped struct {
			Events []gesture.Event `json:"events"`
		}
		err = json.Unmarshal(data, &wrapped)
		events = wrapped.Events
	}
	if err != nil {
		return nil, mmerrors.Wrap(mmerrors.ErrCodeInvalidInput, err, "invalid events")
	}
	if len(events) > maxEventsPerRequest {
		return nil, mmerrors.New(mmerrors.ErrCodeInvalidInput, "too many events (max %d)", maxEventsPerRequest)
	}
	return events, nil
}

// handleEvents feeds a batch of input events to the session's view, in order.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	events, err := decodeEvents(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	dispatched := 0
	for _, e := range events {
		if sess.View.Dispatch(r.Context(), e) {
			dispatched++
		}
	}

	resp := newSessionResponse(sess)
	resp.Events = &eventsReceived{Received: len(events), Dispatched: dispatched}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var p geom.Point
	if err := decodeJSON(r, &p, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	res := sess.View.Click(p)
	resp := struct {
		mapview.ClickResult
		Detail *scene.Detail `json:"detail,omitempty"`
	}{ClickResult: res}
	if d, ok := sess.View.Detail(); ok {
		resp.Detail = &d
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	switch action := chi.URLParam(r, "action"); action {
	case "zoom-in":
		sess.View.ZoomIn()
	case "zoom-out":
		sess.View.ZoomOut()
	case "reset":
		sess.View.Reset()
	default:
		s.writeError(w, r, mmerrors.New(mmerrors.ErrCodeInvalidInput,
			"unknown control %q (want zoom-in, zoom-out or reset)", action))
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

func (s *Server) handleSessionScene(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	q, err := parseSceneQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sc := sess.View.Scene(r.Context())
	var detail *scene.Detail
	if d, ok := sess.View.Detail(); ok {
		detail = &d
	}
	data, err := s.render(r.Context(), sc, detail, q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeScene(w, q.format, data)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	d, ok := sess.View.Detail()
	if !ok {
		s.writeError(w, r, mmerrors.New(mmerrors.ErrCodeNotFound, "no artifact selected"))
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleCloseDetail(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.View.CloseDetail()
	w.WriteHeader(http.StatusNoContent)
}

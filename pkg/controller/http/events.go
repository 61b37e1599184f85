package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vela-social/vela/pkg/domain/interfaces"
	"github.com/vela-social/vela/pkg/domain/model"
	"github.com/vela-social/vela/pkg/domain/types"
	"github.com/vela-social/vela/pkg/utils/errutil"
)

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck // best effort
}

type eventRequest struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// eventHandler is the generic event ingress. Any caller that already speaks
// the internal event taxonomy can dispatch through here.
func (s *Server) eventHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode event request"), http.StatusBadRequest)
		return
	}
	if req.Type == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("event type is required"), http.StatusBadRequest)
		return
	}

	if err := s.engine.Dispatch(ctx, model.NewEvent(types.EventType(req.Type), req.Data)); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to dispatch event"), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

type createConnectionRequest struct {
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
}

func (s *Server) createConnectionHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode connection request"), http.StatusBadRequest)
		return
	}
	if req.FromUserID == "" || req.ToUserID == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("from_user_id and to_user_id are required"), http.StatusBadRequest)
		return
	}

	conn, err := s.repo.Connection().Create(ctx, &model.Connection{
		ID:         types.NewConnectionID(),
		FromUserID: types.UserID(req.FromUserID),
		ToUserID:   types.UserID(req.ToUserID),
		Status:     types.ConnectionStatusPending,
	})
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to create connection"), http.StatusInternalServerError)
		return
	}

	if err := s.engine.Dispatch(ctx, model.NewEvent(types.EventConnectionCreated, map[string]any{
		"connection_id": conn.ID.String(),
	})); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to dispatch connection event"), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"id":     conn.ID.String(),
		"status": conn.Status.String(),
	})
}

// connectionStatusHandler returns a handler that accepts or rejects a pending
// connection request.
func (s *Server) connectionStatusHandler(action string) http.HandlerFunc {
	status := types.ConnectionStatusAccepted
	if action == "reject" {
		status = types.ConnectionStatusRejected
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		connID := types.ConnectionID(chi.URLParam(r, "connectionID"))

		if err := s.repo.Connection().UpdateStatus(ctx, connID, status); err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "connection not found", goerr.V("id", connID)), http.StatusNotFound)
				return
			}
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to update connection status"), http.StatusInternalServerError)
			return
		}

		respondJSON(w, http.StatusOK, map[string]string{
			"id":     connID.String(),
			"status": status.String(),
		})
	}
}

type createStoryRequest struct {
	UserID   string `json:"user_id"`
	MediaURL string `json:"media_url"`
}

func (s *Server) createStoryHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode story request"), http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("user_id is required"), http.StatusBadRequest)
		return
	}

	story, err := s.repo.Story().Create(ctx, &model.Story{
		ID:       types.NewStoryID(),
		UserID:   types.UserID(req.UserID),
		MediaURL: req.MediaURL,
	})
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to create story"), http.StatusInternalServerError)
		return
	}

	if err := s.engine.Dispatch(ctx, model.NewEvent(types.EventStoryCreated, map[string]any{
		"story_id": story.ID.String(),
	})); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to dispatch story event"), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"id": story.ID.String()})
}

type createMessageRequest struct {
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	Text       string `json:"text"`
}

func (s *Server) createMessageHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode message request"), http.StatusBadRequest)
		return
	}
	if req.FromUserID == "" || req.ToUserID == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("from_user_id and to_user_id are required"), http.StatusBadRequest)
		return
	}

	msg, err := s.repo.Message().Create(ctx, &model.Message{
		ID:         types.NewMessageID(),
		FromUserID: types.UserID(req.FromUserID),
		ToUserID:   types.UserID(req.ToUserID),
		Text:       req.Text,
	})
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to create message"), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"id": msg.ID.String()})
}

func (s *Server) markSeenHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	msgID := types.MessageID(chi.URLParam(r, "messageID"))

	if err := s.repo.Message().MarkSeen(ctx, msgID); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "message not found", goerr.V("id", msgID)), http.StatusNotFound)
			return
		}
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to mark message seen"), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"id": msgID.String(), "seen": "true"})
}

package gateway

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tourmate-gateway/internal/backend"
	"tourmate-gateway/pkg/api"
)

// cannotConnectMessage is the actionable error surfaced when the backend is
// unreachable, as opposed to reachable-but-failing.
const cannotConnectMessage = "Cannot connect to backend server. Please ensure it's running."

const internalErrorMessage = "Internal server error"

// SessionService proxies session lifecycle calls to the AI backend and
// normalizes their shapes. Transport failures never escape as raw errors;
// every response has a stable JSON body.
type SessionService struct {
	backend *backend.Client
}

func NewSessionService(client *backend.Client) *SessionService {
	return &SessionService{backend: client}
}

func (s *SessionService) AddRoutes(r chi.Router) {
	r.Route("/api/session", func(r chi.Router) {
		r.Get("/", RestHandler(s.CreateSession))
		r.Get("/check", RestHandler(s.CheckSession))
		r.Get("/history", RestHandler(s.GetHistory))
	})
}

func (s *SessionService) CreateSession(r *http.Request) (any, error) {
	sessionID, err := s.backend.StartSession(r.Context())
	if err != nil {
		slog.Error("error starting session", "error", err)
		return nil, CodedErrorWithPayload(http.StatusInternalServerError, api.ErrorResponse{Error: upstreamMessage(err)}, err)
	}

	return api.StartSessionResponse{SessionID: sessionID}, nil
}

type sessionIDParams struct {
	ID string `schema:"id"`
}

func (s *SessionService) CheckSession(r *http.Request) (any, error) {
	params, err := ParseRequestQueryParams[sessionIDParams](r)
	if err != nil {
		return nil, err
	}
	if params.ID == "" {
		return nil, CodedErrorWithPayload(http.StatusBadRequest, api.CheckSessionResponse{Valid: false}, errors.New("missing session id"))
	}

	valid, err := s.backend.CheckSession(r.Context(), params.ID)
	if err != nil {
		slog.Error("error checking session", "session_id", params.ID, "error", err)
		return nil, CodedErrorWithPayload(http.StatusInternalServerError, api.CheckSessionResponse{Valid: false}, err)
	}

	return api.CheckSessionResponse{Valid: valid}, nil
}

func (s *SessionService) GetHistory(r *http.Request) (any, error) {
	params, err := ParseRequestQueryParams[sessionIDParams](r)
	if err != nil {
		return nil, err
	}
	if params.ID == "" {
		return nil, CodedErrorWithPayload(http.StatusBadRequest, api.ErrorResponse{Error: "Session ID required"}, errors.New("missing session id"))
	}

	history, err := s.backend.ChatHistory(r.Context(), params.ID)
	if err != nil {
		slog.Error("error fetching chat history", "session_id", params.ID, "error", err)
		return nil, CodedErrorWithPayload(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch chat history"}, err)
	}

	return api.ChatHistoryResponse{History: history}, nil
}

func upstreamMessage(err error) string {
	if backend.IsUnavailable(err) {
		return cannotConnectMessage
	}
	return internalErrorMessage
}

package gateway

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tourmate-gateway/internal/backend"
	"tourmate-gateway/pkg/api"
)

// ChatService proxies chat turns to the AI backend, enriching each request
// with the fixed conversational defaults and the current date and time.
type ChatService struct {
	backend *backend.Client
	now     func() time.Time
}

func NewChatService(client *backend.Client) *ChatService {
	return &ChatService{backend: client, now: time.Now}
}

func (s *ChatService) AddRoutes(r chi.Router) {
	r.Post("/api/chatbot", RestHandler(s.SendTurn))
}

func (s *ChatService) SendTurn(r *http.Request) (any, error) {
	req, err := ParseRequest[api.ChatRequest](r)
	if err != nil {
		// Chat errors always carry the {"reply": ...} shape, malformed
		// bodies included.
		return nil, CodedErrorWithPayload(http.StatusBadRequest, api.ChatResponse{Reply: "Invalid request body"}, err)
	}

	if req.Message == "" {
		return nil, CodedErrorWithPayload(http.StatusBadRequest, api.ChatResponse{Reply: "Message is required!"}, errors.New("missing message"))
	}
	if req.SessionID == "" {
		return nil, CodedErrorWithPayload(http.StatusBadRequest, api.ChatResponse{Reply: "Session ID is required!"}, errors.New("missing session id"))
	}

	now := s.now()
	result, err := s.backend.Chat(r.Context(), api.BackendChatRequest{
		Question:  req.Message,
		SessionID: req.SessionID,
		Settings:  api.DefaultSettings(req.Language),
		Date:      now.Format("2006-01-02"),
		Time:      now.Format("3:04:05 PM"),
	})
	if err != nil {
		var berr *backend.Error
		if errors.As(err, &berr) && berr.Kind == backend.KindUpstream {
			slog.Error("chat backend returned error", "session_id", req.SessionID, "status", berr.StatusCode, "body", berr.Body)
		} else {
			slog.Error("error forwarding chat turn", "session_id", req.SessionID, "error", err)
		}
		return nil, CodedErrorWithPayload(http.StatusInternalServerError, api.ChatResponse{Reply: upstreamMessage(err)}, err)
	}

	reply := result.TextExplanation
	if reply == "" {
		reply = "No response"
	}

	return api.ChatResponse{
		Reply:         reply,
		TableData:     result.Data,
		TableInsights: result.TableInsights,
	}, nil
}

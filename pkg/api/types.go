package api

// Sender values for chat messages.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Row is one row of a tabular result payload. The schema varies by query
// type (places, accommodations, weather, ...) and is display-only, so cells
// stay untyped.
type Row = map[string]any

// ChatMessage is one entry in a conversation transcript. Timestamp is
// display-formatted, not a machine time. ID is a local identifier assigned
// when the message enters a transcript; it never crosses the wire.
type ChatMessage struct {
	ID            string  `json:"-"`
	Sender        string  `json:"sender"`
	Text          string  `json:"text"`
	Timestamp     string  `json:"timestamp"`
	TableData     []Row   `json:"tableData,omitempty"`
	TableInsights *string `json:"tableInsights,omitempty"`
}

// ChatSettings is the per-turn conversational configuration forwarded to the
// AI backend. Language is the only caller-controlled field; the rest are
// fixed defaults.
type ChatSettings struct {
	Language        string  `json:"language"`
	PolitenessLevel string  `json:"politeness_level"`
	Formality       string  `json:"formality"`
	Creativity      float64 `json:"creativity"`
	ResponseLength  string  `json:"response_length"`
}

const DefaultLanguage = "English"

func DefaultSettings(language string) ChatSettings {
	if language == "" {
		language = DefaultLanguage
	}
	return ChatSettings{
		Language:        language,
		PolitenessLevel: "Friendly",
		Formality:       "Casual",
		Creativity:      0.7,
		ResponseLength:  "Medium",
	}
}

// Gateway-facing shapes.

type StartSessionResponse struct {
	SessionID string `json:"session_id"`
}

type CheckSessionResponse struct {
	Valid bool `json:"valid"`
}

type ChatHistoryResponse struct {
	History []ChatMessage `json:"history"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	Language  string `json:"language,omitempty"`
}

// ChatResponse is the gateway's reply to a chat turn. TableData and
// TableInsights are passed through from the backend result unchanged and
// serialize to null when the backend sent none.
type ChatResponse struct {
	Reply         string  `json:"reply"`
	TableData     []Row   `json:"tableData"`
	TableInsights *string `json:"tableInsights"`
}

// Backend-facing shapes (the external AI service's contract).

type BackendChatRequest struct {
	Question  string       `json:"question"`
	SessionID string       `json:"session_id"`
	Settings  ChatSettings `json:"settings"`
	Date      string       `json:"date"`
	Time      string       `json:"time"`
}

type BackendChatResult struct {
	TextExplanation string  `json:"text_explanation"`
	Data            []Row   `json:"data,omitempty"`
	TableInsights   *string `json:"table_insights,omitempty"`
}

type BackendChatResponse struct {
	Result BackendChatResult `json:"result"`
}

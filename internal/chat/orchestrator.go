// Package chat owns the client-side transcript: it appends user turns
// optimistically, forwards them through the gateway one at a time, and folds
// every failure into a single user-safe apology.
package chat

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tourmate-gateway/pkg/api"
)

const WelcomeMessage = "Hi, I'm TourMate. How can I help you today?"

// apologyMessage is the only failure text an end user ever sees; diagnostic
// detail goes to the log.
const apologyMessage = "Sorry, I couldn't process your request."

// displayTimeFormat matches the web client's hour:minute display timestamps.
const displayTimeFormat = "03:04 PM"

// Sender submits one chat turn through the gateway.
type Sender interface {
	SendTurn(ctx context.Context, message, sessionID, language string) (api.ChatResponse, error)
}

// SessionSource reports the resolved session id, if any. No session id, no
// send.
type SessionSource interface {
	SessionID() (string, bool)
}

type turn struct {
	text string
}

// Orchestrator processes turns strictly in submission order: a single worker
// drains a FIFO queue, so replies append in the same order turns were
// submitted even when the caller fires them rapidly.
type Orchestrator struct {
	sender   Sender
	sessions SessionSource
	language string
	clock    func() time.Time

	mu         sync.Mutex
	transcript []api.ChatMessage

	// sendMu serializes submissions against Close so a late SubmitUserTurn
	// sees stopped instead of a closed channel.
	sendMu  sync.Mutex
	stopped bool

	turns   chan turn
	updates chan api.ChatMessage
	done    chan struct{}
	closed  sync.Once
}

// NewOrchestrator seeds the transcript with the welcome message followed by
// any prior history, then starts the turn worker.
func NewOrchestrator(sender Sender, sessions SessionSource, language string, history []api.ChatMessage) *Orchestrator {
	o := &Orchestrator{
		sender:   sender,
		sessions: sessions,
		language: language,
		clock:    time.Now,
		turns:    make(chan turn, 100),
		updates:  make(chan api.ChatMessage, 100),
		done:     make(chan struct{}),
	}

	o.transcript = append(o.transcript, api.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    api.SenderBot,
		Text:      WelcomeMessage,
		Timestamp: o.clock().Format(displayTimeFormat),
	})
	for _, msg := range history {
		msg.ID = uuid.NewString()
		o.transcript = append(o.transcript, msg)
	}

	go o.run()
	return o
}

// SubmitUserTurn appends the user message and queues the turn. It reports
// false, without touching the transcript or the network, when the text is
// blank, no session is ready, or the orchestrator has been closed.
func (o *Orchestrator) SubmitUserTurn(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	if _, ok := o.sessions.SessionID(); !ok {
		return false
	}

	o.sendMu.Lock()
	defer o.sendMu.Unlock()
	if o.stopped {
		return false
	}

	o.append(api.ChatMessage{
		Sender:    api.SenderUser,
		Text:      text,
		Timestamp: o.clock().Format(displayTimeFormat),
	})
	o.turns <- turn{text: text}
	return true
}

func (o *Orchestrator) run() {
	defer close(o.done)
	for t := range o.turns {
		o.processTurn(t)
	}
}

func (o *Orchestrator) processTurn(t turn) {
	msg := api.ChatMessage{Sender: api.SenderBot}

	sessionID, ok := o.sessions.SessionID()
	if !ok {
		// Session lost between submit and send; same surface as any
		// other turn failure.
		slog.Error("chat turn dropped: no ready session")
		msg.Text = apologyMessage
		msg.Timestamp = o.clock().Format(displayTimeFormat)
		o.append(msg)
		return
	}

	resp, err := o.sender.SendTurn(context.Background(), t.text, sessionID, o.language)
	msg.Timestamp = o.clock().Format(displayTimeFormat)
	if err != nil {
		slog.Error("chat turn failed", "session_id", sessionID, "error", err)
		msg.Text = apologyMessage
	} else {
		msg.Text = resp.Reply
		msg.TableData = resp.TableData
		msg.TableInsights = resp.TableInsights
	}
	o.append(msg)
}

func (o *Orchestrator) append(msg api.ChatMessage) {
	msg.ID = uuid.NewString()
	o.mu.Lock()
	o.transcript = append(o.transcript, msg)
	o.mu.Unlock()

	select {
	case o.updates <- msg:
	default:
		slog.Warn("transcript update dropped, consumer too slow")
	}
}

// Updates streams each appended message, in transcript order.
func (o *Orchestrator) Updates() <-chan api.ChatMessage {
	return o.updates
}

// Transcript returns a copy of the message list, insertion order.
func (o *Orchestrator) Transcript() []api.ChatMessage {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]api.ChatMessage, len(o.transcript))
	copy(out, o.transcript)
	return out
}

// Close stops the worker after draining queued turns. Submissions after
// Close are no-ops.
func (o *Orchestrator) Close() {
	o.closed.Do(func() {
		o.sendMu.Lock()
		o.stopped = true
		close(o.turns)
		o.sendMu.Unlock()
		<-o.done
	})
}

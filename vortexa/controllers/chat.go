// vortexa/controllers/chat.go
package controllers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lavyajn/Hackathon-Vortexa/vortexa/parser"
	"github.com/lavyajn/Hackathon-Vortexa/vortexa/services/strategist"
	"github.com/lavyajn/Hackathon-Vortexa/vortexa/store"
	"github.com/lavyajn/Hackathon-Vortexa/vortexa/types"
	"github.com/lavyajn/Hackathon-Vortexa/vortexa/utils/logging"
)

var (
	ErrEmptyInput      = errors.New("prompt is required")
	ErrAlreadyInFlight = errors.New("a strategist call is already in flight")
	ErrSessionNotFound = errors.New("session not found")
)

// fallbackReply is shown whenever the strategist call fails, whatever the
// cause. The conversation stays usable.
const fallbackReply = "I am currently unable to provide a response. Please try again later."

type state int

const (
	stateIdle state = iota
	stateSending
	stateIdleWithError
)

// ChatController runs one active conversation. It keeps a transient draft
// of the current messages and reconciles it into the session store only
// after a successful strategist round trip, so a failed call never leaves
// a half-written exchange in durable storage.
type ChatController struct {
	sessions *store.SessionStore
	backend  strategist.Client

	// parsePrompts selects the structured profile request body over the
	// raw prompt.
	parsePrompts  bool
	historyWindow int

	mu        sync.Mutex
	state     state
	draft     []types.Message
	currentID string

	now   func() time.Time
	newID func() string
}

func NewChatController(sessions *store.SessionStore, backend strategist.Client, parsePrompts bool, historyWindow int) *ChatController {
	if historyWindow <= 0 {
		historyWindow = 4
	}
	return &ChatController{
		sessions:      sessions,
		backend:       backend,
		parsePrompts:  parsePrompts,
		historyWindow: historyWindow,
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

// SubmitOutcome is the result of one conversation turn. Failed marks a
// strategist failure; Reply then carries the fallback text and nothing was
// persisted for this turn.
type SubmitOutcome struct {
	SessionID string        `json:"session_id,omitempty"`
	Reply     types.Message `json:"reply"`
	Failed    bool          `json:"failed,omitempty"`
}

// Submit sends one user turn through the strategist. Only one call may be
// in flight; a submission while Sending is rejected before any state is
// touched.
func (c *ChatController) Submit(ctx context.Context, userText string) (*SubmitOutcome, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return nil, ErrEmptyInput
	}

	c.mu.Lock()
	if c.state == stateSending {
		c.mu.Unlock()
		return nil, ErrAlreadyInFlight
	}
	c.state = stateSending

	// Optimistic append: the user message stays visible even if the
	// strategist call fails.
	c.draft = append(c.draft, types.Message{
		Role:      types.RoleUser,
		Content:   userText,
		Timestamp: c.now(),
	})
	req := c.buildRequest(userText)
	c.mu.Unlock()

	reply, err := c.backend.GenerateStrategy(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		logging.ErrorLogger.Error("strategist call failed", zap.Error(err))
		fallback := types.Message{
			Role:      types.RoleAssistant,
			Content:   fallbackReply,
			Timestamp: c.now(),
		}
		c.draft = append(c.draft, fallback)
		c.state = stateIdleWithError
		return &SubmitOutcome{SessionID: c.currentID, Reply: fallback, Failed: true}, nil
	}

	assistant := types.Message{
		Role:      types.RoleAssistant,
		Content:   reply.Text,
		Chart:     reply.Chart,
		Timestamp: c.now(),
	}
	c.draft = append(c.draft, assistant)
	c.persistTurn(ctx, userText, reply.Title)
	c.state = stateIdle

	return &SubmitOutcome{SessionID: c.currentID, Reply: assistant}, nil
}

// persistTurn reconciles the draft into the session store. The session is
// created lazily on the first successful reply; its title is assigned once
// and never overwritten.
func (c *ChatController) persistTurn(ctx context.Context, userText, replyTitle string) {
	now := c.now()
	if c.currentID == "" {
		title := replyTitle
		if title == "" {
			title = truncateTitle(userText)
		}
		c.currentID = c.newID()
		session := types.Session{
			ID:        c.currentID,
			Title:     title,
			Messages:  copyMessages(c.draft),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := c.sessions.Upsert(ctx, session); err != nil {
			logging.AppLogger.Warn("session save failed, keeping in-memory state", zap.Error(err))
		}
		return
	}

	session, ok := c.sessions.Get(c.currentID)
	if !ok {
		session = types.Session{ID: c.currentID, Title: truncateTitle(userText), CreatedAt: now}
	}
	session.Messages = copyMessages(c.draft)
	session.UpdatedAt = now
	if err := c.sessions.Upsert(ctx, session); err != nil {
		logging.AppLogger.Warn("session save failed, keeping in-memory state", zap.Error(err))
	}
}

// buildRequest assembles the strategist request from the new prompt and a
// bounded trailing window of prior messages, so the payload cannot grow
// with conversation length.
func (c *ChatController) buildRequest(userText string) strategist.Request {
	prior := c.draft[:len(c.draft)-1]
	if len(prior) > c.historyWindow {
		prior = prior[len(prior)-c.historyWindow:]
	}
	history := make([]strategist.HistoryMessage, 0, len(prior))
	for _, msg := range prior {
		history = append(history, strategist.HistoryMessage{Role: msg.Role, Content: msg.Content})
	}

	req := strategist.Request{Prompt: userText, History: history}
	if c.parsePrompts {
		profile := parser.Parse(userText)
		req.Profile = &profile
	}
	return req
}

// NewConversation clears the draft and detaches from the current session.
// The stored session is untouched.
func (c *ChatController) NewConversation() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == stateSending {
		return ErrAlreadyInFlight
	}
	c.draft = nil
	c.currentID = ""
	c.state = stateIdle
	return nil
}

// SwitchTo replaces the draft with a stored session's messages. Unsaved
// draft messages are discarded; the store itself is never written.
func (c *ChatController) SwitchTo(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == stateSending {
		return ErrAlreadyInFlight
	}
	session, ok := c.sessions.Get(id)
	if !ok {
		return ErrSessionNotFound
	}
	c.draft = copyMessages(session.Messages)
	c.currentID = id
	c.state = stateIdle
	return nil
}

// Messages returns a copy of the draft buffer for rendering.
func (c *ChatController) Messages() []types.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyMessages(c.draft)
}

// CurrentID returns the active session id, empty for a fresh conversation.
func (c *ChatController) CurrentID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentID
}

func copyMessages(in []types.Message) []types.Message {
	out := make([]types.Message, len(in))
	copy(out, in)
	return out
}

func truncateTitle(prompt string) string {
	const max = 50
	if len(prompt) <= max {
		return prompt
	}
	return prompt[:max] + "..."
}

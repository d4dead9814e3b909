package studio

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/I-PingLin/Nano-Banana-Pro---AI-Marketing-Suite/internal/ai"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type ChatMessage struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// ChatFallbackReply stands in for the assistant whenever a turn fails.
const ChatFallbackReply = "Sorry, I encountered an error. Please try again."

// ChatPanel is the assistant side panel: visibility, the transcript and one
// chat session. The session is created on the first message and lives as long
// as the panel; there is no teardown.
type ChatPanel struct {
	gen     ai.Generator
	logger  *zap.SugaredLogger
	changes changeFeed

	mu       sync.Mutex
	open     bool
	messages []ChatMessage
	input    string
	typing   bool
	session  ai.ChatSession
}

func NewChatPanel(gen ai.Generator, logger *zap.SugaredLogger) *ChatPanel {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ChatPanel{gen: gen, logger: logger}
}

// SetInput stores the draft message.
func (p *ChatPanel) SetInput(text string) {
	p.mu.Lock()
	p.input = text
	p.mu.Unlock()
	p.changes.notify()
}

// SendMessage appends the user's message, asks the assistant and appends its
// reply. Blank text returns ErrEmptyMessage and a send while a reply is pending
// returns ErrChatBusy; neither touches the transcript. Remote failures become
// ChatFallbackReply and are not returned.
func (p *ChatPanel) SendMessage(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	p.mu.Lock()
	if text == "" {
		p.mu.Unlock()
		return ErrEmptyMessage
	}
	if p.typing {
		p.mu.Unlock()
		return ErrChatBusy
	}
	p.messages = append(p.messages, ChatMessage{Role: RoleUser, Text: text})
	p.input = ""
	p.typing = true
	p.mu.Unlock()
	p.changes.notify()

	defer func() {
		p.mu.Lock()
		p.typing = false
		p.mu.Unlock()
		p.changes.notify()
	}()

	reply, err := p.exchange(context.WithoutCancel(ctx), text)
	if err != nil {
		p.logger.Warnw("chat turn failed", "error", err)
		reply = ChatFallbackReply
	}
	p.mu.Lock()
	p.messages = append(p.messages, ChatMessage{Role: RoleModel, Text: reply})
	p.mu.Unlock()
	return nil
}

func (p *ChatPanel) exchange(ctx context.Context, text string) (string, error) {
	session, err := p.getOrCreateSession(ctx)
	if err != nil {
		return "", err
	}
	return session.SendMessage(ctx, text)
}

// getOrCreateSession is only reached while typing, so at most one caller
// creates the session.
func (p *ChatPanel) getOrCreateSession(ctx context.Context) (ai.ChatSession, error) {
	p.mu.Lock()
	s := p.session
	p.mu.Unlock()
	if s != nil {
		return s, nil
	}
	s, err := p.gen.NewChatSession(ctx)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.session = s
	p.mu.Unlock()
	return s, nil
}

func (p *ChatPanel) Toggle() {
	p.mu.Lock()
	p.open = !p.open
	p.mu.Unlock()
	p.changes.notify()
}

func (p *ChatPanel) Close() {
	p.mu.Lock()
	p.open = false
	p.mu.Unlock()
	p.changes.notify()
}

func (p *ChatPanel) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

func (p *ChatPanel) Messages() []ChatMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ChatMessage, len(p.messages))
	copy(out, p.messages)
	return out
}

func (p *ChatPanel) Subscribe() (<-chan struct{}, func()) { return p.changes.subscribe() }

type ChatSnapshot struct {
	Open     bool          `json:"open"`
	IsTyping bool          `json:"isTyping"`
	Input    string        `json:"input"`
	Messages []ChatMessage `json:"messages"`
}

func (p *ChatPanel) Snapshot() ChatSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	msgs := make([]ChatMessage, len(p.messages))
	copy(msgs, p.messages)
	return ChatSnapshot{Open: p.open, IsTyping: p.typing, Input: p.input, Messages: msgs}
}

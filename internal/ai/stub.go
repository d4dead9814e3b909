package ai

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
)

// StubClient answers without calling any remote service. Used for local UI work.
type StubClient struct{}

func NewStubClient() *StubClient { return &StubClient{} }

func (c *StubClient) GenerateCampaign(_ context.Context, prompt string) (EmailCampaign, error) {
	topic := strings.TrimSpace(prompt)
	return EmailCampaign{
		SubjectLines: []string{
			"Meet " + topic,
			"You asked, we built it: " + topic,
			"Last chance to try " + topic,
		},
		Body:           "<p>Introducing " + html.EscapeString(topic) + ".</p>",
		TargetAudience: "Existing subscribers",
		Tone:           "friendly",
		VisualPrompt:   "Product shot for " + topic,
	}, nil
}

func (c *StubClient) GenerateImage(_ context.Context, prompt, sizeHint string) (string, error) {
	svg := fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="1600" height="900"><rect width="100%%" height="100%%" fill="#facc15"/><text x="50%%" y="50%%" text-anchor="middle" font-size="40">%s (%s)</text></svg>`,
		html.EscapeString(prompt), html.EscapeString(sizeHint),
	)
	return dataURI("image/svg+xml", []byte(svg)), nil
}

func (c *StubClient) NewChatSession(_ context.Context) (ChatSession, error) {
	return &stubChat{}, nil
}

type stubChat struct {
	mu    sync.Mutex
	turns int
}

func (s *stubChat) SendMessage(_ context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns++
	return fmt.Sprintf("(turn %d) You said: %s", s.turns, text), nil
}

package types

import "github.com/I-PingLin/Nano-Banana-Pro---AI-Marketing-Suite/internal/studio"

type PromptRequest struct {
	Prompt string `json:"prompt"`
}

type ImageSizeRequest struct {
	Size string `json:"size"`
}

type CopyRequest struct {
	Text string `json:"text"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatInputRequest struct {
	Input string `json:"input"`
}

// WorkspaceResponse is the full view state of one session. Alerts carries the
// blocking notifications raised since the previous response.
type WorkspaceResponse struct {
	SessionID string                  `json:"sessionId"`
	Campaign  studio.CampaignSnapshot `json:"campaign"`
	Chat      studio.ChatSnapshot     `json:"chat"`
	Alerts    []string                `json:"alerts,omitempty"`
	Error     string                  `json:"error,omitempty"`
}

type ChatMessagesResponse struct {
	SessionID string               `json:"sessionId"`
	Messages  []studio.ChatMessage `json:"messages"`
	IsTyping  bool                 `json:"isTyping"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

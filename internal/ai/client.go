package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
)

// Generator is the only boundary to the generative service. Implementations
// hold no business state.
type Generator interface {
	GenerateCampaign(ctx context.Context, prompt string) (EmailCampaign, error)
	// GenerateImage returns a single image as a data URI.
	GenerateImage(ctx context.Context, prompt, sizeHint string) (string, error)
	// NewChatSession opens a conversation bound to the fixed system instruction.
	NewChatSession(ctx context.Context) (ChatSession, error)
}

// ChatSession keeps conversational history on behalf of its owner. Callers send
// only the new user turn.
type ChatSession interface {
	SendMessage(ctx context.Context, text string) (string, error)
}

const (
	ImageMIMEType    = "image/jpeg"
	ImageAspectRatio = "16:9"
)

// imagePrompt appends the fixed qualifiers and the size label as a plain word.
// The label is never mapped to a real resolution parameter.
func imagePrompt(prompt string, qualifiers []string, sizeHint string) string {
	parts := make([]string, 0, len(qualifiers)+2)
	parts = append(parts, prompt)
	parts = append(parts, qualifiers...)
	parts = append(parts, sizeHint)
	return strings.Join(parts, ", ")
}

func dataURI(mimeType string, b []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(b))
}

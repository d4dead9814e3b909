package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	DefaultOpenAIModel      = "gpt-4o-mini"
	DefaultOpenAIImageModel = openai.CreateImageModelDallE3
)

type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	ImageModel string
}

// OpenAIClient implements Generator against the OpenAI API. The campaign schema
// is described in the system message and enforced with JSON-object mode.
type OpenAIClient struct {
	client     *openai.Client
	prompts    *PromptSpec
	model      string
	imageModel string
	logger     *zap.SugaredLogger
}

func NewOpenAIClient(cfg OpenAIConfig, prompts *PromptSpec, logger *zap.SugaredLogger) *OpenAIClient {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if prompts == nil {
		prompts = DefaultPromptSpec()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &OpenAIClient{
		client:     openai.NewClientWithConfig(oc),
		prompts:    prompts,
		model:      orDefault(cfg.Model, DefaultOpenAIModel),
		imageModel: orDefault(cfg.ImageModel, DefaultOpenAIImageModel),
		logger:     logger,
	}
}

func (c *OpenAIClient) GenerateCampaign(ctx context.Context, prompt string) (EmailCampaign, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.schemaInstruction()},
			{Role: openai.ChatMessageRoleUser, Content: c.prompts.CampaignPrompt(prompt)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return EmailCampaign{}, remoteErr("generate campaign", err)
	}
	if len(resp.Choices) == 0 {
		return EmailCampaign{}, remoteErr("generate campaign", errors.New("no choices"))
	}
	campaign, err := ParseCampaign(resp.Choices[0].Message.Content)
	if err != nil {
		c.logger.Errorw("Failed to parse campaign JSON", "model", c.model, "error", err)
		return EmailCampaign{}, err
	}
	return campaign, nil
}

func (c *OpenAIClient) schemaInstruction() string {
	var b strings.Builder
	b.WriteString("Respond with a single JSON object containing exactly these keys, in this order:\n")
	for _, f := range CampaignFieldOrder {
		kind := "string"
		if f == FieldSubjectLines {
			kind = "array of strings"
		}
		fmt.Fprintf(&b, "- %s (%s): %s\n", f, kind, c.prompts.Campaign.Fields[f])
	}
	return b.String()
}

// GenerateImage asks for one landscape image. The API has no 16:9 option, so
// 1792x1024 is the closest size.
func (c *OpenAIClient) GenerateImage(ctx context.Context, prompt, sizeHint string) (string, error) {
	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         c.prompts.ImagePrompt(prompt, sizeHint),
		Model:          c.imageModel,
		N:              1,
		Size:           openai.CreateImageSize1792x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return "", remoteErr("generate image", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", remoteErr("generate image", errors.New("no image returned"))
	}
	raw, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return "", remoteErr("generate image", fmt.Errorf("decode image: %w", err))
	}
	return dataURI(http.DetectContentType(raw), raw), nil
}

func (c *OpenAIClient) NewChatSession(ctx context.Context) (ChatSession, error) {
	return &openAIChat{
		client: c.client,
		model:  c.model,
		history: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.prompts.Chat.System},
		},
	}, nil
}

// openAIChat keeps the transcript the API needs on every turn. A failed turn is
// not recorded.
type openAIChat struct {
	client *openai.Client
	model  string

	mu      sync.Mutex
	history []openai.ChatCompletionMessage
}

func (s *openAIChat) SendMessage(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: text}
	msgs := append(append([]openai.ChatCompletionMessage(nil), s.history...), user)
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: msgs,
	})
	if err != nil {
		return "", remoteErr("chat", err)
	}
	if len(resp.Choices) == 0 {
		return "", remoteErr("chat", errors.New("no choices"))
	}
	reply := resp.Choices[0].Message.Content
	s.history = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply})
	return reply, nil
}

package ai

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	DefaultTextModel  = "gemini-2.5-flash"
	DefaultImageModel = "imagen-4.0-generate-001"
	DefaultChatModel  = "gemini-2.5-flash"
)

type GeminiConfig struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
	ChatModel  string
}

// GeminiClient implements Generator on top of the Google GenAI SDK.
type GeminiClient struct {
	client     *genai.Client
	prompts    *PromptSpec
	textModel  string
	imageModel string
	chatModel  string
	logger     *zap.SugaredLogger
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig, prompts *PromptSpec, logger *zap.SugaredLogger) (*GeminiClient, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	if prompts == nil {
		prompts = DefaultPromptSpec()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &GeminiClient{
		client:     client,
		prompts:    prompts,
		textModel:  orDefault(cfg.TextModel, DefaultTextModel),
		imageModel: orDefault(cfg.ImageModel, DefaultImageModel),
		chatModel:  orDefault(cfg.ChatModel, DefaultChatModel),
		logger:     logger,
	}, nil
}

func (c *GeminiClient) GenerateCampaign(ctx context.Context, prompt string) (EmailCampaign, error) {
	resp, err := c.client.Models.GenerateContent(ctx,
		c.textModel,
		genai.Text(c.prompts.CampaignPrompt(prompt)),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   c.campaignSchema(),
		},
	)
	if err != nil {
		return EmailCampaign{}, remoteErr("generate campaign", err)
	}
	campaign, err := ParseCampaign(resp.Text())
	if err != nil {
		c.logger.Errorw("Failed to parse campaign JSON", "model", c.textModel, "error", err)
		return EmailCampaign{}, err
	}
	return campaign, nil
}

func (c *GeminiClient) campaignSchema() *genai.Schema {
	desc := c.prompts.Campaign.Fields
	str := func(field string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc[field]}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			FieldSubjectLines: {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: desc[FieldSubjectLines],
			},
			FieldBody:           str(FieldBody),
			FieldTargetAudience: str(FieldTargetAudience),
			FieldTone:           str(FieldTone),
			FieldVisualPrompt:   str(FieldVisualPrompt),
		},
		Required:         slices.Clone(CampaignFieldOrder),
		PropertyOrdering: slices.Clone(CampaignFieldOrder),
	}
}

func (c *GeminiClient) GenerateImage(ctx context.Context, prompt, sizeHint string) (string, error) {
	resp, err := c.client.Models.GenerateImages(ctx,
		c.imageModel,
		c.prompts.ImagePrompt(prompt, sizeHint),
		&genai.GenerateImagesConfig{
			NumberOfImages: 1,
			OutputMIMEType: ImageMIMEType,
			AspectRatio:    ImageAspectRatio,
		},
	)
	if err != nil {
		return "", remoteErr("generate image", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil ||
		len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return "", remoteErr("generate image", errors.New("no image returned"))
	}
	return dataURI(ImageMIMEType, resp.GeneratedImages[0].Image.ImageBytes), nil
}

func (c *GeminiClient) NewChatSession(ctx context.Context) (ChatSession, error) {
	chat, err := c.client.Chats.Create(ctx, c.chatModel, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(c.prompts.Chat.System, genai.RoleUser),
	}, nil)
	if err != nil {
		return nil, remoteErr("create chat", err)
	}
	return &geminiChat{chat: chat}, nil
}

// geminiChat relies on the SDK chat to accumulate history between turns.
type geminiChat struct {
	chat *genai.Chat
}

func (g *geminiChat) SendMessage(ctx context.Context, text string) (string, error) {
	resp, err := g.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return "", remoteErr("chat", err)
	}
	return resp.Text(), nil
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

package ai

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPromptSpec(t *testing.T) {
	spec, err := LoadPromptSpec("")
	require.NoError(t, err)

	assert.Equal(t,
		"Generate a complete email marketing campaign based on this prompt: Launch our new eco-friendly water bottle",
		spec.CampaignPrompt("Launch our new eco-friendly water bottle"))
	assert.Equal(t,
		"You are an expert marketing consultant for Nano Banana Pro. Help users optimize their email campaigns.",
		spec.Chat.System)
	for _, f := range CampaignFieldOrder {
		assert.NotEmpty(t, spec.Campaign.Fields[f], f)
	}
}

func TestImagePromptAppendsSizeAsWord(t *testing.T) {
	spec := DefaultPromptSpec()
	got := spec.ImagePrompt("bottle on a beach", "1K")
	assert.Equal(t, "bottle on a beach, high resolution, professional photography, marketing style, 1K", got)

	// Any label passes through untouched.
	assert.Equal(t, "x, high resolution, professional photography, marketing style, giant",
		spec.ImagePrompt("x", "giant"))
}

func TestParsePromptSpecValidation(t *testing.T) {
	_, err := ParsePromptSpec([]byte(`
campaign:
  instruction: "no placeholder"
chat:
  system: "hi"
`))
	assert.ErrorContains(t, err, "%s")

	_, err = ParsePromptSpec([]byte(`
campaign:
  instruction: "make %s"
  fields:
    subjectLines: "x"
chat:
  system: "hi"
`))
	assert.ErrorContains(t, err, "body")

	_, err = ParsePromptSpec([]byte("campaign: [unclosed"))
	assert.Error(t, err)
}

func TestLoadPromptSpecFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	custom := `
campaign:
  instruction: "Write a campaign for: %s"
  fields:
    subjectLines: "s"
    body: "b"
    targetAudience: "a"
    tone: "t"
    visualPrompt: "v"
image:
  qualifiers: ["studio lighting"]
chat:
  system: "You are terse."
`
	require.NoError(t, os.WriteFile(path, []byte(custom), 0o600))

	spec, err := LoadPromptSpec(path)
	require.NoError(t, err)
	assert.Equal(t, "Write a campaign for: shoes", spec.CampaignPrompt("shoes"))
	assert.Equal(t, "shoes, studio lighting, 2K", spec.ImagePrompt("shoes", "2K"))

	_, err = LoadPromptSpec(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

package ai

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed prompts/campaign.yaml
var defaultPromptSpec []byte

// PromptSpec holds the fixed instructions sent to the model.
type PromptSpec struct {
	Campaign struct {
		Instruction string            `yaml:"instruction"`
		Fields      map[string]string `yaml:"fields"`
	} `yaml:"campaign"`
	Image struct {
		Qualifiers []string `yaml:"qualifiers"`
	} `yaml:"image"`
	Chat struct {
		System string `yaml:"system"`
	} `yaml:"chat"`
}

// LoadPromptSpec reads the spec from path, or the embedded default when path is empty.
func LoadPromptSpec(path string) (*PromptSpec, error) {
	b := defaultPromptSpec
	if path != "" {
		var err error
		b, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read prompt file: %w", err)
		}
	}
	return ParsePromptSpec(b)
}

func ParsePromptSpec(b []byte) (*PromptSpec, error) {
	var spec PromptSpec
	if err := yaml.Unmarshal(b, &spec); err != nil {
		return nil, fmt.Errorf("parse prompt spec: %w", err)
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// DefaultPromptSpec returns the embedded spec. It panics only if the embedded
// file is broken, which the package tests guard against.
func DefaultPromptSpec() *PromptSpec {
	spec, err := ParsePromptSpec(defaultPromptSpec)
	if err != nil {
		panic(err)
	}
	return spec
}

func (p *PromptSpec) validate() error {
	if !strings.Contains(p.Campaign.Instruction, "%s") {
		return fmt.Errorf("prompt spec: campaign.instruction must contain %%s")
	}
	for _, f := range CampaignFieldOrder {
		if strings.TrimSpace(p.Campaign.Fields[f]) == "" {
			return fmt.Errorf("prompt spec: missing description for field %q", f)
		}
	}
	if strings.TrimSpace(p.Chat.System) == "" {
		return fmt.Errorf("prompt spec: chat.system is required")
	}
	return nil
}

// CampaignPrompt renders the user's request into the generation instruction.
func (p *PromptSpec) CampaignPrompt(prompt string) string {
	return fmt.Sprintf(p.Campaign.Instruction, prompt)
}

func (p *PromptSpec) ImagePrompt(prompt, sizeHint string) string {
	return imagePrompt(prompt, p.Image.Qualifiers, sizeHint)
}

package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// EmailCampaign is one generated marketing campaign.
type EmailCampaign struct {
	SubjectLines   []string `json:"subjectLines"`
	Body           string   `json:"body"`
	TargetAudience string   `json:"targetAudience"`
	Tone           string   `json:"tone"`
	VisualPrompt   string   `json:"visualPrompt"`
}

// Campaign fields in the order the model is asked to emit them.
const (
	FieldSubjectLines   = "subjectLines"
	FieldBody           = "body"
	FieldTargetAudience = "targetAudience"
	FieldTone           = "tone"
	FieldVisualPrompt   = "visualPrompt"
)

var CampaignFieldOrder = []string{
	FieldSubjectLines,
	FieldBody,
	FieldTargetAudience,
	FieldTone,
	FieldVisualPrompt,
}

// ParseCampaign decodes the raw model output. Anything that is not a JSON object
// carrying all five fields with the right types is a *GenerationParseError; no
// attempt is made to salvage a partial campaign.
func ParseCampaign(raw string) (EmailCampaign, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return EmailCampaign{}, &GenerationParseError{Raw: raw, Err: errors.New("empty response")}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return EmailCampaign{}, &GenerationParseError{Raw: raw, Err: err}
	}
	for _, name := range CampaignFieldOrder {
		v, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return EmailCampaign{}, &GenerationParseError{Raw: raw, Err: fmt.Errorf("missing field %q", name)}
		}
	}

	var c EmailCampaign
	if err := json.Unmarshal([]byte(text), &c); err != nil {
		return EmailCampaign{}, &GenerationParseError{Raw: raw, Err: err}
	}
	return c, nil
}

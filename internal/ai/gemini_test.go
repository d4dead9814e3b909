package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGemini records request bodies per endpoint and answers with canned payloads.
type fakeGemini struct {
	mu       sync.Mutex
	bodies   map[string][]string
	generate string
	predict  string
	status   int
}

func (f *fakeGemini) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	op := r.URL.Path[strings.LastIndex(r.URL.Path, ":")+1:]
	f.mu.Lock()
	f.bodies[op] = append(f.bodies[op], string(b))
	f.mu.Unlock()

	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	switch op {
	case "generateContent":
		_, _ = w.Write([]byte(f.generate))
	case "predict":
		_, _ = w.Write([]byte(f.predict))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeGemini) requests(op string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.bodies[op]...)
}

func textResponse(t *testing.T, text string) string {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": text}},
				},
				"finishReason": "STOP",
			},
		},
	})
	require.NoError(t, err)
	return string(b)
}

func newTestGemini(t *testing.T, fake *fakeGemini) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	c, err := NewGeminiClient(context.Background(), GeminiConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/",
	}, nil, nil)
	require.NoError(t, err)
	return c
}

func TestGeminiGenerateCampaign(t *testing.T) {
	fake := &fakeGemini{
		bodies:   map[string][]string{},
		generate: "",
	}
	fake.generate = textResponse(t, `{"subjectLines":["A","B","C"],"body":"...","targetAudience":"eco-conscious","tone":"friendly","visualPrompt":"bottle on a beach"}`)
	c := newTestGemini(t, fake)

	got, err := c.GenerateCampaign(context.Background(), "Launch our new eco-friendly water bottle")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, got.SubjectLines)
	assert.Equal(t, "bottle on a beach", got.VisualPrompt)

	reqs := fake.requests("generateContent")
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0], "based on this prompt: Launch our new eco-friendly water bottle")
	assert.Contains(t, reqs[0], "application/json")
	assert.Contains(t, reqs[0], "propertyOrdering")
	assert.Contains(t, reqs[0], "visualPrompt")
}

func TestGeminiGenerateCampaignParseError(t *testing.T) {
	fake := &fakeGemini{bodies: map[string][]string{}}
	fake.generate = textResponse(t, "I'm sorry, here is some prose instead of JSON.")
	c := newTestGemini(t, fake)

	_, err := c.GenerateCampaign(context.Background(), "Launch our new eco-friendly water bottle")
	var perr *GenerationParseError
	require.True(t, errors.As(err, &perr), "got %v", err)
}

func TestGeminiRemoteFailure(t *testing.T) {
	fake := &fakeGemini{bodies: map[string][]string{}, status: http.StatusTooManyRequests}
	c := newTestGemini(t, fake)

	_, err := c.GenerateCampaign(context.Background(), "Launch our new eco-friendly water bottle")
	var rerr *RemoteServiceError
	require.True(t, errors.As(err, &rerr), "got %v", err)

	_, err = c.GenerateImage(context.Background(), "bottle on a beach", "1K")
	require.True(t, errors.As(err, &rerr), "got %v", err)
}

func TestGeminiGenerateImage(t *testing.T) {
	fake := &fakeGemini{
		bodies:  map[string][]string{},
		predict: `{"predictions":[{"bytesBase64Encoded":"aGVsbG8=","mimeType":"image/jpeg"}]}`,
	}
	c := newTestGemini(t, fake)

	uri, err := c.GenerateImage(context.Background(), "bottle on a beach", "1K")
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,aGVsbG8=", uri)

	reqs := fake.requests("predict")
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0], "bottle on a beach, high resolution, professional photography, marketing style, 1K")
	assert.Contains(t, reqs[0], "16:9")
}

func TestGeminiGenerateImageEmpty(t *testing.T) {
	fake := &fakeGemini{bodies: map[string][]string{}, predict: `{"predictions":[]}`}
	c := newTestGemini(t, fake)

	_, err := c.GenerateImage(context.Background(), "bottle on a beach", "1K")
	var rerr *RemoteServiceError
	require.True(t, errors.As(err, &rerr), "got %v", err)
}

func TestGeminiChatKeepsHistory(t *testing.T) {
	fake := &fakeGemini{bodies: map[string][]string{}}
	fake.generate = textResponse(t, "Try a question in the subject line.")
	c := newTestGemini(t, fake)

	session, err := c.NewChatSession(context.Background())
	require.NoError(t, err)

	reply, err := session.SendMessage(context.Background(), "What's a good subject line?")
	require.NoError(t, err)
	assert.Equal(t, "Try a question in the subject line.", reply)

	_, err = session.SendMessage(context.Background(), "And a shorter one?")
	require.NoError(t, err)

	reqs := fake.requests("generateContent")
	require.Len(t, reqs, 2)
	assert.Contains(t, reqs[0], "expert marketing consultant for Nano Banana Pro")
	assert.NotContains(t, reqs[0], "And a shorter one?")
	assert.Contains(t, reqs[1], "What's a good subject line?")
	assert.Contains(t, reqs[1], "Try a question in the subject line.")
	assert.Contains(t, reqs[1], "And a shorter one?")
}

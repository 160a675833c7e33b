package services

import (
	"context"
	"testing"

	"validea/config"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstText(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want string
	}{
		{name: "nil response", resp: nil, want: ""},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, want: ""},
		{name: "nil content", resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}, want: ""},
		{
			name: "joins text parts",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{
					genai.Text(`{"score": `),
					&genai.Blob{MIMEType: "image/png"},
					genai.Text(`40}`),
				}},
			}}},
			want: `{"score": 40}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstText(tt.resp))
		})
	}
}

func TestNewGeminiCompleter_RequiresKey(t *testing.T) {
	_, err := NewGeminiCompleter(context.Background(), " ", "")
	require.Error(t, err)
}

func TestNewCompleter(t *testing.T) {
	var cfg config.Upstream
	cfg.Provider = config.ProviderOpenAI
	cfg.OpenAI.APIKey = "sk-test"
	cfg.OpenAI.Model = "gpt-4o-mini"

	c, err := NewCompleter(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Name())

	cfg.Provider = "claude-ish"
	_, err = NewCompleter(context.Background(), cfg)
	require.Error(t, err)

	cfg.Provider = config.ProviderGemini
	_, err = NewCompleter(context.Background(), cfg)
	require.Error(t, err, "gemini without a key must fail")
}

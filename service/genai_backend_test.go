package service

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseTextJoinsCandidateParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{
				genai.Text("Dear Sirs,\n"),
				genai.Text("payment is overdue."),
			}}},
		},
	}

	text, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, "Dear Sirs,\npayment is overdue.", text)
}

func TestResponseTextEmptyResponse(t *testing.T) {
	_, err := responseText(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	// A candidate without content counts as empty too.
	_, err = responseText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{}},
	})
	assert.Error(t, err)
}

func TestNewGenaiBackendConfig(t *testing.T) {
	backend := NewGenaiBackend(nil, "gemini-3-pro-preview", 0.2)
	assert.Equal(t, "gemini-3-pro-preview", backend.model)
	assert.Equal(t, float32(0.2), backend.temperature)
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// GenaiBackend runs generation through the genai SDK client. Extraction
// uses it; document drafting keeps the raw HTTP backend with its longer
// retry loop.
type GenaiBackend struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGenaiBackend creates a backend over an initialised genai client
func NewGenaiBackend(client *genai.Client, model string, temperature float32) *GenaiBackend {
	return &GenaiBackend{
		client:      client,
		model:       model,
		temperature: temperature,
	}
}

// Generate implements Backend via the SDK
func (b *GenaiBackend) Generate(ctx context.Context, prompt, systemInstructions string) (string, error) {
	model := b.client.GenerativeModel(b.model)
	model.SetTemperature(b.temperature)
	if systemInstructions != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemInstructions)},
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	resp, err := model.GenerateContent(callCtx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}

	return responseText(resp)
}

// responseText joins the text parts of every candidate, erroring on an
// empty response so callers can degrade instead of parsing nothing.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}

	if b.Len() == 0 {
		return "", fmt.Errorf("generation returned no text content")
	}
	return b.String(), nil
}

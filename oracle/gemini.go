package oracle

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/genai"
)

var DefaultModels = []string{
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite-preview-02-05",
	"gemini-flash-latest",
}

func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// GeminiProvider generates text with one Gemini model.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(client *genai.Client, model string) *GeminiProvider {
	return &GeminiProvider{client: client, model: model}
}

// GeminiProviders builds one provider per model, in priority order.
func GeminiProviders(client *genai.Client, models []string) []Provider {
	providers := make([]Provider, 0, len(models))
	for _, m := range models {
		providers = append(providers, NewGeminiProvider(client, m))
	}
	return providers
}

func (p *GeminiProvider) Name() string {
	return p.model
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		if code, ok := statusCode(err); ok {
			switch code {
			case http.StatusTooManyRequests:
				return "", &RateLimitError{Provider: p.model, Err: err}
			case http.StatusNotFound:
				return "", &NotFoundError{Provider: p.model, Err: err}
			}
		}
		return "", err
	}
	return resp.Text(), nil
}

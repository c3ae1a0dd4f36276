package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/ternarybob/newslens/internal/common"
	"github.com/ternarybob/newslens/internal/interfaces"
)

// GeminiGenerator implements the TextGenerator interface using the Google
// Gemini API.
type GeminiGenerator struct {
	config  *common.GeminiConfig
	logger  arbor.ILogger
	client  *genai.Client
	timeout time.Duration
}

// NewGeminiGenerator creates a new Gemini text generator.
//
// The API key is resolved from the environment with a config fallback; model
// name and timeout fall back to defaults when unset.
func NewGeminiGenerator(config *common.GeminiConfig, logger arbor.ILogger) (*GeminiGenerator, error) {
	apiKey, err := common.ResolveAPIKey([]string{"NEWSLENS_GEMINI_API_KEY", "GEMINI_API_KEY"}, config.APIKey)
	if err != nil {
		return nil, fmt.Errorf("Gemini API key is required (set NEWSLENS_GEMINI_API_KEY, GEMINI_API_KEY, or gemini.api_key in config): %w", err)
	}

	if config.Model == "" {
		config.Model = "gemini-2.0-flash"
	}
	if config.Timeout == "" {
		config.Timeout = "2m"
	}

	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Timeout, err)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	logger.Info().
		Str("model", config.Model).
		Dur("timeout", timeout).
		Msg("Gemini generator initialized")

	return &GeminiGenerator{
		config:  config,
		logger:  logger,
		client:  client,
		timeout: timeout,
	}, nil
}

// Generate produces a text completion for the given prompt.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.config.Temperature),
	}

	startTime := time.Now()
	resp, err := g.client.Models.GenerateContent(timeoutCtx, g.config.Model, contents, genConfig)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	// Extract text from response - iterate candidates until non-empty text is found
	var response strings.Builder
	if resp != nil && len(resp.Candidates) > 0 {
		for _, candidate := range resp.Candidates {
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					response.WriteString(part.Text)
				}
			}
			if response.Len() > 0 {
				break
			}
		}
	}

	if response.Len() == 0 {
		return "", fmt.Errorf("no response generated from model")
	}

	g.logger.Debug().
		Int("prompt_length", len(prompt)).
		Int("response_length", response.Len()).
		Dur("duration", time.Since(startTime)).
		Msg("Gemini generation completed")

	return response.String(), nil
}

// Close releases the client reference. The genai.Client doesn't require
// explicit cleanup beyond this.
func (g *GeminiGenerator) Close() error {
	g.client = nil
	return nil
}

// Ensure GeminiGenerator implements TextGenerator
var _ interfaces.TextGenerator = (*GeminiGenerator)(nil)

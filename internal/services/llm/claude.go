package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/newslens/internal/common"
	"github.com/ternarybob/newslens/internal/interfaces"
)

// ClaudeGenerator implements the TextGenerator interface using the Anthropic
// Claude API.
type ClaudeGenerator struct {
	config    *common.ClaudeConfig
	logger    arbor.ILogger
	client    anthropic.Client
	timeout   time.Duration
	maxTokens int
}

// NewClaudeGenerator creates a new Claude text generator.
func NewClaudeGenerator(config *common.ClaudeConfig, logger arbor.ILogger) (*ClaudeGenerator, error) {
	apiKey, err := common.ResolveAPIKey([]string{"NEWSLENS_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"}, config.APIKey)
	if err != nil {
		return nil, fmt.Errorf("Anthropic API key is required (set NEWSLENS_CLAUDE_API_KEY, ANTHROPIC_API_KEY, or claude.api_key in config): %w", err)
	}

	if config.Model == "" {
		config.Model = "claude-haiku-3-5-20241022"
	}
	if config.Timeout == "" {
		config.Timeout = "2m"
	}

	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Timeout, err)
	}

	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	logger.Info().
		Str("model", config.Model).
		Dur("timeout", timeout).
		Int("max_tokens", maxTokens).
		Msg("Claude generator initialized")

	return &ClaudeGenerator{
		config:    config,
		logger:    logger,
		client:    client,
		timeout:   timeout,
		maxTokens: maxTokens,
	}, nil
}

// Generate produces a text completion for the given prompt.
func (g *ClaudeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.config.Model),
		MaxTokens: int64(g.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if g.config.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(g.config.Temperature))
	}

	startTime := time.Now()
	resp, err := g.client.Messages.New(timeoutCtx, params)
	if err != nil {
		return "", fmt.Errorf("claude generation failed: %w", err)
	}

	text := extractMessageText(resp)
	if text == "" {
		return "", fmt.Errorf("empty text in model response")
	}

	g.logger.Debug().
		Int("prompt_length", len(prompt)).
		Int("response_length", len(text)).
		Dur("duration", time.Since(startTime)).
		Msg("Claude generation completed")

	return text, nil
}

// extractMessageText concatenates the text blocks of a message, skipping any
// non-text blocks.
func extractMessageText(resp *anthropic.Message) string {
	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String()
}

// Close resets the client to its zero value.
func (g *ClaudeGenerator) Close() error {
	g.client = anthropic.Client{}
	return nil
}

// Ensure ClaudeGenerator implements TextGenerator
var _ interfaces.TextGenerator = (*ClaudeGenerator)(nil)

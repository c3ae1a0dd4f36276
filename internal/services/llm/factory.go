package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/newslens/internal/common"
	"github.com/ternarybob/newslens/internal/interfaces"
)

// NewTextGenerator creates the configured provider's text generator. Both
// providers sit behind the same one-capability interface, so analysis and
// translation never branch on the backend.
func NewTextGenerator(cfg *common.Config, logger arbor.ILogger) (interfaces.TextGenerator, error) {
	provider := cfg.LLM.DefaultProvider
	if provider == "" {
		provider = common.LLMProviderGemini
	}

	logger.Info().Str("provider", string(provider)).Msg("Initializing LLM provider")

	switch provider {
	case common.LLMProviderGemini:
		return NewGeminiGenerator(&cfg.Gemini, logger)
	case common.LLMProviderClaude:
		return NewClaudeGenerator(&cfg.Claude, logger)
	default:
		return nil, fmt.Errorf("unsupported LLM provider '%s': must be 'gemini' or 'claude'", provider)
	}
}

package llm

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/newslens/internal/interfaces"
)

// Caller wraps a TextGenerator with rate-limit retry handling. It retries
// rate-limited failures up to the configured budget with exponential backoff
// and surfaces everything else immediately as *ExternalServiceError. The
// caller knows nothing about the shape of the prompt or the reply, so the
// same instance serves analysis and translation prompts.
type Caller struct {
	generator interfaces.TextGenerator
	config    *RetryConfig
	logger    arbor.ILogger
}

// NewCaller creates a resilient caller around a text generator. A nil config
// uses the default retry budget.
func NewCaller(generator interfaces.TextGenerator, config *RetryConfig, logger arbor.ILogger) *Caller {
	if config == nil {
		config = NewDefaultRetryConfig()
	}
	return &Caller{
		generator: generator,
		config:    config,
		logger:    logger,
	}
}

// Call submits a prompt and returns the reply text. Rate-limited failures
// are retried up to MaxRetries times, waiting BaseBackoff * 2^attempt before
// each retry. Backoff sleeps block, honoring ctx cancellation.
func (c *Caller) Call(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	attempts := 0

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		attempts++
		response, err := c.generator.Generate(ctx, prompt)
		if err == nil {
			return response, nil
		}
		lastErr = err

		if !IsRateLimitError(err) || attempt == c.config.MaxRetries {
			break
		}

		backoff := c.config.CalculateBackoff(attempt)
		c.logger.Warn().
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Dur("api_suggested_delay", ExtractRetryDelay(err)).
			Err(err).
			Msg("Rate limited, retrying generation call")

		if err := sleepContext(ctx, backoff); err != nil {
			lastErr = err
			break
		}
	}

	return "", &ExternalServiceError{
		Attempts: attempts,
		Cause:    lastErr,
	}
}

// Generate implements interfaces.TextGenerator, allowing a Caller to be used
// anywhere a bare generator is expected.
func (c *Caller) Generate(ctx context.Context, prompt string) (string, error) {
	return c.Call(ctx, prompt)
}

// sleepContext blocks for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Ensure Caller implements TextGenerator
var _ interfaces.TextGenerator = (*Caller)(nil)

package llm

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// RetryConfig defines retry behavior for rate-limited generation calls.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts (default: 3)
	MaxRetries int

	// BaseBackoff is the backoff unit; the wait before retry N is
	// BaseBackoff * 2^N (default: 2s)
	BaseBackoff time.Duration
}

// Default retry constants for rate-limit handling.
const (
	DefaultMaxRetries  = 3
	DefaultBaseBackoff = 2 * time.Second
)

// NewDefaultRetryConfig returns a RetryConfig with the default retry budget
// and backoff schedule.
func NewDefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:  DefaultMaxRetries,
		BaseBackoff: DefaultBaseBackoff,
	}
}

// CalculateBackoff computes the wait before retry attempt (0-based):
// BaseBackoff * 2^attempt.
func (c *RetryConfig) CalculateBackoff(attempt int) time.Duration {
	backoff := c.BaseBackoff
	for i := 0; i < attempt; i++ {
		backoff *= 2
	}
	return backoff
}

// IsRateLimitError checks if an error is a provider rate limit error.
// Matches 429 status codes and RESOURCE_EXHAUSTED / quota errors.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "rate_limit") ||
		strings.Contains(errStr, "quota")
}

// retryDelayRegex matches "Please retry in Xs" or "retryDelay:Xs" patterns
var retryDelayRegex = regexp.MustCompile(`(?i)(?:Please retry in |retryDelay[:\s]+)(\d+(?:\.\d+)?)\s*s`)

// ExtractRetryDelay parses the API-suggested retry delay from a provider
// error. Returns 0 if no delay is found in the error message. The suggested
// delay is logged for diagnostics; the fixed exponential schedule is what is
// actually honored.
func ExtractRetryDelay(err error) time.Duration {
	if err == nil {
		return 0
	}

	matches := retryDelayRegex.FindStringSubmatch(err.Error())
	if len(matches) < 2 {
		return 0
	}

	seconds, parseErr := strconv.ParseFloat(matches[1], 64)
	if parseErr != nil {
		return 0
	}

	return time.Duration(seconds * float64(time.Second))
}

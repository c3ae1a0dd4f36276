package translation

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/newslens/internal/interfaces"
	"github.com/ternarybob/newslens/internal/services/analysis"
)

const (
	// DefaultChunkSize is the translation chunk budget in characters.
	DefaultChunkSize = 4000

	// DefaultChunkDelay paces consecutive chunk submissions.
	DefaultChunkDelay = time.Second

	// cacheKeyPrefix is how much of the source text participates in the
	// cache fingerprint.
	cacheKeyPrefix = 1000
)

// TranslationError wraps a failure of any chunk call. A failed chunk aborts
// the whole operation; no partial translation is returned.
type TranslationError struct {
	Chunk int
	Cause error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translation failed at chunk %d: %v", e.Chunk, e.Cause)
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// Pipeline translates arbitrary-length text by splitting it into fixed-size
// chunks, translating each chunk independently, and concatenating the
// results in order. The reassembled document is cached under a fingerprint
// of the source text's leading characters; individual chunks are not cached.
type Pipeline struct {
	generator      interfaces.TextGenerator
	cache          *analysis.ResponseCache
	logger         arbor.ILogger
	targetLanguage string
	chunkSize      int
	limiter        *rate.Limiter
}

// NewPipeline creates a translation pipeline. Zero or negative chunkSize and
// chunkDelay fall back to the defaults.
func NewPipeline(generator interfaces.TextGenerator, cache *analysis.ResponseCache, targetLanguage string, chunkSize int, chunkDelay time.Duration, logger arbor.ILogger) *Pipeline {
	if targetLanguage == "" {
		targetLanguage = "Hindi"
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkDelay <= 0 {
		chunkDelay = DefaultChunkDelay
	}
	return &Pipeline{
		generator:      generator,
		cache:          cache,
		logger:         logger,
		targetLanguage: targetLanguage,
		chunkSize:      chunkSize,
		limiter:        rate.NewLimiter(rate.Every(chunkDelay), 1),
	}
}

// Translate returns the translated document for text. Chunk boundaries are
// purely length-based; results are concatenated with no separator so the
// output order matches the input order exactly.
func (p *Pipeline) Translate(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", nil
	}

	cacheKey := p.cacheKey(text)
	if cached, ok := p.cache.GetString(ctx, cacheKey); ok {
		p.logger.Info().Msg("Using cached translation")
		return cached, nil
	}

	chunks := splitChunks(text, p.chunkSize)

	var translated strings.Builder
	for i, chunk := range chunks {
		if err := p.limiter.Wait(ctx); err != nil {
			return "", &TranslationError{Chunk: i, Cause: err}
		}

		prompt := fmt.Sprintf("Translate the following English text to %s. Return ONLY the %s translation, no additional comments:\n\n%s",
			p.targetLanguage, p.targetLanguage, chunk)

		result, err := p.generator.Generate(ctx, prompt)
		if err != nil {
			return "", &TranslationError{Chunk: i, Cause: err}
		}
		translated.WriteString(strings.TrimSpace(result))
	}

	document := translated.String()
	p.cache.PutString(ctx, cacheKey, document)

	p.logger.Info().
		Int("chunks", len(chunks)).
		Int("source_length", len(text)).
		Int("translated_length", len(document)).
		Msg("Translation completed")

	return document, nil
}

func (p *Pipeline) cacheKey(text string) string {
	prefix := text
	if len(prefix) > cacheKeyPrefix {
		prefix = prefix[:runeBoundary(prefix, cacheKeyPrefix)]
	}
	return p.cache.KeyFor("translate", p.targetLanguage, prefix)
}

// splitChunks cuts text into consecutive non-overlapping slices of at most
// size bytes, never splitting a rune; the final chunk may be shorter.
func splitChunks(text string, size int) []string {
	if len(text) <= size {
		return []string{text}
	}
	chunks := make([]string, 0, (len(text)+size-1)/size)
	for start := 0; start < len(text); {
		end := start + size
		if end >= len(text) {
			chunks = append(chunks, text[start:])
			break
		}
		end = runeBoundary(text, end)
		if end <= start {
			end = start + size
		}
		chunks = append(chunks, text[start:end])
		start = end
	}
	return chunks
}

// runeBoundary backs n up to the nearest rune start in s so a cut at n keeps
// the slice valid UTF-8.
func runeBoundary(s string, n int) int {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return n
}

package speech

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/newslens/internal/interfaces"
)

// TranscriptSink is a speech synthesizer stand-in that persists the text to
// be spoken as a UTF-8 transcript file next to the requested audio path. It
// keeps the pipeline end-to-end runnable where no audio encoder is
// available; a real synthesizer drops in behind the same interface.
type TranscriptSink struct {
	logger arbor.ILogger
}

// NewTranscriptSink creates a transcript file sink.
func NewTranscriptSink(logger arbor.ILogger) *TranscriptSink {
	return &TranscriptSink{logger: logger}
}

// Synthesize writes text to a .txt file derived from outputPath and returns
// the path written.
func (s *TranscriptSink) Synthesize(ctx context.Context, text string, outputPath string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("nothing to synthesize: text is empty")
	}

	transcriptPath := transcriptPathFor(outputPath)
	if dir := filepath.Dir(transcriptPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(transcriptPath, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("failed to write transcript: %w", err)
	}

	s.logger.Info().
		Str("path", transcriptPath).
		Int("length", len(text)).
		Msg("Transcript written")

	return transcriptPath, nil
}

// transcriptPathFor swaps the audio extension for .txt, appending it when
// the path has no extension.
func transcriptPathFor(outputPath string) string {
	ext := filepath.Ext(outputPath)
	if ext == "" {
		return outputPath + ".txt"
	}
	return strings.TrimSuffix(outputPath, ext) + ".txt"
}

// Ensure TranscriptSink implements SpeechSynthesizer
var _ interfaces.SpeechSynthesizer = (*TranscriptSink)(nil)

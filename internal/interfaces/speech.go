package interfaces

import "context"

// SpeechSynthesizer turns translated text into an audio artifact at the
// given output path. The pipeline only produces the text; encoding and chunk
// stitching are the synthesizer's concern.
type SpeechSynthesizer interface {
	// Synthesize writes an audio artifact for text to outputPath and returns
	// the path of the artifact produced.
	Synthesize(ctx context.Context, text string, outputPath string) (string, error)
}

package interfaces

import "context"

// TextGenerator is the single capability the analysis and translation
// pipelines require from a language model: one prompt in, one text reply out.
// Implementations may fail with a distinguishable rate-limit condition;
// callers detect it through the llm package helpers rather than sentinel
// errors so provider SDK error shapes stay contained.
type TextGenerator interface {
	// Generate produces a text completion for the given prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// TextGeneratorFunc adapts a plain function to the TextGenerator interface.
type TextGeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate implements TextGenerator.
func (f TextGeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

package llm

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
)

func TestExtractMessageTextConcatenatesTextBlocks(t *testing.T) {
	msg := &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: "Hello"},
			{Type: "text", Text: " world"},
		},
	}

	assert.Equal(t, "Hello world", extractMessageText(msg))
}

func TestExtractMessageTextSkipsNonTextBlocks(t *testing.T) {
	msg := &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "tool_use"},
			{Type: "text", Text: "answer"},
		},
	}

	assert.Equal(t, "answer", extractMessageText(msg))
}

func TestExtractMessageTextEmptyContent(t *testing.T) {
	assert.Empty(t, extractMessageText(&anthropic.Message{}))
}

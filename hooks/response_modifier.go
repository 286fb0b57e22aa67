package hooks

import (
	"context"
	"strings"

	"github.com/modelmux/pluginkit/llm"
)

// ResponseModifier prefixes every completion response with a fixed string.
// It demonstrates the PostCallSuccess phase.
type ResponseModifier struct {
	Noop
	prefix string
}

// NewResponseModifier creates a ResponseModifier with the given prefix.
// An empty prefix falls back to "[Verified] ".
func NewResponseModifier(prefix string) *ResponseModifier {
	if prefix == "" {
		prefix = "[Verified] "
	}
	return &ResponseModifier{prefix: prefix}
}

func (m *ResponseModifier) PostCallSuccess(ctx context.Context, call *CallInfo, resp *llm.Response) error {
	for i := range resp.Choices {
		if resp.Choices[i].Message.Content != "" {
			resp.Choices[i].Message.Content = m.prefix + resp.Choices[i].Message.Content
		}
	}
	return nil
}

// ContentFilter replaces blocked words in completion responses with a
// placeholder. It demonstrates output validation in PostCallSuccess.
type ContentFilter struct {
	Noop
	blocked     []string
	replacement string
}

// NewContentFilter creates a ContentFilter for the given blocked words.
func NewContentFilter(blocked []string) *ContentFilter {
	return &ContentFilter{blocked: blocked, replacement: "[FILTERED]"}
}

func (f *ContentFilter) PostCallSuccess(ctx context.Context, call *CallInfo, resp *llm.Response) error {
	for i := range resp.Choices {
		content := resp.Choices[i].Message.Content
		for _, word := range f.blocked {
			content = strings.ReplaceAll(content, word, f.replacement)
		}
		resp.Choices[i].Message.Content = content
	}
	return nil
}

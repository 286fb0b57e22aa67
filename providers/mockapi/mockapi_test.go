package mockapi_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelmux/pluginkit/llm"
	"github.com/modelmux/pluginkit/providers/mockapi"
)

func userRequest(model, text string) *llm.Request {
	return &llm.Request{
		Model:    model,
		APIKey:   "test-key",
		Messages: []llm.Message{llm.NewTextMessage(llm.RoleUser, text)},
	}
}

func TestCompletionRequiresAPIKey(t *testing.T) {
	p := mockapi.New()

	req := userRequest("gpt-mock", "hello")
	req.APIKey = ""
	_, err := p.Completion(t.Context(), req)
	require.Error(t, err)

	var llmErr *llm.Error
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, llm.ErrorTypeInvalidRequest, llmErr.Type)
}

func TestCompletionUsesDefaultKey(t *testing.T) {
	p := mockapi.NewWithKey("default-key")

	req := userRequest("gpt-mock", "hello")
	req.APIKey = ""
	resp, err := p.Completion(t.Context(), req)
	require.NoError(t, err)
	assert.Contains(t, resp.Text(), "mock response to: 'hello'")
}

func TestCompletionShape(t *testing.T) {
	p := mockapi.New()

	temp := 0.2
	req := userRequest("gpt-mock", "What is the meaning of life?")
	req.Temperature = &temp

	resp, err := p.Completion(t.Context(), req)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.ID, "mock-"))
	assert.Equal(t, "gpt-mock", resp.Model)
	assert.Contains(t, resp.Text(), "temperature=0.2")
	require.NotNil(t, resp.Usage)
	assert.Equal(t, resp.Usage.PromptTokens+resp.Usage.CompletionTokens, resp.Usage.TotalTokens)
}

func TestCompletionHonorsMaxTokens(t *testing.T) {
	p := mockapi.New()

	req := userRequest("gpt-mock", "a fairly long prompt with several words")
	req.MaxTokens = 3

	resp, err := p.Completion(t.Context(), req)
	require.NoError(t, err)

	words := strings.Fields(resp.Text())
	assert.Len(t, words, 3)
	assert.True(t, strings.HasSuffix(resp.Text(), "..."))
}

func TestStreaming(t *testing.T) {
	p := mockapi.New()

	stream, err := p.Streaming(t.Context(), userRequest("gpt-mock", "hi"))
	require.NoError(t, err)
	defer stream.Close()

	var text string
	var usage *llm.Usage
	for stream.Next() {
		chunk := stream.Chunk()
		text += chunk.Text
		if chunk.Done {
			usage = chunk.Usage
		}
	}
	require.NoError(t, stream.Err())
	assert.Contains(t, text, "mock response to: 'hi'")
	require.NotNil(t, usage, "final chunk must carry usage")
}

func TestEmbeddingDeterministic(t *testing.T) {
	p := mockapi.New()

	req := &llm.EmbeddingRequest{
		Model:  "embed-mock",
		Input:  []string{"alpha", "beta"},
		APIKey: "test-key",
	}

	first, err := p.Embedding(t.Context(), req)
	require.NoError(t, err)
	second, err := p.Embedding(t.Context(), req)
	require.NoError(t, err)

	require.Len(t, first.Data, 2)
	assert.Equal(t, first.Data, second.Data, "identical input must embed identically")
	assert.NotEqual(t, first.Data[0].Vector, first.Data[1].Vector)
}

func TestEmbeddingEmptyInput(t *testing.T) {
	p := mockapi.New()

	_, err := p.Embedding(t.Context(), &llm.EmbeddingRequest{Model: "m", APIKey: "k"})
	require.Error(t, err)
}

func TestImageGenerationNotSupported(t *testing.T) {
	p := mockapi.New()

	_, err := p.ImageGeneration(t.Context(), &llm.ImageRequest{Prompt: "a cat"})
	assert.True(t, llm.IsNotSupported(err))
}

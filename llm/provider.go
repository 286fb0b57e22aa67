package llm

import "context"

// Provider is the capability contract a plugin must satisfy to be registered.
// Implementations are expected to support a subset of the operations; the
// remainder must return a not-supported error rather than silently no-op.
// Embedding UnimplementedProvider gives that behavior for free.
type Provider interface {
	// Completion sends a request and returns a complete response.
	Completion(ctx context.Context, req *Request) (*Response, error)

	// Streaming sends a request and returns a stream of chunks.
	// The caller should read from the returned Stream until it's done or an
	// error occurs, then Close it.
	Streaming(ctx context.Context, req *Request) (Stream, error)

	// Embedding generates embedding vectors for the given inputs.
	Embedding(ctx context.Context, req *EmbeddingRequest) (*EmbeddingResponse, error)

	// ImageGeneration generates images from a text prompt.
	ImageGeneration(ctx context.Context, req *ImageRequest) (*ImageResponse, error)
}

// UnimplementedProvider is an embeddable base whose every capability method
// reports not-supported. Concrete providers embed it and override the
// operations their backend implements.
type UnimplementedProvider struct{}

// Completion reports that completion is not supported.
func (UnimplementedProvider) Completion(ctx context.Context, req *Request) (*Response, error) {
	return nil, NewNotSupportedError("completion")
}

// Streaming reports that streaming is not supported.
func (UnimplementedProvider) Streaming(ctx context.Context, req *Request) (Stream, error) {
	return nil, NewNotSupportedError("streaming")
}

// Embedding reports that embedding is not supported.
func (UnimplementedProvider) Embedding(ctx context.Context, req *EmbeddingRequest) (*EmbeddingResponse, error) {
	return nil, NewNotSupportedError("embedding")
}

// ImageGeneration reports that image generation is not supported.
func (UnimplementedProvider) ImageGeneration(ctx context.Context, req *ImageRequest) (*ImageResponse, error) {
	return nil, NewNotSupportedError("image generation")
}

// Ensure UnimplementedProvider satisfies the full contract.
var _ Provider = UnimplementedProvider{}

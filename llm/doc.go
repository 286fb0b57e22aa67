// Package llm defines the provider capability contract and the provider-neutral
// request/response types shared by every plugin in this repository.
//
// The host routing library dispatches model identifiers of the form
// "<provider>/<model-id>" to handler instances. A handler is anything that
// satisfies the Provider interface. Providers rarely support the full operation
// surface, so the interface is paired with UnimplementedProvider: embed it,
// override the operations you support, and the rest report a typed
// "not supported" error instead of silently succeeding.
//
// # Core Concepts
//
//  1. Messages: the Message type carries a conversation turn with a role
//     (user, assistant, system) and text content.
//
//  2. Provider Interface: Completion() and Streaming() cover chat-style calls,
//     Embedding() and ImageGeneration() the remaining capability surface.
//     Every method takes a context.Context; there are no separate async
//     variants.
//
//  3. Streams: the Stream interface is a pull-based iterator over StreamChunk
//     values. SliceStream adapts a pre-built chunk slice for providers that
//     produce output synchronously.
//
//  4. Errors: the Error type provides provider-neutral error handling with
//     support for rate limits, retryable errors, unsupported operations, and
//     provider-specific details.
//
// # Extension Points
//
// To add a new provider:
//  1. Embed UnimplementedProvider in your type
//  2. Override the capability methods your backend supports
//  3. Translate backend errors into llm.Error values
//  4. Register a factory for your type with the registry package
package llm

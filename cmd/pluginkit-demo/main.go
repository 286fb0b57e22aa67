// Command pluginkit-demo registers the bundled providers, wires them into the
// dispatch table, and runs a few routed calls through the hook chain.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/modelmux/pluginkit/config"
	"github.com/modelmux/pluginkit/dispatch"
	"github.com/modelmux/pluginkit/hooks"
	"github.com/modelmux/pluginkit/llm"
	"github.com/modelmux/pluginkit/logger"
	"github.com/modelmux/pluginkit/registry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pluginkit-demo: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.GetConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.InitWithOptions(cfg.Logging.Level, cfg.Logging.File, cfg.Logging.Pretty)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	reg := registry.New(
		registry.WithHost(dispatch.Default()),
		registry.WithLogger(log),
	)
	if err := config.RegisterProviders(cfg, reg); err != nil {
		return fmt.Errorf("failed to register providers: %w", err)
	}
	if err := reg.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize providers: %w", err)
	}
	log.Info().Strs("providers", reg.Names()).Msg("Providers wired into dispatch table")

	requestLog := hooks.NewRequestLogger(log)
	router := dispatch.NewRouter(dispatch.Default(),
		dispatch.WithLogger(log),
		dispatch.WithHooks(
			requestLog,
			hooks.NewResponseModifier("[Verified] "),
		),
		dispatch.WithRetry(2),
	)

	ctx := context.Background()

	resp, err := router.Completion(ctx, &llm.Request{
		Model: "echo/demo-model",
		Messages: []llm.Message{
			llm.NewTextMessage(llm.RoleUser, "Hello from the demo!"),
		},
	})
	if err != nil {
		return fmt.Errorf("echo completion failed: %w", err)
	}
	fmt.Printf("echo: %s\n", resp.Text())

	resp, err = router.Completion(ctx, &llm.Request{
		Model:  "mock_api/gpt-mock",
		APIKey: "demo-key",
		Messages: []llm.Message{
			llm.NewTextMessage(llm.RoleUser, "What does the mock API say?"),
		},
	})
	if err != nil {
		return fmt.Errorf("mock completion failed: %w", err)
	}
	fmt.Printf("mock_api: %s\n", resp.Text())
	if resp.Usage != nil {
		fmt.Printf("mock_api usage: %d prompt + %d completion tokens\n",
			resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}

	stream, err := router.Streaming(ctx, &llm.Request{
		Model: "echo/demo-model",
		Messages: []llm.Message{
			llm.NewTextMessage(llm.RoleUser, "Stream this back to me"),
		},
	})
	if err != nil {
		return fmt.Errorf("echo streaming failed: %w", err)
	}
	fmt.Print("echo stream: ")
	for stream.Next() {
		fmt.Print(stream.Chunk().Text)
	}
	fmt.Println()
	if err := stream.Err(); err != nil {
		return fmt.Errorf("echo stream error: %w", err)
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to close stream: %w", err)
	}

	log.Info().Uint64("requests", requestLog.RequestCount()).Msg("Demo complete")
	return nil
}

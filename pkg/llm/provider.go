// Package llm provides abstractions for LLM provider integration.
//
// Example usage:
//
//	provider, err := openai.NewProvider(
//	    os.Getenv("OPENAI_API_KEY"),
//	    openai.WithModel("gpt-3.5-turbo"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reply, err := provider.Complete(ctx, []*types.Message{
//	    types.NewUserMessage("What does 'run' mean?"),
//	})
package llm

import (
	"context"

	"github.com/entrhq/parrot/pkg/types"
)

// Provider defines the interface for LLM integrations.
//
// A provider performs exactly one request per call. It never retries; a
// failed call is reported to the caller as-is.
type Provider interface {
	// Complete sends messages to the LLM and returns the assistant's reply.
	Complete(ctx context.Context, messages []*types.Message) (*types.Message, error)

	// GetModel returns the model name being used.
	GetModel() string

	// GetBaseURL returns the base URL being used for API requests.
	GetBaseURL() string
}

// Package explain asks a language model for a dictionary-style explanation
// of a word.
package explain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/parrot/pkg/llm"
	"github.com/entrhq/parrot/pkg/logging"
	"github.com/entrhq/parrot/pkg/types"
)

// DefaultPrompt asks, in Korean, for the meaning of an English word and three
// similar English words. %s is replaced by the word.
const DefaultPrompt = "영어 단어 '%s'의 뜻이 뭐야? 그리고 비슷한 영단어도 3개 알려줘"

// ErrEmptyAnswer is returned when the model replied without any text.
var ErrEmptyAnswer = errors.New("the model returned an empty answer")

// Requester turns a word into an explanation with a single LLM call.
type Requester struct {
	provider llm.Provider
	prompt   string
	timeout  time.Duration
	logger   *logging.Logger
}

// Option configures a Requester.
type Option func(*Requester)

// WithPrompt overrides the prompt template. It must contain one %s verb.
func WithPrompt(prompt string) Option {
	return func(r *Requester) {
		r.prompt = prompt
	}
}

// WithTimeout bounds every request. Zero means no bound.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Requester) {
		r.timeout = timeout
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(r *Requester) {
		r.logger = logger
	}
}

// NewRequester creates a Requester over provider.
func NewRequester(provider llm.Provider, opts ...Option) *Requester {
	r := &Requester{
		provider: provider,
		prompt:   DefaultPrompt,
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Prompt renders the prompt sent for word.
func (r *Requester) Prompt(word string) string {
	return fmt.Sprintf(r.prompt, word)
}

// Explain requests the explanation of word. There is no retry.
func (r *Requester) Explain(ctx context.Context, word string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := r.provider.Complete(ctx, []*types.Message{types.NewUserMessage(r.Prompt(word))})
	if err != nil {
		r.logger.Errorf("explanation for %q failed after %s: %v", word, time.Since(start), err)
		return "", err
	}

	if reply.Usage != nil {
		r.logger.Debugf("explanation for %q used %d tokens", word, reply.Usage.TotalTokens)
	}

	answer := strings.TrimSpace(reply.Content)
	if answer == "" {
		return "", ErrEmptyAnswer
	}

	r.logger.Infof("explanation for %q received in %s", word, time.Since(start))
	return answer, nil
}

package explain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/parrot/pkg/types"
)

// mockProvider is a mock implementation of llm.Provider
type mockProvider struct {
	reply    *types.Message
	err      error
	received []*types.Message
	deadline bool
	block    bool
}

func (m *mockProvider) Complete(ctx context.Context, messages []*types.Message) (*types.Message, error) {
	m.received = messages
	_, m.deadline = ctx.Deadline()
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.reply, m.err
}

func (m *mockProvider) GetModel() string   { return "mock" }
func (m *mockProvider) GetBaseURL() string { return "http://mock" }

func TestPrompt_EmbedsWord(t *testing.T) {
	r := NewRequester(&mockProvider{})
	assert.Equal(t, "영어 단어 'run'의 뜻이 뭐야? 그리고 비슷한 영단어도 3개 알려줘", r.Prompt("run"))

	custom := NewRequester(&mockProvider{}, WithPrompt("Define %s."))
	assert.Equal(t, "Define run.", custom.Prompt("run"))
}

func TestExplain_Success(t *testing.T) {
	provider := &mockProvider{reply: &types.Message{Role: types.RoleAssistant, Content: "  달리다  \n"}}
	r := NewRequester(provider)

	answer, err := r.Explain(context.Background(), "run")

	require.NoError(t, err)
	assert.Equal(t, "달리다", answer)
	require.Len(t, provider.received, 1)
	assert.Equal(t, types.RoleUser, provider.received[0].Role)
	assert.Contains(t, provider.received[0].Content, "'run'")
	assert.False(t, provider.deadline)
}

func TestExplain_ProviderError(t *testing.T) {
	r := NewRequester(&mockProvider{err: errors.New("failed to send request: connection refused")})

	_, err := r.Explain(context.Background(), "run")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestExplain_EmptyAnswer(t *testing.T) {
	r := NewRequester(&mockProvider{reply: &types.Message{Content: "   "}})

	_, err := r.Explain(context.Background(), "run")

	assert.ErrorIs(t, err, ErrEmptyAnswer)
}

func TestExplain_Timeout(t *testing.T) {
	provider := &mockProvider{block: true}
	r := NewRequester(provider, WithTimeout(20*time.Millisecond))

	_, err := r.Explain(context.Background(), "run")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, provider.deadline)
}

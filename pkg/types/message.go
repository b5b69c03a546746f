package types

// MessageRole is the author of a chat message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // RoleSystem carries instructions for the model.
	RoleUser      MessageRole = "user"      // RoleUser is text typed by the user.
	RoleAssistant MessageRole = "assistant" // RoleAssistant is a model response.
)

// Message is a single chat message exchanged with an LLM.
type Message struct {
	Role    MessageRole
	Content string

	// Usage is set on responses when the provider reports token counts.
	Usage *TokenUsage
}

// TokenUsage contains token usage statistics from an LLM API call.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) *Message {
	return &Message{Role: RoleUser, Content: content}
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) *Message {
	return &Message{Role: RoleSystem, Content: content}
}

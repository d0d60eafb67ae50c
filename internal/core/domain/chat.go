package domain

// Message roles understood by every LLM provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single turn in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`
}

// ChatRequest is one "chat with documents" invocation.
// Conversation history is caller-supplied context, not server state.
type ChatRequest struct {
	// Message is the new user message.
	Message string

	// ConversationHistory holds prior turns in original order.
	// Only the last ten turns are forwarded to the provider.
	ConversationHistory []ChatMessage

	// Provider selects a generation backend. Empty means gateway default.
	Provider string

	// MaxResults caps the retrieved context chunks. Zero means the
	// configured default.
	MaxResults int

	// MaxTokens caps generation length. Zero means the default (1000).
	MaxTokens int

	// Temperature controls randomness. Zero means the default (0.7).
	Temperature float64

	// CollectionID scopes retrieval to one collection, when set.
	CollectionID string

	// DocumentIDs scopes retrieval to specific documents, when set.
	DocumentIDs []string
}

// ChatResponse packages a generation result with its citations.
// Success is false when generation failed; Message then carries a
// user-facing apology rather than the error itself.
type ChatResponse struct {
	// Message is the generated (or fallback) text.
	Message string `json:"message"`

	// Sources are the context chunks actually used, for citation.
	Sources []SearchResult `json:"sources"`

	// Provider is the backend that produced the response.
	Provider string `json:"provider"`

	// TokensUsed is a whitespace-split word count of the response.
	// An estimate, not a tokenizer-exact figure.
	TokensUsed int `json:"tokens_used"`

	// Success reports whether generation completed.
	Success bool `json:"success"`

	// Error holds the failure cause when Success is false.
	Error string `json:"error,omitempty"`

	// Metadata carries request diagnostics (chunk counts, context size).
	Metadata map[string]any `json:"metadata,omitempty"`
}

// GenerationResult is the LLM gateway's raw outcome before RAG packaging.
type GenerationResult struct {
	// Response is the generated text, or an error description on failure.
	Response string

	// Provider is the backend that handled the call.
	Provider Provider

	// Tokens is the whitespace-estimated token count of the response.
	Tokens int

	// Success reports whether the provider call completed.
	Success bool

	// Error holds the failure cause when Success is false.
	Error string
}

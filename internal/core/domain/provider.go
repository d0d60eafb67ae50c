package domain

const unknownDescription = "Unknown"

// Provider identifies a concrete LLM generation backend.
type Provider string

// Available providers, in default routing priority order.
const (
	// ProviderGemini is the Google Gemini cloud API.
	ProviderGemini Provider = "gemini"

	// ProviderOllama is a locally hosted Ollama server.
	ProviderOllama Provider = "ollama"
)

// ProviderPriority is the default routing order: cloud first, local second.
var ProviderPriority = []Provider{ProviderGemini, ProviderOllama}

// IsValid returns true if the provider is recognised.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderGemini, ProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs a provisioned credential.
func (p Provider) RequiresAPIKey() bool {
	return p == ProviderGemini
}

// IsLocal returns true if this provider is optional local infrastructure.
func (p Provider) IsLocal() bool {
	return p == ProviderOllama
}

// String returns the string representation.
func (p Provider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p Provider) Description() string {
	switch p {
	case ProviderGemini:
		return "Gemini (cloud)"
	case ProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

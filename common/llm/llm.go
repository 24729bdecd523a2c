package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// Provider constants for LLM provider selection.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderBedrock   = "bedrock"
)

// Config holds LLM client configuration.
type Config struct {
	Provider  string // "openai", "anthropic" or "bedrock"
	APIKey    string // Required for openai and anthropic
	BaseURL   string // Optional: custom API endpoint
	Model     string
	Region    string // Bedrock only
	MaxTokens int
}

// TextClient produces free-form chat replies. It is the black-box text
// generator behind the response pipeline.
type TextClient interface {
	Generate(ctx context.Context, req TextRequest) (*TextResponse, error)
	Model() string
}

type TextRequest struct {
	SystemPrompt string
	Messages     []Message
	MaxTokens    int
	Temperature  *float64
}

// Message is one turn of the conversation history. Role is "user" or "assistant".
type Message struct {
	Role    string
	Content string
}

type TextResponse struct {
	Content          string
	FinishReason     string // "stop", "length"
	PromptTokens     int
	CompletionTokens int
}

// NewTextClient selects the provider implementation for cfg.Provider.
// Defaults to OpenAI when no provider is specified.
func NewTextClient(ctx context.Context, cfg Config) (TextClient, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = ProviderOpenAI
	}

	switch provider {
	case ProviderOpenAI:
		return newOpenAITextClient(cfg)
	case ProviderAnthropic:
		return newAnthropicTextClient(cfg)
	case ProviderBedrock:
		return newBedrockTextClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}

// GenerateSchemaFrom generates a JSON schema from an instance value.
func GenerateSchemaFrom(v any) any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return reflector.Reflect(v)
}

// joinText concatenates text blocks the way all providers return them.
func joinText(parts []string) string {
	return strings.TrimSpace(strings.Join(parts, ""))
}

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/openai/openai-go"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockBedrockInvoker struct {
	invokeFn  func(ctx context.Context, params *bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error)
	callCount int
	lastBody  []byte
}

func (m *mockBedrockInvoker) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	m.callCount++
	m.lastBody = params.Body
	if m.invokeFn != nil {
		return m.invokeFn(ctx, params)
	}
	return nil, errors.New("mock not configured")
}

var _ = Describe("bedrockTextClient", func() {
	var (
		ctx     context.Context
		invoker *mockBedrockInvoker
		client  *bedrockTextClient
	)

	BeforeEach(func() {
		ctx = context.Background()
		invoker = &mockBedrockInvoker{}
		client = &bedrockTextClient{client: invoker, model: "anthropic.test", maxTokens: 200}
	})

	It("sends an anthropic messages body and joins text blocks", func() {
		invoker.invokeFn = func(_ context.Context, params *bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error) {
			Expect(*params.ModelId).To(Equal("anthropic.test"))
			return &bedrockruntime.InvokeModelOutput{Body: []byte(`{
				"content": [{"type":"text","text":"hey "},{"type":"text","text":"babe"}],
				"stop_reason": "end_turn",
				"usage": {"input_tokens": 12, "output_tokens": 3}
			}`)}, nil
		}

		resp, err := client.Generate(ctx, TextRequest{
			SystemPrompt: "be nice",
			Messages: []Message{
				{Role: "user", Content: "hi"},
				{Role: "assistant", Content: "hello"},
				{Role: "user", Content: "how are you"},
			},
			Temperature: Temp(0.8),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Content).To(Equal("hey babe"))
		Expect(resp.FinishReason).To(Equal("stop"))
		Expect(resp.PromptTokens).To(Equal(12))
		Expect(resp.CompletionTokens).To(Equal(3))

		var sent bedrockRequest
		Expect(json.Unmarshal(invoker.lastBody, &sent)).To(Succeed())
		Expect(sent.AnthropicVersion).To(Equal(bedrockAnthropicVersion))
		Expect(sent.MaxTokens).To(Equal(200))
		Expect(sent.System).To(Equal("be nice"))
		Expect(sent.Messages).To(HaveLen(3))
		Expect(sent.Messages[1].Role).To(Equal("assistant"))
		Expect(*sent.Temperature).To(BeNumerically("~", 0.8))
	})

	It("prefers the request max tokens", func() {
		invoker.invokeFn = func(context.Context, *bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error) {
			return &bedrockruntime.InvokeModelOutput{Body: []byte(`{"content":[],"stop_reason":"max_tokens"}`)}, nil
		}

		resp, err := client.Generate(ctx, TextRequest{MaxTokens: 50})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Content).To(BeEmpty())
		Expect(resp.FinishReason).To(Equal("length"))

		var sent bedrockRequest
		Expect(json.Unmarshal(invoker.lastBody, &sent)).To(Succeed())
		Expect(sent.MaxTokens).To(Equal(50))
	})

	It("wraps invoke errors", func() {
		invoker.invokeFn = func(context.Context, *bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error) {
			return nil, errors.New("throttled")
		}

		_, err := client.Generate(ctx, TextRequest{})
		Expect(err).To(MatchError(ContainSubstring("bedrock generate")))
	})

	It("fails on a malformed body", func() {
		invoker.invokeFn = func(context.Context, *bedrockruntime.InvokeModelInput) (*bedrockruntime.InvokeModelOutput, error) {
			return &bedrockruntime.InvokeModelOutput{Body: []byte(`not json`)}, nil
		}

		_, err := client.Generate(ctx, TextRequest{})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("NewTextClient", func() {
	It("requires an API key for openai", func() {
		_, err := NewTextClient(context.Background(), Config{Provider: ProviderOpenAI})
		Expect(err).To(MatchError(ContainSubstring("API key")))
	})

	It("requires an API key for anthropic", func() {
		_, err := NewTextClient(context.Background(), Config{Provider: ProviderAnthropic})
		Expect(err).To(HaveOccurred())
	})

	It("rejects unknown providers", func() {
		_, err := NewTextClient(context.Background(), Config{Provider: "mistral", APIKey: "k"})
		Expect(err).To(MatchError(ContainSubstring("unsupported LLM provider")))
	})

	It("defaults to openai", func() {
		c, err := NewTextClient(context.Background(), Config{APIKey: "k"})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Model()).To(Equal("gpt-4o-mini"))
	})
})

var _ = Describe("IsRetryable", func() {
	ctx := context.Background()

	It("is false for nil and cancellation", func() {
		Expect(IsRetryable(ctx, nil)).To(BeFalse())
		Expect(IsRetryable(ctx, context.Canceled)).To(BeFalse())
		Expect(IsRetryable(ctx, fmt.Errorf("wrapped: %w", context.DeadlineExceeded))).To(BeFalse())
	})

	DescribeTable("openai status codes",
		func(status int, want bool) {
			Expect(IsRetryable(ctx, &openai.Error{StatusCode: status})).To(Equal(want))
		},
		Entry("rate limited", 429, true),
		Entry("server error", 503, true),
		Entry("bad request", 400, false),
		Entry("unauthorized", 401, false),
	)

	It("treats network errors as retryable", func() {
		Expect(IsRetryable(ctx, errors.New("connection reset"))).To(BeTrue())
	})
})

var _ = Describe("mapStopReason", func() {
	DescribeTable("normalizes",
		func(in, out string) {
			Expect(mapStopReason(in)).To(Equal(out))
		},
		Entry(nil, "end_turn", "stop"),
		Entry(nil, "stop_sequence", "stop"),
		Entry(nil, "max_tokens", "length"),
		Entry(nil, "refusal", "refusal"),
	)
})

var _ = Describe("GenerateSchema", func() {
	type fact struct {
		Content    string  `json:"content"`
		Confidence float64 `json:"confidence"`
	}

	It("produces a closed object schema", func() {
		raw, err := json.Marshal(GenerateSchema[fact]())
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(ContainSubstring(`"additionalProperties":false`))
		Expect(string(raw)).To(ContainSubstring(`"confidence"`))
	})
})

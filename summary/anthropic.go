package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/rollctx/rollctx/transcript"
)

// Default remote provider settings.
const (
	DefaultModel     = "claude-3-5-haiku-20241022"
	DefaultMaxTokens = 2500
	DefaultTimeout   = 120 * time.Second
)

// RemoteOptions configures the AnthropicProvider.
type RemoteOptions struct {
	// Model is the model identifier used for summarization.
	// Default: DefaultModel.
	Model string

	// MaxTokens bounds the summarization response length.
	// Default: DefaultMaxTokens.
	MaxTokens int

	// Timeout bounds the whole remote call. The provider never blocks
	// past it. Default: DefaultTimeout.
	Timeout time.Duration

	// PromptTemplate, when set, replaces the default user prompt. It is a
	// text/template evaluated against PromptData.
	PromptTemplate string
}

// AnthropicProvider summarizes records via the Anthropic streaming API.
type AnthropicProvider struct {
	client         *anthropic.Client
	model          string
	maxTokens      int
	timeout        time.Duration
	promptTemplate string
}

// NewAnthropicProvider creates a remote provider. Zero-valued options are
// filled with defaults.
func NewAnthropicProvider(client *anthropic.Client, opts RemoteOptions) *AnthropicProvider {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	return &AnthropicProvider{
		client:         client,
		model:          opts.Model,
		maxTokens:      opts.MaxTokens,
		timeout:        opts.Timeout,
		promptTemplate: opts.PromptTemplate,
	}
}

// Summarize sends the role-labelled text of the records to the API and
// returns the response verbatim.
func (p *AnthropicProvider) Summarize(ctx context.Context, records []*transcript.Record, sctx Context) (string, error) {
	conversation := FormatRecordsAsText(records)
	if conversation == "" {
		return "", fmt.Errorf("%w: no text content to summarize", ErrSummarizationFailed)
	}

	data := PromptData{
		ProjectName:  sctx.ProjectName,
		RecordCount:  sctx.RecordCount,
		Conversation: conversation,
	}

	var userPrompt string
	if p.promptTemplate != "" {
		rendered, err := RenderTemplate(p.promptTemplate, data)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrSummarizationFailed, err)
		}
		userPrompt = rendered
	} else {
		userPrompt = BuildUserPrompt(data)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	stream := p.client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(p.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})

	message := anthropic.Message{}
	for stream.Next() {
		event := stream.Current()
		if err := message.Accumulate(event); err != nil {
			return "", fmt.Errorf("%w: failed to accumulate stream: %v", ErrSummarizationFailed, err)
		}
	}
	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSummarizationFailed, err)
	}

	var out strings.Builder
	for _, block := range message.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			out.WriteString(text.Text)
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("%w: empty response from summarizer", ErrSummarizationFailed)
	}

	return out.String(), nil
}

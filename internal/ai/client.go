package ai

import (
	"context"
	"github.com/gizahealth/inspector/internal/catalog"
	"github.com/gizahealth/inspector/internal/errors"
	"github.com/gizahealth/inspector/internal/models"
	"github.com/sashabaranov/go-openai"
	"log/slog"
	"time"
)

var (
	ErrNoCompletion  = errors.NewSentinel("completion has no content")
	ErrNotConfigured = errors.NewSentinel("summarization is not configured")
)

// Summarizer generates a narrative summary of an inspection report.
type Summarizer interface {
	Analyze(ctx context.Context, report models.InspectionReport, facility models.Facility,
		lang models.Language) (string, error)
}

// Config configures the chat completion client.
type Config struct {
	APIKey    string        `env:"OPENAI_API_KEY" envDefault:""`
	Model     string        `env:"INSPECTOR_AI_MODEL" envDefault:"gpt-4o-mini"`
	BaseURL   string        `env:"INSPECTOR_AI_BASE_URL" envDefault:""`
	Timeout   time.Duration `env:"INSPECTOR_AI_TIMEOUT" envDefault:"30s"`
	MaxTokens int           `env:"INSPECTOR_AI_MAX_TOKENS" envDefault:"1024"`
}

type Client struct {
	client  *openai.Client
	catalog *catalog.Catalog
	cfg     Config
}

// NewClient creates a Client talking to the OpenAI API, or to cfg.BaseURL when set.
func NewClient(cfg Config, cat *catalog.Catalog) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &Client{
		client:  openai.NewClientWithConfig(clientConfig),
		catalog: cat,
		cfg:     cfg,
	}
}

// Analyze asks the model for an executive summary of the report's findings in lang.
func (c *Client) Analyze(
	ctx context.Context,
	report models.InspectionReport,
	facility models.Facility,
	lang models.Language,
) (string, error) {
	if c.cfg.APIKey == "" && c.cfg.BaseURL == "" {
		return "", ErrNotConfigured
	}
	messages := []openai.ChatCompletionMessage{
		{ //nolint:exhaustruct // this is better for readability
			Role:    openai.ChatMessageRoleUser,
			Content: Prompt(c.catalog, report, facility, lang),
		},
	}
	completion, err := c.SyncCompletion(ctx, messages)
	if err != nil {
		return "", errors.Wrap(err, "analyze report", slog.String("report_id", report.ID))
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", errors.Wrap(ErrNoCompletion, "analyze report", slog.String("report_id", report.ID))
	}
	return completion.Choices[0].Message.Content, nil
}

func (c *Client) SyncCompletion(
	ctx context.Context,
	messages []openai.ChatCompletionMessage,
) (openai.ChatCompletionResponse, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}
	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     c.cfg.Model,
			MaxTokens: c.cfg.MaxTokens,
			Messages:  messages,
		},
	)
	if err != nil {
		return openai.ChatCompletionResponse{}, errors.Wrap(err, "create chat completion",
			slog.String("model", c.cfg.Model))
	}
	return completion, nil
}

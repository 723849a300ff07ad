package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"
)

// StructuredRequest describes one schema-constrained generation: a system
// instruction, a user prompt, and the JSON schema the output must satisfy.
// WebSearch grants the model live web-search tool access for the call.
type StructuredRequest struct {
	SchemaName      string
	Schema          map[string]any
	System          string
	User            string
	WebSearch       bool
	MaxOutputTokens int64
}

// Generator is the structured-generation capability the pipeline depends
// on: given prompt plus schema, produce a parsed object or an error.
type Generator interface {
	GenerateStructured(ctx context.Context, req StructuredRequest, dest any) error
}

// OpenAIClient implements Generator on the OpenAI Responses API.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

func NewOpenAIClient(apiKey, model string, timeout time.Duration, logger *zap.Logger) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if model == "" {
		model = "gpt-5-mini"
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{
		client:  &client,
		model:   model,
		timeout: timeout,
		logger:  logger,
	}, nil
}

func (c *OpenAIClient) GenerateStructured(ctx context.Context, req StructuredRequest, dest any) error {
	if req.SchemaName == "" || req.Schema == nil {
		return fmt.Errorf("structured request requires a named schema")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(c.model),
		Input: responses.ResponseNewParamsInputUnion{OfString: openai.String(req.User)},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:   req.SchemaName,
					Schema: req.Schema,
					Strict: openai.Bool(true),
				},
			},
		},
	}

	if req.System != "" {
		params.Instructions = openai.String(req.System)
	}
	if req.MaxOutputTokens > 0 {
		params.MaxOutputTokens = openai.Int(req.MaxOutputTokens)
	}
	if req.WebSearch {
		params.Tools = []responses.ToolUnionParam{
			{OfWebSearch: &responses.WebSearchToolParam{Type: responses.WebSearchToolTypeWebSearch}},
		}
	}

	c.logger.Debug("Generating structured output",
		zap.String("model", c.model),
		zap.String("schema", req.SchemaName),
		zap.Bool("web_search", req.WebSearch),
	)

	start := time.Now()
	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		c.logger.Error("OpenAI generation failed",
			zap.String("schema", req.SchemaName),
			zap.Error(err),
		)
		return err
	}

	text := strings.TrimSpace(resp.OutputText())
	if text == "" {
		return fmt.Errorf("empty response for schema %s", req.SchemaName)
	}

	cleaned := stripCodeFence(text)
	if err := json.Unmarshal([]byte(cleaned), dest); err != nil {
		preview := cleaned
		if len(preview) > 200 {
			preview = preview[:200]
		}
		c.logger.Error("Failed to unmarshal structured response",
			zap.String("schema", req.SchemaName),
			zap.String("response_preview", preview),
			zap.Error(err),
		)
		return fmt.Errorf("invalid JSON for schema %s: %w", req.SchemaName, err)
	}

	c.logger.Debug("Structured response received",
		zap.String("schema", req.SchemaName),
		zap.Int("length", len(text)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// stripCodeFence removes a markdown fence some models still wrap JSON-mode
// output in.
func stripCodeFence(text string) string {
	cleaned := text
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "```json"))
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "```"))
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, "```"))
	}
	return cleaned
}

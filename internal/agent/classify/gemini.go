package classify

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/datasure/profiling-agent/internal/agent/model"
	logx "github.com/datasure/profiling-agent/pkg/logger"
)

// GeminiConfig holds everything needed to build the LLM-backed classifier.
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   model.ClassifierModelConfig
}

// GeminiClassifier asks a Gemini chat model to label user text with one of
// the supported intents.
type GeminiClassifier struct {
	cm        einomodel.BaseChatModel
	modelName string
}

// NewGeminiClassifier creates the Gemini client and chat model.
func NewGeminiClassifier(ctx context.Context, cfg GeminiConfig) (*GeminiClassifier, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	cm, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Model.Model,
		Temperature: &cfg.Model.Temperature,
		MaxTokens:   &cfg.Model.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating classifier model")
		return nil, fmt.Errorf("error creating classifier model: %w", err)
	}

	return &GeminiClassifier{cm: cm, modelName: cfg.Model.Model}, nil
}

// NewWithChatModel wires an existing chat model; used by tests to substitute
// a fake.
func NewWithChatModel(cm einomodel.BaseChatModel, modelName string) *GeminiClassifier {
	return &GeminiClassifier{cm: cm, modelName: modelName}
}

func (g *GeminiClassifier) Classify(ctx context.Context, combinedText string) (Result, error) {
	messages := []*schema.Message{
		schema.SystemMessage(RenderSystemPrompt()),
		schema.UserMessage(combinedText),
	}

	out, err := g.cm.Generate(ctx, messages)
	if err != nil {
		return Result{}, fmt.Errorf("classifier generate: %w", err)
	}
	if out == nil {
		return Result{}, nil
	}

	g.logUsage(out)

	result := ParseOutput(out.Content)
	logx.Debug().
		Str("intent", result.Intent).
		Str("model", g.modelName).
		Msg("Intent classified")
	return result, nil
}

// logUsage computes and logs token cost for the classifier call when the
// provider reports usage.
func (g *GeminiClassifier) logUsage(out *schema.Message) {
	if out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	usage := out.ResponseMeta.Usage
	inC, outC, totalC := ComputeCost(usage, ResolvePricing(g.modelName))
	logx.Debug().
		Str("model", g.modelName).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Int("total_tokens", usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")
}

var _ Classifier = (*GeminiClassifier)(nil)

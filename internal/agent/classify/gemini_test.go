package classify

import (
	"context"
	"errors"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	reply    string
	usage    *schema.TokenUsage
	err      error
	received []*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	f.received = input
	if f.err != nil {
		return nil, f.err
	}
	out := schema.AssistantMessage(f.reply, nil)
	if f.usage != nil {
		out.ResponseMeta = &schema.ResponseMeta{Usage: f.usage}
	}
	return out, nil
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func TestClassify_ParsesModelReply(t *testing.T) {
	fake := &fakeChatModel{
		reply: `{"intent":"nulls","explanation":"missing value stats"}`,
		usage: &schema.TokenUsage{PromptTokens: 120, CompletionTokens: 20, TotalTokens: 140},
	}
	c := NewWithChatModel(fake, "gemini-2.5-flash-lite")

	result, err := c.Classify(context.Background(), "show nulls for employees")
	require.NoError(t, err)
	assert.Equal(t, "nulls", result.Intent)
	assert.Equal(t, "missing value stats", result.Explanation)

	// System prompt first, then the combined user text.
	require.Len(t, fake.received, 2)
	assert.Equal(t, schema.System, fake.received[0].Role)
	assert.Contains(t, fake.received[0].Content, "nulls")
	assert.Equal(t, schema.User, fake.received[1].Role)
	assert.Equal(t, "show nulls for employees", fake.received[1].Content)
}

func TestClassify_GenerateFailureIsTransportError(t *testing.T) {
	fake := &fakeChatModel{err: errors.New("quota exceeded")}
	c := NewWithChatModel(fake, "gemini-2.5-flash-lite")

	_, err := c.Classify(context.Background(), "show nulls")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestClassify_UndecidedReplyYieldsEmptyIntent(t *testing.T) {
	fake := &fakeChatModel{reply: `{"intent":null,"explanation":"ambiguous request"}`}
	c := NewWithChatModel(fake, "gemini-2.5-flash-lite")

	result, err := c.Classify(context.Background(), "hello there")
	require.NoError(t, err)
	assert.Empty(t, result.Intent)
}

func TestResolvePricing(t *testing.T) {
	p := ResolvePricing("gemini-2.5-flash-lite")
	assert.Equal(t, 0.10, p.InputPerM)

	assert.Equal(t, Pricing{}, ResolvePricing("unknown-model"))
}

func TestComputeCost(t *testing.T) {
	usage := &schema.TokenUsage{PromptTokens: 1_000_000, CompletionTokens: 500_000}
	in, out, total := ComputeCost(usage, Pricing{InputPerM: 0.30, OutputPerM: 2.50})
	assert.InDelta(t, 0.30, in, 1e-9)
	assert.InDelta(t, 1.25, out, 1e-9)
	assert.InDelta(t, 1.55, total, 1e-9)

	in, out, total = ComputeCost(nil, Pricing{InputPerM: 0.30, OutputPerM: 2.50})
	assert.Zero(t, in)
	assert.Zero(t, out)
	assert.Zero(t, total)
}

// Package scoring asks a chat completion model to grade a support transcript
package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	perr "livetakip/internal/platform/errors"
	"livetakip/internal/platform/logger"

	"github.com/sashabaranov/go-openai"
)

// Line is one transcript utterance
type Line struct {
	Author string
	Text   string
	At     time.Time
}

// Transcript is what the grader sees of a thread
type Transcript struct {
	ThreadID     string
	AgentName    string
	CustomerName string
	Lines        []Line
}

// Verdict is the grader's answer
type Verdict struct {
	OverallScore int      `json:"overall_score"`
	Sentiment    string   `json:"sentiment"`
	Summary      string   `json:"summary"`
	Issues       []string `json:"issues"`
	Model        string   `json:"-"`
}

// Options configures the OpenAI grader
type Options struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
}

// OpenAI grades transcripts with a JSON mode chat completion
type OpenAI struct {
	client *openai.Client
	opts   Options
	log    logger.Logger
}

// NewOpenAI builds the grader; an empty key is a config error
func NewOpenAI(o Options) (*OpenAI, error) {
	if strings.TrimSpace(o.APIKey) == "" {
		return nil, perr.Configf("scoring: openai api key is not configured")
	}
	if o.Model == "" {
		o.Model = openai.GPT4oMini
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = 600
	}
	cfg := openai.DefaultConfig(o.APIKey)
	if o.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(o.BaseURL, "/")
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		opts:   o,
		log:    *logger.Named("scoring"),
	}, nil
}

const systemPrompt = `Sen bir müşteri hizmetleri kalite denetçisisin. Sana verilen canlı destek konuşmasını değerlendir.
Yalnızca şu yapıda bir JSON nesnesi döndür:
{"overall_score": 0-100 arası tam sayı, "sentiment": "positive" | "neutral" | "negative", "summary": "kısa özet", "issues": ["tespit edilen sorunlar"]}`

// Score grades one transcript
func (o *OpenAI) Score(ctx context.Context, t Transcript) (Verdict, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: render(t)},
		},
		MaxTokens:      o.opts.MaxTokens,
		Temperature:    o.opts.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		return Verdict{}, perr.Wrapf(err, perr.ErrorCodeUpstream, "scoring: completion for %s", t.ThreadID)
	}
	if len(resp.Choices) == 0 {
		return Verdict{}, perr.Upstreamf("scoring: empty completion for %s", t.ThreadID)
	}

	v, err := parseVerdict(resp.Choices[0].Message.Content)
	if err != nil {
		o.log.Warn().Err(err).Str("thread_id", t.ThreadID).Msg("unparsable verdict")
		return Verdict{}, err
	}
	v.Model = resp.Model
	if v.Model == "" {
		v.Model = o.opts.Model
	}
	return v, nil
}

func render(t Transcript) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Temsilci: %s\nMüşteri: %s\n\n", t.AgentName, t.CustomerName)
	for _, l := range t.Lines {
		fmt.Fprintf(&b, "[%s] %s: %s\n", l.At.UTC().Format("15:04:05"), l.Author, l.Text)
	}
	return b.String()
}

// parseVerdict tolerates code fences around the JSON and clamps the score to 0..100
func parseVerdict(content string) (Verdict, error) {
	s := strings.TrimSpace(content)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	var v Verdict
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &v); err != nil {
		return Verdict{}, perr.Wrap(err, perr.ErrorCodeUpstream, "scoring: verdict is not json")
	}
	switch {
	case v.OverallScore < 0:
		v.OverallScore = 0
	case v.OverallScore > 100:
		v.OverallScore = 100
	}
	switch v.Sentiment {
	case "positive", "neutral", "negative":
	default:
		v.Sentiment = "neutral"
	}
	if v.Issues == nil {
		v.Issues = []string{}
	}
	return v, nil
}

package nlp

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sashabaranov/go-openai"

	"github.com/veridex/veridex/internal/config"
)

const annotateSystemPrompt = `You analyze one sentence at a time.
Respond with a JSON object only, no prose:
{"entities": ["named entities mentioned in the sentence"], "has_verb": true}`

// OpenAIAnnotator asks a chat model for entities and verb presence.
type OpenAIAnnotator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIAnnotator creates an OpenAI-backed annotator.
func NewOpenAIAnnotator(cfg config.NLPConfig) (*OpenAIAnnotator, error) {
	if cfg.APIKey == "" {
		return nil, eris.New("openai annotator: api key is required")
	}

	m := cfg.Model
	if m == "" {
		m = openai.GPT4oMini
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIAnnotator{
		client:  openai.NewClient(cfg.APIKey),
		model:   m,
		timeout: timeout,
	}, nil
}

// Name implements Annotator.
func (a *OpenAIAnnotator) Name() string { return "openai" }

type annotateReply struct {
	Entities []string `json:"entities"`
	HasVerb  bool     `json:"has_verb"`
}

// Annotate implements Annotator.
func (a *OpenAIAnnotator) Annotate(ctx context.Context, sentence string) (Annotation, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: annotateSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: sentence},
		},
		MaxTokens:   200,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return Annotation{}, eris.Wrap(err, "openai annotate")
	}
	if len(resp.Choices) == 0 {
		return Annotation{}, eris.New("openai annotate: empty response")
	}

	var reply annotateReply
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return Annotation{}, eris.Wrap(err, "openai annotate: decode reply")
	}

	return Annotation{Entities: reply.Entities, HasVerb: reply.HasVerb}, nil
}

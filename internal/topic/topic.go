// Package topic picks conversation topics for unattended runs.
package topic

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"github.com/tatianab/hidden-messages/internal/models"
)

const prompt = "You are a player about to start a word guessing game played by AI agents. " +
	"Suggest a short, creative topic for their conversation (e.g., 'lighthouse keepers on Europa', 'a bakery run by crows'). " +
	"Return ONLY the topic string."

// Generator suggests a topic.
type Generator interface {
	Topic(ctx context.Context) (string, error)
}

// Gemini asks a Gemini model for a topic.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Gemini{
		client: client,
		model:  client.GenerativeModel(model),
	}, nil
}

func (g *Gemini) Close() {
	g.client.Close()
}

func (g *Gemini) Topic(ctx context.Context) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	text, ok := firstText(resp)
	if !ok {
		return "", errors.New("no topic in model response")
	}
	return text, nil
}

func firstText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	c := resp.Candidates[0]
	if c.Content == nil || len(c.Content.Parts) == 0 {
		return "", false
	}
	text, ok := c.Content.Parts[0].(genai.Text)
	return string(text), ok
}

// Choose returns a topic from gen, or fallback when gen is nil, fails, or
// suggests something a session would reject.
func Choose(ctx context.Context, gen Generator, fallback string) string {
	if gen == nil {
		return fallback
	}
	t, err := gen.Topic(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("topic generation failed, using default")
		return fallback
	}
	t = strings.Trim(strings.TrimSpace(t), `"'`)
	if t == "" || utf8.RuneCountInString(t) > models.MaxTopicLen {
		log.Warn().Int("len", utf8.RuneCountInString(t)).Msg("generated topic unusable, using default")
		return fallback
	}
	return t
}

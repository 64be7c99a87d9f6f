package topic

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"

	"github.com/tatianab/hidden-messages/internal/models"
)

type fixedTopic struct {
	topic string
	err   error
}

func (f fixedTopic) Topic(context.Context) (string, error) {
	return f.topic, f.err
}

func TestChoose(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		gen  Generator
		want string
	}{
		{"no generator", nil, "colonizing Mars"},
		{"generated", fixedTopic{topic: "  \"a bakery run by crows\"\n"}, "a bakery run by crows"},
		{"error", fixedTopic{err: errors.New("quota exceeded")}, "colonizing Mars"},
		{"empty", fixedTopic{topic: "   "}, "colonizing Mars"},
		{"too long", fixedTopic{topic: strings.Repeat("a", models.MaxTopicLen+1)}, "colonizing Mars"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Choose(ctx, tt.gen, "colonizing Mars"); got != tt.want {
				t.Errorf("Choose() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFirstText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("lighthouse keepers on Europa")}},
		}},
	}
	if got, ok := firstText(resp); !ok || got != "lighthouse keepers on Europa" {
		t.Errorf("firstText() = %q, %v", got, ok)
	}

	for _, resp := range []*genai.GenerateContentResponse{
		nil,
		{},
		{Candidates: []*genai.Candidate{{}}},
		{Candidates: []*genai.Candidate{{Content: &genai.Content{}}}},
		{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}}}}},
	} {
		if _, ok := firstText(resp); ok {
			t.Errorf("firstText(%+v) should report no text", resp)
		}
	}
}

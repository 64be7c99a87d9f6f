package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestStartSessionRequestValidate(t *testing.T) {
	word := "oxygen"
	blank := "   "
	long := strings.Repeat("x", MaxTopicLen+1)
	order := 0

	cases := []struct {
		name      string
		req       StartSessionRequest
		wantField string
	}{
		{
			name: "default roster",
			req:  StartSessionRequest{Topic: "colonizing Mars", SecretWord: &word, Participants: DefaultParticipants()},
		},
		{
			name: "no bystanders",
			req: StartSessionRequest{Topic: "chess", Participants: []ParticipantConfig{
				{Provider: ProviderOpenAI, Role: RoleCommunicator},
				{Provider: ProviderGoogle, Role: RoleReceiver},
			}},
		},
		{
			name:      "missing topic",
			req:       StartSessionRequest{Topic: "  ", Participants: DefaultParticipants()},
			wantField: "topic",
		},
		{
			name:      "topic too long",
			req:       StartSessionRequest{Topic: long, Participants: DefaultParticipants()},
			wantField: "topic",
		},
		{
			name:      "padding counts toward the topic limit",
			req:       StartSessionRequest{Topic: " " + strings.Repeat("x", MaxTopicLen) + " ", Participants: DefaultParticipants()},
			wantField: "topic",
		},
		{
			name: "topic at the limit",
			req:  StartSessionRequest{Topic: strings.Repeat("x", MaxTopicLen), Participants: DefaultParticipants()},
		},
		{
			name:      "blank secret word",
			req:       StartSessionRequest{Topic: "t", SecretWord: &blank, Participants: DefaultParticipants()},
			wantField: "secret_word",
		},
		{
			name: "two communicators",
			req: StartSessionRequest{Topic: "t", Participants: []ParticipantConfig{
				{Provider: ProviderOpenAI, Role: RoleCommunicator},
				{Provider: ProviderOpenAI, Role: RoleCommunicator},
				{Provider: ProviderAnthropic, Role: RoleReceiver},
			}},
			wantField: "participants",
		},
		{
			name: "no receiver",
			req: StartSessionRequest{Topic: "t", Participants: []ParticipantConfig{
				{Provider: ProviderOpenAI, Role: RoleCommunicator},
				{Provider: ProviderAnthropic, Role: RoleBystander},
			}},
			wantField: "participants",
		},
		{
			name: "unknown provider",
			req: StartSessionRequest{Topic: "t", Participants: []ParticipantConfig{
				{Provider: "mistral", Role: RoleCommunicator},
				{Provider: ProviderAnthropic, Role: RoleReceiver},
			}},
			wantField: "participants",
		},
		{
			name: "duplicate order",
			req: StartSessionRequest{Topic: "t", Participants: []ParticipantConfig{
				{Provider: ProviderOpenAI, Role: RoleCommunicator, Order: &order},
				{Provider: ProviderAnthropic, Role: RoleReceiver, Order: &order},
			}},
			wantField: "participants",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if verr.Field != tc.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tc.wantField)
			}
		})
	}
}

func TestTrimmedRequest(t *testing.T) {
	word := " oxygen\t"
	req := StartSessionRequest{Topic: "  colonizing Mars ", SecretWord: &word, Participants: DefaultParticipants()}

	got := req.Trimmed()
	if got.Topic != "colonizing Mars" || *got.SecretWord != "oxygen" {
		t.Errorf("Trimmed() = topic %q secret %q", got.Topic, *got.SecretWord)
	}
	if req.Topic != "  colonizing Mars " || word != " oxygen\t" {
		t.Error("Trimmed() modified the original request")
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	padded := StartSessionRequest{Topic: " " + strings.Repeat("x", MaxTopicLen) + " ", Participants: DefaultParticipants()}
	if err := padded.Trimmed().Validate(); err != nil {
		t.Errorf("trimmed topic at the limit rejected: %v", err)
	}
}

func TestGameStatusEncodesNoneAsNull(t *testing.T) {
	data, err := json.Marshal(NextTurnResponse{Messages: []Message{}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"game_status":null`) {
		t.Errorf("expected null game_status, got %s", data)
	}

	var resp NextTurnResponse
	if err := json.Unmarshal([]byte(`{"messages":[],"game_over":true,"game_status":"win"}`), &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if resp.GameStatus != StatusWin || !resp.GameStatus.Terminal() {
		t.Errorf("GameStatus = %q, want win", resp.GameStatus)
	}
	if err := json.Unmarshal([]byte(`{"messages":[],"game_status":null}`), &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
}

func TestHistoryYAML(t *testing.T) {
	hist := SessionHistoryResponse{
		SessionID:  "abc",
		Topic:      "colonizing Mars",
		SecretWord: "oxygen",
		Participants: map[string]ParticipantMeta{
			"r1": {Name: "Beta", Role: RoleReceiver, Provider: ProviderAnthropic},
		},
		Guesses: []HistoryGuess{{Turn: 2, ParticipantID: "r1", Guess: "water", TriesRemaining: 2}},
	}

	data, err := yaml.Marshal(hist)
	if err != nil {
		t.Fatalf("Failed to marshal history: %v", err)
	}
	if !strings.Contains(string(data), "secret_word: oxygen") {
		t.Errorf("expected secret_word key in:\n%s", data)
	}
	if !strings.Contains(string(data), "tries_remaining: 2") {
		t.Errorf("expected tries_remaining key in:\n%s", data)
	}
}

package session

import (
	"sort"

	"github.com/tatianab/hidden-messages/internal/models"
)

var roleRank = map[models.Role]int{
	models.RoleCommunicator: 0,
	models.RoleReceiver:     1,
	models.RoleBystander:    2,
}

// participantsFromHistory orders the history's participant map the way a
// roster is shown: communicator, receiver, then bystanders by name.
func participantsFromHistory(meta map[string]models.ParticipantMeta) []models.ParticipantInfo {
	out := make([]models.ParticipantInfo, 0, len(meta))
	for id, m := range meta {
		name := m.Name
		if name == "" {
			name = id
		}
		out = append(out, models.ParticipantInfo{ID: id, Name: name, Role: m.Role, Provider: m.Provider})
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := rank(out[i].Role), rank(out[j].Role)
		if ri != rj {
			return ri < rj
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	for i := range out {
		out[i].Order = i
	}
	return out
}

func rank(r models.Role) int {
	if n, ok := roleRank[r]; ok {
		return n
	}
	return len(roleRank)
}

// turnsFromHistory groups flat history records into turns, ascending by
// turn number whatever order the backend returned them in. Messages keep
// their backend order within a turn. A turn with several guesses keeps the
// last one.
func turnsFromHistory(h *models.SessionHistoryResponse) []Turn {
	byNumber := map[int]*Turn{}
	get := func(n int) *Turn {
		t, ok := byNumber[n]
		if !ok {
			t = &Turn{Number: n}
			byNumber[n] = t
		}
		return t
	}
	for _, m := range h.Messages {
		t := get(m.Turn)
		t.Messages = append(t.Messages, models.Message{
			ParticipantID:    m.ParticipantID,
			ParticipantName:  m.ParticipantName,
			ParticipantRole:  m.ParticipantRole,
			Comms:            m.Comms,
			InternalThoughts: m.InternalThoughts,
		})
	}
	for _, g := range h.Guesses {
		get(g.Turn).Guess = &models.GuessResult{
			Agent:          g.ParticipantID,
			Correct:        g.Correct,
			TriesRemaining: g.TriesRemaining,
		}
	}

	if len(byNumber) == 0 {
		return nil
	}
	turns := make([]Turn, 0, len(byNumber))
	for _, t := range byNumber {
		turns = append(turns, *t)
	}
	sort.Slice(turns, func(i, j int) bool { return turns[i].Number < turns[j].Number })
	return turns
}

// replayGuesses derives remaining tries and the outcome from recorded
// guesses alone, for when the status endpoint is unavailable.
func replayGuesses(participants []models.ParticipantInfo, guesses []models.HistoryGuess) (map[string]int, models.GameStatus) {
	tries := seedTries(participants)
	ordered := append([]models.HistoryGuess(nil), guesses...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Turn < ordered[j].Turn })

	outcome := models.StatusNone
	for _, g := range ordered {
		tries[g.ParticipantID] = g.TriesRemaining
		if g.Correct {
			outcome = models.StatusWin
		}
	}
	if outcome == models.StatusNone {
		for _, p := range participants {
			if p.Role == models.RoleReceiver && tries[p.ID] <= 0 {
				outcome = models.StatusLoss
			}
		}
	}
	return tries, outcome
}

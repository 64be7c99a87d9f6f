package tui

import "github.com/tatianab/hidden-messages/internal/models"

var (
	bystanderNames = []string{"Gamma", "Delta", "Epsilon", "Zeta", "Eta", "Theta", "Iota", "Kappa"}
	providerCycle  = []models.Provider{
		models.ProviderGoogleGLA,
		models.ProviderOpenAI,
		models.ProviderAnthropic,
		models.ProviderGoogle,
	}
)

func rosterFromDefaults() []models.ParticipantConfig {
	return models.DefaultParticipants()
}

// addBystander appends a bystander with the next free name and order.
func addBystander(roster []models.ParticipantConfig) []models.ParticipantConfig {
	bystanders := 0
	for _, p := range roster {
		if p.Role == models.RoleBystander {
			bystanders++
		}
	}
	name := bystanderNames[bystanders%len(bystanderNames)]
	order := len(roster)
	out := append([]models.ParticipantConfig(nil), roster...)
	return append(out, models.ParticipantConfig{
		Name:     name,
		Provider: providerCycle[bystanders%len(providerCycle)],
		Role:     models.RoleBystander,
		Order:    &order,
	})
}

// removeBystander drops the last bystander. Roles the game needs are never
// removed.
func removeBystander(roster []models.ParticipantConfig) []models.ParticipantConfig {
	for i := len(roster) - 1; i >= 0; i-- {
		if roster[i].Role == models.RoleBystander {
			out := append([]models.ParticipantConfig(nil), roster[:i]...)
			return append(out, roster[i+1:]...)
		}
	}
	return roster
}

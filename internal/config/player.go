package config

import "github.com/caarlos0/env/v11"

// PlayerConfig configures the simulation driver's topic picker. The picker
// is used only when an API key is set.
type PlayerConfig struct {
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
}

func LoadPlayer() (PlayerConfig, error) {
	var cfg PlayerConfig
	err := env.Parse(&cfg)
	return cfg, err
}

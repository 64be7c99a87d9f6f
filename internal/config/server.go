package config

import "github.com/caarlos0/env/v11"

// ServerConfig configures the development mock server.
type ServerConfig struct {
	HTTPAddr  string `env:"HTTP_ADDR" envDefault:":8000"`
	SimDelays bool   `env:"SIM_DELAYS" envDefault:"true"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}

package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// ClientConfig configures the game client. Mode is empty unless API_MODE is
// set, in which case it overrides the saved preference.
type ClientConfig struct {
	Environment string        `env:"HM_ENV" envDefault:"development"`
	BaseURL     string        `env:"API_BASE_URL" envDefault:"http://localhost:8000"`
	Mode        string        `env:"API_MODE"`
	Timeout     time.Duration `env:"API_TIMEOUT" envDefault:"0s"`
	StateDir    string        `env:"HM_STATE_DIR" envDefault:".hiddenmessages"`
	SimDelays   bool          `env:"SIM_DELAYS" envDefault:"true"`
}

func LoadClient() (ClientConfig, error) {
	var cfg ClientConfig
	err := env.Parse(&cfg)
	return cfg, err
}

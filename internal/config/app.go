package config

import "github.com/joho/godotenv"

type AppConfig struct {
	Client ClientConfig
	Server ServerConfig
	Player PlayerConfig
	Log    LogConfig
}

// LoadApp reads an optional .env file and then the environment. Variables
// already set in the environment win over the file.
func LoadApp() (AppConfig, error) {
	_ = godotenv.Load()

	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	clientCfg, err := LoadClient()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	playerCfg, err := LoadPlayer()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Client: clientCfg,
		Server: serverCfg,
		Player: playerCfg,
		Log:    logCfg,
	}, nil
}

package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config interface {
	EnvConfig
	APIConfig
	StorageConfig
	MockConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type APIConfig interface {
	GetBaseURL() string
	GetAPIVersion() string
	GetTimeout() time.Duration
	GetDefaultLocale() string
	GetLocaleMap() map[string]string
}

type StorageConfig interface {
	GetStateFile() string
	GetDownloadDir() string
}

type mainConfig struct {
	EnvVars
	API
	Storage
	Mock
}

func New() Config {
	return mainConfig{}
}

// Load reads a .env file when present and returns the environment backed config.
func Load(files ...string) Config {
	if err := godotenv.Load(files...); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}
	return New()
}

package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig lists the environment variables the server understands.
// Fields carry no defaults: an unset variable leaves the value from the
// previous layer untouched.
type envConfig struct {
	EndpointAddrGRPC   string        `env:"GRPC_ADDRESS"`
	DatabaseDSN        string        `env:"DATABASE_DSN"`
	AccessTokenSecret  string        `env:"ACCESS_TOKEN_SECRET"`
	RefreshTokenSecret string        `env:"REFRESH_TOKEN_SECRET"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL    time.Duration `env:"REFRESH_TOKEN_TTL"`
	LogLevel           string        `env:"LOG_LEVEL"`
}

func parseEnv(config *Config) error {
	var e envConfig
	if err := cleanenv.ReadEnv(&e); err != nil {
		return err
	}

	setString(&config.EndpointAddrGRPC, e.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, e.DatabaseDSN)
	setString(&config.AccessTokenSecret, e.AccessTokenSecret)
	setString(&config.RefreshTokenSecret, e.RefreshTokenSecret)
	setString(&config.LogLevel, e.LogLevel)
	if e.AccessTokenTTL != 0 {
		config.AccessTokenValidityDuration = e.AccessTokenTTL
	}
	if e.RefreshTokenTTL != 0 {
		config.RefreshTokenValidityDuration = e.RefreshTokenTTL
	}
	return nil
}

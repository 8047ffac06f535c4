package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvConfig mirrors Config with env tags; like JsonConfig it is a DTO whose
// set fields are copied over the current Config.
type EnvConfig struct {
	EndpointAddrHTTP             string        `env:"ACCOUNTD_HTTP_ADDR"`
	DatabaseDSN                  string        `env:"ACCOUNTD_DATABASE_DSN"`
	RedisAddr                    string        `env:"ACCOUNTD_REDIS_ADDR"`
	SessionStore                 string        `env:"ACCOUNTD_SESSION_STORE"`
	SecretKey                    string        `env:"ACCOUNTD_SECRET_KEY"`
	AccessTokenValidityDuration  time.Duration `env:"ACCOUNTD_ACCESS_TOKEN_VALIDITY"`
	RefreshTokenValidityDuration time.Duration `env:"ACCOUNTD_REFRESH_TOKEN_VALIDITY"`
}

// parseEnv overlays environment variables onto the Config. Unset variables
// leave the current values untouched. Invalid values panic, matching the
// JSON layer's behavior.
func parseEnv(config *Config) {

	c := &EnvConfig{}
	if err := env.Parse(c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.RedisAddr != "" {
		config.RedisAddr = c.RedisAddr
	}
	if c.SessionStore != "" {
		config.SessionStore = c.SessionStore
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration
	}
	if c.RefreshTokenValidityDuration != 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration
	}
}

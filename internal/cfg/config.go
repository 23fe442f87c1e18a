package cfg

import (
	"time"
)

type Config struct {
	AppEnv          string
	Redis           *RedisConfig
	OAuth2          Oauth2Config
	HTTPServer      HTTPServerConfig
	ShutdownTimeout time.Duration
}

func Load() (*Config, error) {
	l := NewLoader()

	cfg := &Config{
		AppEnv:          l.requireEnv("APP_ENV"),
		Redis:           l.loadRedis(),
		OAuth2:          l.loadOAuth2(),
		HTTPServer:      l.loadHTTPServer(),
		ShutdownTimeout: l.getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if l.HasErrors() {
		return nil, l.Error()
	}

	return cfg, nil
}

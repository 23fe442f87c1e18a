package cfg

import "time"

type HTTPServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// RateLimitRPS bounds /auth and /pkce; zero disables limiting
	RateLimitRPS   float64
	RateLimitBurst int
}

func (l *Loader) loadHTTPServer() HTTPServerConfig {
	return HTTPServerConfig{
		Port:           l.getEnvWithDefault("HTTP_PORT", "8080"),
		ReadTimeout:    l.getEnvDurationOrDefault("HTTP_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:   l.getEnvDurationOrDefault("HTTP_WRITE_TIMEOUT", 10*time.Second),
		RateLimitRPS:   l.getEnvFloat64OrDefault("RATE_LIMIT_RPS", 50),
		RateLimitBurst: l.getEnvIntOrDefault("RATE_LIMIT_BURST", 100),
	}
}

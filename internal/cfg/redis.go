package cfg

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// loadRedis returns nil when REDIS_HOST is unset; state is then kept in memory
func (l *Loader) loadRedis() *RedisConfig {
	host := l.getEnvWithDefault("REDIS_HOST", "")
	if host == "" {
		return nil
	}
	return &RedisConfig{
		Host:     host,
		Port:     l.getEnvWithDefault("REDIS_PORT", "6379"),
		Password: l.getEnvWithDefault("REDIS_PASSWORD", ""),
	}
}

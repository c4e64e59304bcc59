package config

import (
	"github.com/shareit-lending/service-shareit/internal/common/config"
)

// ServiceConfig holds all configuration for the lending service.
type ServiceConfig struct {
	Port            string
	AppEnv          string
	DBConfig        config.DatabaseConfig
	KafkaConfig     config.KafkaConfig
	RedisConfig     config.RedisConfig
	RateLimitConfig config.RateLimitConfig
	MigrationsDir   string
}

// Load reads configuration from environment variables.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("SHAREIT")
	if err != nil {
		return nil, err
	}
	v.SetDefault("MIGRATIONS_DIR", "migrations")

	return &ServiceConfig{
		Port:            config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:          config.GetAppEnv(v),
		DBConfig:        config.LoadDatabaseConfig(v, "DB_NAME"),
		KafkaConfig:     config.LoadKafkaConfig(v),
		RedisConfig:     config.LoadRedisConfig(v),
		RateLimitConfig: config.LoadRateLimitConfig(v),
		MigrationsDir:   v.GetString("MIGRATIONS_DIR"),
	}, nil
}

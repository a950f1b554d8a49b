package config

import (
	"os"
	"testing"
	"time"
)

func setEnvVars(vars map[string]string) {
	for k, v := range vars {
		os.Setenv(k, v)
	}
}

func clearEnvVars(vars []string) {
	for _, k := range vars {
		os.Unsetenv(k)
	}
}

var allEnvVars = []string{
	"HOST", "PORT", "READ_TIMEOUT", "WRITE_TIMEOUT", "IDLE_TIMEOUT", "ENVIRONMENT",
	"MONGO_URI", "MONGO_DATABASE", "MONGO_CONNECT_TIMEOUT",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"JWT_SECRET", "JWT_EXPIRES_IN", "JWT_ISSUER", "JWT_AUDIENCE",
	"RATE_LIMIT_ENABLED", "RATE_LIMIT_RPM", "RATE_LIMIT_BURST", "RATE_LIMIT_CLEANUP",
	"CORS_ALLOWED_ORIGINS",
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnvVars(allEnvVars)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error with default config, got: %v", err)
	}

	if config.Server.Host != "localhost" {
		t.Errorf("Expected default host 'localhost', got %s", config.Server.Host)
	}

	if config.Server.Port != "3000" {
		t.Errorf("Expected default port '3000', got %s", config.Server.Port)
	}

	if config.Server.Environment != "development" {
		t.Errorf("Expected default environment 'development', got %s", config.Server.Environment)
	}

	if config.Mongo.URI != "mongodb://localhost:27017" {
		t.Errorf("Expected default Mongo URI, got %s", config.Mongo.URI)
	}

	if config.Mongo.Database != "atom_challenge" {
		t.Errorf("Expected default Mongo database 'atom_challenge', got %s", config.Mongo.Database)
	}

	if config.Redis.Addr != "" {
		t.Errorf("Expected Redis to be disabled by default, got addr %s", config.Redis.Addr)
	}

	if config.Auth.JWTSecret != DefaultJWTSecret {
		t.Errorf("Expected default JWT secret, got %s", config.Auth.JWTSecret)
	}

	if config.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("Expected default token TTL 24h, got %v", config.Auth.TokenTTL)
	}

	if config.Auth.Issuer != "atom-challenge-api" {
		t.Errorf("Expected default issuer 'atom-challenge-api', got %s", config.Auth.Issuer)
	}

	if config.Auth.Audience != "atom-challenge-client" {
		t.Errorf("Expected default audience 'atom-challenge-client', got %s", config.Auth.Audience)
	}

	if !config.RateLimit.Enabled {
		t.Error("Expected rate limiting to be enabled by default")
	}

	if config.RateLimit.RequestsPerMin != 100 {
		t.Errorf("Expected default requests per minute 100, got %d", config.RateLimit.RequestsPerMin)
	}

	if len(config.CORS.AllowedOrigins) != 2 {
		t.Errorf("Expected 2 default CORS origins, got %d", len(config.CORS.AllowedOrigins))
	}
}

func TestLoadConfig_CustomEnvironment(t *testing.T) {
	clearEnvVars(allEnvVars)
	setEnvVars(map[string]string{
		"HOST":                 "0.0.0.0",
		"PORT":                 "9000",
		"ENVIRONMENT":          "staging",
		"MONGO_URI":            "mongodb://mongo.example.com:27017",
		"MONGO_DATABASE":       "tasks_staging",
		"REDIS_ADDR":           "redis.example.com:6380",
		"JWT_SECRET":           "staging-secret",
		"JWT_EXPIRES_IN":       "12h",
		"RATE_LIMIT_RPM":       "200",
		"CORS_ALLOWED_ORIGINS": "https://app.example.com, https://admin.example.com",
	})
	defer clearEnvVars(allEnvVars)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if config.Server.Host != "0.0.0.0" {
		t.Errorf("Expected host '0.0.0.0', got %s", config.Server.Host)
	}

	if config.Mongo.URI != "mongodb://mongo.example.com:27017" {
		t.Errorf("Expected custom Mongo URI, got %s", config.Mongo.URI)
	}

	if config.Redis.Addr != "redis.example.com:6380" {
		t.Errorf("Expected custom Redis addr, got %s", config.Redis.Addr)
	}

	if config.Auth.TokenTTL != 12*time.Hour {
		t.Errorf("Expected token TTL 12h, got %v", config.Auth.TokenTTL)
	}

	if config.RateLimit.RequestsPerMin != 200 {
		t.Errorf("Expected 200 requests per minute, got %d", config.RateLimit.RequestsPerMin)
	}

	origins := config.CORS.AllowedOrigins
	if len(origins) != 2 || origins[0] != "https://app.example.com" || origins[1] != "https://admin.example.com" {
		t.Errorf("Expected trimmed custom CORS origins, got %v", origins)
	}
}

func TestLoadConfig_ProductionRequiresSecret(t *testing.T) {
	clearEnvVars(allEnvVars)
	setEnvVars(map[string]string{
		"ENVIRONMENT": "production",
		"MONGO_URI":   "mongodb://mongo.example.com:27017",
	})
	defer clearEnvVars(allEnvVars)

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected error for default JWT secret in production")
	}
}

func TestLoadConfig_ProductionRequiresMongoURI(t *testing.T) {
	clearEnvVars(allEnvVars)
	setEnvVars(map[string]string{
		"ENVIRONMENT": "production",
		"JWT_SECRET":  "real-production-secret",
	})
	defer clearEnvVars(allEnvVars)

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected error for missing MONGO_URI in production")
	}
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	clearEnvVars(allEnvVars)
	setEnvVars(map[string]string{
		"JWT_EXPIRES_IN": "not-a-duration",
		"RATE_LIMIT_RPM": "not-a-number",
	})
	defer clearEnvVars(allEnvVars)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if config.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("Expected fallback token TTL 24h, got %v", config.Auth.TokenTTL)
	}

	if config.RateLimit.RequestsPerMin != 100 {
		t.Errorf("Expected fallback requests per minute 100, got %d", config.RateLimit.RequestsPerMin)
	}
}

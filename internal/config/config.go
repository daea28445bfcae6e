package config

import (
	"os"
	"strings"
)

const (
	defaultProvisionBaseURL = "https://api-yudzxml.koyeb.app/api/panelHandler"
	defaultProvisionOrigin  = "https://resellerpanelku.x-server.web.id"
)

type Config struct {
	Host             string
	Port             string
	RedisURL         string
	ProvisionBaseURL string
	ProvisionOrigin  string
	TestMode         bool
}

func LoadConfig() *Config {
	return &Config{
		Host:             getEnv("HOST", "0.0.0.0"),
		Port:             getEnv("PORT", "8000"),
		RedisURL:         getEnv("REDIS_URL", ""),
		ProvisionBaseURL: getEnv("PROVISION_BASE_URL", defaultProvisionBaseURL),
		ProvisionOrigin:  getEnv("PROVISION_ORIGIN", defaultProvisionOrigin),
		TestMode:         strings.ToLower(os.Getenv("TEST_MODE")) == "true",
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return strings.TrimSpace(value)
}

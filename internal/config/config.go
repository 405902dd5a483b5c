package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	MetricsPort string
	DatabaseURL string

	AdminEmail string

	Clerk  ClerkConfig
	OpenAI OpenAIConfig
}

type ClerkConfig struct {
	PublishableKey string
	SecretKey      string
	APIURL         string
}

type OpenAIConfig struct {
	APIKey  string
	APIURL  string
	Model   string
	Company string
	Website string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		MetricsPort: getEnv("METRICS_PORT", "9090"),
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/salesdesk?sslmode=disable"),

		AdminEmail: getEnv("ADMIN_EMAIL", ""),

		Clerk: ClerkConfig{
			PublishableKey: getEnvOrPanic("CLERK_PUBLISHABLE_KEY"),
			SecretKey:      getEnvOrPanic("CLERK_SECRET_KEY"),
			APIURL:         getEnv("CLERK_API_URL", "https://api.clerk.com/v1"),
		},

		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			APIURL:  getEnv("OPENAI_API_URL", "https://api.openai.com/v1"),
			Model:   getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
			Company: getEnv("COMPANY_NAME", "Reflex"),
			Website: getEnv("COMPANY_WEBSITE", "https://reflex.dev"),
		},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvOrPanic(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}

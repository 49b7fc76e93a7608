package config

import (
	"os"
	"strings"
	"time"
)

// Settings holds every runtime knob for the sentiment service. Loaded once at
// process start; read-only afterwards.
type Settings struct {
	Port              string
	Models            []string
	ModelDir          string
	RemoteAnalyzerURL string
	OpenAIAPIKey      string
	OpenAIModel       string
	ClassifierTimeout time.Duration

	ValkeyAddress  string
	ValkeyPassword string
	ValkeyTLS      bool
	CacheTTL       time.Duration
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func LoadSettings() Settings {
	return Settings{
		Port:              getEnv("PORT", "8000"),
		Models:            splitModels(getEnv("SENTIMENT_MODELS", "finbert,vader")),
		ModelDir:          getEnv("MODEL_DIR", "./internal/transformers/models"),
		RemoteAnalyzerURL: getEnv("REMOTE_ANALYZER_URL", ""),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		ClassifierTimeout: getDurationEnv("CLASSIFIER_TIMEOUT", 30*time.Second),

		ValkeyAddress:  getEnv("VALKEY_INIT_ADDRESS", ""),
		ValkeyPassword: getEnv("VALKEY_PASSWORD", ""),
		ValkeyTLS:      getEnv("VALKEY_TLS", "") == "true",
		CacheTTL:       getDurationEnv("SCORE_CACHE_TTL", time.Hour),
	}
}

func splitModels(raw string) []string {
	var models []string
	for _, name := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			models = append(models, trimmed)
		}
	}
	return models
}

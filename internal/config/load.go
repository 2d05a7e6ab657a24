package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/menulens/menulens-api/internal/extraction"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take
// precedence over values from the config file and use the MENULENS_ prefix
// (e.g. MENULENS_LLM_GEMINI_API_KEY).
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults cover it.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("MENULENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.media_dir", "./media")
	v.SetDefault("server.media_base_url", "/media")

	// Empty defaults register the keys with viper so AutomaticEnv can
	// populate them during Unmarshal.
	v.SetDefault("cache.redis_address", "")
	v.SetDefault("cache.redis_username", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.ttl", 7*24*time.Hour)
	v.SetDefault("cache.probe_timeout", 5*time.Second)

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.vision_model", "gemini-2.0-flash")
	v.SetDefault("llm.translation_model", "gemini-2.0-flash")
	v.SetDefault("llm.image_model", "imagen-3.0-generate-002")

	v.SetDefault("pipeline.worker_count", 4)
	v.SetDefault("pipeline.queue_size", 64)
	v.SetDefault("pipeline.batch_size", 2)
	v.SetDefault("pipeline.batch_pause", 500*time.Millisecond)
	v.SetDefault("pipeline.translation_attempts", 3)
	v.SetDefault("pipeline.translation_backoff", 2*time.Second)
	v.SetDefault("pipeline.synthesis_attempts", 2)
	v.SetDefault("pipeline.synthesis_backoff", time.Second)
	v.SetDefault("pipeline.min_extracted_text_size", extraction.MinReadableLength)
}

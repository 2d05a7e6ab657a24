package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Pipeline PipelineConfig `mapstructure:"pipeline" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// MediaDir is where synthesized images are written; served under /media/.
	MediaDir string `mapstructure:"media_dir" validate:"required"`
	// MediaBaseURL prefixes image references handed back to subscribers.
	MediaBaseURL string `mapstructure:"media_base_url" validate:"required"`
}

// CacheConfig contains the image cache settings for both tiers.
type CacheConfig struct {
	// RedisAddress points at the durable tier. Empty disables it; the
	// process-local tier still works on its own.
	RedisAddress  string        `mapstructure:"redis_address"`
	RedisUsername string        `mapstructure:"redis_username"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db" validate:"gte=0"`
	TTL           time.Duration `mapstructure:"ttl" validate:"required"`
	ProbeTimeout  time.Duration `mapstructure:"probe_timeout" validate:"required"`
}

// LLMConfig contains all Gemini integration settings.
type LLMConfig struct {
	GeminiAPIKey     string `mapstructure:"gemini_api_key" validate:"required"`
	VisionModel      string `mapstructure:"vision_model" validate:"required"`
	TranslationModel string `mapstructure:"translation_model" validate:"required"`
	ImageModel       string `mapstructure:"image_model" validate:"required"`
}

// PipelineConfig contains tuning knobs for the processing pipeline.
type PipelineConfig struct {
	WorkerCount          int           `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize            int           `mapstructure:"queue_size" validate:"required,gt=0"`
	BatchSize            int           `mapstructure:"batch_size" validate:"required,gt=0"`
	BatchPause           time.Duration `mapstructure:"batch_pause" validate:"gte=0"`
	TranslationAttempts  int           `mapstructure:"translation_attempts" validate:"required,gt=0"`
	TranslationBackoff   time.Duration `mapstructure:"translation_backoff" validate:"required"`
	SynthesisAttempts    int           `mapstructure:"synthesis_attempts" validate:"required,gt=0"`
	SynthesisBackoff     time.Duration `mapstructure:"synthesis_backoff" validate:"required"`
	MinExtractedTextSize int           `mapstructure:"min_extracted_text_size" validate:"required,gt=0"`
}

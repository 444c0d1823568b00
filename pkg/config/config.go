package config

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Speech recognition providers
const (
	SpeechProviderGoogle     = "google"
	SpeechProviderAssemblyAI = "assemblyai"
)

// Text generation providers
const (
	LLMProviderGemini = "gemini"
	LLMProviderGroq   = "groq"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	JWT      JWTConfig
	Pipeline PipelineConfig
	Speech   SpeechConfig
	LLM      LLMConfig
	Gemini   GeminiConfig
	Groq     GroqConfig
	Assembly AssemblyAIConfig
	Google   GoogleConfig
	Calendar CalendarConfig
	Redis    RedisConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development" validate:"oneof=development staging production test"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10" validate:"min=1"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	File       string `envconfig:"LOG_FILE"`
	MaxSizeMB  int    `envconfig:"LOG_MAX_SIZE_MB" default:"100"`
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"5"`
	MaxAgeDays int    `envconfig:"LOG_MAX_AGE_DAYS" default:"28"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	AccessSecret    string        `envconfig:"JWT_ACCESS_SECRET" default:"your-access-secret-change-in-production" validate:"required"`
	AccessExpiry    time.Duration `envconfig:"JWT_ACCESS_EXPIRY" default:"15m"`
	DevAccessExpiry time.Duration `envconfig:"JWT_DEV_ACCESS_EXPIRY" default:"720h"`
}

// PipelineConfig holds transcription pipeline tuning
type PipelineConfig struct {
	MaxAudioBytes    int64         `envconfig:"MAX_AUDIO_BYTES" default:"10485760" validate:"min=1"`
	StageTimeout     time.Duration `envconfig:"STAGE_TIMEOUT" default:"30s"`
	ParallelAnalysis bool          `envconfig:"PIPELINE_PARALLEL_ANALYSIS" default:"true"`
	MeetingDuration  int           `envconfig:"MEETING_DURATION_MINUTES" default:"30" validate:"min=1"`
	Timezone         string        `envconfig:"MEETING_TIMEZONE" default:"America/Los_Angeles" validate:"required"`
}

// SpeechConfig selects the speech recognition backend
type SpeechConfig struct {
	Provider     string `envconfig:"SPEECH_PROVIDER" default:"google" validate:"oneof=google assemblyai"`
	LanguageCode string `envconfig:"SPEECH_LANGUAGE" default:"en-US"`
}

// LLMConfig selects the text generation backend
type LLMConfig struct {
	Provider   string `envconfig:"LLM_PROVIDER" default:"gemini" validate:"oneof=gemini groq"`
	MaxRetries uint64 `envconfig:"LLM_MAX_RETRIES" default:"2"`
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	Model   string `envconfig:"GEMINI_MODEL" default:"gemini-1.5-pro"`
	BaseURL string `envconfig:"GEMINI_API_URL"`
}

// GroqConfig holds Groq API configuration
type GroqConfig struct {
	APIKey  string `envconfig:"GROQ_API_KEY"`
	BaseURL string `envconfig:"GROQ_API_URL" default:"https://api.groq.com"`
	Model   string `envconfig:"GROQ_MODEL" default:"llama-3.1-70b-versatile"`
}

// AssemblyAIConfig holds AssemblyAI configuration
type AssemblyAIConfig struct {
	APIKey  string `envconfig:"ASSEMBLYAI_API_KEY"`
	BaseURL string `envconfig:"ASSEMBLYAI_API_URL"`
}

// GoogleConfig holds Google Cloud service account configuration
type GoogleConfig struct {
	CredentialsFile string `envconfig:"GOOGLE_CREDENTIALS_FILE" default:"notedai-calendar.json"`
	SpeechEndpoint  string `envconfig:"GOOGLE_SPEECH_ENDPOINT"`
}

// CalendarConfig holds calendar target configuration
type CalendarConfig struct {
	CalendarID string        `envconfig:"CALENDAR_ID" default:"primary" validate:"required"`
	Endpoint   string        `envconfig:"CALENDAR_ENDPOINT"`
	InviteTTL  time.Duration `envconfig:"CALENDAR_INVITE_TTL" default:"24h"`
}

// RedisConfig holds Redis configuration. An empty Host selects the in-memory invite cache.
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	return FromEnv()
}

// FromEnv decodes and validates configuration from the process environment only
func FromEnv() (*Config, error) {
	var config Config

	// Sections are processed one by one so keys stay unprefixed (PORT, not SERVER_PORT)
	sections := []interface{}{
		&config.Server,
		&config.Log,
		&config.JWT,
		&config.Pipeline,
		&config.Speech,
		&config.LLM,
		&config.Gemini,
		&config.Groq,
		&config.Assembly,
		&config.Google,
		&config.Calendar,
		&config.Redis,
	}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("failed to process env: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	switch c.LLM.Provider {
	case LLMProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
	case LLMProviderGroq:
		if c.Groq.APIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required when LLM_PROVIDER=groq")
		}
	}

	if c.Speech.Provider == SpeechProviderAssemblyAI && c.Assembly.APIKey == "" {
		return fmt.Errorf("ASSEMBLYAI_API_KEY is required when SPEECH_PROVIDER=assemblyai")
	}

	if _, err := time.LoadLocation(c.Pipeline.Timezone); err != nil {
		return fmt.Errorf("invalid MEETING_TIMEZONE %q: %w", c.Pipeline.Timezone, err)
	}
	return nil
}

// Location returns the timezone used for resolving and scheduling meetings
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Pipeline.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// UseRedis reports whether a Redis server is configured
func (c *Config) UseRedis() bool {
	return c.Redis.Host != ""
}

package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string            `toml:"environment"` // "development" or "production"
	Server      ServerConfig      `toml:"server"`
	Storage     StorageConfig     `toml:"storage"`
	Logging     LoggingConfig     `toml:"logging"`
	Quiz        QuizConfig        `toml:"quiz"`
	Audio       AudioConfig       `toml:"audio"`
	Transcribe  TranscribeConfig  `toml:"transcribe"`
	Gemini      GeminiConfig      `toml:"gemini"`
	Claude      ClaudeConfig      `toml:"claude"`
	LLM         LLMConfig         `toml:"llm"`
	Maintenance MaintenanceConfig `toml:"maintenance"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// QuizConfig contains quiz generation pipeline configuration
type QuizConfig struct {
	QuestionsPerSegment  int    `toml:"questions_per_segment"`  // Requested question count per segment (default: 3)
	SegmentWindowMinutes int    `toml:"segment_window_minutes"` // Time window per segment in minutes (default: 10)
	PromptPath           string `toml:"prompt_path"`            // Optional on-disk override for the embedded prompt template
}

// AudioConfig contains audio acquisition configuration
type AudioConfig struct {
	YtDlpPath  string        `toml:"ytdlp_path"`  // yt-dlp executable (default: "yt-dlp")
	FFmpegPath string        `toml:"ffmpeg_path"` // ffmpeg executable (default: "ffmpeg")
	WorkDir    string        `toml:"work_dir"`    // Scratch directory for downloaded media
	Timeout    time.Duration `toml:"timeout"`     // Download/convert timeout (default: 10m)
}

// TranscribeConfig contains speech-to-text collaborator configuration
type TranscribeConfig struct {
	Endpoint string `toml:"endpoint"` // OpenAI-compatible /audio/transcriptions endpoint
	Model    string `toml:"model"`    // Whisper model name (default: "whisper-1")
	APIKey   string `toml:"api_key"`  // Bearer token for the transcription endpoint
	Timeout  string `toml:"timeout"`  // Request timeout as duration string (default: "15m")
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`     // Google Gemini API key
	Model       string  `toml:"model"`       // Model for quiz generation (default: "gemini-2.0-flash")
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between calls (default: "4s" for 15 RPM)
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.7)
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Model for quiz generation (default: "claude-haiku-3-5-20241022")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 4096)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between calls (default: "1s")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.7)
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig contains unified configuration for all AI providers
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"` // "gemini" or "claude" (default: "gemini")
}

// MaintenanceConfig contains configuration for scheduled storage maintenance
type MaintenanceConfig struct {
	Enabled  bool   `toml:"enabled"`  // Run periodic Badger GC and corpus stats
	Schedule string `toml:"schedule"` // Cron schedule (default: every 15 minutes)
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in examen.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Quiz: QuizConfig{
			QuestionsPerSegment:  3,
			SegmentWindowMinutes: 10,
		},
		Audio: AudioConfig{
			YtDlpPath:  "yt-dlp",
			FFmpegPath: "ffmpeg",
			WorkDir:    "./data/media",
			Timeout:    10 * time.Minute,
		},
		Transcribe: TranscribeConfig{
			Endpoint: "http://localhost:9000/v1/audio/transcriptions",
			Model:    "whisper-1",
			Timeout:  "15m",
		},
		Gemini: GeminiConfig{
			APIKey:      "", // User must provide API key
			Model:       "gemini-2.0-flash",
			Timeout:     "2m",
			RateLimit:   "4s", // 15 RPM for free tier
			Temperature: 0.7,
		},
		Claude: ClaudeConfig{
			APIKey:      "", // User must provide API key (ANTHROPIC_API_KEY or config)
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   4096,
			Timeout:     "2m",
			RateLimit:   "1s",
			Temperature: 0.7,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
		Maintenance: MaintenanceConfig{
			Enabled:  true,
			Schedule: "*/15 * * * *",
		},
	}
}

// LoadFromFile loads configuration with priority: defaults -> file -> env -> CLI
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files. Later files override
// earlier files. Priority: CLI flags > environment variables > last config
// file > ... > first config file > defaults.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("EXAMEN_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("EXAMEN_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("EXAMEN_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("EXAMEN_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("EXAMEN_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("EXAMEN_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Quiz configuration
	if count := os.Getenv("EXAMEN_QUIZ_QUESTIONS_PER_SEGMENT"); count != "" {
		if c, err := strconv.Atoi(count); err == nil && c > 0 {
			config.Quiz.QuestionsPerSegment = c
		}
	}
	if promptPath := os.Getenv("EXAMEN_QUIZ_PROMPT_PATH"); promptPath != "" {
		config.Quiz.PromptPath = promptPath
	}

	// Audio configuration
	if ytdlp := os.Getenv("EXAMEN_AUDIO_YTDLP_PATH"); ytdlp != "" {
		config.Audio.YtDlpPath = ytdlp
	}
	if ffmpeg := os.Getenv("EXAMEN_AUDIO_FFMPEG_PATH"); ffmpeg != "" {
		config.Audio.FFmpegPath = ffmpeg
	}
	if workDir := os.Getenv("EXAMEN_AUDIO_WORK_DIR"); workDir != "" {
		config.Audio.WorkDir = workDir
	}
	if timeout := os.Getenv("EXAMEN_AUDIO_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Audio.Timeout = d
		}
	}

	// Transcription configuration
	if endpoint := os.Getenv("EXAMEN_TRANSCRIBE_ENDPOINT"); endpoint != "" {
		config.Transcribe.Endpoint = endpoint
	}
	if model := os.Getenv("EXAMEN_TRANSCRIBE_MODEL"); model != "" {
		config.Transcribe.Model = model
	}
	if apiKey := os.Getenv("EXAMEN_TRANSCRIBE_API_KEY"); apiKey != "" {
		config.Transcribe.APIKey = apiKey
	}
	if timeout := os.Getenv("EXAMEN_TRANSCRIBE_TIMEOUT"); timeout != "" {
		config.Transcribe.Timeout = timeout
	}

	// Gemini configuration
	if apiKey := os.Getenv("EXAMEN_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	} else if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("EXAMEN_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if timeout := os.Getenv("EXAMEN_GEMINI_TIMEOUT"); timeout != "" {
		config.Gemini.Timeout = timeout
	}
	if rateLimit := os.Getenv("EXAMEN_GEMINI_RATE_LIMIT"); rateLimit != "" {
		config.Gemini.RateLimit = rateLimit
	}
	if temperature := os.Getenv("EXAMEN_GEMINI_TEMPERATURE"); temperature != "" {
		if t, err := strconv.ParseFloat(temperature, 32); err == nil {
			config.Gemini.Temperature = float32(t)
		}
	}

	// Claude configuration
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("EXAMEN_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey // EXAMEN_ prefix takes priority
	}
	if model := os.Getenv("EXAMEN_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}
	if maxTokens := os.Getenv("EXAMEN_CLAUDE_MAX_TOKENS"); maxTokens != "" {
		if mt, err := strconv.Atoi(maxTokens); err == nil {
			config.Claude.MaxTokens = mt
		}
	}
	if timeout := os.Getenv("EXAMEN_CLAUDE_TIMEOUT"); timeout != "" {
		config.Claude.Timeout = timeout
	}
	if rateLimit := os.Getenv("EXAMEN_CLAUDE_RATE_LIMIT"); rateLimit != "" {
		config.Claude.RateLimit = rateLimit
	}
	if temperature := os.Getenv("EXAMEN_CLAUDE_TEMPERATURE"); temperature != "" {
		if t, err := strconv.ParseFloat(temperature, 32); err == nil {
			config.Claude.Temperature = float32(t)
		}
	}

	// LLM provider configuration
	if provider := os.Getenv("EXAMEN_LLM_DEFAULT_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}

	// Maintenance configuration
	if enabled := os.Getenv("EXAMEN_MAINTENANCE_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Maintenance.Enabled = e
		}
	}
	if schedule := os.Getenv("EXAMEN_MAINTENANCE_SCHEDULE"); schedule != "" {
		config.Maintenance.Schedule = schedule
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ResolveAPIKey resolves an API key by name with environment variable priority.
// Resolution order: environment variables -> config fallback -> error.
func ResolveAPIKey(name string, configFallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini_api_key":    {"EXAMEN_GEMINI_API_KEY", "GEMINI_API_KEY"},
		"anthropic_api_key": {"EXAMEN_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or config", name)
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

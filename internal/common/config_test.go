package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	if config.Server.Port != 8080 {
		t.Errorf("default port = %d", config.Server.Port)
	}
	if config.Quiz.QuestionsPerSegment != 3 {
		t.Errorf("default questions per segment = %d", config.Quiz.QuestionsPerSegment)
	}
	if config.Quiz.SegmentWindowMinutes != 10 {
		t.Errorf("default segment window = %d", config.Quiz.SegmentWindowMinutes)
	}
	if config.LLM.DefaultProvider != LLMProviderGemini {
		t.Errorf("default provider = %s", config.LLM.DefaultProvider)
	}
	if !config.Maintenance.Enabled {
		t.Error("maintenance disabled by default")
	}
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()

	base := filepath.Join(dir, "examen.toml")
	if err := os.WriteFile(base, []byte(`
environment = "production"

[server]
port = 9090

[quiz]
questions_per_segment = 5

[llm]
default_provider = "claude"
`), 0o644); err != nil {
		t.Fatal(err)
	}

	override := filepath.Join(dir, "examen.local.toml")
	if err := os.WriteFile(override, []byte(`
[server]
port = 9091
`), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadFromFiles(base, override)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	// Later files override earlier files; untouched values keep defaults
	if config.Server.Port != 9091 {
		t.Errorf("port = %d, want 9091", config.Server.Port)
	}
	if config.Quiz.QuestionsPerSegment != 5 {
		t.Errorf("questions per segment = %d, want 5", config.Quiz.QuestionsPerSegment)
	}
	if config.LLM.DefaultProvider != LLMProviderClaude {
		t.Errorf("provider = %s, want claude", config.LLM.DefaultProvider)
	}
	if config.Server.Host != "localhost" {
		t.Errorf("host = %q, want default", config.Server.Host)
	}
	if !config.IsProduction() {
		t.Error("IsProduction() = false for production environment")
	}
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	if _, err := LoadFromFiles("/nonexistent/examen.toml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("EXAMEN_SERVER_PORT", "7070")
	t.Setenv("EXAMEN_QUIZ_QUESTIONS_PER_SEGMENT", "4")
	t.Setenv("EXAMEN_LLM_DEFAULT_PROVIDER", "claude")
	t.Setenv("GEMINI_API_KEY", "env-gemini-key")

	config, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if config.Server.Port != 7070 {
		t.Errorf("port = %d", config.Server.Port)
	}
	if config.Quiz.QuestionsPerSegment != 4 {
		t.Errorf("questions per segment = %d", config.Quiz.QuestionsPerSegment)
	}
	if config.LLM.DefaultProvider != LLMProviderClaude {
		t.Errorf("provider = %s", config.LLM.DefaultProvider)
	}
	if config.Gemini.APIKey != "env-gemini-key" {
		t.Errorf("gemini key = %q", config.Gemini.APIKey)
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, 6060, "0.0.0.0")
	if config.Server.Port != 6060 || config.Server.Host != "0.0.0.0" {
		t.Errorf("flag overrides not applied: %+v", config.Server)
	}

	// Zero values leave config untouched
	ApplyFlagOverrides(config, 0, "")
	if config.Server.Port != 6060 || config.Server.Host != "0.0.0.0" {
		t.Errorf("zero-value flags overwrote config: %+v", config.Server)
	}
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("EXAMEN_GEMINI_API_KEY", "")

	// Config fallback when no env var is set
	key, err := ResolveAPIKey("gemini_api_key", "config-key")
	if err != nil || key != "config-key" {
		t.Errorf("ResolveAPIKey = %q, %v", key, err)
	}

	// Env var wins over config
	t.Setenv("GEMINI_API_KEY", "env-key")
	key, err = ResolveAPIKey("gemini_api_key", "config-key")
	if err != nil || key != "env-key" {
		t.Errorf("ResolveAPIKey = %q, %v", key, err)
	}

	// Prefixed env var wins over unprefixed
	t.Setenv("EXAMEN_GEMINI_API_KEY", "prefixed-key")
	key, err = ResolveAPIKey("gemini_api_key", "")
	if err != nil || key != "prefixed-key" {
		t.Errorf("ResolveAPIKey = %q, %v", key, err)
	}

	// No key anywhere
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("EXAMEN_CLAUDE_API_KEY", "")
	if _, err := ResolveAPIKey("anthropic_api_key", ""); err == nil {
		t.Error("expected error when no key is available")
	}
}

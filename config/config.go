package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the assistant. Values come from
// defaults, an optional config.json managed by Manager, and environment
// variables (highest precedence).
type Config struct {
	ProjectDir   string `json:"project_dir"`
	DataDir      string `json:"data_dir"`
	DataCacheDir string `json:"data_cache_dir"`

	// Session persistence
	SessionDBPath string `json:"session_db_path"`

	// Web front-end
	ServerAddr string `json:"server_addr"`

	// Market data
	CacheEnabled bool `json:"cache_enabled"`

	// Optional LLM refinement for the interpreter. Disabled unless an API
	// key is configured and LLMEnabled is set.
	LLMEnabled             bool    `json:"llm_enabled"`
	LLMBaseURL             string  `json:"llm_base_url"`
	LLMAPIKey              string  `json:"llm_api_key"`
	LLMModel               string  `json:"llm_model"`
	LLMConfidenceThreshold float64 `json:"llm_confidence_threshold"`

	Debug bool `json:"debug"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()
	cfg := DefaultConfigWithRoot(currentDir)

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()
	return cfg
}

func DefaultConfigWithRoot(root string) *Config {
	return &Config{
		ProjectDir:   root,
		DataDir:      filepath.Join(root, "data"),
		DataCacheDir: filepath.Join(root, "data", "cache"),

		SessionDBPath: filepath.Join(root, "data", "sessions.db"),
		ServerAddr:    ":8080",

		CacheEnabled: true,

		LLMEnabled:             false,
		LLMBaseURL:             "https://api.deepseek.com/v1",
		LLMModel:               "deepseek-chat",
		LLMConfidenceThreshold: 0.7,

		Debug: false,
	}
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("DATA_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}
	if val := os.Getenv("SESSION_DB_PATH"); val != "" {
		c.SessionDBPath = val
	}
	if val := os.Getenv("SERVER_ADDR"); val != "" {
		c.ServerAddr = val
	}

	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if cache, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = cache
		}
	}

	if val := os.Getenv("LLM_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.LLMEnabled = enabled
		}
	}
	if val := os.Getenv("LLM_BASE_URL"); val != "" {
		c.LLMBaseURL = val
	}
	if val := os.Getenv("LLM_API_KEY"); val != "" {
		c.LLMAPIKey = val
	}
	if val := os.Getenv("LLM_MODEL"); val != "" {
		c.LLMModel = val
	}
	if val := os.Getenv("LLM_CONFIDENCE_THRESHOLD"); val != "" {
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			c.LLMConfidenceThreshold = v
		}
	}

	if val := os.Getenv("FINCHAT_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.LLMConfidenceThreshold < 0 || c.LLMConfidenceThreshold > 1 {
		return fmt.Errorf("llm_confidence_threshold must be in [0, 1], got %v", c.LLMConfidenceThreshold)
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ProjectDir, c.DataDir, c.DataCacheDir}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}

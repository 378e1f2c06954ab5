package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

type Config struct {
	HTTPPort    string `koanf:"http_port"`
	StoragePath string `koanf:"storage_path"`
	DatabaseURL string `koanf:"database_url"`
	AppEnv      AppEnv `koanf:"app_env"`

	// Monitoring defaults, overridable per start request.
	Subreddits     []string `koanf:"subreddits"`
	UpdateInterval int      `koanf:"update_interval"`
	RequestTimeout int      `koanf:"request_timeout"`

	// Reddit credentials (script-type app, password grant).
	RedditClientID     string `koanf:"reddit_client_id"`
	RedditClientSecret string `koanf:"reddit_client_secret"`
	RedditUserAgent    string `koanf:"reddit_user_agent"`
	RedditUsername     string `koanf:"reddit_username"`
	RedditPassword     string `koanf:"reddit_password"`

	// Gemini credentials.
	GeminiAPIKey string `koanf:"gemini_api_key"`

	// GitHub credentials.
	GitHubToken string `koanf:"github_token"`

	// Optional Telegram alerting.
	TelegramBotToken string `koanf:"telegram_bot_token"`
	TelegramChatID   int64  `koanf:"telegram_chat_id"`

	// Optional in-memory cache for AI classifications (0 disables).
	AnalysisCacheSize int `koanf:"analysis_cache_size"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try to load config file from various formats
	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Environment variables override config file values
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	// Set defaults
	if !k.Exists("http_port") {
		k.Set("http_port", "8080")
	}
	if !k.Exists("storage_path") {
		k.Set("storage_path", "./data")
	}
	if !k.Exists("update_interval") {
		k.Set("update_interval", 60)
	}
	if !k.Exists("request_timeout") {
		k.Set("request_timeout", 30)
	}
	if !k.Exists("reddit_user_agent") {
		k.Set("reddit_user_agent", "copilot-reddit-monitor/1.0")
	}
	if !k.Exists("app_env") {
		k.Set("app_env", "production")
	}

	// GOOGLE_AI_API_KEY is accepted as an alternate name for the Gemini key
	if !k.Exists("gemini_api_key") && k.Exists("google_ai_api_key") {
		k.Set("gemini_api_key", k.String("google_ai_api_key"))
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	// Subreddits may arrive as a comma-separated string from the environment
	if subs := k.Get("subreddits"); subs != nil {
		if s, ok := subs.(string); ok {
			cfg.Subreddits = ParseSubreddits(s)
		}
	}
	if len(cfg.Subreddits) == 0 {
		cfg.Subreddits = []string{"copilot", "github", "programming"}
	}

	if appEnvStr := k.String("app_env"); appEnvStr != "" {
		if env, err := ParseAppEnv(appEnvStr); err == nil {
			cfg.AppEnv = env
		} else {
			cfg.AppEnv = AppEnvProduction
		}
	} else {
		cfg.AppEnv = AppEnvProduction
	}

	if cfg.UpdateInterval <= 0 {
		return nil, oops.With("update_interval", cfg.UpdateInterval).Errorf("update_interval must be positive")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, oops.With("request_timeout", cfg.RequestTimeout).Errorf("request_timeout must be positive")
	}

	return &cfg, nil
}

// ParseSubreddits parses a comma-separated subreddit list, stripping any r/ prefix
func ParseSubreddits(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	return lo.FilterMap(parts, func(part string, _ int) (string, bool) {
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(part, "r/")
		return part, part != ""
	})
}

// HasRedditCredentials reports whether every Reddit credential is present
func (c *Config) HasRedditCredentials() bool {
	return c.RedditClientID != "" && c.RedditClientSecret != "" &&
		c.RedditUserAgent != "" && c.RedditUsername != "" && c.RedditPassword != ""
}

// HasTelegramCredentials reports whether the optional alert channel is configured
func (c *Config) HasTelegramCredentials() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}

package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "JOB_SNIPER_CONFIG"
	databasePathEnv   = "JOB_SNIPER_DB"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	llmAPIKeyEnv      = "LLM_API_KEY"
	llmModelEnv       = "LLM_MODEL"
)

const defaultFirstRunAlertLimit = 3

// Config holds high-level settings required across the application.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Poll     PollConfig     `yaml:"poll"`
	Telegram TelegramConfig `yaml:"telegram"`
	LLM      LLMConfig      `yaml:"llm"`
	Feeds    []FeedConfig   `yaml:"feeds"`
	Keywords []string       `yaml:"keywords"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig locates the SQLite dedup database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// PollConfig defines the cycle cadence and alert pacing.
type PollConfig struct {
	Interval    Duration `yaml:"interval"`
	NotifyDelay Duration `yaml:"notifyDelay"`
	// FirstRunAlertLimit bounds the bootstrap burst; a pointer so an
	// explicit zero in the file survives merging.
	FirstRunAlertLimit *int `yaml:"firstRunAlertLimit"`
}

// AlertCap resolves the first-run alert limit, defaulting to 3. Negative
// values are clamped to zero.
func (p PollConfig) AlertCap() int {
	if p.FirstRunAlertLimit == nil {
		return defaultFirstRunAlertLimit
	}
	if *p.FirstRunAlertLimit < 0 {
		return 0
	}
	return *p.FirstRunAlertLimit
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// LLMConfig defines how to contact the proposal-drafting API.
type LLMConfig struct {
	Endpoint     string `yaml:"endpoint"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"apiKey"`
	SystemPrompt string `yaml:"systemPrompt"`
}

// FeedConfig describes a single feed with its explicit source label.
type FeedConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// LoggingConfig controls console output verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Duration accepts human-readable values like "10m" or "2s" in YAML.
type Duration time.Duration

// UnmarshalYAML parses the duration string form.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std converts to the stdlib representation.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Feeds) == 0 {
		cfg.Feeds = defaultConfig().Feeds
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Telegram.ChatID = v
	}

	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}

	if v := os.Getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if override.Poll.Interval != 0 {
		base.Poll.Interval = override.Poll.Interval
	}
	if override.Poll.NotifyDelay != 0 {
		base.Poll.NotifyDelay = override.Poll.NotifyDelay
	}
	if override.Poll.FirstRunAlertLimit != nil {
		base.Poll.FirstRunAlertLimit = override.Poll.FirstRunAlertLimit
	}

	if override.Telegram.BotToken != "" {
		base.Telegram.BotToken = override.Telegram.BotToken
	}
	if override.Telegram.ChatID != "" {
		base.Telegram.ChatID = override.Telegram.ChatID
	}

	if override.LLM.Endpoint != "" {
		base.LLM.Endpoint = override.LLM.Endpoint
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}
	if override.LLM.SystemPrompt != "" {
		base.LLM.SystemPrompt = override.LLM.SystemPrompt
	}

	if len(override.Feeds) > 0 {
		base.Feeds = override.Feeds
	}
	if len(override.Keywords) > 0 {
		base.Keywords = override.Keywords
	}

	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Database: DatabaseConfig{Path: "sniper_jobs.db"},
		Poll: PollConfig{
			Interval:    Duration(10 * time.Minute),
			NotifyDelay: Duration(2 * time.Second),
		},
		Telegram: TelegramConfig{BotToken: "", ChatID: ""},
		LLM: LLMConfig{
			Endpoint:     "https://api.openai.com/v1/chat/completions",
			Model:        "gpt-4o-mini",
			APIKey:       "",
			SystemPrompt: "You write short, confident freelance proposals.",
		},
		Feeds: []FeedConfig{
			{Name: "Mostaql", URL: "https://mostaql.com/rss"},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

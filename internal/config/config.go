package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds bot credentials and update-delivery settings.
type TelegramConfig struct {
	Token       string `yaml:"token" envconfig:"BOT_TOKEN"`
	OwnerChatID int64  `yaml:"owner_chat_id" envconfig:"OWNER_CHAT_ID"`
	RunMode     string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
	Dir     string `yaml:"dir"`
	BotFile string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

// RateLimitConfig configures the per-user sliding-window limiter.
type RateLimitConfig struct {
	MaxRequests   int `yaml:"max_requests" envconfig:"RATE_LIMIT_MAX_REQUESTS"`
	WindowSeconds int `yaml:"window_seconds" envconfig:"RATE_LIMIT_WINDOW_SECONDS"`
}

// Direction binds a business line to the administrator chat that serves it.
type Direction struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	AdminChatID int64  `yaml:"admin_chat_id"`
}

// FormsConfig carries the two application form templates shown to clients.
type FormsConfig struct {
	Send    string `yaml:"send"`
	Receive string `yaml:"receive"`
}

// Config aggregates the full bot configuration loaded at startup.
type Config struct {
	Telegram   TelegramConfig  `yaml:"telegram"`
	Webhook    WebhookConfig   `yaml:"webhook"`
	Database   DatabaseConfig  `yaml:"database"`
	Logging    LoggingConfig   `yaml:"logging"`
	RateLimit  RateLimitConfig `yaml:"rate_limit"`
	Directions []Direction     `yaml:"directions"`
	Forms      FormsConfig     `yaml:"forms"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates required fields and adjusts defaults.
// Startup must abort on a config that cannot route a single application.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" || rm == "polling" {
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	if len(cfg.Directions) == 0 {
		return fmt.Errorf("at least one direction must be configured")
	}
	seen := make(map[string]struct{}, len(cfg.Directions))
	configured := 0
	for i, d := range cfg.Directions {
		key := strings.TrimSpace(d.Key)
		if key == "" {
			return fmt.Errorf("directions[%d]: empty key", i)
		}
		// Keys travel inside underscore-delimited callback payloads, so the
		// delimiter itself (and whitespace) must never appear in a key.
		if strings.ContainsAny(key, "_ \t\n") {
			return fmt.Errorf("directions[%d]: key %q must not contain underscores or whitespace", i, key)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("directions[%d]: duplicate key %q", i, key)
		}
		seen[key] = struct{}{}
		if d.AdminChatID != 0 {
			configured++
		}
		cfg.Directions[i].Key = key
	}
	if configured == 0 {
		return fmt.Errorf("no administrator chat configured for any direction")
	}

	if cfg.RateLimit.MaxRequests <= 0 {
		cfg.RateLimit.MaxRequests = 15
	}
	if cfg.RateLimit.WindowSeconds <= 0 {
		cfg.RateLimit.WindowSeconds = 60
	}
	if cfg.Database.MaxConnections <= 0 {
		cfg.Database.MaxConnections = 5
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	return nil
}

// AdminChatFor returns the administrator chat id bound to a direction key.
func (c *Config) AdminChatFor(key string) (int64, bool) {
	for _, d := range c.Directions {
		if d.Key == key && d.AdminChatID != 0 {
			return d.AdminChatID, true
		}
	}
	return 0, false
}

// DirectionName returns the display name of a direction key.
func (c *Config) DirectionName(key string) string {
	for _, d := range c.Directions {
		if d.Key == key {
			return d.Name
		}
	}
	return key
}

// DirectionByChat maps an administrator chat back to its direction key.
// Each chat serves exactly one direction.
func (c *Config) DirectionByChat(chatID int64) (string, bool) {
	for _, d := range c.Directions {
		if d.AdminChatID != 0 && d.AdminChatID == chatID {
			return d.Key, true
		}
	}
	return "", false
}

// IsAdminChat reports whether the chat belongs to any configured direction.
func (c *Config) IsAdminChat(chatID int64) bool {
	_, ok := c.DirectionByChat(chatID)
	return ok
}

// DirectionKeys returns configured direction keys in declaration order.
func (c *Config) DirectionKeys() []string {
	keys := make([]string, 0, len(c.Directions))
	for _, d := range c.Directions {
		keys = append(keys, d.Key)
	}
	return keys
}

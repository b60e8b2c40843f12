package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Cards   CardsConfig   `mapstructure:"cards"`
	Match   MatchConfig   `mapstructure:"match"`
	Bot     BotConfig     `mapstructure:"bot"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type CardsConfig struct {
	Path string `mapstructure:"path"`
}

type MatchConfig struct {
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	IdemCapacity  int           `mapstructure:"idempotency_capacity"`
	BotStepLimit  int           `mapstructure:"bot_step_limit"`
}

type BotConfig struct {
	Mode       string        `mapstructure:"mode"` // local or remote
	Difficulty string        `mapstructure:"difficulty"`
	RemoteURL  string        `mapstructure:"remote_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// Load reads configuration from the given file (optional) and from DUEL_*
// environment variables, on top of the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.encoding", "json")
	v.SetDefault("cards.path", "cards.yaml")
	v.SetDefault("match.idle_timeout", 30*time.Minute)
	v.SetDefault("match.sweep_interval", 5*time.Minute)
	v.SetDefault("match.idempotency_capacity", 128)
	v.SetDefault("match.bot_step_limit", 32)
	v.SetDefault("bot.mode", "local")
	v.SetDefault("bot.difficulty", "normal")
	v.SetDefault("bot.remote_url", "")
	v.SetDefault("bot.timeout", 3*time.Second)

	v.SetEnvPrefix("DUEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Bot.Mode {
	case "local", "remote":
	default:
		return fmt.Errorf("bot.mode must be local or remote, got %q", c.Bot.Mode)
	}
	if c.Bot.Mode == "remote" && c.Bot.RemoteURL == "" {
		return fmt.Errorf("bot.remote_url is required when bot.mode is remote")
	}
	if c.Match.IdleTimeout <= 0 {
		return fmt.Errorf("match.idle_timeout must be positive")
	}
	return nil
}

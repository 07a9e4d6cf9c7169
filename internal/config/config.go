package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	Listen       string
	ThresholdETH float64
	Cooldown     time.Duration

	RPCURL     string
	NameAPIURL string

	LLMURL   string
	LLMToken string
	LLMModel string

	PlatformURL string
	PlatformKey string
	Community   string

	AuditPath string
	PgDSN     string

	RPCTimeout       time.Duration
	NameTimeout      time.Duration
	NarrativeTimeout time.Duration
	PublishTimeout   time.Duration

	Labels   map[string]string
	LogLevel string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen", ":8787")
	v.SetDefault("threshold-eth", 50.0)
	v.SetDefault("cooldown", 30*time.Minute)
	v.SetDefault("name-api", "https://api.ensideas.com/ens/resolve")
	v.SetDefault("llm-url", "https://api.openai.com/v1/chat/completions")
	v.SetDefault("llm-model", "gpt-4o-mini")
	v.SetDefault("platform-url", "https://www.moltbook.com/api/v1/posts")
	v.SetDefault("community", "basewhales")
	v.SetDefault("audit-path", "./data/publish_records.jsonl")
	v.SetDefault("rpc-timeout", 3*time.Second)
	v.SetDefault("name-timeout", 3*time.Second)
	v.SetDefault("narrative-timeout", 45*time.Second)
	v.SetDefault("publish-timeout", 10*time.Second)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		Listen:           v.GetString("listen"),
		ThresholdETH:     v.GetFloat64("threshold-eth"),
		Cooldown:         v.GetDuration("cooldown"),
		RPCURL:           v.GetString("rpc"),
		NameAPIURL:       v.GetString("name-api"),
		LLMURL:           v.GetString("llm-url"),
		LLMToken:         v.GetString("llm-token"),
		LLMModel:         v.GetString("llm-model"),
		PlatformURL:      v.GetString("platform-url"),
		PlatformKey:      v.GetString("platform-key"),
		Community:        v.GetString("community"),
		AuditPath:        v.GetString("audit-path"),
		PgDSN:            v.GetString("pg-dsn"),
		RPCTimeout:       v.GetDuration("rpc-timeout"),
		NameTimeout:      v.GetDuration("name-timeout"),
		NarrativeTimeout: v.GetDuration("narrative-timeout"),
		PublishTimeout:   v.GetDuration("publish-timeout"),
		Labels:           v.GetStringMapString("labels"),
		LogLevel:         v.GetString("log-level"),
	}

	return cfg, nil
}

// Validate checks the fatal configuration errors: the relay must not
// start serving without a platform credential. The narrative credential
// is optional; its absence only disables the enriched path.
func (c Config) Validate() error {
	if c.PlatformKey == "" {
		return fmt.Errorf("platform-key is required")
	}
	if c.ThresholdETH < 0 {
		return fmt.Errorf("threshold-eth must not be negative")
	}
	if c.Cooldown <= 0 {
		return fmt.Errorf("cooldown must be positive")
	}
	return nil
}

// NarrativeEnabled reports whether a narrative credential is configured.
func (c Config) NarrativeEnabled() bool {
	return c.LLMToken != ""
}

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all runtime settings for the server.
type Config struct {
	Port        int    `mapstructure:"port"`
	GinMode     string `mapstructure:"gin_mode"`
	DBPath      string `mapstructure:"db_path"`
	LogLevel    string `mapstructure:"log_level"`
	OpenAIKey   string `mapstructure:"openai_api_key"`
	OpenAIModel string `mapstructure:"openai_model"`
}

// Load reads configuration from an optional config.yaml plus environment
// variables (IDEACOLLAB_ prefix). Environment values win over the file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("IDEACOLLAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", 5000)
	v.SetDefault("gin_mode", "debug")
	v.SetDefault("db_path", "idea-collab.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("openai_model", "gpt-4o-mini")

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; defaults plus env are enough for dev.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

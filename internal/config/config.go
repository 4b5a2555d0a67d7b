package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/appforge/internal/errors"
)

// Environment variable names for secrets. These always win over the config file
// so that credentials never need to live on disk next to the YAML.
const (
	EnvSecret     = "APP_SECRET"
	EnvLLMAPIKey  = "LLM_API_KEY"
	EnvForgeToken = "FORGE_TOKEN"
)

// Load loads configuration from the specified file, overlaying secrets from
// the process environment (and a .env file when present).
func Load(configPath string) (*Config, error) {
	// Load .env if present; missing files are fine.
	if err := godotenv.Load(); err == nil {
		fmt.Fprintln(os.Stderr, "Loaded environment variables from .env")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyEnvOverlay()
	config.applyDefaults()

	return &config, nil
}

// applyEnvOverlay copies secrets from the environment over config file values.
func (c *Config) applyEnvOverlay() {
	if v := os.Getenv(EnvSecret); v != "" {
		c.Server.Secret = v
	}
	if v := os.Getenv(EnvLLMAPIKey); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(EnvForgeToken); v != "" {
		c.Forge.Token = v
	}
}

// applyDefaults fills zero values with sensible defaults.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.AdminPort == 0 {
		c.Server.AdminPort = 8081
	}
	if c.Server.WebhookPath == "" {
		c.Server.WebhookPath = "/api-endpoint"
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o"
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 120 * time.Second
	}
	if c.Forge.Type == "" {
		c.Forge.Type = ForgeGitHub
	}
	if c.Forge.RepoPrefix == "" {
		c.Forge.RepoPrefix = "llm-app-"
	}
	if c.Notify.MaxAttempts == 0 {
		c.Notify.MaxAttempts = 5
	}
	if c.Notify.InitialDelay == 0 {
		c.Notify.InitialDelay = time.Second
	}
	if c.Notify.Timeout == 0 {
		c.Notify.Timeout = 10 * time.Second
	}
	if c.Queue.Workers == 0 {
		c.Queue.Workers = 2
	}
	if c.Queue.Size == 0 {
		c.Queue.Size = 100
	}
	if c.Events.Subject == "" {
		c.Events.Subject = "appforge.tasks"
	}
}

// Validate checks that the configuration can actually run a pipeline.
func (c *Config) Validate() error {
	if c.Server.Secret == "" {
		return errors.ConfigRequired("server.secret (or " + EnvSecret + ")")
	}
	if c.LLM.APIKey == "" {
		return errors.ConfigRequired("llm.api_key (or " + EnvLLMAPIKey + ")")
	}
	switch c.Forge.Type {
	case ForgeGitHub:
		if c.Forge.Token == "" {
			return errors.ConfigRequired("forge.token (or " + EnvForgeToken + ")")
		}
	case ForgeLocal:
		if c.Forge.RootDir == "" {
			return errors.ConfigRequired("forge.root_dir")
		}
	default:
		return errors.New(errors.CategoryConfig, errors.SeverityFatal, "unknown forge type").
			WithContext("type", string(c.Forge.Type))
	}
	if c.Events.Enabled && c.Events.URL == "" {
		return errors.ConfigRequired("events.url")
	}
	return nil
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Config{
		Server: ServerConfig{
			Port:        8080,
			AdminPort:   8081,
			WebhookPath: "/api-endpoint",
			Secret:      "${APP_SECRET}",
		},
		LLM: LLMConfig{
			BaseURL: "https://aipipe.org/openai/v1",
			Model:   "gpt-4o",
			APIKey:  "${LLM_API_KEY}",
		},
		Forge: ForgeConfig{
			Type:       ForgeGitHub,
			Token:      "${FORGE_TOKEN}",
			RepoPrefix: "llm-app-",
		},
		Queue: QueueConfig{Workers: 2, Size: 100},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

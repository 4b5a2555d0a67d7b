package config

import "time"

// ForgeType enumerates supported forge backends.
type ForgeType string

const (
	ForgeGitHub ForgeType = "github"
	ForgeLocal  ForgeType = "local"
)

// ServerConfig holds the inbound HTTP surface settings.
type ServerConfig struct {
	// Port serves the build-request webhook endpoint.
	Port int `yaml:"port,omitempty"`
	// AdminPort serves health, status, task history, and Prometheus metrics.
	AdminPort int `yaml:"admin_port,omitempty"`
	// WebhookPath is the path of the build-request endpoint.
	WebhookPath string `yaml:"webhook_path,omitempty"`
	// Secret is the shared secret a build request must carry. Usually supplied
	// via the APP_SECRET environment variable rather than the config file.
	Secret string `yaml:"secret,omitempty"`
}

// LLMConfig holds the language-model completion API settings.
type LLMConfig struct {
	// BaseURL of an OpenAI-compatible completion API.
	BaseURL string `yaml:"base_url,omitempty"`
	// Model is the fixed model identifier used for both generation calls.
	Model string `yaml:"model,omitempty"`
	// APIKey authenticates requests; usually supplied via LLM_API_KEY.
	APIKey string `yaml:"api_key,omitempty"`
	// Timeout bounds a single completion call. Zero means the default.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// ForgeConfig holds the source-hosting account settings.
type ForgeConfig struct {
	Type ForgeType `yaml:"type,omitempty"` // github|local
	// APIURL and BaseURL override the forge endpoints (GitHub defaults apply).
	APIURL  string `yaml:"api_url,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	// Token authenticates API calls; usually supplied via FORGE_TOKEN.
	Token string `yaml:"token,omitempty"`
	// RepoPrefix is prepended to the task identifier to derive the repository
	// name. Defaults to "llm-app-".
	RepoPrefix string `yaml:"repo_prefix,omitempty"`
	// RootDir is the repository root directory for the local forge backend.
	RootDir string `yaml:"root_dir,omitempty"`
}

// NotifyConfig tunes the evaluation-callback delivery.
type NotifyConfig struct {
	// MaxAttempts is the total number of delivery attempts. Defaults to 5.
	MaxAttempts int `yaml:"max_attempts,omitempty"`
	// InitialDelay is the first backoff delay; it doubles per attempt. Defaults to 1s.
	InitialDelay time.Duration `yaml:"initial_delay,omitempty"`
	// Timeout bounds a single POST attempt. Defaults to 10s.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// QueueConfig tunes the bounded task queue.
type QueueConfig struct {
	// Workers is the number of concurrent pipeline workers. Defaults to 2.
	Workers int `yaml:"workers,omitempty"`
	// Size is the queue capacity; enqueueing beyond it fails fast. Defaults to 100.
	Size int `yaml:"size,omitempty"`
}

// EventsConfig enables optional task lifecycle event publishing over NATS.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	URL     string `yaml:"url,omitempty"`     // NATS server URL
	Subject string `yaml:"subject,omitempty"` // subject prefix, e.g. "appforge.tasks"
}

// Config represents the application configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	LLM    LLMConfig    `yaml:"llm"`
	Forge  ForgeConfig  `yaml:"forge"`
	Notify NotifyConfig `yaml:"notify"`
	Queue  QueueConfig  `yaml:"queue"`
	Events EventsConfig `yaml:"events,omitempty"`
}

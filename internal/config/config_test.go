package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/appforge/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  secret: s3cret
llm:
  api_key: sk-test
forge:
  token: ghp-test
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, 8081, cfg.Server.AdminPort)
	require.Equal(t, "/api-endpoint", cfg.Server.WebhookPath)
	require.Equal(t, "https://api.openai.com/v1", cfg.LLM.BaseURL)
	require.Equal(t, "gpt-4o", cfg.LLM.Model)
	require.Equal(t, 120*time.Second, cfg.LLM.Timeout)
	require.Equal(t, ForgeGitHub, cfg.Forge.Type)
	require.Equal(t, "llm-app-", cfg.Forge.RepoPrefix)
	require.Equal(t, 5, cfg.Notify.MaxAttempts)
	require.Equal(t, time.Second, cfg.Notify.InitialDelay)
	require.Equal(t, 10*time.Second, cfg.Notify.Timeout)
	require.Equal(t, 2, cfg.Queue.Workers)
	require.Equal(t, 100, cfg.Queue.Size)
	require.Equal(t, "appforge.tasks", cfg.Events.Subject)

	require.NoError(t, cfg.Validate())
}

func TestLoadExplicitValuesWin(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
  webhook_path: /hooks/build
  secret: s3cret
llm:
  base_url: https://aipipe.org/openai/v1
  model: gpt-4o-mini
  api_key: sk-test
forge:
  type: local
  root_dir: /tmp/forge
queue:
  workers: 4
  size: 10
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, "/hooks/build", cfg.Server.WebhookPath)
	require.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	require.Equal(t, ForgeLocal, cfg.Forge.Type)
	require.Equal(t, 4, cfg.Queue.Workers)
	require.Equal(t, 10, cfg.Queue.Size)
	require.NoError(t, cfg.Validate())
}

func TestLoadEnvOverlay(t *testing.T) {
	t.Setenv(EnvSecret, "env-secret")
	t.Setenv(EnvLLMAPIKey, "env-key")
	t.Setenv(EnvForgeToken, "env-token")

	path := writeConfig(t, `
server:
  secret: file-secret
llm:
  api_key: file-key
forge:
  token: file-token
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "env-secret", cfg.Server.Secret)
	require.Equal(t, "env-key", cfg.LLM.APIKey)
	require.Equal(t, "env-token", cfg.Forge.Token)
}

func TestLoadExpandsEnvReferences(t *testing.T) {
	t.Setenv("TEST_FORGE_PREFIX", "demo-app-")

	path := writeConfig(t, `
server:
  secret: s3cret
llm:
  api_key: sk-test
forge:
  token: ghp-test
  repo_prefix: ${TEST_FORGE_PREFIX}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "demo-app-", cfg.Forge.RepoPrefix)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidateRequiredFields(t *testing.T) {
	base := func() *Config {
		c := &Config{}
		c.Server.Secret = "s"
		c.LLM.APIKey = "k"
		c.Forge.Type = ForgeGitHub
		c.Forge.Token = "t"
		return c
	}

	c := base()
	c.Server.Secret = ""
	err := c.Validate()
	require.Error(t, err)
	require.True(t, errors.IsCategory(err, errors.CategoryConfig))

	c = base()
	c.LLM.APIKey = ""
	require.Error(t, c.Validate())

	c = base()
	c.Forge.Token = ""
	require.Error(t, c.Validate())

	c = base()
	c.Forge.Type = ForgeLocal
	require.Error(t, c.Validate(), "local forge needs root_dir")
	c.Forge.RootDir = "/tmp/x"
	require.NoError(t, c.Validate())

	c = base()
	c.Forge.Type = "bitkeeper"
	require.Error(t, c.Validate())

	c = base()
	c.Events.Enabled = true
	require.Error(t, c.Validate(), "enabled events need a URL")
	c.Events.URL = "nats://localhost:4222"
	require.NoError(t, c.Validate())
}

func TestInitWritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Init(path, false))

	// Refuses to clobber without force.
	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "llm-app-", cfg.Forge.RepoPrefix)
}

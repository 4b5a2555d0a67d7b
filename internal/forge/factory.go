package forge

import (
	cfg "git.home.luguber.info/inful/appforge/internal/config"
	"git.home.luguber.info/inful/appforge/internal/errors"
)

// NewClient creates a new forge client based on the configuration.
func NewClient(config cfg.ForgeConfig) (Client, error) {
	switch config.Type {
	case cfg.ForgeGitHub:
		return NewGitHubClient(config)
	case cfg.ForgeLocal:
		return NewLocalClient(config)
	default:
		return nil, errors.New(errors.CategoryConfig, errors.SeverityFatal, "unsupported forge type").
			WithContext("type", string(config.Type))
	}
}

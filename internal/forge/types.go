// Package forge abstracts the source-hosting providers that published
// applications land on. The GitHub client talks to the REST API as a fixed
// authenticated account; the local client manages plain git repositories under
// a directory for development and tests.
package forge

import (
	"context"

	cfg "git.home.luguber.info/inful/appforge/internal/config"
)

// User represents the authenticated forge account.
type User struct {
	Login string
	Name  string
}

// Repository represents a repository owned by the authenticated account.
type Repository struct {
	Name          string
	FullName      string
	HTMLURL       string
	DefaultBranch string
	Private       bool
}

// Branch represents a branch head.
type Branch struct {
	Name      string
	CommitSHA string
}

// Client is the forge operation set the publisher needs. Implementations are
// short-lived handles constructed per task; they hold no shared mutable state.
type Client interface {
	GetType() cfg.ForgeType
	// CurrentUser returns the authenticated account.
	CurrentUser(ctx context.Context) (*User, error)
	// GetRepository looks up a repository of the authenticated account by name.
	// Returns ErrNotFound when no such repository exists.
	GetRepository(ctx context.Context, name string) (*Repository, error)
	// DeleteRepository removes a repository unconditionally.
	DeleteRepository(ctx context.Context, name string) error
	// CreateRepository creates a new repository for the authenticated account.
	CreateRepository(ctx context.Context, name string, private bool) (*Repository, error)
	// CreateFile commits a single file to the repository's default branch.
	CreateFile(ctx context.Context, repo, path, message, content string) error
	// GetBranch returns the head of the named branch.
	GetBranch(ctx context.Context, repo, branch string) (*Branch, error)
	// PagesURL computes the public static-site URL for a published repository.
	PagesURL(login, repo string) string
}

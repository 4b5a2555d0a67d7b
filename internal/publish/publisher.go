// Package publish creates or replaces the remote repository for a task and
// commits its four fixed files.
package publish

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/appforge/internal/errors"
	"git.home.luguber.info/inful/appforge/internal/forge"
	"git.home.luguber.info/inful/appforge/internal/llm"
	"git.home.luguber.info/inful/appforge/internal/logfields"
)

// Fixed commit messages for the four published files, in commit order.
const (
	msgLicense  = "feat: add MIT license"
	msgReadme   = "docs: generate professional readme"
	msgApp      = "feat: add application code"
	msgWorkflow = "ci: add GitHub Pages deployment workflow"
)

const fallbackBranch = "main"

// Result holds what the publish step produced. Immutable once computed.
type Result struct {
	RepoURL   string `json:"repo_url"`
	PagesURL  string `json:"pages_url"`
	CommitSHA string `json:"commit_sha"`
}

// Publisher publishes task artifacts to a forge. Overwrite semantics are
// destructive: an existing repository with the derived name is deleted, never
// merged into. No rollback is attempted when a file commit fails partway; the
// repository is left partially populated and the error propagates.
type Publisher struct {
	client forge.Client
	prefix string
}

// NewPublisher constructs a publisher around a forge client.
func NewPublisher(client forge.Client, prefix string) *Publisher {
	return &Publisher{client: client, prefix: prefix}
}

// Publish creates the repository for taskID and commits, in order: the fixed
// license, the generated README, the generated application code, and the
// Pages deployment workflow. Returns the repository URL, the expected public
// site URL, and the head commit of the default branch.
func (p *Publisher) Publish(ctx context.Context, taskID string, artifacts *llm.Artifacts) (*Result, error) {
	user, err := p.client.CurrentUser(ctx)
	if err != nil {
		return nil, errors.PublishFailed(err, "")
	}

	name := RepoName(p.prefix, taskID)
	log := slog.With(logfields.TaskID(taskID), logfields.Repository(name))

	if _, err := p.client.GetRepository(ctx, name); err == nil {
		if err := p.client.DeleteRepository(ctx, name); err != nil {
			return nil, errors.PublishFailed(err, name)
		}
		log.Info("Deleted existing repository")
	} else if !forge.IsNotFound(err) {
		return nil, errors.PublishFailed(err, name)
	}

	repo, err := p.client.CreateRepository(ctx, name, false)
	if err != nil {
		return nil, errors.PublishFailed(err, name)
	}
	log.Info("Created repository", slog.String("full_name", repo.FullName))

	files := []struct {
		path    string
		message string
		content string
	}{
		{"LICENSE", msgLicense, MITLicense},
		{"README.md", msgReadme, artifacts.Readme},
		{"index.html", msgApp, artifacts.HTML},
		{".github/workflows/deploy.yml", msgWorkflow, PagesWorkflow},
	}
	for _, f := range files {
		if err := p.client.CreateFile(ctx, name, f.path, f.message, f.content); err != nil {
			return nil, errors.PublishFailed(err, name).WithContext("path", f.path)
		}
	}
	log.Info("Pushed all files")

	branch := repo.DefaultBranch
	if branch == "" {
		branch = fallbackBranch
	}
	head, err := p.client.GetBranch(ctx, name, branch)
	if err != nil {
		return nil, errors.PublishFailed(err, name).WithContext("branch", branch)
	}

	result := &Result{
		RepoURL:   repo.HTMLURL,
		PagesURL:  p.client.PagesURL(user.Login, name),
		CommitSHA: head.CommitSHA,
	}
	log.Info("Publish complete",
		slog.String("commit_sha", result.CommitSHA),
		logfields.URL(result.PagesURL))
	return result, nil
}

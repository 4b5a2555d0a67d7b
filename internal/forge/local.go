package forge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	cfg "git.home.luguber.info/inful/appforge/internal/config"
)

const localDefaultBranch = "main"

// LocalClient is a forge client that manages plain git repositories under a
// root directory. It is useful for development and tests where no external
// forge API access is available; published "sites" are just working trees.
type LocalClient struct {
	root string
}

// NewLocalClient creates a local forge client rooted at fg.RootDir.
func NewLocalClient(fg cfg.ForgeConfig) (*LocalClient, error) {
	if fg.RootDir == "" {
		return nil, fmt.Errorf("local forge requires a root directory")
	}
	if err := os.MkdirAll(fg.RootDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create forge root: %w", err)
	}
	return &LocalClient{root: fg.RootDir}, nil
}

func (c *LocalClient) GetType() cfg.ForgeType { return cfg.ForgeLocal }

// CurrentUser returns a pseudo-account named after the root directory.
func (c *LocalClient) CurrentUser(ctx context.Context) (*User, error) {
	name := filepath.Base(c.root)
	return &User{Login: name, Name: name}, nil
}

func (c *LocalClient) repoPath(name string) string {
	return filepath.Join(c.root, name)
}

// GetRepository reports an existing repository directory.
func (c *LocalClient) GetRepository(ctx context.Context, name string) (*Repository, error) {
	path := c.repoPath(name)
	if _, err := git.PlainOpen(path); err != nil {
		return nil, ErrNotFound
	}
	return &Repository{
		Name:          name,
		FullName:      filepath.Base(c.root) + "/" + name,
		HTMLURL:       "file://" + path,
		DefaultBranch: localDefaultBranch,
	}, nil
}

// DeleteRepository removes the repository directory.
func (c *LocalClient) DeleteRepository(ctx context.Context, name string) error {
	return os.RemoveAll(c.repoPath(name))
}

// CreateRepository initializes a fresh repository with main as default branch.
func (c *LocalClient) CreateRepository(ctx context.Context, name string, private bool) (*Repository, error) {
	path := c.repoPath(name)
	repo, err := git.PlainInit(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to init repository %s: %w", name, err)
	}
	head := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(localDefaultBranch))
	if err := repo.Storer.SetReference(head); err != nil {
		return nil, fmt.Errorf("failed to set default branch: %w", err)
	}
	return &Repository{
		Name:          name,
		FullName:      filepath.Base(c.root) + "/" + name,
		HTMLURL:       "file://" + path,
		DefaultBranch: localDefaultBranch,
		Private:       private,
	}, nil
}

// CreateFile writes the file into the working tree and commits it.
func (c *LocalClient) CreateFile(ctx context.Context, repoName, filePath, message, content string) error {
	path := c.repoPath(repoName)
	repo, err := git.PlainOpen(path)
	if err != nil {
		return ErrNotFound
	}

	abs := filepath.Join(path, filepath.FromSlash(filePath))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filePath, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return err
	}
	if _, err := wt.Add(filepath.ToSlash(filePath)); err != nil {
		return fmt.Errorf("failed to stage %s: %w", filePath, err)
	}
	_, err = wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "appforge",
			Email: "appforge@localhost",
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to commit %s: %w", filePath, err)
	}
	return nil
}

// GetBranch resolves the branch head commit.
func (c *LocalClient) GetBranch(ctx context.Context, repoName, branch string) (*Branch, error) {
	repo, err := git.PlainOpen(c.repoPath(repoName))
	if err != nil {
		return nil, ErrNotFound
	}
	ref, err := repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve branch %s: %w", branch, err)
	}
	return &Branch{Name: branch, CommitSHA: ref.Hash().String()}, nil
}

// PagesURL points at the working-tree index.html for local inspection.
func (c *LocalClient) PagesURL(login, repo string) string {
	return "file://" + strings.TrimRight(c.repoPath(repo), "/") + "/index.html"
}

package forge

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	cfg "git.home.luguber.info/inful/appforge/internal/config"
)

// GitHubClient implements Client for GitHub.
type GitHubClient struct {
	httpClient *http.Client
	baseURL    string
	apiURL     string
	token      string

	login string // cached after the first CurrentUser call
}

// NewGitHubClient creates a new GitHub client.
func NewGitHubClient(fg cfg.ForgeConfig) (*GitHubClient, error) {
	if fg.Type != cfg.ForgeGitHub {
		return nil, fmt.Errorf("invalid forge type for GitHub client: %s", fg.Type)
	}
	if fg.Token == "" {
		return nil, fmt.Errorf("GitHub client requires token authentication")
	}

	client := &GitHubClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiURL:     fg.APIURL,
		baseURL:    fg.BaseURL,
		token:      fg.Token,
	}

	// Set default URLs if not provided
	if client.apiURL == "" {
		client.apiURL = "https://api.github.com"
	}
	if client.baseURL == "" {
		client.baseURL = "https://github.com"
	}

	return client, nil
}

// GetType returns the forge type.
func (c *GitHubClient) GetType() cfg.ForgeType { return cfg.ForgeGitHub }

// githubUser represents the authenticated GitHub user.
type githubUser struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

// githubRepo represents a GitHub repository.
type githubRepo struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	HTMLURL       string `json:"html_url"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
}

// githubBranch represents a GitHub branch head.
type githubBranch struct {
	Name   string `json:"name"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
}

// CurrentUser returns the authenticated account.
func (c *GitHubClient) CurrentUser(ctx context.Context) (*User, error) {
	req, err := c.newRequest(ctx, "GET", "/user", nil)
	if err != nil {
		return nil, err
	}

	var gu githubUser
	if err := c.doRequest(req, &gu); err != nil {
		return nil, fmt.Errorf("failed to get authenticated user: %w", err)
	}
	c.login = gu.Login
	return &User{Login: gu.Login, Name: gu.Name}, nil
}

// GetRepository looks up a repository of the authenticated account by name.
func (c *GitHubClient) GetRepository(ctx context.Context, name string) (*Repository, error) {
	login, err := c.ownerLogin(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("/repos/%s/%s", login, name)
	req, err := c.newRequest(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	var gr githubRepo
	if err := c.doRequest(req, &gr); err != nil {
		return nil, err
	}
	return convertGitHubRepo(&gr), nil
}

// DeleteRepository removes a repository unconditionally.
func (c *GitHubClient) DeleteRepository(ctx context.Context, name string) error {
	login, err := c.ownerLogin(ctx)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("/repos/%s/%s", login, name)
	req, err := c.newRequest(ctx, "DELETE", endpoint, nil)
	if err != nil {
		return err
	}
	return c.doRequest(req, nil)
}

// CreateRepository creates a new repository for the authenticated account.
func (c *GitHubClient) CreateRepository(ctx context.Context, name string, private bool) (*Repository, error) {
	payload := map[string]any{
		"name":      name,
		"private":   private,
		"auto_init": false,
	}

	req, err := c.newRequest(ctx, "POST", "/user/repos", payload)
	if err != nil {
		return nil, err
	}

	var gr githubRepo
	if err := c.doRequest(req, &gr); err != nil {
		return nil, fmt.Errorf("failed to create repository %s: %w", name, err)
	}
	return convertGitHubRepo(&gr), nil
}

// CreateFile commits a single file to the repository's default branch via the
// contents API. Each call produces one commit with the given message.
func (c *GitHubClient) CreateFile(ctx context.Context, repo, filePath, message, content string) error {
	login, err := c.ownerLogin(ctx)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("/repos/%s/%s/contents/%s", login, repo, filePath)
	payload := map[string]any{
		"message": message,
		"content": base64.StdEncoding.EncodeToString([]byte(content)),
	}

	req, err := c.newRequest(ctx, "PUT", endpoint, payload)
	if err != nil {
		return err
	}
	if err := c.doRequest(req, nil); err != nil {
		return fmt.Errorf("failed to create %s in %s: %w", filePath, repo, err)
	}
	return nil
}

// GetBranch returns the head of the named branch.
func (c *GitHubClient) GetBranch(ctx context.Context, repo, branch string) (*Branch, error) {
	login, err := c.ownerLogin(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("/repos/%s/%s/branches/%s", login, repo, branch)
	req, err := c.newRequest(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	var gb githubBranch
	if err := c.doRequest(req, &gb); err != nil {
		return nil, err
	}
	return &Branch{Name: gb.Name, CommitSHA: gb.Commit.SHA}, nil
}

// PagesURL computes the well-known GitHub Pages URL for a repository.
func (c *GitHubClient) PagesURL(login, repo string) string {
	return fmt.Sprintf("https://%s.github.io/%s/", login, repo)
}

// Helper methods

func (c *GitHubClient) ownerLogin(ctx context.Context) (string, error) {
	if c.login != "" {
		return c.login, nil
	}
	user, err := c.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	return user.Login, nil
}

func convertGitHubRepo(gr *githubRepo) *Repository {
	return &Repository{
		Name:          gr.Name,
		FullName:      gr.FullName,
		HTMLURL:       gr.HTMLURL,
		DefaultBranch: gr.DefaultBranch,
		Private:       gr.Private,
	}
}

func (c *GitHubClient) newRequest(ctx context.Context, method, endpoint string, body any) (*http.Request, error) {
	u, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, err
	}
	u.Path = path.Join(u.Path, endpoint)

	var req *http.Request
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		req, err = http.NewRequestWithContext(ctx, method, u.String(), strings.NewReader(string(jsonBody)))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
	} else {
		var err error
		req, err = http.NewRequestWithContext(ctx, method, u.String(), nil)
		if err != nil {
			return nil, err
		}
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", "AppForge/1.0")

	return req, nil
}

func (c *GitHubClient) doRequest(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &APIError{Status: resp.Status, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

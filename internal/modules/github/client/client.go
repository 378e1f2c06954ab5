package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/copilotwatch/reddit-monitor/internal/shared/config"
	sharederrors "github.com/copilotwatch/reddit-monitor/internal/shared/errors"
	"github.com/samber/oops"
)

const DefaultBaseURL = "https://api.github.com"

// Repository is the subset of repository metadata the dashboard surfaces
type Repository struct {
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Stars       int    `json:"stargazers_count"`
	Forks       int    `json:"forks_count"`
	Language    string `json:"language"`
	HTMLURL     string `json:"html_url"`
}

type SearchResult struct {
	TotalCount int          `json:"total_count"`
	Items      []Repository `json:"items"`
}

type IssueComment struct {
	ID      int64  `json:"id"`
	HTMLURL string `json:"html_url"`
	Body    string `json:"body"`
}

// CopilotUsage is a placeholder payload; the usage API needs org-level
// permissions this service does not hold.
type CopilotUsage struct {
	TotalSuggestions    int            `json:"total_suggestions"`
	AcceptedSuggestions int            `json:"accepted_suggestions"`
	AcceptanceRate      float64        `json:"acceptance_rate"`
	Languages           map[string]int `json:"languages"`
	Period              string         `json:"period"`
	LastUpdated         time.Time      `json:"last_updated"`
}

type SearchOptions struct {
	Sort    string
	Order   string
	PerPage int
}

// Client is a typed adapter over the GitHub REST API
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	token     string
	userAgent string
	ready     bool
}

func New(cfg *config.Config) *Client {
	c := &Client{
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: time.Duration(cfg.RequestTimeout) * time.Second},
		token:      cfg.GitHubToken,
		userAgent:  "copilot-reddit-monitor/1.0",
	}

	if cfg.GitHubToken == "" {
		slog.Warn("GitHub token missing, GitHub gateway disabled")
		return c
	}

	c.ready = true
	slog.Info("GitHub client initialized")
	return c
}

// Ready reports whether the gateway has a token. Idempotent.
func (c *Client) Ready() bool {
	return c.ready
}

// GetRepository fetches repository metadata
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	if !c.Ready() {
		return nil, sharederrors.ErrGatewayNotReady
	}

	var result Repository
	endpoint := fmt.Sprintf("%s/repos/%s/%s", c.BaseURL, url.PathEscape(owner), url.PathEscape(repo))
	if err := c.get(ctx, endpoint, &result); err != nil {
		return nil, oops.With("owner", owner, "repo", repo).Wrap(err)
	}
	return &result, nil
}

// SearchCopilotRepositories searches repositories related to GitHub Copilot
func (c *Client) SearchCopilotRepositories(ctx context.Context, query string, opts SearchOptions) (*SearchResult, error) {
	if !c.Ready() {
		return nil, sharederrors.ErrGatewayNotReady
	}

	if opts.Sort == "" {
		opts.Sort = "stars"
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}
	if opts.PerPage <= 0 {
		opts.PerPage = 30
	}

	params := url.Values{}
	params.Set("q", query+" copilot OR github-copilot")
	params.Set("sort", opts.Sort)
	params.Set("order", opts.Order)
	params.Set("per_page", strconv.Itoa(opts.PerPage))

	var result SearchResult
	if err := c.get(ctx, c.BaseURL+"/search/repositories?"+params.Encode(), &result); err != nil {
		return nil, oops.With("query", query).Wrap(err)
	}
	return &result, nil
}

// CreateIssueComment posts a comment on an issue
func (c *Client) CreateIssueComment(ctx context.Context, owner, repo string, issueNumber int, body string) (*IssueComment, error) {
	if !c.Ready() {
		return nil, sharederrors.ErrGatewayNotReady
	}

	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return nil, oops.Wrap(err)
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/issues/%d/comments",
		c.BaseURL, url.PathEscape(owner), url.PathEscape(repo), issueNumber)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, oops.Wrap(err)
	}
	req.Header.Set("Content-Type", "application/json")

	var result IssueComment
	if err := c.do(req, &result, http.StatusCreated); err != nil {
		return nil, oops.With("owner", owner, "repo", repo, "issue", issueNumber).Wrap(err)
	}
	return &result, nil
}

// GetCopilotUsage returns placeholder usage figures until the usage API is
// reachable with the configured token.
func (c *Client) GetCopilotUsage(_ context.Context, owner string) (*CopilotUsage, error) {
	if !c.Ready() {
		return nil, sharederrors.ErrGatewayNotReady
	}

	slog.Debug("Copilot usage requested", "owner", owner)
	return &CopilotUsage{
		Languages:   map[string]int{},
		Period:      "30d",
		LastUpdated: time.Now().UTC(),
	}, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return oops.Wrap(err)
	}
	return c.do(req, out, http.StatusOK)
}

func (c *Client) do(req *http.Request, out any, wantStatus int) error {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", sharederrors.ErrRemoteService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return fmt.Errorf("%w: github returned status %d", sharederrors.ErrRemoteService, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", sharederrors.ErrRemoteService, err)
	}
	return nil
}

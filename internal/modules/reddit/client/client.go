package client

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/copilotwatch/reddit-monitor/internal/modules/reddit/domain"
	"github.com/copilotwatch/reddit-monitor/internal/shared/config"
	sharederrors "github.com/copilotwatch/reddit-monitor/internal/shared/errors"
	"github.com/samber/oops"
)

const (
	DefaultTokenURL = "https://www.reddit.com/api/v1/access_token"
	DefaultBaseURL  = "https://oauth.reddit.com"

	defaultLimit = 25
)

// Client is a typed adapter over the Reddit OAuth API using the script-app
// password grant. A Client constructed without full credentials is
// permanently not ready.
type Client struct {
	TokenURL   string
	BaseURL    string
	HTTPClient *http.Client

	clientID     string
	clientSecret string
	userAgent    string
	username     string
	password     string
	ready        bool

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// New builds the client. Missing credentials leave it not ready rather than
// failing construction; the API surface reports 503 in that case.
func New(cfg *config.Config) *Client {
	c := &Client{
		TokenURL:     DefaultTokenURL,
		BaseURL:      DefaultBaseURL,
		HTTPClient:   &http.Client{Timeout: time.Duration(cfg.RequestTimeout) * time.Second},
		clientID:     cfg.RedditClientID,
		clientSecret: cfg.RedditClientSecret,
		userAgent:    cfg.RedditUserAgent,
		username:     cfg.RedditUsername,
		password:     cfg.RedditPassword,
	}

	if !cfg.HasRedditCredentials() {
		slog.Warn("Reddit credentials missing, social content gateway disabled")
		return c
	}

	c.ready = true
	slog.Info("Reddit client initialized", "username", cfg.RedditUsername)
	return c
}

// Ready reports whether the gateway has credentials. Idempotent.
func (c *Client) Ready() bool {
	return c.ready
}

// FetchPosts fetches a subreddit listing ordered by the requested sort
func (c *Client) FetchPosts(ctx context.Context, subreddit string, opts domain.FetchOptions) ([]domain.Post, error) {
	if !c.Ready() {
		return nil, sharederrors.ErrGatewayNotReady
	}

	sort := opts.Sort
	if !sort.IsValid() {
		sort = domain.SortOrderHot
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	endpoint := fmt.Sprintf("%s/r/%s/%s?limit=%d", c.BaseURL, url.PathEscape(subreddit), sort, limit)
	if opts.Timeframe != "" {
		endpoint += "&t=" + url.QueryEscape(opts.Timeframe)
	}

	var listing listingResponse
	if err := c.getJSON(ctx, endpoint, &listing); err != nil {
		return nil, oops.With("subreddit", subreddit, "sort", sort.String()).Wrap(err)
	}

	posts := make([]domain.Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		if child.Kind != "t3" {
			continue
		}
		posts = append(posts, mapPost(child.Data))
	}
	return posts, nil
}

// FetchComments fetches the subreddit-wide comment stream, newest first
func (c *Client) FetchComments(ctx context.Context, subreddit string, opts domain.FetchOptions) ([]domain.Comment, error) {
	if !c.Ready() {
		return nil, sharederrors.ErrGatewayNotReady
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	endpoint := fmt.Sprintf("%s/r/%s/comments?limit=%d", c.BaseURL, url.PathEscape(subreddit), limit)

	var listing listingResponse
	if err := c.getJSON(ctx, endpoint, &listing); err != nil {
		return nil, oops.With("subreddit", subreddit).Wrap(err)
	}

	comments := make([]domain.Comment, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		if child.Kind != "t1" {
			continue
		}
		comments = append(comments, mapComment(child.Data))
	}
	return comments, nil
}

// PostReply replies to the thing identified by its fullname (t1_* or t3_*).
// No content validation or local rate limiting: the remote service's own
// limits apply and failures propagate as-is.
func (c *Client) PostReply(ctx context.Context, parentFullname, content string) (*domain.Reply, error) {
	if !c.Ready() {
		return nil, sharederrors.ErrGatewayNotReady
	}

	form := url.Values{}
	form.Set("api_type", "json")
	form.Set("thing_id", parentFullname)
	form.Set("text", content)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/comment", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, oops.Wrap(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var result commentResponse
	if err := c.do(req, &result); err != nil {
		return nil, oops.With("parent", parentFullname).Wrap(err)
	}

	if len(result.JSON.Errors) > 0 {
		return nil, oops.With("parent", parentFullname).
			Wrap(fmt.Errorf("%w: reddit rejected reply: %v", sharederrors.ErrRemoteService, result.JSON.Errors))
	}
	if len(result.JSON.Data.Things) == 0 {
		return nil, fmt.Errorf("%w: empty reply confirmation", sharederrors.ErrMalformedResponse)
	}

	thing := result.JSON.Data.Things[0].Data
	return &domain.Reply{ID: thing.ID, Fullname: thing.Name, Permalink: thing.Permalink}, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return oops.Wrap(err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	token, err := c.token(req.Context())
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", sharederrors.ErrRemoteService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Token may have expired early; drop it so the next call re-authenticates
		c.mu.Lock()
		c.accessToken = ""
		c.mu.Unlock()
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: reddit returned status %d", sharederrors.ErrRemoteService, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", sharederrors.ErrRemoteService, err)
	}
	return nil
}

// token returns a valid access token, refreshing through the password grant
// when the cached one is missing or about to expire.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", c.username)
	form.Set("password", c.password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", oops.Wrap(err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", sharederrors.ErrRemoteService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token request failed with status %d", sharederrors.ErrRemoteService, resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("%w: %w", sharederrors.ErrRemoteService, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", sharederrors.ErrRemoteService)
	}

	c.accessToken = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

func mapPost(data thingData) domain.Post {
	post := domain.Post{
		ID:          data.ID,
		Fullname:    data.Name,
		Title:       data.Title,
		Author:      data.Author,
		Subreddit:   data.Subreddit,
		SelfText:    data.SelfText,
		URL:         data.URL,
		Permalink:   data.Permalink,
		Score:       data.Score,
		NumComments: data.NumComments,
		PostHint:    data.PostHint,
		IsSelf:      data.IsSelf,
		IsVideo:     data.IsVideo,
		Over18:      data.Over18,
		CreatedAt:   time.Unix(int64(data.CreatedUTC), 0).UTC(),
	}

	if data.IsGallery && data.GalleryData != nil {
		for _, item := range data.GalleryData.Items {
			meta, ok := data.MediaMetadata[item.MediaID]
			if !ok || meta.Source.URL == "" {
				continue
			}
			// Reddit HTML-escapes ampersands in media URLs
			post.GalleryURLs = append(post.GalleryURLs, html.UnescapeString(meta.Source.URL))
		}
	}
	return post
}

func mapComment(data thingData) domain.Comment {
	return domain.Comment{
		ID:        data.ID,
		Fullname:  data.Name,
		Author:    data.Author,
		Subreddit: data.Subreddit,
		PostID:    strings.TrimPrefix(data.LinkID, "t3_"),
		Body:      data.Body,
		Score:     data.Score,
		CreatedAt: time.Unix(int64(data.CreatedUTC), 0).UTC(),
	}
}

package service

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	analysisDomain "github.com/copilotwatch/reddit-monitor/internal/modules/analysis/domain"
	"github.com/copilotwatch/reddit-monitor/internal/modules/content/domain"
	redditDomain "github.com/copilotwatch/reddit-monitor/internal/modules/reddit/domain"
	"github.com/samber/lo"
)

// Analyzer is the slice of the AI gateway the enrichment pipeline needs
type Analyzer interface {
	Ready() bool
	AnalyzeImage(ctx context.Context, imageURL string) (*analysisDomain.ImageAnalysis, error)
	AnalyzeText(ctx context.Context, text string, tctx analysisDomain.TextContext) (*analysisDomain.TextAnalysis, error)
}

var (
	urlPattern      = regexp.MustCompile(`https?://[^\s<>"')\]]+`)
	imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
	imageHosts      = []string{"i.redd.it", "preview.redd.it", "i.imgur.com"}
	redditHosts     = []string{"reddit.com", "www.reddit.com", "old.reddit.com", "redd.it"}
)

// Service attaches AI-derived classification to raw fetched content
type Service struct {
	analyzer Analyzer
}

// New creates a new enrichment service
func New(analyzer Analyzer) *Service {
	return &Service{analyzer: analyzer}
}

// ExtractImageURLs returns every embedded image URL of a post, deduplicated:
// the primary URL when it looks like an image, gallery entries, and image
// URLs found in the selftext.
func (s *Service) ExtractImageURLs(post redditDomain.Post) []string {
	var urls []string

	if isImageURL(post.URL) {
		urls = append(urls, post.URL)
	}
	urls = append(urls, post.GalleryURLs...)

	for _, match := range urlPattern.FindAllString(post.SelfText, -1) {
		if isImageURL(match) {
			urls = append(urls, match)
		}
	}

	return lo.Uniq(urls)
}

// ExtractLinks returns the post's outbound links, deduplicated: the primary
// URL when it is neither an image nor a link back to Reddit, plus every URL
// found in the selftext.
func (s *Service) ExtractLinks(post redditDomain.Post) []string {
	var links []string

	if post.URL != "" && !isImageURL(post.URL) && !isRedditURL(post.URL) {
		links = append(links, post.URL)
	}
	links = append(links, urlPattern.FindAllString(post.SelfText, -1)...)

	return lo.Uniq(links)
}

// EnrichImages classifies every extracted image URL when analyze is set. A
// gateway that is not ready, or a single failed classification, still yields
// one record per URL with zeroed fields; partial success is the normal
// outcome.
func (s *Service) EnrichImages(ctx context.Context, posts []redditDomain.Post, analyze bool) []domain.ImageItem {
	var items []domain.ImageItem
	for _, post := range posts {
		for _, imageURL := range s.ExtractImageURLs(post) {
			item := domain.ImageItem{
				URL:       imageURL,
				PostID:    post.ID,
				Subreddit: post.Subreddit,
			}

			if analyze && s.analyzer != nil && s.analyzer.Ready() {
				result, err := s.analyzer.AnalyzeImage(ctx, imageURL)
				if err != nil {
					slog.Error("Image classification failed", "image_url", imageURL, "post_id", post.ID, "error", err)
				} else {
					item.Description = result.Description
					item.Tags = result.Tags
					item.Flags = result.Flags
					item.Confidence = result.Confidence
					item.AnalyzedAt = time.Now().UTC()
				}
			}

			items = append(items, item)
		}
	}
	return items
}

// EnrichLinks resolves hostnames and applies permissive safety defaults.
// No verification against a threat database is performed.
func (s *Service) EnrichLinks(posts []redditDomain.Post) []domain.LinkItem {
	var items []domain.LinkItem
	for _, post := range posts {
		for _, link := range s.ExtractLinks(post) {
			items = append(items, domain.LinkItem{
				URL:    link,
				PostID: post.ID,
				Domain: hostOf(link),
				Safe:   true,
				Spam:   false,
			})
		}
	}
	return items
}

// EnrichText classifies posts and comments in place. Items stay unanalyzed
// when the gateway is unavailable or a single classification fails.
func (s *Service) EnrichText(ctx context.Context, items []domain.ContentItem) []domain.ContentItem {
	if s.analyzer == nil || !s.analyzer.Ready() {
		return items
	}

	for i := range items {
		item := &items[i]
		if item.Text == "" {
			continue
		}

		result, err := s.analyzer.AnalyzeText(ctx, item.Text, analysisDomain.TextContext{
			Subreddit: item.Subreddit,
			PostTitle: item.Title,
			IsComment: item.Kind == domain.ItemKindComment,
		})
		if err != nil {
			slog.Error("Text classification failed", "item_id", item.ID, "subreddit", item.Subreddit, "error", err)
			continue
		}

		item.Sentiment = result.Sentiment
		item.Toxicity = result.Toxicity
		item.Analyzed = true
	}
	return items
}

// FromPost converts a raw post into a content item
func FromPost(post redditDomain.Post) domain.ContentItem {
	return domain.ContentItem{
		ID:        post.ID,
		Fullname:  post.Fullname,
		Kind:      domain.ItemKindPost,
		Author:    post.Author,
		Subreddit: post.Subreddit,
		Title:     post.Title,
		Text:      post.SelfText,
		Score:     post.Score,
		Permalink: post.Permalink,
		CreatedAt: post.CreatedAt,
	}
}

// FromComment converts a raw comment into a content item
func FromComment(comment redditDomain.Comment) domain.ContentItem {
	return domain.ContentItem{
		ID:        comment.ID,
		Fullname:  comment.Fullname,
		Kind:      domain.ItemKindComment,
		Author:    comment.Author,
		Subreddit: comment.Subreddit,
		Text:      comment.Body,
		ParentID:  comment.PostID,
		Score:     comment.Score,
		CreatedAt: comment.CreatedAt,
	}
}

func isImageURL(raw string) bool {
	if raw == "" {
		return false
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}

	host := strings.ToLower(parsed.Hostname())
	if lo.Contains(imageHosts, host) {
		return true
	}

	path := strings.ToLower(parsed.Path)
	return lo.SomeBy(imageExtensions, func(ext string) bool {
		return strings.HasSuffix(path, ext)
	})
}

func isRedditURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	return lo.Contains(redditHosts, host)
}

func hostOf(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

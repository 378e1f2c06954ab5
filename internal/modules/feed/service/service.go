package service

import (
	"fmt"

	"github.com/copilotwatch/reddit-monitor/internal/modules/content/domain"
	"github.com/copilotwatch/reddit-monitor/internal/modules/monitor/session"
	"github.com/gorilla/feeds"
)

// toxicityThreshold marks an item as noteworthy in the feed
const toxicityThreshold = 70

// Service renders the monitoring session's recent activity as an RSS feed
type Service struct {
	registry *session.Registry
}

// New creates a new feed service
func New(registry *session.Registry) *Service {
	return &Service{registry: registry}
}

// GenerateFeed builds an RSS feed of recent monitored activity, newest first
func (s *Service) GenerateFeed(baseURL string) *feeds.Feed {
	status := s.registry.Status()

	feed := &feeds.Feed{
		Title:       "Copilot Reddit Monitor - Recent Activity",
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/rss", baseURL)},
		Description: "Recent posts and comments seen by the moderation monitor",
	}
	if status.LastUpdate != nil {
		feed.Updated = *status.LastUpdate
	}

	var items []*feeds.Item
	for _, activity := range s.registry.RecentActivity() {
		items = append(items, s.activityToFeedItem(activity))
	}

	feed.Items = items
	return feed
}

func (s *Service) activityToFeedItem(item domain.ContentItem) *feeds.Item {
	title := item.Title
	if title == "" {
		title = fmt.Sprintf("Comment by u/%s in r/%s", item.Author, item.Subreddit)
	}
	if item.Analyzed && item.Toxicity >= toxicityThreshold {
		title = "[flagged] " + title
	}

	description := item.Text
	if description == "" {
		description = "No text content"
	}
	if item.Analyzed {
		description = fmt.Sprintf("%s\n\nSentiment: %s, toxicity: %d", description, item.Sentiment, item.Toxicity)
	}

	link := item.Permalink
	if link != "" {
		link = "https://www.reddit.com" + link
	}

	return &feeds.Item{
		Id:          fmt.Sprintf("%s-%s", item.Kind, item.ID),
		Title:       title,
		Link:        &feeds.Link{Href: link},
		Description: description,
		Author:      &feeds.Author{Name: item.Author},
		Created:     item.CreatedAt,
	}
}

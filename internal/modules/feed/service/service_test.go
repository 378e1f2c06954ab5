package service

import (
	"strings"
	"testing"
	"time"

	analysisDomain "github.com/copilotwatch/reddit-monitor/internal/modules/analysis/domain"
	contentDomain "github.com/copilotwatch/reddit-monitor/internal/modules/content/domain"
	monitorDomain "github.com/copilotwatch/reddit-monitor/internal/modules/monitor/domain"
	"github.com/copilotwatch/reddit-monitor/internal/modules/monitor/session"
)

func TestGenerateFeed(t *testing.T) {
	t.Parallel()

	registry := session.NewRegistry()
	registry.StartSession([]string{"golang"}, monitorDomain.DefaultOptions(time.Minute))
	registry.RecordSnapshot(contentDomain.Snapshot{
		Posts: []contentDomain.ContentItem{{
			ID:        "p1",
			Kind:      contentDomain.ItemKindPost,
			Title:     "Go generics in practice",
			Author:    "gopher",
			Subreddit: "golang",
			Permalink: "/r/golang/comments/p1",
			CreatedAt: time.Now(),
		}},
		Comments: []contentDomain.ContentItem{{
			ID:        "c1",
			Kind:      contentDomain.ItemKindComment,
			Author:    "troll",
			Subreddit: "golang",
			Text:      "this is awful",
			Analyzed:  true,
			Sentiment: analysisDomain.SentimentNegative,
			Toxicity:  85,
			CreatedAt: time.Now().Add(-time.Minute),
		}},
	})

	svc := New(registry)
	feed := svc.GenerateFeed("http://localhost:8080")

	if len(feed.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(feed.Items))
	}

	rss, err := feed.ToRss()
	if err != nil {
		t.Fatalf("rss rendering failed: %v", err)
	}
	if !strings.Contains(rss, "Go generics in practice") {
		t.Fatalf("post title missing from feed")
	}
	if !strings.Contains(rss, "[flagged] Comment by u/troll in r/golang") {
		t.Fatalf("toxic comment not marked: %s", rss)
	}
	if !strings.Contains(rss, "https://www.reddit.com/r/golang/comments/p1") {
		t.Fatalf("permalink not expanded")
	}
}

func TestGenerateFeedEmpty(t *testing.T) {
	t.Parallel()

	svc := New(session.NewRegistry())
	feed := svc.GenerateFeed("http://localhost:8080")

	if len(feed.Items) != 0 {
		t.Fatalf("empty registry should yield an empty feed")
	}
	if _, err := feed.ToRss(); err != nil {
		t.Fatalf("empty feed must still render: %v", err)
	}
}

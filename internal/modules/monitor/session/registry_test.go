package session

import (
	"fmt"
	"testing"
	"time"

	analysisDomain "github.com/copilotwatch/reddit-monitor/internal/modules/analysis/domain"
	contentDomain "github.com/copilotwatch/reddit-monitor/internal/modules/content/domain"
	"github.com/copilotwatch/reddit-monitor/internal/modules/monitor/domain"
)

func testOptions() domain.Options {
	return domain.DefaultOptions(time.Minute)
}

func TestStartSessionWhileActive(t *testing.T) {
	t.Parallel()

	r := NewRegistry()

	if !r.StartSession([]string{"golang"}, testOptions()) {
		t.Fatalf("first start should succeed")
	}
	if r.StartSession([]string{"rust"}, testOptions()) {
		t.Fatalf("second start should report the existing session")
	}

	status := r.Status()
	if len(status.Subreddits) != 1 || status.Subreddits[0] != "golang" {
		t.Fatalf("second start must not replace subreddits, got %v", status.Subreddits)
	}
}

func TestStopSessionIdempotent(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.StartSession([]string{"golang"}, testOptions())

	if !r.StopSession() {
		t.Fatalf("stop of an active session should report stopped")
	}
	if r.StopSession() {
		t.Fatalf("second stop should be a no-op")
	}
	if r.Active() {
		t.Fatalf("registry still active after stop")
	}
}

func TestRecordSnapshotRollingTotals(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.StartSession([]string{"golang"}, testOptions())

	flagged := contentDomain.ImageItem{
		URL:   "https://i.redd.it/bad.jpg",
		Flags: analysisDomain.ModerationFlags{NSFW: true},
	}
	clean := contentDomain.ImageItem{URL: "https://i.redd.it/ok.jpg"}

	r.RecordSnapshot(contentDomain.Snapshot{
		Posts: []contentDomain.ContentItem{
			{ID: "p1", Analyzed: true, Sentiment: analysisDomain.SentimentPositive, Toxicity: 5},
			{ID: "p2"},
		},
		Comments: []contentDomain.ContentItem{
			{ID: "c1", Analyzed: true, Sentiment: analysisDomain.SentimentNegative, Toxicity: 80},
		},
		Images: []contentDomain.ImageItem{flagged, clean},
		Links:  []contentDomain.LinkItem{{URL: "https://example.com"}},
	})
	r.RecordSnapshot(contentDomain.Snapshot{
		Posts: []contentDomain.ContentItem{
			{ID: "p3", Analyzed: true, Sentiment: analysisDomain.SentimentNeutral, Toxicity: 10},
		},
	})

	stats := r.Status().Stats
	if stats.TotalPosts != 3 || stats.TotalComments != 1 || stats.TotalImages != 2 || stats.TotalLinks != 1 {
		t.Fatalf("totals are not exact sums: %+v", stats)
	}
	if stats.FlaggedContent != 1 {
		t.Fatalf("flagged count = %d, want 1", stats.FlaggedContent)
	}
	breakdown := stats.SentimentBreakdown
	if breakdown.Positive != 1 || breakdown.Negative != 1 || breakdown.Neutral != 1 {
		t.Fatalf("sentiment tally wrong: %+v", breakdown)
	}
}

func TestRecentActivityCapNewestFirst(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.StartSession([]string{"golang"}, testOptions())

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	// Four cycles of 20 posts each overflow the 50-item window
	for cycle := 0; cycle < 4; cycle++ {
		var posts []contentDomain.ContentItem
		for i := 0; i < 20; i++ {
			posts = append(posts, contentDomain.ContentItem{
				ID:        fmt.Sprintf("p-%d-%d", cycle, i),
				CreatedAt: base.Add(time.Duration(cycle*100+i) * time.Minute),
			})
		}
		r.RecordSnapshot(contentDomain.Snapshot{Posts: posts})
	}

	activity := r.RecentActivity()
	if len(activity) != domain.RecentActivityCapacity {
		t.Fatalf("window size = %d, want %d", len(activity), domain.RecentActivityCapacity)
	}
	if activity[0].ID != "p-3-19" {
		t.Fatalf("newest item should lead the window, got %q", activity[0].ID)
	}
	for i := 1; i < len(activity); i++ {
		if activity[i].CreatedAt.After(activity[i-1].CreatedAt) {
			t.Fatalf("window not newest-first at index %d", i)
		}
	}
}

func TestStartSessionResetsWindow(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.StartSession([]string{"golang"}, testOptions())
	r.RecordSnapshot(contentDomain.Snapshot{
		Posts: []contentDomain.ContentItem{{ID: "p1", CreatedAt: time.Now()}},
	})
	r.StopSession()

	r.StartSession([]string{"golang"}, testOptions())
	if len(r.RecentActivity()) != 0 {
		t.Fatalf("new session should start with an empty window")
	}
	if r.Status().Stats.TotalPosts != 0 {
		t.Fatalf("new session should start with zeroed stats")
	}
}

func TestStageConfigAppliedOnNextStart(t *testing.T) {
	t.Parallel()

	r := NewRegistry()

	staged := testOptions()
	staged.IncludeImages = false
	r.StageConfig([]string{"programming"}, &staged)

	subs, opts := r.StagedConfig()
	if len(subs) != 1 || subs[0] != "programming" {
		t.Fatalf("staged subreddits = %v", subs)
	}
	if opts == nil || opts.IncludeImages {
		t.Fatalf("staged options = %+v", opts)
	}

	// Mutating the returned copy must not leak back
	opts.IncludeLinks = false
	_, again := r.StagedConfig()
	if again == nil || !again.IncludeLinks {
		t.Fatalf("staged options must be copied out")
	}
}

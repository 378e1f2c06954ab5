package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	contentDomain "github.com/copilotwatch/reddit-monitor/internal/modules/content/domain"
	contentService "github.com/copilotwatch/reddit-monitor/internal/modules/content/service"
	"github.com/copilotwatch/reddit-monitor/internal/modules/monitor/domain"
	redditDomain "github.com/copilotwatch/reddit-monitor/internal/modules/reddit/domain"
	sharederrors "github.com/copilotwatch/reddit-monitor/internal/shared/errors"
)

type fakeSource struct {
	mu       sync.Mutex
	ready    bool
	posts    map[string][]redditDomain.Post
	comments map[string][]redditDomain.Comment
	failing  map[string]bool
	fetches  int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		ready:    true,
		posts:    map[string][]redditDomain.Post{},
		comments: map[string][]redditDomain.Comment{},
		failing:  map[string]bool{},
	}
}

func (f *fakeSource) Ready() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ready
}

func (f *fakeSource) FetchPosts(_ context.Context, subreddit string, _ redditDomain.FetchOptions) ([]redditDomain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.failing[subreddit] {
		return nil, errors.New("listing unavailable")
	}
	return f.posts[subreddit], nil
}

func (f *fakeSource) FetchComments(_ context.Context, subreddit string, _ redditDomain.FetchOptions) ([]redditDomain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[subreddit] {
		return nil, errors.New("listing unavailable")
	}
	return f.comments[subreddit], nil
}

type snapshotRecorder struct {
	mu        sync.Mutex
	snapshots []contentDomain.Snapshot
}

func (r *snapshotRecorder) callback(snap contentDomain.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, snap)
}

func (r *snapshotRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

func (r *snapshotRecorder) last() contentDomain.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshots[len(r.snapshots)-1]
}

func testService(source *fakeSource) *Service {
	return New(source, contentService.New(nil))
}

func testOptions(interval time.Duration) domain.Options {
	opts := domain.DefaultOptions(interval)
	opts.AnalyzeWithAI = false
	return opts
}

func TestStartRequiresChannels(t *testing.T) {
	t.Parallel()

	svc := testService(newFakeSource())
	err := svc.Start(nil, testOptions(time.Minute), func(contentDomain.Snapshot) {})
	if !errors.Is(err, sharederrors.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestStartRequiresReadySource(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	source.ready = false
	svc := testService(source)

	err := svc.Start([]string{"golang"}, testOptions(time.Minute), func(contentDomain.Snapshot) {})
	if !errors.Is(err, sharederrors.ErrGatewayNotReady) {
		t.Fatalf("err = %v, want ErrGatewayNotReady", err)
	}
	if svc.Active() {
		t.Fatalf("loop must stay idle after a failed start")
	}
}

func TestFirstCycleRunsSynchronously(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	source.posts["golang"] = []redditDomain.Post{{ID: "p1", Subreddit: "golang"}}
	svc := testService(source)
	rec := &snapshotRecorder{}

	if err := svc.Start([]string{"golang"}, testOptions(time.Hour), rec.callback); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer svc.Stop()

	if rec.count() != 1 {
		t.Fatalf("start should deliver exactly one synchronous snapshot, got %d", rec.count())
	}
	if len(rec.last().Posts) != 1 || rec.last().Posts[0].ID != "p1" {
		t.Fatalf("snapshot missing fetched post: %+v", rec.last())
	}
}

func TestStartWhileActiveReplacesRun(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	svc := testService(source)
	rec := &snapshotRecorder{}

	if err := svc.Start([]string{"golang"}, testOptions(time.Hour), rec.callback); err != nil {
		t.Fatalf("first start failed: %v", err)
	}
	if err := svc.Start([]string{"golang"}, testOptions(time.Hour), rec.callback); err != nil {
		t.Fatalf("second start failed: %v", err)
	}
	defer svc.Stop()

	// One synchronous cycle per start; a second ticker would produce more
	time.Sleep(50 * time.Millisecond)
	if rec.count() != 2 {
		t.Fatalf("got %d snapshots, want one per start", rec.count())
	}
}

func TestConcurrentStarts(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	svc := testService(source)
	rec := &snapshotRecorder{}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.Start([]string{"golang"}, testOptions(time.Hour), rec.callback); err != nil {
				t.Errorf("start failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if !svc.Active() {
		t.Fatalf("loop should be running after the racing starts settle")
	}
	svc.Stop()
	if svc.Active() {
		t.Fatalf("stop did not settle the loop")
	}
}

func TestStopHaltsCallbacks(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	svc := testService(source)
	rec := &snapshotRecorder{}

	if err := svc.Start([]string{"golang"}, testOptions(10*time.Millisecond), rec.callback); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	time.Sleep(35 * time.Millisecond)
	svc.Stop()
	after := rec.count()
	if after == 0 {
		t.Fatalf("expected at least the synchronous cycle")
	}

	time.Sleep(50 * time.Millisecond)
	if rec.count() != after {
		t.Fatalf("callbacks continued after stop: %d -> %d", after, rec.count())
	}

	// Second stop is a no-op
	svc.Stop()
}

func TestPartialChannelFailure(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	source.posts["golang"] = []redditDomain.Post{{ID: "p1", Subreddit: "golang"}}
	source.failing["rust"] = true
	svc := testService(source)
	rec := &snapshotRecorder{}

	if err := svc.Start([]string{"rust", "golang"}, testOptions(time.Hour), rec.callback); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer svc.Stop()

	if rec.count() != 1 {
		t.Fatalf("failing channel must not suppress the snapshot, got %d", rec.count())
	}
	snap := rec.last()
	if len(snap.Posts) != 1 || snap.Posts[0].Subreddit != "golang" {
		t.Fatalf("healthy channel's items missing: %+v", snap)
	}
}

func TestCycleMergesChannels(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	source.posts["golang"] = []redditDomain.Post{
		{ID: "p1", Subreddit: "golang", URL: "https://i.redd.it/shot.png"},
		{ID: "p2", Subreddit: "golang", URL: "https://example.com/article"},
	}
	source.comments["golang"] = []redditDomain.Comment{
		{ID: "c1", Subreddit: "golang", PostID: "p1", Body: "nice"},
	}
	svc := testService(source)
	rec := &snapshotRecorder{}

	if err := svc.Start([]string{"golang"}, testOptions(time.Hour), rec.callback); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer svc.Stop()

	snap := rec.last()
	if len(snap.Posts) != 2 || len(snap.Comments) != 1 {
		t.Fatalf("unexpected snapshot sizes: %d posts, %d comments", len(snap.Posts), len(snap.Comments))
	}
	if len(snap.Images) != 1 || snap.Images[0].URL != "https://i.redd.it/shot.png" {
		t.Fatalf("image extraction missing: %+v", snap.Images)
	}
	if len(snap.Links) != 1 || snap.Links[0].Domain != "example.com" {
		t.Fatalf("link extraction missing: %+v", snap.Links)
	}
	if snap.FetchedAt.IsZero() {
		t.Fatalf("snapshot should carry its fetch time")
	}
}

func TestModActionsStayEmpty(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	source.posts["golang"] = []redditDomain.Post{{ID: "p1"}}
	svc := testService(source)
	rec := &snapshotRecorder{}

	opts := testOptions(time.Hour)
	opts.IncludeModActions = true

	if err := svc.Start([]string{"golang"}, opts, rec.callback); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer svc.Stop()

	if len(rec.last().ModActions) != 0 {
		t.Fatalf("mod actions should be empty: %+v", rec.last().ModActions)
	}
}

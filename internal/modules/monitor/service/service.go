package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	contentDomain "github.com/copilotwatch/reddit-monitor/internal/modules/content/domain"
	contentService "github.com/copilotwatch/reddit-monitor/internal/modules/content/service"
	"github.com/copilotwatch/reddit-monitor/internal/modules/monitor/domain"
	redditDomain "github.com/copilotwatch/reddit-monitor/internal/modules/reddit/domain"
	sharederrors "github.com/copilotwatch/reddit-monitor/internal/shared/errors"
	"github.com/samber/oops"
)

// SocialSource is the slice of the Reddit gateway the loop consumes
type SocialSource interface {
	Ready() bool
	FetchPosts(ctx context.Context, subreddit string, opts redditDomain.FetchOptions) ([]redditDomain.Post, error)
	FetchComments(ctx context.Context, subreddit string, opts redditDomain.FetchOptions) ([]redditDomain.Comment, error)
}

// Callback receives the merged snapshot of each completed cycle
type Callback func(contentDomain.Snapshot)

// Service drives the aggregation loop: Idle -> Active -> Idle. At most one
// run exists per process and at most one cycle is in flight at a time; a
// cycle that overruns the interval delays the next tick instead of
// overlapping it.
type Service struct {
	source   SocialSource
	enricher *contentService.Service

	// startMu serializes whole Start calls: the WaitGroup must not be
	// re-armed while another caller's Stop is still waiting on it.
	startMu sync.Mutex

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
	active bool
}

// New creates an idle aggregation loop
func New(source SocialSource, enricher *contentService.Service) *Service {
	return &Service{source: source, enricher: enricher}
}

// Active reports whether the loop is running
func (s *Service) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Start transitions to Active, runs one cycle synchronously, then schedules
// recurring cycles. A prior run is stopped first.
func (s *Service) Start(channels []string, options domain.Options, callback Callback) error {
	if len(channels) == 0 {
		return oops.With("context", "no channels to monitor").Wrap(sharederrors.ErrValidation)
	}
	if !s.source.Ready() {
		return sharederrors.ErrGatewayNotReady
	}
	if options.Interval <= 0 {
		options.Interval = time.Minute
	}

	s.startMu.Lock()
	defer s.startMu.Unlock()

	s.Stop()

	s.mu.Lock()
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.active = true
	s.mu.Unlock()

	// First cycle runs before Start returns
	s.runCycle(ctx, channels, options, callback)

	s.wg.Add(1)
	go s.loop(ctx, channels, options, callback)

	slog.Info("Monitoring loop started", "channels", channels, "interval", options.Interval)
	return nil
}

// Stop transitions to Idle, cancelling the schedule and any in-flight
// outbound calls. Idempotent.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	slog.Info("Monitoring loop stopped")
}

func (s *Service) loop(ctx context.Context, channels []string, options domain.Options, callback Callback) {
	defer s.wg.Done()

	ticker := time.NewTicker(options.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runCycle(ctx, channels, options, callback)
		}
	}
}

// runCycle fetches and enriches every channel sequentially and hands the
// merged snapshot to the callback. A channel's failure is logged and does not
// stop the cycle from proceeding to the next channel.
func (s *Service) runCycle(ctx context.Context, channels []string, options domain.Options, callback Callback) {
	if ctx.Err() != nil {
		return
	}

	snapshot := contentDomain.Snapshot{FetchedAt: time.Now().UTC()}

	for _, channel := range channels {
		if ctx.Err() != nil {
			return
		}
		s.collectChannel(ctx, channel, options, &snapshot)
	}

	if ctx.Err() != nil {
		return
	}
	callback(snapshot)
}

func (s *Service) collectChannel(ctx context.Context, channel string, options domain.Options, snapshot *contentDomain.Snapshot) {
	// Bound each channel's pass so a hanging remote call cannot stall the
	// loop past one interval
	cctx, cancel := context.WithTimeout(ctx, options.Interval)
	defer cancel()

	fetchOpts := redditDomain.FetchOptions{Limit: options.Limit, Sort: options.Sort}

	posts, err := s.source.FetchPosts(cctx, channel, fetchOpts)
	if err != nil {
		slog.Error("Error fetching posts", "channel", channel, "error", err)
	}

	comments, err := s.source.FetchComments(cctx, channel, fetchOpts)
	if err != nil {
		slog.Error("Error fetching comments", "channel", channel, "error", err)
	}

	postItems := make([]contentDomain.ContentItem, 0, len(posts))
	for _, post := range posts {
		postItems = append(postItems, contentService.FromPost(post))
	}
	commentItems := make([]contentDomain.ContentItem, 0, len(comments))
	for _, comment := range comments {
		commentItems = append(commentItems, contentService.FromComment(comment))
	}

	if options.AnalyzeWithAI {
		postItems = s.enricher.EnrichText(cctx, postItems)
		commentItems = s.enricher.EnrichText(cctx, commentItems)
	}

	snapshot.Posts = append(snapshot.Posts, postItems...)
	snapshot.Comments = append(snapshot.Comments, commentItems...)

	if options.IncludeImages {
		snapshot.Images = append(snapshot.Images, s.enricher.EnrichImages(cctx, posts, options.AnalyzeWithAI)...)
	}
	if options.IncludeLinks {
		snapshot.Links = append(snapshot.Links, s.enricher.EnrichLinks(posts)...)
	}
	if options.IncludeModActions {
		snapshot.ModActions = append(snapshot.ModActions, s.fetchModActions(channel)...)
	}
}

// fetchModActions would read the moderation log; that endpoint needs
// moderator privileges the configured account does not hold, so cycles
// always carry an empty list.
func (s *Service) fetchModActions(channel string) []contentDomain.ModAction {
	slog.Debug("Mod action retrieval skipped", "channel", channel, "reason", "requires moderator privileges")
	return []contentDomain.ModAction{}
}

package session

import (
	"sort"
	"sync"
	"time"

	analysisDomain "github.com/copilotwatch/reddit-monitor/internal/modules/analysis/domain"
	contentDomain "github.com/copilotwatch/reddit-monitor/internal/modules/content/domain"
	"github.com/copilotwatch/reddit-monitor/internal/modules/monitor/domain"
)

// perCyclePick caps how many of a cycle's items enter the activity window
const perCyclePick = 20

// Registry is the process-wide monitoring session state. Exactly one session
// exists at a time; the aggregation loop and HTTP handlers touch it from
// different goroutines, so every access goes through the mutex.
type Registry struct {
	mu             sync.RWMutex
	active         bool
	startTime      time.Time
	lastUpdate     time.Time
	stats          domain.Stats
	subreddits     []string
	options        domain.Options
	recentActivity []contentDomain.ContentItem

	stagedSubreddits []string
	stagedOptions    *domain.Options
}

// NewRegistry creates an empty, inactive registry
func NewRegistry() *Registry {
	return &Registry{}
}

// StartSession activates a session. Starting while active is a no-op that
// reports the existing session (started=false).
func (r *Registry) StartSession(subreddits []string, options domain.Options) (started bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active {
		return false
	}

	r.active = true
	r.startTime = time.Now()
	r.lastUpdate = time.Now()
	r.stats = domain.Stats{}
	r.subreddits = append([]string(nil), subreddits...)
	r.options = options
	r.recentActivity = nil
	return true
}

// StopSession resets the registry to inactive. Idempotent.
func (r *Registry) StopSession() (stopped bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active {
		return false
	}
	r.active = false
	r.startTime = time.Time{}
	return true
}

// Active reports whether a session is running
func (r *Registry) Active() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Options returns the running session's options
func (r *Registry) Options() domain.Options {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.options
}

// Status returns the session view served by the status API. Pure read.
func (r *Registry) Status() domain.SessionStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	status := domain.SessionStatus{
		IsActive:   r.active,
		Stats:      r.stats,
		Subreddits: append([]string(nil), r.subreddits...),
	}
	if !r.lastUpdate.IsZero() {
		last := r.lastUpdate
		status.LastUpdate = &last
	}
	if r.active {
		start := r.startTime
		status.StartTime = &start
		status.UptimeMS = time.Since(r.startTime).Milliseconds()
	}
	return status
}

// RecordSnapshot folds one aggregation cycle's output into the rolling stats
// and the bounded recent-activity window.
func (r *Registry) RecordSnapshot(snap contentDomain.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastUpdate = time.Now()
	r.stats.TotalPosts += len(snap.Posts)
	r.stats.TotalComments += len(snap.Comments)
	r.stats.TotalImages += len(snap.Images)
	r.stats.TotalLinks += len(snap.Links)

	for _, img := range snap.Images {
		if img.Flagged() {
			r.stats.FlaggedContent++
		}
	}

	all := make([]contentDomain.ContentItem, 0, len(snap.Posts)+len(snap.Comments))
	all = append(all, snap.Posts...)
	all = append(all, snap.Comments...)

	for _, item := range all {
		if !item.Analyzed {
			continue
		}
		switch item.Sentiment {
		case analysisDomain.SentimentPositive:
			r.stats.SentimentBreakdown.Positive++
		case analysisDomain.SentimentNegative:
			r.stats.SentimentBreakdown.Negative++
		case analysisDomain.SentimentNeutral:
			r.stats.SentimentBreakdown.Neutral++
		}
	}

	// Newest first, capped per cycle, prepended, truncated to capacity
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if len(all) > perCyclePick {
		all = all[:perCyclePick]
	}

	r.recentActivity = append(all, r.recentActivity...)
	if len(r.recentActivity) > domain.RecentActivityCapacity {
		r.recentActivity = r.recentActivity[:domain.RecentActivityCapacity]
	}
}

// RecentActivity returns a copy of the activity window, newest first
func (r *Registry) RecentActivity() []contentDomain.ContentItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]contentDomain.ContentItem(nil), r.recentActivity...)
}

// StageConfig stores a configuration update. It is not applied to a running
// session; the next start picks it up.
func (r *Registry) StageConfig(subreddits []string, options *domain.Options) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(subreddits) > 0 {
		r.stagedSubreddits = append([]string(nil), subreddits...)
	}
	if options != nil {
		staged := *options
		r.stagedOptions = &staged
	}
}

// StagedConfig returns any pending configuration update
func (r *Registry) StagedConfig() ([]string, *domain.Options) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs := append([]string(nil), r.stagedSubreddits...)
	if r.stagedOptions == nil {
		return subs, nil
	}
	staged := *r.stagedOptions
	return subs, &staged
}

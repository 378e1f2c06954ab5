package domain

import (
	"time"

	redditDomain "github.com/copilotwatch/reddit-monitor/internal/modules/reddit/domain"
)

// RecentActivityCapacity bounds the rolling window of recent items
const RecentActivityCapacity = 50

// Options configure one monitoring run
type Options struct {
	IncludeImages     bool                   `json:"includeImages"`
	IncludeLinks      bool                   `json:"includeLinks"`
	IncludeModActions bool                   `json:"includeModActions"`
	AnalyzeWithAI     bool                   `json:"analyzeWithAI"`
	Interval          time.Duration          `json:"-"`
	IntervalMS        int64                  `json:"interval"`
	Limit             int                    `json:"limit"`
	Sort              redditDomain.SortOrder `json:"sort"`
}

// DefaultOptions mirror the reference dashboard defaults
func DefaultOptions(interval time.Duration) Options {
	return Options{
		IncludeImages:     true,
		IncludeLinks:      true,
		IncludeModActions: false,
		AnalyzeWithAI:     true,
		Interval:          interval,
		IntervalMS:        interval.Milliseconds(),
		Limit:             25,
		Sort:              redditDomain.SortOrderNew,
	}
}

// SentimentBreakdown tallies classified items per sentiment
type SentimentBreakdown struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Stats are the rolling counters of a monitoring session
type Stats struct {
	TotalPosts         int                `json:"totalPosts"`
	TotalComments      int                `json:"totalComments"`
	TotalImages        int                `json:"totalImages"`
	TotalLinks         int                `json:"totalLinks"`
	FlaggedContent     int                `json:"flaggedContent"`
	SentimentBreakdown SentimentBreakdown `json:"sentimentBreakdown"`
}

// SessionStatus is the read-only view served by the status API
type SessionStatus struct {
	IsActive   bool       `json:"isActive"`
	StartTime  *time.Time `json:"startTime,omitempty"`
	LastUpdate *time.Time `json:"lastUpdate,omitempty"`
	Stats      Stats      `json:"stats"`
	Subreddits []string   `json:"subreddits"`
	UptimeMS   int64      `json:"uptime"`
}

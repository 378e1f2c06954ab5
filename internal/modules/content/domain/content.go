package domain

import (
	"time"

	analysisDomain "github.com/copilotwatch/reddit-monitor/internal/modules/analysis/domain"
)

// ContentItem is a post or comment flowing through a monitoring cycle,
// optionally carrying AI classification. Analyzed is true exactly when both
// Sentiment and Toxicity were produced.
type ContentItem struct {
	ID        string    `json:"id"`
	Fullname  string    `json:"fullname"`
	Kind      ItemKind  `json:"kind"`
	Author    string    `json:"author"`
	Subreddit string    `json:"subreddit"`
	Title     string    `json:"title,omitempty"`
	Text      string    `json:"text"`
	ParentID  string    `json:"parent_id,omitempty"`
	Score     int       `json:"score"`
	Permalink string    `json:"permalink,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Analyzed  bool                     `json:"analyzed"`
	Sentiment analysisDomain.Sentiment `json:"sentiment,omitempty"`
	Toxicity  int                      `json:"toxicity,omitempty"`
}

// ImageItem is one extracted image with its moderation assessment. One record
// exists per extracted URL even when classification did not run; in that case
// every flag is false, confidence is 0 and AnalyzedAt is the zero time.
type ImageItem struct {
	URL         string                         `json:"url"`
	PostID      string                         `json:"post_id"`
	Subreddit   string                         `json:"subreddit"`
	Description string                         `json:"description,omitempty"`
	Tags        []string                       `json:"tags,omitempty"`
	Flags       analysisDomain.ModerationFlags `json:"moderation_flags"`
	Confidence  int                            `json:"confidence"`
	AnalyzedAt  time.Time                      `json:"analyzed_at,omitzero"`
}

// Flagged reports whether any moderation flag is raised
func (i ImageItem) Flagged() bool {
	return i.Flags.Any()
}

// LinkItem is an outbound link with best-effort safety defaults; nothing here
// is verified against a threat database.
type LinkItem struct {
	URL    string `json:"url"`
	PostID string `json:"post_id"`
	Domain string `json:"domain"`
	Safe   bool   `json:"safe"`
	Spam   bool   `json:"spam"`
}

// ModAction would be a moderator-log entry. Retrieval requires elevated
// privileges the service does not hold, so cycles always carry an empty list.
type ModAction struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Moderator string    `json:"moderator"`
	Target    string    `json:"target"`
	CreatedAt time.Time `json:"created_at"`
}

// Snapshot is the merged output of one aggregation cycle. Constructed fresh
// each cycle, never persisted by the loop itself.
type Snapshot struct {
	Posts      []ContentItem `json:"posts"`
	Comments   []ContentItem `json:"comments"`
	Images     []ImageItem   `json:"images"`
	Links      []LinkItem    `json:"links"`
	ModActions []ModAction   `json:"mod_actions"`
	FetchedAt  time.Time     `json:"fetched_at"`
}

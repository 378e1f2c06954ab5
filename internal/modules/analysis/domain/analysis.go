package domain

import "time"

// ModerationFlags are the four independent moderation concerns checked per image
type ModerationFlags struct {
	NSFW          bool `json:"nsfw"`
	Violence      bool `json:"violence"`
	Spam          bool `json:"spam"`
	Inappropriate bool `json:"inappropriate"`
}

// Any reports whether at least one moderation flag is raised
func (f ModerationFlags) Any() bool {
	return f.NSFW || f.Violence || f.Spam || f.Inappropriate
}

// ImageAnalysis is the structured result of classifying one image
type ImageAnalysis struct {
	Description string          `json:"description"`
	Sentiment   Sentiment       `json:"sentiment"`
	Tags        []string        `json:"tags"`
	Flags       ModerationFlags `json:"moderationFlags"`
	Confidence  int             `json:"confidence"`
}

// TextAnalysis is the structured result of classifying a post or comment body
type TextAnalysis struct {
	Sentiment   Sentiment `json:"sentiment"`
	Toxicity    int       `json:"toxicity"`
	Relevance   int       `json:"relevance"`
	Suggestions []string  `json:"suggestions"`
}

// TextContext carries the surrounding context of a text classification
type TextContext struct {
	Subreddit string
	PostTitle string
	IsComment bool
}

// ImageAnalysisRecord is a persisted image classification
type ImageAnalysisRecord struct {
	ID         string        `json:"id"`
	ImageURL   string        `json:"image_url"`
	PostID     string        `json:"post_id,omitempty"`
	Subreddit  string        `json:"subreddit,omitempty"`
	Analysis   ImageAnalysis `json:"analysis"`
	AnalyzedAt time.Time     `json:"analyzed_at"`
}

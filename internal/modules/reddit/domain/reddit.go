package domain

import "time"

// Post is a raw submission as fetched from a subreddit listing
type Post struct {
	ID          string    `json:"id"`
	Fullname    string    `json:"fullname"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Subreddit   string    `json:"subreddit"`
	SelfText    string    `json:"selftext"`
	URL         string    `json:"url"`
	Permalink   string    `json:"permalink"`
	Score       int       `json:"score"`
	NumComments int       `json:"num_comments"`
	PostHint    string    `json:"post_hint"`
	IsSelf      bool      `json:"is_self"`
	IsVideo     bool      `json:"is_video"`
	Over18      bool      `json:"over_18"`
	GalleryURLs []string  `json:"gallery_urls,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Comment is a raw comment as fetched from a subreddit comment stream
type Comment struct {
	ID        string    `json:"id"`
	Fullname  string    `json:"fullname"`
	Author    string    `json:"author"`
	Subreddit string    `json:"subreddit"`
	PostID    string    `json:"post_id"`
	Body      string    `json:"body"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// Reply is the confirmation returned after posting a reply
type Reply struct {
	ID        string `json:"id"`
	Fullname  string `json:"fullname"`
	Permalink string `json:"permalink"`
}

// FetchOptions parameterize a listing fetch
type FetchOptions struct {
	Limit     int
	Sort      SortOrder
	Timeframe string
}

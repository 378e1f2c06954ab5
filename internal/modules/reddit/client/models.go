package client

// Wire types for the Reddit JSON API.

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

type listingResponse struct {
	Kind string `json:"kind"`
	Data struct {
		After    string         `json:"after"`
		Children []listingChild `json:"children"`
	} `json:"data"`
}

type listingChild struct {
	Kind string    `json:"kind"`
	Data thingData `json:"data"`
}

// thingData covers both t3 (link) and t1 (comment) fields; Reddit returns a
// superset and we pick what each kind carries.
type thingData struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Subreddit   string  `json:"subreddit"`
	SelfText    string  `json:"selftext"`
	Body        string  `json:"body"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	LinkID      string  `json:"link_id"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	PostHint    string  `json:"post_hint"`
	IsSelf      bool    `json:"is_self"`
	IsVideo     bool    `json:"is_video"`
	Over18      bool    `json:"over_18"`
	IsGallery   bool    `json:"is_gallery"`

	MediaMetadata map[string]mediaMetadataItem `json:"media_metadata"`
	GalleryData   *galleryData                 `json:"gallery_data"`
}

type mediaMetadataItem struct {
	Status string `json:"status"`
	Source struct {
		URL string `json:"u"`
	} `json:"s"`
}

type galleryData struct {
	Items []struct {
		MediaID string `json:"media_id"`
	} `json:"items"`
}

type commentResponse struct {
	JSON struct {
		Errors [][]any `json:"errors"`
		Data   struct {
			Things []struct {
				Kind string `json:"kind"`
				Data struct {
					ID        string `json:"id"`
					Name      string `json:"name"`
					Permalink string `json:"permalink"`
				} `json:"data"`
			} `json:"things"`
		} `json:"data"`
	} `json:"json"`
}

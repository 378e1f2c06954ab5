package gateway

import (
	"errors"
	"testing"

	"github.com/copilotwatch/reddit-monitor/internal/modules/analysis/domain"
	sharederrors "github.com/copilotwatch/reddit-monitor/internal/shared/errors"
)

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "bare object",
			input: `{"a":1}`,
			want:  `{"a":1}`,
		},
		{
			name:  "fenced json",
			input: "```json\n{\"a\":1}\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "fenced without language",
			input: "```\n{\"a\":1}\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "surrounding prose",
			input: "Here is the result: {\"a\":1} hope that helps",
			want:  `{"a":1}`,
		},
		{
			name:    "no object",
			input:   "I cannot analyze this image.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON(tt.input)
			if tt.wantErr {
				if !errors.Is(err, sharederrors.ErrMalformedResponse) {
					t.Fatalf("err = %v, want ErrMalformedResponse", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseImageAnalysis(t *testing.T) {
	t.Parallel()

	text := "```json\n" + `{
		"description": "a cat on a keyboard",
		"sentiment": "positive",
		"tags": ["cat", "keyboard"],
		"moderationFlags": {"nsfw": false, "violence": false, "spam": false, "inappropriate": false},
		"confidence": 93
	}` + "\n```"

	result, err := parseImageAnalysis(text)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if result.Description != "a cat on a keyboard" || result.Sentiment != domain.SentimentPositive {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Flags.Any() {
		t.Fatalf("no flag should be raised: %+v", result.Flags)
	}
	if result.Confidence != 93 {
		t.Fatalf("confidence = %d, want 93", result.Confidence)
	}
}

func TestParseImageAnalysisRejectsBadSchema(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"invalid sentiment", `{"sentiment": "ecstatic", "confidence": 50}`},
		{"confidence out of range", `{"sentiment": "neutral", "confidence": 140}`},
		{"not json", `{"sentiment": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseImageAnalysis(tt.input); !errors.Is(err, sharederrors.ErrMalformedResponse) {
				t.Fatalf("err = %v, want ErrMalformedResponse", err)
			}
		})
	}
}

func TestParseImageAnalysisTruncatesTags(t *testing.T) {
	t.Parallel()

	input := `{"sentiment": "neutral", "confidence": 10, "tags":
		["a","b","c","d","e","f","g","h","i","j","k","l"]}`

	result, err := parseImageAnalysis(input)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(result.Tags) != maxTags {
		t.Fatalf("tags = %d, want %d", len(result.Tags), maxTags)
	}
}

func TestParseTextAnalysis(t *testing.T) {
	t.Parallel()

	result, err := parseTextAnalysis(`{"sentiment": "negative", "toxicity": 75, "relevance": 40, "suggestions": ["remove"]}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if result.Sentiment != domain.SentimentNegative || result.Toxicity != 75 || result.Relevance != 40 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestParseTextAnalysisRange(t *testing.T) {
	t.Parallel()

	if _, err := parseTextAnalysis(`{"sentiment": "neutral", "toxicity": -3, "relevance": 0}`); !errors.Is(err, sharederrors.ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
	if _, err := parseTextAnalysis(`{"sentiment": "neutral", "toxicity": 0, "relevance": 400}`); !errors.Is(err, sharederrors.ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestResultCacheEviction(t *testing.T) {
	t.Parallel()

	cache := newResultCache(2)

	cache.putImage("u1", &domain.ImageAnalysis{Description: "one"})
	cache.putImage("u2", &domain.ImageAnalysis{Description: "two"})
	cache.putImage("u3", &domain.ImageAnalysis{Description: "three"})

	if _, ok := cache.getImage("u1"); ok {
		t.Fatalf("oldest entry should have been evicted")
	}
	if v, ok := cache.getImage("u3"); !ok || v.Description != "three" {
		t.Fatalf("newest entry missing")
	}
}

func TestResultCacheOverwriteKeepsCapacity(t *testing.T) {
	t.Parallel()

	cache := newResultCache(2)

	cache.putImage("u1", &domain.ImageAnalysis{Description: "one"})
	cache.putImage("u2", &domain.ImageAnalysis{Description: "two"})

	// Re-storing an existing key must not evict anything
	cache.putImage("u1", &domain.ImageAnalysis{Description: "one again"})

	if v, ok := cache.getImage("u1"); !ok || v.Description != "one again" {
		t.Fatalf("overwrite lost: %+v", v)
	}
	if _, ok := cache.getImage("u2"); !ok {
		t.Fatalf("overwrite must not consume a capacity slot")
	}
}

func TestTextCacheKeyDependsOnContext(t *testing.T) {
	t.Parallel()

	a := textCacheKey("hello", domain.TextContext{Subreddit: "golang"})
	b := textCacheKey("hello", domain.TextContext{Subreddit: "rust"})
	if a == b {
		t.Fatalf("keys should differ per subreddit")
	}
	if a != textCacheKey("hello", domain.TextContext{Subreddit: "golang"}) {
		t.Fatalf("key should be deterministic")
	}

	post := textCacheKey("hello", domain.TextContext{Subreddit: "golang", IsComment: false})
	comment := textCacheKey("hello", domain.TextContext{Subreddit: "golang", IsComment: true})
	if post == comment {
		t.Fatalf("posts and comments use different prompts and must not share a key")
	}
}

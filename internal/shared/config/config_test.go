package config

import "testing"

func TestParseSubreddits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", []string{}},
		{"single", "golang", []string{"golang"}},
		{"comma separated with spaces", "golang, rust ,programming", []string{"golang", "rust", "programming"}},
		{"r prefix stripped", "r/golang,r/rust", []string{"golang", "rust"}},
		{"blank entries dropped", "golang,,  ,rust", []string{"golang", "rust"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSubreddits(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("got[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestHasRedditCredentials(t *testing.T) {
	t.Parallel()

	full := Config{
		RedditClientID:     "id",
		RedditClientSecret: "secret",
		RedditUserAgent:    "agent",
		RedditUsername:     "user",
		RedditPassword:     "pass",
	}
	if !full.HasRedditCredentials() {
		t.Fatalf("complete credentials should pass")
	}

	partial := full
	partial.RedditPassword = ""
	if partial.HasRedditCredentials() {
		t.Fatalf("partial credentials should fail")
	}
}

func TestHasTelegramCredentials(t *testing.T) {
	t.Parallel()

	cfg := Config{TelegramBotToken: "token", TelegramChatID: 42}
	if !cfg.HasTelegramCredentials() {
		t.Fatalf("complete credentials should pass")
	}

	cfg.TelegramChatID = 0
	if cfg.HasTelegramCredentials() {
		t.Fatalf("missing chat id should fail")
	}
}

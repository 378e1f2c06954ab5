package gateway

import (
	"testing"

	"google.golang.org/genai"
)

func TestResponseText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result *genai.GenerateContentResponse
		want   string
		wantOK bool
	}{
		{
			name:   "nil response",
			result: nil,
		},
		{
			name:   "no candidates",
			result: &genai.GenerateContentResponse{},
		},
		{
			name: "safety blocked leaves content nil",
			result: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{
					{FinishReason: genai.FinishReasonSafety},
				},
			},
		},
		{
			name: "content without parts",
			result: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{
					{Content: &genai.Content{}},
				},
			},
		},
		{
			name: "empty text part",
			result: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{
					{Content: &genai.Content{Parts: []*genai.Part{{}}}},
				},
			},
		},
		{
			name: "text part",
			result: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{
					{Content: &genai.Content{Parts: []*genai.Part{{Text: `{"a":1}`}}}},
				},
			},
			want:   `{"a":1}`,
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := responseText(tt.result)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Fatalf("text = %q, want %q", got, tt.want)
			}
		})
	}
}

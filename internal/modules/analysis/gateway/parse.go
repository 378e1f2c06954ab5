package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/copilotwatch/reddit-monitor/internal/modules/analysis/domain"
	sharederrors "github.com/copilotwatch/reddit-monitor/internal/shared/errors"
)

const maxTags = 10

// extractJSON pulls the first JSON object out of model output, tolerating
// markdown code fences and surrounding prose.
func extractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("%w: no JSON object in output", sharederrors.ErrMalformedResponse)
	}
	return text[start : end+1], nil
}

func parseImageAnalysis(text string) (*domain.ImageAnalysis, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	var result domain.ImageAnalysis
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", sharederrors.ErrMalformedResponse, err)
	}

	if !result.Sentiment.IsValid() {
		return nil, fmt.Errorf("%w: invalid sentiment %q", sharederrors.ErrMalformedResponse, result.Sentiment)
	}
	if result.Confidence < 0 || result.Confidence > 100 {
		return nil, fmt.Errorf("%w: confidence %d out of range", sharederrors.ErrMalformedResponse, result.Confidence)
	}
	if len(result.Tags) > maxTags {
		result.Tags = result.Tags[:maxTags]
	}
	return &result, nil
}

func parseTextAnalysis(text string) (*domain.TextAnalysis, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	var result domain.TextAnalysis
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", sharederrors.ErrMalformedResponse, err)
	}

	if !result.Sentiment.IsValid() {
		return nil, fmt.Errorf("%w: invalid sentiment %q", sharederrors.ErrMalformedResponse, result.Sentiment)
	}
	if result.Toxicity < 0 || result.Toxicity > 100 {
		return nil, fmt.Errorf("%w: toxicity %d out of range", sharederrors.ErrMalformedResponse, result.Toxicity)
	}
	if result.Relevance < 0 || result.Relevance > 100 {
		return nil, fmt.Errorf("%w: relevance %d out of range", sharederrors.ErrMalformedResponse, result.Relevance)
	}
	return &result, nil
}

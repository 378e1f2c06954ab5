package gateway

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/copilotwatch/reddit-monitor/internal/modules/analysis/domain"
	"github.com/copilotwatch/reddit-monitor/internal/shared/config"
	sharederrors "github.com/copilotwatch/reddit-monitor/internal/shared/errors"
	"github.com/samber/oops"
	"google.golang.org/genai"
)

const maxImageBytes = 8 << 20

// Gateway wraps the Gemini generative AI service for content classification.
// A Gateway constructed without an API key is permanently not ready; callers
// must consult Ready before invoking classification.
type Gateway struct {
	client     *genai.Client
	httpClient *http.Client
	models     []string
	cache      *resultCache
	ready      bool
}

// New builds the gateway. Missing credentials are not an error: the gateway
// simply never becomes ready and every call fails with ErrGatewayNotReady.
func New(ctx context.Context, cfg *config.Config) *Gateway {
	g := &Gateway{
		httpClient: &http.Client{Timeout: time.Duration(cfg.RequestTimeout) * time.Second},
		models:     []string{"gemini-2.5-flash", "gemini-2.5-flash-lite"},
	}
	if cfg.AnalysisCacheSize > 0 {
		g.cache = newResultCache(cfg.AnalysisCacheSize)
	}

	if cfg.GeminiAPIKey == "" {
		slog.Warn("Gemini API key missing, AI analysis gateway disabled")
		return g
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.GeminiAPIKey})
	if err != nil {
		slog.Error("Failed to initialize Gemini client", "error", err)
		return g
	}

	g.client = client
	g.ready = true
	slog.Info("Gemini client initialized")
	return g
}

// Ready reports whether the gateway finished initializing. Idempotent.
func (g *Gateway) Ready() bool {
	return g.ready && g.client != nil
}

// AnalyzeImage downloads the image and asks Gemini for a moderation assessment
func (g *Gateway) AnalyzeImage(ctx context.Context, imageURL string) (*domain.ImageAnalysis, error) {
	if !g.Ready() {
		return nil, sharederrors.ErrGatewayNotReady
	}

	if g.cache != nil {
		if cached, ok := g.cache.getImage(imageURL); ok {
			return cached, nil
		}
	}

	data, mimeType, err := g.fetchImage(ctx, imageURL)
	if err != nil {
		return nil, oops.With("image_url", imageURL).Wrap(err)
	}

	prompt := `Analyze this image and provide a comprehensive assessment for Reddit content moderation:

1. Describe what you see in the image (2-3 sentences)
2. Determine the overall sentiment (positive, negative, or neutral)
3. List relevant tags/categories (max 10)
4. Check for moderation concerns:
   - NSFW content (nudity, sexual content)
   - Violence or disturbing content
   - Spam or promotional content
   - Inappropriate content for general audiences
5. Provide a confidence score (0-100) for your analysis

Format your response as JSON:
{
  "description": "...",
  "sentiment": "positive|negative|neutral",
  "tags": ["tag1", "tag2"],
  "moderationFlags": {"nsfw": false, "violence": false, "spam": false, "inappropriate": false},
  "confidence": 0
}`

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(data, mimeType),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	text, err := g.generateWithFallback(ctx, contents)
	if err != nil {
		return nil, oops.With("image_url", imageURL).Wrap(fmt.Errorf("%w: %w", sharederrors.ErrRemoteService, err))
	}

	result, err := parseImageAnalysis(text)
	if err != nil {
		return nil, oops.With("image_url", imageURL).Wrap(err)
	}

	if g.cache != nil {
		g.cache.putImage(imageURL, result)
	}
	return result, nil
}

// AnalyzeText classifies a post or comment body in its subreddit context
func (g *Gateway) AnalyzeText(ctx context.Context, text string, tctx domain.TextContext) (*domain.TextAnalysis, error) {
	if !g.Ready() {
		return nil, sharederrors.ErrGatewayNotReady
	}

	cacheKey := textCacheKey(text, tctx)
	if g.cache != nil {
		if cached, ok := g.cache.getText(cacheKey); ok {
			return cached, nil
		}
	}

	kind := "post"
	if tctx.IsComment {
		kind = "comment"
	}
	var title string
	if tctx.PostTitle != "" {
		title = fmt.Sprintf("Post title: %q\n", tctx.PostTitle)
	}

	prompt := fmt.Sprintf(`Analyze this %s from r/%s:
%s
Content: %q

Provide analysis for Reddit moderation:
1. Sentiment (positive, negative, neutral)
2. Toxicity score (0-100, where 100 is most toxic)
3. Relevance to GitHub Copilot/programming (0-100)
4. Moderation suggestions

Response as JSON:
{"sentiment": "positive|negative|neutral", "toxicity": 0, "relevance": 0, "suggestions": []}`,
		kind, tctx.Subreddit, title, text)

	raw, err := g.generateWithFallback(ctx, genai.Text(prompt))
	if err != nil {
		return nil, oops.With("subreddit", tctx.Subreddit).Wrap(fmt.Errorf("%w: %w", sharederrors.ErrRemoteService, err))
	}

	result, err := parseTextAnalysis(raw)
	if err != nil {
		return nil, oops.With("subreddit", tctx.Subreddit).Wrap(err)
	}

	if g.cache != nil {
		g.cache.putText(cacheKey, result)
	}
	return result, nil
}

// generateWithFallback walks the model list until one answers. Rate-limit and
// not-found errors move on to the next model; anything else returns as-is.
func (g *Gateway) generateWithFallback(ctx context.Context, contents []*genai.Content) (string, error) {
	var lastErr error
	for _, model := range g.models {
		result, err := g.client.Models.GenerateContent(ctx, model, contents, nil)
		if err != nil {
			errStr := strings.ToLower(err.Error())
			if strings.Contains(errStr, "429") || strings.Contains(errStr, "rate limit") ||
				strings.Contains(errStr, "exhausted") || strings.Contains(errStr, "404") ||
				strings.Contains(errStr, "not found") {
				lastErr = err
				continue
			}
			return "", err
		}

		if text, ok := responseText(result); ok {
			return text, nil
		}
		lastErr = oops.Errorf("empty response from model %s", model)
	}
	return "", oops.With("models", g.models).Errorf("all models failed: %v", lastErr)
}

// responseText extracts the first candidate's text. Safety-blocked finishes
// carry a nil Content, which counts as an empty response, not a panic.
func responseText(result *genai.GenerateContentResponse) (string, bool) {
	if result == nil || len(result.Candidates) == 0 {
		return "", false
	}
	candidate := result.Candidates[0]
	if candidate == nil || candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", false
	}
	part := candidate.Content.Parts[0]
	if part == nil || part.Text == "" {
		return "", false
	}
	return part.Text, true
}

func (g *Gateway) fetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", oops.Wrap(err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, "", oops.Wrap(fmt.Errorf("%w: %w", sharederrors.ErrRemoteService, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", oops.With("status", resp.StatusCode).Wrap(fmt.Errorf("%w: failed to fetch image: %s", sharederrors.ErrRemoteService, resp.Status))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", oops.Wrap(err)
	}

	mimeType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/jpeg"
	}
	return data, mimeType, nil
}

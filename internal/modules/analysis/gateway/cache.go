package gateway

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/copilotwatch/reddit-monitor/internal/modules/analysis/domain"
)

// resultCache is a size-capped FIFO cache for classification results. Every
// call otherwise re-invokes the remote service, so even a small cache removes
// repeat work when the same image URL shows up across cycles.
type resultCache struct {
	mu     sync.Mutex
	cap    int
	order  []string
	images map[string]*domain.ImageAnalysis
	texts  map[string]*domain.TextAnalysis
}

func newResultCache(capacity int) *resultCache {
	return &resultCache{
		cap:    capacity,
		images: make(map[string]*domain.ImageAnalysis),
		texts:  make(map[string]*domain.TextAnalysis),
	}
}

func (c *resultCache) getImage(key string) (*domain.ImageAnalysis, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.images["img:"+key]
	return v, ok
}

func (c *resultCache) putImage(key string, v *domain.ImageAnalysis) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put("img:"+key, func(k string) { c.images[k] = v })
}

func (c *resultCache) getText(key string) (*domain.TextAnalysis, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.texts["txt:"+key]
	return v, ok
}

func (c *resultCache) putText(key string, v *domain.TextAnalysis) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put("txt:"+key, func(k string) { c.texts[k] = v })
}

// put must be called with the lock held
func (c *resultCache) put(key string, store func(string)) {
	// Overwriting an existing key must not consume another order slot
	if _, ok := c.images[key]; ok {
		store(key)
		return
	}
	if _, ok := c.texts[key]; ok {
		store(key)
		return
	}

	if len(c.order) >= c.cap {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.images, oldest)
		delete(c.texts, oldest)
	}
	c.order = append(c.order, key)
	store(key)
}

func textCacheKey(text string, tctx domain.TextContext) string {
	kind := "post"
	if tctx.IsComment {
		kind = "comment"
	}
	h := sha256.Sum256([]byte(tctx.Subreddit + "\x00" + tctx.PostTitle + "\x00" + kind + "\x00" + text))
	return hex.EncodeToString(h[:])
}

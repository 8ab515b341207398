package report

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

// PageCache keeps rendered pages for a short while, keyed by the data they show.
type PageCache struct {
	ttl   time.Duration
	clock backoffice.Clock

	mu    sync.Mutex
	pages map[string]cachedPage
}

type cachedPage struct {
	html    string
	expires time.Time
}

// NewPageCache builds a cache; a non-positive ttl disables it.
func NewPageCache(ttl time.Duration, clock backoffice.Clock) *PageCache {
	if clock == nil {
		clock = backoffice.SystemClock()
	}
	return &PageCache{ttl: ttl, clock: clock, pages: map[string]cachedPage{}}
}

// GetOrRender returns the live page for key or renders and stores a new one.
// Render errors are never cached.
func (c *PageCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if html, ok := c.get(key); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	c.set(key, html)
	return html, nil
}

// Len reports how many pages are held, expired ones included.
func (c *PageCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pages)
}

func (c *PageCache) get(key string) (string, bool) {
	if c == nil || c.ttl <= 0 {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	page, ok := c.pages[key]
	if !ok {
		return "", false
	}
	if !c.clock.Now().Before(page.expires) {
		delete(c.pages, key)
		return "", false
	}
	return page.html, true
}

func (c *PageCache) set(key, html string) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.pages[key] = cachedPage{html: html, expires: c.clock.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// dataKey hashes the JSON form of the values a page is drawn from.
func dataKey(values ...any) string {
	b, err := json.Marshal(values)
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}

package feed

import (
	"context"
	"image"
	"log/slog"
	"sync"

	"github.com/pthm-cable/nebula/systems"
)

// AvatarCache fetches and decodes avatar images in the background.
// Entries are square thumbnails; the oldest entry is evicted once the cache is full.
type AvatarCache struct {
	ctx     context.Context
	fetcher Fetcher
	size    int
	thumb   int
	logger  *slog.Logger

	// Spawn runs a load. Defaults to a new goroutine.
	Spawn func(func())

	mu      sync.Mutex
	entries map[string]*image.NRGBA // nil while loading or after a failure
	order   []string
}

// NewAvatarCache creates a cache holding up to size thumbnails of thumb×thumb pixels.
// Loads stop when ctx is cancelled.
func NewAvatarCache(ctx context.Context, fetcher Fetcher, size, thumb int, logger *slog.Logger) *AvatarCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &AvatarCache{
		ctx:     ctx,
		fetcher: fetcher,
		size:    max(size, 1),
		thumb:   max(thumb, 1),
		logger:  logger,
		Spawn:   func(f func()) { go f() },
		entries: make(map[string]*image.NRGBA),
	}
}

// Get returns the thumbnail for url if it is loaded, and starts a load otherwise.
// Concurrent requests for the same url share one load; failed urls are not retried.
func (c *AvatarCache) Get(url string) (*image.NRGBA, bool) {
	if url == "" {
		return nil, false
	}

	c.mu.Lock()
	img, ok := c.entries[url]
	if ok {
		c.mu.Unlock()
		return img, img != nil
	}
	c.evictLocked()
	c.entries[url] = nil
	c.order = append(c.order, url)
	c.mu.Unlock()

	c.Spawn(func() { c.load(url) })
	return nil, false
}

// Len returns the number of cached or pending entries.
func (c *AvatarCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *AvatarCache) load(url string) {
	data, err := c.fetcher.Fetch(c.ctx, url)
	var thumb *image.NRGBA
	if err == nil {
		var img image.Image
		img, err = systems.DecodeImage(data)
		if err == nil {
			thumb = systems.Rasterize(img, c.thumb, c.thumb)
		}
	}
	if err != nil && c.ctx.Err() == nil {
		c.logger.Warn("avatar load failed", "url", url, "error", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// The entry may have been evicted while loading
	if _, ok := c.entries[url]; ok {
		c.entries[url] = thumb
	}
}

func (c *AvatarCache) evictLocked() {
	for len(c.entries) >= c.size && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

package content

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rpupo63/portfolio-site/models"
)

// Site is everything the public home page renders.
type Site struct {
	Projects     []models.Project
	Technologies []models.Technology
	Experiences  []models.Experience
	LoadedAt     time.Time
}

// SiteCache serves the public pages from a snapshot that is considered fresh for ttl. The first
// request after expiry reloads synchronously; concurrent reloads share one backend round trip.
type SiteCache struct {
	loader *Loader
	ttl    time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	current *Site
	group   singleflight.Group
}

func NewSiteCache(loader *Loader, ttl time.Duration) *SiteCache {
	return &SiteCache{loader: loader, ttl: ttl, now: time.Now}
}

func (c *SiteCache) Get(ctx context.Context) Site {
	c.mu.RLock()
	current := c.current
	c.mu.RUnlock()
	if current != nil && c.now().Sub(current.LoadedAt) < c.ttl {
		return *current
	}

	// Shared by every waiting caller, so it must outlive the request that started it.
	ctx = context.WithoutCancel(ctx)
	v, _, _ := c.group.Do("site", func() (any, error) {
		site := &Site{
			Projects:     c.loader.Projects(ctx),
			Technologies: c.loader.Technologies(ctx),
			Experiences:  c.loader.Experiences(ctx),
			LoadedAt:     c.now(),
		}
		c.mu.Lock()
		c.current = site
		c.mu.Unlock()
		return site, nil
	})
	return *v.(*Site)
}

// Invalidate drops the snapshot so the next Get reloads.
func (c *SiteCache) Invalidate() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}

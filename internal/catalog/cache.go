package catalog

import (
	"context"
	"sync"
	"time"

	"community-sport/backend/internal/domain/faq"
	"community-sport/backend/internal/domain/program"
	"community-sport/backend/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const DefaultTTL = 5 * time.Minute

var cacheRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_cache_requests_total",
		Help: "Catalog cache lookups by collection and result",
	},
	[]string{"collection", "result"},
)

type ProgramSource interface {
	List(ctx context.Context) ([]program.Program, error)
	Get(ctx context.Context, programID string) (*program.Program, error)
}

type FaqSource interface {
	List(ctx context.Context) ([]faq.Faq, error)
}

type entry[T any] struct {
	items     []T
	fetchedAt time.Time
	loaded    bool
}

func (e entry[T]) fresh(now time.Time, ttl time.Duration) bool {
	return e.loaded && now.Sub(e.fetchedAt) < ttl
}

// Cache keeps the program and FAQ collections in memory for a fixed window
// after each successful fetch. Callers must treat returned slices as read-only.
type Cache struct {
	programs ProgramSource
	faqs     FaqSource
	ttl      time.Duration
	log      *logger.Logger
	now      func() time.Time

	mu         sync.RWMutex
	generation uint64
	programSet entry[program.Program]
	faqSet     entry[faq.Faq]
}

func NewCache(programs ProgramSource, faqs FaqSource, ttl time.Duration, log *logger.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		programs: programs,
		faqs:     faqs,
		ttl:      ttl,
		log:      log,
		now:      time.Now,
	}
}

func (c *Cache) Programs(ctx context.Context) ([]program.Program, error) {
	c.mu.RLock()
	cached, gen := c.programSet, c.generation
	c.mu.RUnlock()

	if cached.fresh(c.now(), c.ttl) {
		cacheRequests.WithLabelValues("programs", "hit").Inc()
		return cached.items, nil
	}
	cacheRequests.WithLabelValues("programs", "miss").Inc()

	c.log.DebugContext(ctx, "Fetching programs from Firestore")
	items, err := c.programs.List(ctx)
	if err != nil {
		c.log.ErrorContext(ctx, "Error fetching programs from Firestore", "error", err)
		return nil, err
	}

	c.mu.Lock()
	// A Clear during the fetch means items may predate a write.
	if c.generation == gen {
		c.programSet = entry[program.Program]{items: items, fetchedAt: c.now(), loaded: true}
	}
	c.mu.Unlock()

	c.log.DebugContext(ctx, "Loaded programs from Firestore", "count", len(items))
	return items, nil
}

func (c *Cache) Faqs(ctx context.Context) ([]faq.Faq, error) {
	c.mu.RLock()
	cached, gen := c.faqSet, c.generation
	c.mu.RUnlock()

	if cached.fresh(c.now(), c.ttl) {
		cacheRequests.WithLabelValues("faqs", "hit").Inc()
		return cached.items, nil
	}
	cacheRequests.WithLabelValues("faqs", "miss").Inc()

	items, err := c.faqs.List(ctx)
	if err != nil {
		c.log.ErrorContext(ctx, "Error fetching FAQs from Firestore", "error", err)
		return nil, err
	}

	c.mu.Lock()
	if c.generation == gen {
		c.faqSet = entry[faq.Faq]{items: items, fetchedAt: c.now(), loaded: true}
	}
	c.mu.Unlock()

	c.log.DebugContext(ctx, "Loaded FAQs from Firestore", "count", len(items))
	return items, nil
}

// Program serves id from the cached list when it is fresh, otherwise reads
// the single document. Point reads never populate the cache.
func (c *Cache) Program(ctx context.Context, programID string) (*program.Program, error) {
	c.mu.RLock()
	cached := c.programSet
	c.mu.RUnlock()

	if cached.fresh(c.now(), c.ttl) {
		for i := range cached.items {
			if cached.items[i].ID == programID {
				cacheRequests.WithLabelValues("program", "hit").Inc()
				p := cached.items[i]
				return &p, nil
			}
		}
	}
	cacheRequests.WithLabelValues("program", "miss").Inc()

	return c.programs.Get(ctx, programID)
}

// Clear evicts both collections.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.generation++
	c.programSet = entry[program.Program]{}
	c.faqSet = entry[faq.Faq]{}
	c.mu.Unlock()

	c.log.Debug("Catalog cache cleared")
}

package reservation

import (
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/afpthedev/smyapp/internal/model"
)

// SummaryCache holds customer reservation summaries. Any reservation write
// evicts every entry. The generation counter keeps a summary that was being
// computed while a write happened from being stored afterwards.
type SummaryCache struct {
	mu         sync.Mutex
	generation uint64
	entries    *gocache.Cache
}

func NewSummaryCache(ttl, cleanupInterval time.Duration) *SummaryCache {
	return &SummaryCache{entries: gocache.New(ttl, cleanupInterval)}
}

func (c *SummaryCache) Get(customerID int64) (*model.CustomerReservationSummary, bool) {
	v, ok := c.entries.Get(key(customerID))
	if !ok {
		return nil, false
	}
	return cloneSummary(v.(*model.CustomerReservationSummary)), true
}

// Generation returns the token to pass to Put for a summary about to be computed.
func (c *SummaryCache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Put stores summary unless the cache was evicted since generation was read.
func (c *SummaryCache) Put(customerID int64, summary *model.CustomerReservationSummary, generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return false
	}
	c.entries.SetDefault(key(customerID), cloneSummary(summary))
	return true
}

func (c *SummaryCache) EvictAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.entries.Flush()
}

func cloneSummary(s *model.CustomerReservationSummary) *model.CustomerReservationSummary {
	out := *s
	out.LastReservationDate = cloneTime(s.LastReservationDate)
	out.NextReservationDate = cloneTime(s.NextReservationDate)
	return &out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func key(customerID int64) string {
	return strconv.FormatInt(customerID, 10)
}

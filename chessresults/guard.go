package chessresults

import "sync"

// ScrapeGuard tracks which upstream scrapes are in flight so the slow,
// rate-limited site is never hit twice concurrently for the same
// tournament. A second caller is rejected immediately, not queued; it is
// expected to retry after RetryCooldown.
type ScrapeGuard struct {
	mu       sync.Mutex
	inFlight map[string]bool
}

func NewScrapeGuard() *ScrapeGuard {
	return &ScrapeGuard{
		inFlight: make(map[string]bool),
	}
}

// TryAcquire marks key as in flight. It returns false if a scrape for the
// same key is already outstanding.
func (g *ScrapeGuard) TryAcquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.inFlight[key] {
		return false
	}
	g.inFlight[key] = true
	return true
}

// Release clears the in-flight marker. It must run on every exit path of a
// scrape, success or failure.
func (g *ScrapeGuard) Release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.inFlight, key)
}

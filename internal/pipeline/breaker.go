package pipeline

import "sync"

// DefaultFailureThreshold is how many consecutive enrichment failures are
// tolerated before detail fetching stops for the rest of the run.
const DefaultFailureThreshold = 3

// Breaker tracks consecutive detail-enrichment failures across one run.
// Once the threshold is reached it opens and stays open; a run of failures
// usually means the upstream has started blocking, and further requests
// only make that worse. Safe for concurrent use.
type Breaker struct {
	mu        sync.Mutex
	threshold int
	failures  int
	open      bool
}

// NewBreaker creates a breaker that opens after threshold consecutive
// failures. Non-positive thresholds fall back to the default.
func NewBreaker(threshold int) *Breaker {
	if threshold <= 0 {
		threshold = DefaultFailureThreshold
	}
	return &Breaker{threshold: threshold}
}

// Success resets the consecutive-failure count.
func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.open {
		b.failures = 0
	}
}

// Failure records one failed enrichment. It returns true exactly once, at
// the moment the threshold is crossed and the breaker opens.
func (b *Breaker) Failure() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.open {
		return false
	}
	b.failures++
	if b.failures >= b.threshold {
		b.open = true
		return true
	}
	return false
}

// Open reports whether the breaker has opened.
func (b *Breaker) Open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

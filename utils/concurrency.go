package utils

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// WorkerPool runs submitted jobs on a fixed number of goroutines that drain a
// shared job queue. An optional limiter spaces out job starts.
type WorkerPool struct {
	maxWorkers int
	limiter    *rate.Limiter
	jobs       chan func()
	wg         sync.WaitGroup
	workers    sync.WaitGroup
	closeOnce  sync.Once
}

// NewWorkerPool starts maxWorkers goroutines. rateLimitMs is the minimum gap
// between job starts; zero disables spacing.
func NewWorkerPool(maxWorkers, rateLimitMs int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	wp := &WorkerPool{
		maxWorkers: maxWorkers,
		jobs:       make(chan func()),
	}
	if rateLimitMs > 0 {
		wp.limiter = rate.NewLimiter(rate.Every(time.Duration(rateLimitMs)*time.Millisecond), 1)
	}

	wp.workers.Add(maxWorkers)
	for i := 0; i < maxWorkers; i++ {
		go wp.run()
	}
	return wp
}

func (wp *WorkerPool) run() {
	defer wp.workers.Done()
	for job := range wp.jobs {
		if wp.limiter != nil {
			_ = wp.limiter.Wait(context.Background())
		}
		job()
		wp.wg.Done()
	}
}

// Size returns the number of worker goroutines.
func (wp *WorkerPool) Size() int {
	return wp.maxWorkers
}

// Submit enqueues a job. It blocks while every worker is busy.
func (wp *WorkerPool) Submit(job func()) {
	wp.wg.Add(1)
	wp.jobs <- job
}

// Wait blocks until all submitted jobs have completed. The pool stays usable.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Close stops the workers after the queue drains. Submit must not be called
// afterwards.
func (wp *WorkerPool) Close() {
	wp.closeOnce.Do(func() {
		close(wp.jobs)
	})
	wp.workers.Wait()
}

// URLSet is a thread-safe set for tracking visited URLs.
type URLSet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewURLSet creates an empty URLSet.
func NewURLSet() *URLSet {
	return &URLSet{seen: make(map[string]struct{})}
}

// Add returns true if the URL was newly added, false if already present.
func (s *URLSet) Add(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[url]; exists {
		return false
	}
	s.seen[url] = struct{}{}
	return true
}

// Contains returns true if the URL has already been visited.
func (s *URLSet) Contains(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[url]
	return exists
}

// Size returns the number of unique URLs tracked.
func (s *URLSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}

// Unique returns urls with duplicates and empty strings removed, keeping the
// first occurrence of each.
func Unique(urls []string) []string {
	set := NewURLSet()
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u == "" || !set.Add(u) {
			continue
		}
		out = append(out, u)
	}
	return out
}

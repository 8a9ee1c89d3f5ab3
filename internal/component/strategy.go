// Package component drives plugin.Component instances to completion: it
// opens each one, runs its work loop on a dedicated execution unit, and
// reports liveness to the host on a fixed interval independent of how long
// any single DoWork call blocks.
package component

import "sync"

// Strategy abstracts how a unit of concurrent work is executed, so the
// runner isn't hard-wired to goroutines. The simulation currently only ever
// needs GoroutineStrategy; this seam exists for an alternate execution
// model (e.g. a bounded worker pool) without changing Run's logic.
type Strategy interface {
	// Spawn starts fn concurrently and returns immediately.
	Spawn(fn func())
	// Join blocks until every fn passed to Spawn has returned.
	Join()
}

// GoroutineStrategy runs each unit of work on its own goroutine.
type GoroutineStrategy struct {
	wg sync.WaitGroup
}

// NewGoroutineStrategy returns a ready-to-use GoroutineStrategy.
func NewGoroutineStrategy() *GoroutineStrategy {
	return &GoroutineStrategy{}
}

func (s *GoroutineStrategy) Spawn(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

func (s *GoroutineStrategy) Join() {
	s.wg.Wait()
}

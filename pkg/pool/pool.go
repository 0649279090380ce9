// Package pool bounds how many analyst calls run at once across all requests.
package pool

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// Pool is a counting semaphore shared by every in-flight analysis.
type Pool struct {
	sem *semaphore.Weighted
}

// New creates a pool with size slots.
func New(size int) (*Pool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("pool: size must be positive, got %d", size)
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size))}, nil
}

// Acquire blocks until a slot is free or ctx ends.
func (p *Pool) Acquire(ctx context.Context) error {
	return p.sem.Acquire(ctx, 1)
}

func (p *Pool) Release() {
	p.sem.Release(1)
}


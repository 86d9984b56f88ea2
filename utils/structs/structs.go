// Package structs implements helper structures for buffer recycling.
package structs

import (
	"sync"
)

// BufferPool is an interface for pools of temporary buffers. Implementations
// must be safe for concurrent use.
type BufferPool[T any] interface {
	Get() T
	Put(T)
}

type syncPool[T any] struct {
	pool sync.Pool
}

// NewSyncPool returns a BufferPool backed by a sync.Pool, instantiating
// missing buffers with newT.
func NewSyncPool[T any](newT func() T) BufferPool[T] {
	return &syncPool[T]{
		pool: sync.Pool{
			New: func() any { return newT() },
		},
	}
}

func (p *syncPool[T]) Get() T {
	return p.pool.Get().(T)
}

func (p *syncPool[T]) Put(b T) {
	p.pool.Put(b)
}

package memory

import (
	"context"
	"sync"
)

// LockProvider is an in-process lock provider keyed by name.
type LockProvider struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewLockProvider creates a new in-process lock provider.
func NewLockProvider() *LockProvider {
	return &LockProvider{held: map[string]bool{}}
}

// Acquire takes the lock for key if it is free.
func (p *LockProvider) Acquire(_ context.Context, key string) (bool, func() error, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.held[key] {
		return false, func() error { return nil }, nil
	}
	p.held[key] = true
	var once sync.Once
	return true, func() error {
		once.Do(func() {
			p.mu.Lock()
			delete(p.held, key)
			p.mu.Unlock()
		})
		return nil
	}, nil
}

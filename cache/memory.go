// Package cache provides caching implementations for Verger access
// resolutions.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/smartequiz/verger"
)

// Compile-time interface check.
var _ verger.Cache = (*Memory)(nil)

// Memory is an in-memory cache with TTL-based expiration.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	maxSize int
}

type entry struct {
	access    *verger.Access
	expiresAt time.Time
}

// MemoryOption configures the memory cache.
type MemoryOption func(*Memory)

// WithTTL sets the cache entry time-to-live.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(m *Memory) { m.ttl = ttl }
}

// WithMaxSize sets the maximum number of cache entries.
func WithMaxSize(n int) MemoryOption {
	return func(m *Memory) { m.maxSize = n }
}

// NewMemory creates a new in-memory cache.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		entries: make(map[string]*entry),
		ttl:     5 * time.Minute,
		maxSize: 10000,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns a cached access resolution.
func (m *Memory) Get(_ context.Context, tenantID, role string) (*verger.Access, bool) {
	key := cacheKey(tenantID, role)
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false
	}
	return e.access, true
}

// Set stores an access resolution in the cache.
func (m *Memory) Set(_ context.Context, tenantID, role string, access *verger.Access) {
	key := cacheKey(tenantID, role)
	m.mu.Lock()
	defer m.mu.Unlock()

	// Evict if at capacity.
	if len(m.entries) >= m.maxSize {
		m.evictExpired()
		if len(m.entries) >= m.maxSize {
			// Evict one arbitrary entry.
			m.evictOne()
		}
	}

	m.entries[key] = &entry{
		access:    access,
		expiresAt: time.Now().Add(m.ttl),
	}
}

// InvalidateRole removes the cached resolution for one (tenant, role) pair.
func (m *Memory) InvalidateRole(_ context.Context, tenantID, role string) {
	m.mu.Lock()
	delete(m.entries, cacheKey(tenantID, role))
	m.mu.Unlock()
}

// InvalidateTenant removes all cached resolutions for a tenant.
func (m *Memory) InvalidateTenant(_ context.Context, tenantID string) {
	prefix := tenantID + ":"
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
}

func cacheKey(tenantID, role string) string {
	return tenantID + ":" + role
}

// evictExpired removes all expired entries. Must hold write lock.
func (m *Memory) evictExpired() {
	now := time.Now()
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}

// evictOne removes one arbitrary entry. Must hold write lock.
func (m *Memory) evictOne() {
	for k := range m.entries {
		delete(m.entries, k)
		return
	}
}

package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryQuotaRepository хранит счетчики квот в памяти процесса.
type MemoryQuotaRepository struct {
	mu      sync.Mutex
	entries map[int64]*quotaEntry
	now     func() time.Time
}

type quotaEntry struct {
	count     int
	expiresAt time.Time
}

func NewMemoryQuotaRepository() *MemoryQuotaRepository {
	return &MemoryQuotaRepository{
		entries: make(map[int64]*quotaEntry),
		now:     time.Now,
	}
}

func (r *MemoryQuotaRepository) CheckRateLimit(_ context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[userID]
	if !ok || now.After(entry.expiresAt) {
		entry = &quotaEntry{expiresAt: now.Add(window)}
		r.entries[userID] = entry
	}
	entry.count++

	return entry.count <= limit, nil
}

package usagelog

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/seasonal-tarot/internal/domain/gateway"
)

const defaultMemoryCapacity = 1000

// MemoryRepository keeps the most recent call records in a ring.
type MemoryRepository struct {
	mu       sync.RWMutex
	capacity int
	records  []gateway.CallRecord
}

// NewMemoryRepository constructs a repository bounded to capacity records.
func NewMemoryRepository(capacity int) *MemoryRepository {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	return &MemoryRepository{capacity: capacity}
}

// Record implements gateway.UsageLog.
func (r *MemoryRepository) Record(_ context.Context, rec gateway.CallRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	if over := len(r.records) - r.capacity; over > 0 {
		r.records = append(r.records[:0:0], r.records[over:]...)
	}
	return nil
}

// Summarize aggregates records created at or after since.
func (r *MemoryRepository) Summarize(_ context.Context, since time.Time) ([]Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	window := make([]gateway.CallRecord, 0, len(r.records))
	for _, rec := range r.records {
		if !rec.CreatedAt.Before(since) {
			window = append(window, rec)
		}
	}
	return summarize(window), nil
}

var _ Repository = (*MemoryRepository)(nil)

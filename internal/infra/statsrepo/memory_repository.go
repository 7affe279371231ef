package statsrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yanqian/bible-chat/internal/domain/chat"
)

const dayLayout = "2006-01-02"

type dayOutcome struct {
	day     string
	outcome chat.Outcome
}

// MemoryRepository is an in-memory StatsRepository used for tests/dev.
type MemoryRepository struct {
	mu     sync.RWMutex
	counts map[dayOutcome]int64
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{counts: make(map[dayOutcome]int64)}
}

// Record implements chat.StatsRepository.
func (r *MemoryRepository) Record(_ context.Context, outcome chat.Outcome, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[dayOutcome{day: at.UTC().Format(dayLayout), outcome: outcome}]++
	return nil
}

// Summary implements chat.StatsRepository.
func (r *MemoryRepository) Summary(_ context.Context, since time.Time) ([]chat.OutcomeCount, error) {
	from := since.UTC().Format(dayLayout)
	r.mu.RLock()
	out := make([]chat.OutcomeCount, 0, len(r.counts))
	for key, count := range r.counts {
		if key.day < from {
			continue
		}
		out = append(out, chat.OutcomeCount{Day: key.day, Outcome: key.outcome, Count: count})
	}
	r.mu.RUnlock()
	sortCounts(out)
	return out, nil
}

func sortCounts(counts []chat.OutcomeCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Day != counts[j].Day {
			return counts[i].Day < counts[j].Day
		}
		return counts[i].Outcome < counts[j].Outcome
	})
}

var _ chat.StatsRepository = (*MemoryRepository)(nil)

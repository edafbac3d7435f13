package achievement

import (
	"context"
	"sync"
	"time"

	"github.com/theirongolddev/fuellog/internal/model"
)

// Store persists gamification state. A badge missing from Load is locked.
// Completed challenges are keyed by Challenge.Key and never removed.
type Store interface {
	Load(ctx context.Context) (model.UserStats, []model.Badge, error)
	Save(ctx context.Context, stats model.UserStats, badges []model.Badge) error
	LoadChallenges(ctx context.Context) (map[string]time.Time, error)
	SaveChallenges(ctx context.Context, completed []model.Challenge) error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu         sync.Mutex
	stats      model.UserStats
	badges     []model.Badge
	challenges map[string]time.Time
}

// Load returns copies of the stored state.
func (m *MemoryStore) Load(_ context.Context) (model.UserStats, []model.Badge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	badges := make([]model.Badge, len(m.badges))
	copy(badges, m.badges)
	return m.stats, badges, nil
}

// Save replaces the stored state.
func (m *MemoryStore) Save(_ context.Context, stats model.UserStats, badges []model.Badge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = stats
	m.badges = make([]model.Badge, len(badges))
	copy(m.badges, badges)
	return nil
}

// LoadChallenges returns a copy of the completed challenge keys.
func (m *MemoryStore) LoadChallenges(_ context.Context) (map[string]time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]time.Time, len(m.challenges))
	for k, v := range m.challenges {
		out[k] = v
	}
	return out, nil
}

// SaveChallenges records completions. Existing keys are kept.
func (m *MemoryStore) SaveChallenges(_ context.Context, completed []model.Challenge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.challenges == nil {
		m.challenges = make(map[string]time.Time)
	}
	for _, c := range completed {
		if c.CompletedAt == nil {
			continue
		}
		if _, ok := m.challenges[c.Key()]; !ok {
			m.challenges[c.Key()] = *c.CompletedAt
		}
	}
	return nil
}

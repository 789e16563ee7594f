package store

import (
	"context"
	"sync"
	"time"

	"github.com/fyrsmithlabs/linkscout/internal/opportunity"
)

// MemoryStore keeps opportunities in process memory. It backs degraded
// mode when no durable store is configured, and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	order []string
	byURL map[string]opportunity.Opportunity
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byURL: make(map[string]opportunity.Opportunity)}
}

// Available always reports false; nothing here survives the process.
func (s *MemoryStore) Available() bool {
	return false
}

// Upsert inserts or merge-updates by URL.
func (s *MemoryStore) Upsert(_ context.Context, opp opportunity.Opportunity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byURL[opp.URL]; ok {
		s.byURL[opp.URL] = opportunity.Merge(existing, opp)
		return nil
	}
	s.order = append(s.order, opp.URL)
	s.byURL[opp.URL] = opportunity.Clamp(opp)
	return nil
}

// GetAll returns every opportunity in insertion order.
func (s *MemoryStore) GetAll(_ context.Context) ([]opportunity.Opportunity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]opportunity.Opportunity, 0, len(s.order))
	for _, u := range s.order {
		out = append(out, s.byURL[u])
	}
	return out, nil
}

// FindByURL returns the stored opportunity, or ErrNotFound.
func (s *MemoryStore) FindByURL(_ context.Context, url string) (*opportunity.Opportunity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	opp, ok := s.byURL[url]
	if !ok {
		return nil, ErrNotFound
	}
	return &opp, nil
}

// MarkReplied records the response summary and clears the follow-up.
func (s *MemoryStore) MarkReplied(_ context.Context, url, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	opp, ok := s.byURL[url]
	if !ok {
		return ErrNotFound
	}
	opp.ResponseSum = summary
	opp.FollowUpDate = nil
	s.byURL[url] = opp
	return nil
}

// DueForFollowup filters stored opportunities by the shared rule.
func (s *MemoryStore) DueForFollowup(ctx context.Context, today time.Time) ([]opportunity.Opportunity, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var due []opportunity.Opportunity
	for _, opp := range all {
		if dueForFollowup(opp, today) {
			due = append(due, opp)
		}
	}
	return due, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

var _ Store = (*MemoryStore)(nil)

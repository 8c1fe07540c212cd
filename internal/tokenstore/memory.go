package tokenstore

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// MemoryStore is the single-process Store implementation. Expiry is enforced
// at read time; Sweep reclaims memory for entries nobody reads again.
type MemoryStore struct {
	mu        sync.Mutex
	whitelist map[string]RefreshRecord
	blacklist map[string]time.Time
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		whitelist: make(map[string]RefreshRecord),
		blacklist: make(map[string]time.Time),
		now:       time.Now,
	}
}

func (s *MemoryStore) WhitelistAdd(_ context.Context, rec RefreshRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.whitelist[rec.Token] = rec
	return nil
}

func (s *MemoryStore) WhitelistRemove(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.whitelist, token)
	return nil
}

func (s *MemoryStore) WhitelistLookup(_ context.Context, token string) (*RefreshRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.whitelist[token]
	if !ok {
		return nil, nil
	}
	if rec.Expired(s.now()) {
		delete(s.whitelist, token)
		return nil, nil
	}
	return &rec, nil
}

func (s *MemoryStore) WhitelistReplace(_ context.Context, oldToken string, rec RefreshRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.whitelist[oldToken]
	if !ok {
		return false, nil
	}
	delete(s.whitelist, oldToken)
	if old.Expired(s.now()) {
		return false, nil
	}
	s.whitelist[rec.Token] = rec
	return true, nil
}

func (s *MemoryStore) BlacklistAdd(_ context.Context, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !expiresAt.After(s.now()) {
		// Already past natural expiry, nothing to shadow.
		return nil
	}
	s.blacklist[token] = expiresAt
	return nil
}

func (s *MemoryStore) BlacklistContains(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.blacklist[token]
	if !ok {
		return false, nil
	}
	if !expiresAt.After(s.now()) {
		delete(s.blacklist, token)
		return false, nil
	}
	return true, nil
}

// Sweep drops expired entries from both sets. Scheduled periodically; the
// read-time checks above keep correctness independent of its cadence.
func (s *MemoryStore) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for token, rec := range s.whitelist {
		if rec.Expired(now) {
			delete(s.whitelist, token)
			removed++
		}
	}
	for token, expiresAt := range s.blacklist {
		if !expiresAt.After(now) {
			delete(s.blacklist, token)
			removed++
		}
	}

	if removed > 0 {
		log.Debug().Int("removed", removed).Msg("Token store sweep completed")
	}
}

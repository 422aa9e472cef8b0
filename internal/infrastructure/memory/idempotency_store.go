package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/ledger-api/internal/domain"
)

type idemEntry struct {
	result  []byte
	done    bool
	expires time.Time
}

// IdempotencyStore equivalente en memoria del store de Redis (sin REDIS_ADDR).
type IdempotencyStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	keys map[string]idemEntry
	now  func() time.Time
}

// NewIdempotencyStore construye el store.
func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{ttl: ttl, keys: make(map[string]idemEntry), now: time.Now}
}

func (s *IdempotencyStore) Reserve(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if e, ok := s.keys[key]; ok && now.Before(e.expires) {
		if !e.done {
			return nil, false, domain.ErrInProgress
		}
		return e.result, true, nil
	}
	s.keys[key] = idemEntry{expires: now.Add(s.ttl)}
	return nil, false, nil
}

func (s *IdempotencyStore) Complete(_ context.Context, key string, result []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = idemEntry{result: append([]byte(nil), result...), done: true, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *IdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}

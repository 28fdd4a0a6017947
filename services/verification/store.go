package verification

import (
	"sync"
)

// TokenStore and PendingStore are injected so a durable backing store can
// replace the in-process maps without touching the service logic. Both are
// exclusively owned by the Service; nothing else mutates them.
type TokenStore interface {
	Get(token string) (*VerificationToken, bool, error)
	Put(token *VerificationToken) error
	Delete(token string) error
	DeleteByEmail(email string) (int, error)
}

type PendingStore interface {
	Get(email string) (*PendingRegistration, bool, error)
	Put(pending *PendingRegistration) error
	Delete(email string) error
}

type MemoryTokenStore struct {
	mu   sync.RWMutex
	data map[string]VerificationToken
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		data: make(map[string]VerificationToken),
	}
}

func (s *MemoryTokenStore) Get(token string) (*VerificationToken, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.data[token]
	if !ok {
		return nil, false, nil
	}
	return &t, true, nil
}

func (s *MemoryTokenStore) Put(token *VerificationToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[token.Token] = *token
	return nil
}

func (s *MemoryTokenStore) Delete(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, token)
	return nil
}

func (s *MemoryTokenStore) DeleteByEmail(email string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int
	for key, t := range s.data {
		if t.Email == email {
			delete(s.data, key)
			removed++
		}
	}
	return removed, nil
}

type MemoryPendingStore struct {
	mu   sync.RWMutex
	data map[string]PendingRegistration
}

func NewMemoryPendingStore() *MemoryPendingStore {
	return &MemoryPendingStore{
		data: make(map[string]PendingRegistration),
	}
}

func (s *MemoryPendingStore) Get(email string) (*PendingRegistration, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.data[email]
	if !ok {
		return nil, false, nil
	}
	return &p, true, nil
}

func (s *MemoryPendingStore) Put(pending *PendingRegistration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[pending.Email] = *pending
	return nil
}

func (s *MemoryPendingStore) Delete(email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, email)
	return nil
}

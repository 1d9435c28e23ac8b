package store

import (
	"context"
	"sort"
	"sync"

	authgate "github.com/MrEthical07/authgate"
)

// MemoryStore is a mutex-guarded in-memory [authgate.UserStore]. Intended
// for tests and demos; nothing is persisted.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]authgate.Account
	byName map[string]int64
}

var _ authgate.UserStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[int64]authgate.Account),
		byName: make(map[string]int64),
	}
}

// FindByUsername returns the account with the exact username, or (nil, nil)
// when absent.
func (s *MemoryStore) FindByUsername(_ context.Context, username string) (*authgate.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[username]
	if !ok {
		return nil, nil
	}
	account := s.byID[id]
	return &account, nil
}

// FindByID returns the account with the given id, or (nil, nil) when absent.
func (s *MemoryStore) FindByID(_ context.Context, id int64) (*authgate.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return &account, nil
}

// Find returns all accounts ordered by id.
func (s *MemoryStore) Find(_ context.Context) ([]authgate.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]authgate.Account, 0, len(s.byID))
	for _, account := range s.byID {
		out = append(out, account)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Insert creates the account under a freshly assigned id. A username
// collision returns [authgate.ErrDuplicateUsername] with nothing written.
func (s *MemoryStore) Insert(_ context.Context, username, passwordHash string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[username]; exists {
		return 0, authgate.ErrDuplicateUsername
	}

	s.nextID++
	account := authgate.Account{
		ID:       s.nextID,
		Username: username,
		Password: passwordHash,
	}
	s.byID[account.ID] = account
	s.byName[username] = account.ID

	return account.ID, nil
}

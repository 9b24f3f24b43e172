package testutil

import (
	"context"
	"sync"
	"time"
)

// MemoryRevoker lista de revocación en memoria con expiración.
type MemoryRevoker struct {
	mu          sync.Mutex
	entries     map[string]time.Time
	generations map[string]int64
	revokeErr   error
}

// NewMemoryRevoker crea una lista vacía.
func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{entries: map[string]time.Time{}, generations: map[string]int64{}}
}

// FailRevoke hace que Revoke devuelva err (Redis caído); nil lo restablece.
func (m *MemoryRevoker) FailRevoke(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revokeErr = err
}

func (m *MemoryRevoker) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revokeErr != nil {
		return m.revokeErr
	}
	m.entries[jti] = time.Now().Add(ttl)
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.entries[jti]
	return ok && time.Now().Before(exp), nil
}

func (m *MemoryRevoker) UserGeneration(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generations[userID], nil
}

func (m *MemoryRevoker) BumpUserGeneration(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generations[userID]++
	return m.generations[userID], nil
}

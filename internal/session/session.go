package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

const storageKey = "universo_session_id"

// Storage is the ephemeral per-session key-value store backing the provider.
// Browser sessionStorage in the original frontend; any implementation that
// fails is tolerated by falling back to a process-local token.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// Provider issues an opaque session token and keeps it stable for the
// lifetime of its storage scope. The token partitions cart persistence;
// it is not an auth credential.
type Provider struct {
	mu       sync.Mutex
	storage  Storage
	fallback string
}

func NewProvider(storage Storage) *Provider {
	return &Provider{storage: storage}
}

// SessionID returns the stored token, generating and storing a new one on
// first call. It never fails: if storage is unavailable the token lives in
// memory for the lifetime of the provider.
func (p *Provider) SessionID() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if existing, err := p.storage.Get(storageKey); err == nil && existing != "" {
		return existing
	} else if err != nil {
		log.Warn().Err(err).Msg("session: storage unavailable, using in-memory token")
	}

	if p.fallback != "" {
		return p.fallback
	}

	token := newToken()
	if err := p.storage.Set(storageKey, token); err != nil {
		log.Warn().Err(err).Msg("session: failed to store token, keeping it in memory")
		p.fallback = token
	}
	return token
}

// ClearSession drops the stored token. The next SessionID call issues a new
// identity, which addresses a different (empty) remote cart; contents are
// not migrated across identities.
func (p *Provider) ClearSession() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.fallback = ""
	if err := p.storage.Remove(storageKey); err != nil {
		log.Warn().Err(err).Msg("session: failed to remove token from storage")
	}
}

func newToken() string {
	suffix := "0000000000000"
	if id, err := uuid.NewV4(); err == nil {
		suffix = strings.ReplaceAll(id.String(), "-", "")[:13]
	}
	return fmt.Sprintf("sess_%d_%s", time.Now().UnixMilli(), suffix)
}

// MemoryStorage is an in-process Storage, the default outside a browser.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (s *MemoryStorage) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

func (s *MemoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

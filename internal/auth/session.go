package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/billing-console/internal/domain"
)

// ErrSessionNotFound covers never-existed, expired-and-evicted, and
// store-unreachable alike: the cookie path fails closed and the bearer
// path remains available.
var ErrSessionNotFound = errors.New("session not found")

const sessionKeyPrefix = "session:"

// SessionSummary is the principal summary serialized into the store.
type SessionSummary struct {
	PrincipalID int64                `json:"principal_id"`
	Kind        domain.PrincipalKind `json:"kind"`
	Role        domain.OperatorRole  `json:"role"`
}

// SessionStore persists interactive login sessions keyed by an opaque id
// delivered via cookie. The store is shared across process instances.
type SessionStore interface {
	Create(ctx context.Context, summary SessionSummary) (string, error)
	Get(ctx context.Context, id string) (SessionSummary, error)
	Destroy(ctx context.Context, id string) error
}

// RedisSessionStore implements SessionStore on a shared Redis instance with
// a fixed TTL; eviction of expired sessions is left to Redis.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore wraps the client with the fixed session TTL.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisSessionStore{client: client, ttl: ttl}
}

// Create allocates a random session id and writes the summary.
func (s *RedisSessionStore) Create(ctx context.Context, summary SessionSummary) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+id, payload, s.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// Get loads the summary for id. Store errors are reported as
// ErrSessionNotFound so an outage degrades to "no session credential".
func (s *RedisSessionStore) Get(ctx context.Context, id string) (SessionSummary, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		return SessionSummary{}, ErrSessionNotFound
	}
	var summary SessionSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return SessionSummary{}, ErrSessionNotFound
	}
	return summary, nil
}

// Destroy deletes the session; absent ids are not an error.
func (s *RedisSessionStore) Destroy(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// MemorySessionStore is a process-local SessionStore used in tests and when
// Redis is not configured. It honors the same fixed TTL.
type MemorySessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]memorySession
}

type memorySession struct {
	summary   SessionSummary
	expiresAt time.Time
}

// NewMemorySessionStore builds an empty in-memory store.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &MemorySessionStore{ttl: ttl, sessions: make(map[string]memorySession)}
}

func (s *MemorySessionStore) Create(_ context.Context, summary SessionSummary) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = memorySession{summary: summary, expiresAt: time.Now().Add(s.ttl)}
	return id, nil
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (SessionSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return SessionSummary{}, ErrSessionNotFound
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, id)
		return SessionSummary{}, ErrSessionNotFound
	}
	return sess.summary, nil
}

func (s *MemorySessionStore) Destroy(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// newSessionID returns a 128-bit random identifier in hex.
func newSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

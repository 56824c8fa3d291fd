package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/breezeline/interiors-api/utils"
)

// Session service error constants
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)

// AdminSession is the server-side state behind one session cookie
type AdminSession struct {
	Token     string    `json:"token"`
	AdminID   uint      `json:"admin_id"`
	Username  string    `json:"username"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionService issues and validates opaque admin session tokens. Tokens are
// random and carry no claims themselves; all state lives in the store, so a
// logout destroys the session for every holder of the cookie.
type SessionService interface {
	CreateSession(ctx context.Context, adminID uint, username string) (*AdminSession, error)
	ValidateSession(ctx context.Context, token string) (*AdminSession, error)
	DestroySession(ctx context.Context, token string) error
	TTL() time.Duration
}

// SessionStore persists sessions keyed by token
type SessionStore interface {
	Put(ctx context.Context, session *AdminSession) error
	Get(ctx context.Context, token string) (*AdminSession, error)
	Delete(ctx context.Context, token string) error
}

// SessionServiceImpl implements SessionService
type SessionServiceImpl struct {
	store SessionStore
	ttl   time.Duration
}

// NewSessionService creates a session service with a fixed TTL
func NewSessionService(store SessionStore, ttl time.Duration) SessionService {
	return &SessionServiceImpl{store: store, ttl: ttl}
}

func (s *SessionServiceImpl) CreateSession(ctx context.Context, adminID uint, username string) (*AdminSession, error) {
	token, err := generateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := utils.UTCNow()
	session := &AdminSession{
		Token:     token,
		AdminID:   adminID,
		Username:  username,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return session, nil
}

func (s *SessionServiceImpl) ValidateSession(ctx context.Context, token string) (*AdminSession, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}
	session, err := s.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if utils.IsExpired(session.ExpiresAt) {
		_ = s.store.Delete(ctx, token)
		return nil, ErrSessionExpired
	}
	return session, nil
}

func (s *SessionServiceImpl) DestroySession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.store.Delete(ctx, token)
}

func (s *SessionServiceImpl) TTL() time.Duration {
	return s.ttl
}

// generateSessionToken returns 32 bytes of crypto randomness, hex-encoded
func generateSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// RedisSessionStore keeps sessions in Redis with a TTL matching expiry
type RedisSessionStore struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionStore creates a Redis-backed session store
func NewRedisSessionStore(client *redis.Client, prefix string) *RedisSessionStore {
	return &RedisSessionStore{client: client, prefix: prefix}
}

func (s *RedisSessionStore) key(token string) string {
	return s.prefix + "session:" + token
}

func (s *RedisSessionStore) Put(ctx context.Context, session *AdminSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return ErrSessionExpired
	}
	return s.client.Set(ctx, s.key(session.Token), payload, ttl).Err()
}

func (s *RedisSessionStore) Get(ctx context.Context, token string) (*AdminSession, error) {
	payload, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	var session AdminSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}

// MemorySessionStore keeps sessions in a map. A janitor goroutine evicts
// expired entries so abandoned sessions do not accumulate.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*AdminSession
	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemorySessionStore creates an in-memory session store and starts its janitor
func NewMemorySessionStore(cleanupInterval time.Duration) *MemorySessionStore {
	s := &MemorySessionStore{
		sessions: make(map[string]*AdminSession),
		stop:     make(chan struct{}),
	}
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	go s.janitor(cleanupInterval)
	return s
}

func (s *MemorySessionStore) Put(_ context.Context, session *AdminSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.sessions[session.Token] = &copied
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, token string) (*AdminSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// Close stops the janitor goroutine
func (s *MemorySessionStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *MemorySessionStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			now := utils.UTCNow()
			s.mu.Lock()
			for token, session := range s.sessions {
				if now.After(session.ExpiresAt) {
					delete(s.sessions, token)
				}
			}
			s.mu.Unlock()
		}
	}
}

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/existflow/hackersunity/internal/model"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CookieName is the cookie carrying the session id or the sealed session
const CookieName = "hu_session"

// Store persists the session between requests
type Store interface {
	// Load returns the stored session, or nil when there is none
	Load(c echo.Context) (*model.Session, error)
	Save(c echo.Context, s *model.Session) error
	Clear(c echo.Context) error
}

// kv is the server-side storage behind an id cookie
type kv interface {
	get(ctx context.Context, id string) ([]byte, error)
	set(ctx context.Context, id string, value []byte, ttl time.Duration) error
	del(ctx context.Context, id string) error
}

var errNoEntry = errors.New("session not found")

// idStore keeps sessions server-side and only an opaque id in the cookie
type idStore struct {
	kv     kv
	secure bool
	maxAge time.Duration
}

func (s *idStore) Load(c echo.Context) (*model.Session, error) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	data, err := s.kv.get(c.Request().Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, errNoEntry) {
			return nil, nil
		}
		return nil, err
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

func (s *idStore) Save(c echo.Context, sess *model.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	// A fresh id on every save; the previous one stops working
	ctx := c.Request().Context()
	id := uuid.NewString()
	if err := s.kv.set(ctx, id, data, s.maxAge); err != nil {
		return err
	}
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		if err := s.kv.del(ctx, cookie.Value); err != nil {
			return err
		}
	}

	c.SetCookie(newCookie(id, s.maxAge, s.secure))
	return nil
}

func (s *idStore) Clear(c echo.Context) error {
	c.SetCookie(newCookie("", -1, s.secure))

	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	return s.kv.del(c.Request().Context(), cookie.Value)
}

func newCookie(value string, maxAge time.Duration, secure bool) *http.Cookie {
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge < 0 {
		cookie.MaxAge = -1
	} else {
		cookie.MaxAge = int(maxAge / time.Second)
	}
	return cookie
}

// memoryKV is a process-local map with expiry
type memoryKV struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryStore keeps sessions in process memory
func NewMemoryStore(maxAge time.Duration, secure bool) Store {
	return &idStore{
		kv:     &memoryKV{entries: make(map[string]memoryEntry), now: time.Now},
		secure: secure,
		maxAge: maxAge,
	}
}

func (m *memoryKV) get(_ context.Context, id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[id]
	if !ok {
		return nil, errNoEntry
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		delete(m.entries, id)
		return nil, errNoEntry
	}
	return entry.value, nil
}

func (m *memoryKV) set(_ context.Context, id string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.entries[id] = entry
	return nil
}

func (m *memoryKV) del(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

// redisKV stores sessions in Redis under a key prefix
type redisKV struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis at url and keeps sessions there, so several
// server instances can share them
func NewRedisStore(ctx context.Context, url string, maxAge time.Duration, secure bool) (Store, func() error, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	store := &idStore{
		kv:     &redisKV{client: client, prefix: "hu:session:"},
		secure: secure,
		maxAge: maxAge,
	}
	return store, client.Close, nil
}

func (r *redisKV) get(ctx context.Context, id string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errNoEntry
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	return data, nil
}

func (r *redisKV) set(ctx context.Context, id string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.prefix+id, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (r *redisKV) del(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.prefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

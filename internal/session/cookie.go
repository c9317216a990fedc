package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/existflow/hackersunity/internal/logger"
	"github.com/existflow/hackersunity/internal/model"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/pbkdf2"
)

const (
	keySize          = 32 // AES-256
	nonceSize        = 12 // GCM standard nonce size
	pbkdf2Iterations = 100000

	// maxCookieSize is the per-cookie limit browsers enforce on name, value and attributes
	maxCookieSize = 4096
)

// ErrCookieTooLarge is returned when a sealed session would not fit in one cookie
var ErrCookieTooLarge = errors.New("session cookie too large")

// cookieSalt is fixed so every instance sharing a secret derives the same key
var cookieSalt = []byte("hackersunity.session.v1")

// sealer encrypts cookie payloads with AES-256-GCM
type sealer struct {
	key []byte
}

func newSealer(secret string) *sealer {
	key := pbkdf2.Key([]byte(secret), cookieSalt, pbkdf2Iterations, keySize, sha256.New)
	return &sealer{key: key}
}

func (s *sealer) seal(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	// Seal appends nonce + ciphertext
	ciphertext := gcm.Seal(nonce, nonce, plaintext, []byte(CookieName))
	return base64.RawURLEncoding.EncodeToString(ciphertext), nil
}

func (s *sealer) open(sealed string) ([]byte, error) {
	data, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return nil, err
	}

	if len(data) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, data[:nonceSize], data[nonceSize:], []byte(CookieName))
	if err != nil {
		return nil, errors.New("decryption failed: invalid key or corrupted data")
	}
	return plaintext, nil
}

// cookiePayload is the part of a session sealed into the cookie. Profile
// metadata other than the display name stays with the backend.
type cookiePayload struct {
	AccessToken  string    `json:"at"`
	RefreshToken string    `json:"rt"`
	ExpiresAt    time.Time `json:"exp"`
	UserID       string    `json:"uid"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
}

func (p cookiePayload) session() *model.Session {
	return &model.Session{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		ExpiresAt:    p.ExpiresAt,
		User: model.User{
			ID:      p.UserID,
			Email:   p.Email,
			Profile: model.Profile{Name: p.Name},
		},
	}
}

// cookieStore keeps the session tokens in a sealed cookie
type cookieStore struct {
	sealer *sealer
	secure bool
	maxAge time.Duration
}

// NewCookieStore keeps sessions client-side, sealed under a key derived from secret
func NewCookieStore(secret string, maxAge time.Duration, secure bool) Store {
	return &cookieStore{
		sealer: newSealer(secret),
		secure: secure,
		maxAge: maxAge,
	}
}

func (s *cookieStore) Load(c echo.Context) (*model.Session, error) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	data, err := s.sealer.open(cookie.Value)
	if err != nil {
		// A rotated secret or a tampered cookie reads as signed out
		logger.Warn("Discarding unreadable session cookie", logger.F("error", err))
		return nil, nil
	}

	var payload cookiePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return payload.session(), nil
}

func (s *cookieStore) Save(c echo.Context, sess *model.Session) error {
	data, err := json.Marshal(cookiePayload{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		ExpiresAt:    sess.ExpiresAt,
		UserID:       sess.User.ID,
		Email:        sess.User.Email,
		Name:         sess.User.Profile.Name,
	})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	sealed, err := s.sealer.seal(data)
	if err != nil {
		return fmt.Errorf("failed to seal session: %w", err)
	}

	cookie := newCookie(sealed, s.maxAge, s.secure)
	if size := len(cookie.String()); size > maxCookieSize {
		return fmt.Errorf("%w: %d bytes", ErrCookieTooLarge, size)
	}

	c.SetCookie(cookie)
	return nil
}

func (s *cookieStore) Clear(c echo.Context) error {
	c.SetCookie(newCookie("", -1, s.secure))
	return nil
}

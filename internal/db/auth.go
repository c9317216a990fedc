package db

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/existflow/hackersunity/internal/apperr"
	"github.com/existflow/hackersunity/internal/logger"
	"github.com/existflow/hackersunity/internal/model"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = apperr.Remote("Invalid login credentials", http.StatusBadRequest, errors.New("invalid credentials"))

// SignUp creates a user and signs them in. Self-hosted accounts need no email confirmation.
func (db *DB) SignUp(ctx context.Context, email, password string, profile model.Profile) (*model.Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}

	user := model.User{
		ID:        uuid.NewString(),
		Email:     email,
		Profile:   profile,
		CreatedAt: db.now().UTC(),
	}

	_, err = db.ExecContext(ctx, db.rebind(`
		INSERT INTO users (id, email, password_hash, profile, created_at)
		VALUES (?, ?, ?, ?, ?)`),
		user.ID, email, string(hash), string(profileJSON), user.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Remote("User already registered", http.StatusUnprocessableEntity, err)
		}
		return nil, apperr.Remote("Failed to create account", 0, err)
	}

	logger.Info("User registered", logger.F("user_id", user.ID))

	return db.createSession(ctx, user)
}

// SignIn checks the password and creates a session
func (db *DB) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	user, passwordHash, err := db.userByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errInvalidCredentials
		}
		return nil, apperr.Remote("Failed to sign in", 0, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}

	return db.createSession(ctx, user)
}

// Refresh rotates the session identified by refreshToken
func (db *DB) Refresh(ctx context.Context, refreshToken string) (*model.Session, error) {
	var sessionID, userID string
	err := db.QueryRowContext(ctx, db.rebind(`
		SELECT id, user_id FROM sessions WHERE refresh_token = ?`),
		refreshToken,
	).Scan(&sessionID, &userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.Remote("Invalid Refresh Token", http.StatusUnauthorized, err)
		}
		return nil, apperr.Remote("Failed to refresh session", 0, err)
	}

	if _, err := db.ExecContext(ctx, db.rebind(`DELETE FROM sessions WHERE id = ?`), sessionID); err != nil {
		return nil, apperr.Remote("Failed to refresh session", 0, err)
	}

	user, err := db.userByID(ctx, userID)
	if err != nil {
		return nil, apperr.Remote("Failed to refresh session", 0, err)
	}
	return db.createSession(ctx, user)
}

// SignOut deletes the session behind accessToken
func (db *DB) SignOut(ctx context.Context, accessToken string) error {
	if _, err := db.ExecContext(ctx, db.rebind(`DELETE FROM sessions WHERE token = ?`), accessToken); err != nil {
		return apperr.Remote("Failed to sign out", 0, err)
	}
	return nil
}

// ResetPassword issues a reset token for a known email. Unknown emails succeed
// silently so the endpoint does not reveal which accounts exist.
func (db *DB) ResetPassword(ctx context.Context, email string) error {
	if _, _, err := db.userByEmail(ctx, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return apperr.Remote("Failed to send reset instructions", 0, err)
	}

	token, err := randomToken()
	if err != nil {
		return apperr.Remote("Failed to send reset instructions", 0, err)
	}

	now := db.now().UTC()
	_, err = db.ExecContext(ctx, db.rebind(`
		INSERT INTO password_resets (id, email, token, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`),
		uuid.NewString(), email, token,
		now.Add(db.resetTTL).Format(time.RFC3339Nano), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return apperr.Remote("Failed to send reset instructions", 0, err)
	}

	// In production, send email here
	logger.Info("Password reset requested", logger.F("email", email), logger.F("token", token))
	return nil
}

// CompletePasswordReset sets a new password using a reset token
func (db *DB) CompletePasswordReset(ctx context.Context, token, password string) error {
	var email, expiresAt string
	var used int
	err := db.QueryRowContext(ctx, db.rebind(`
		SELECT email, expires_at, used FROM password_resets WHERE token = ?`),
		token,
	).Scan(&email, &expiresAt, &used)
	if err != nil {
		return apperr.Remote("Invalid reset token", http.StatusBadRequest, err)
	}

	if used != 0 {
		return apperr.Remote("Reset token already used", http.StatusBadRequest, errors.New("token used"))
	}
	expiry, err := time.Parse(time.RFC3339Nano, expiresAt)
	if err != nil || !db.now().Before(expiry) {
		return apperr.Remote("Reset token expired", http.StatusBadRequest, errors.New("token expired"))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Remote("Failed to reset password", 0, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, db.rebind(`UPDATE password_resets SET used = 1 WHERE token = ?`), token); err != nil {
		return apperr.Remote("Failed to reset password", 0, err)
	}
	if _, err := tx.ExecContext(ctx, db.rebind(`UPDATE users SET password_hash = ? WHERE email = ?`), string(hash), email); err != nil {
		return apperr.Remote("Failed to reset password", 0, err)
	}
	if _, err := tx.ExecContext(ctx, db.rebind(`
		DELETE FROM sessions WHERE user_id IN (SELECT id FROM users WHERE email = ?)`), email); err != nil {
		return apperr.Remote("Failed to reset password", 0, err)
	}

	if err := tx.Commit(); err != nil {
		return apperr.Remote("Failed to reset password", 0, err)
	}
	return nil
}

func (db *DB) userByEmail(ctx context.Context, email string) (model.User, string, error) {
	var user model.User
	var passwordHash, profile, createdAt string
	err := db.QueryRowContext(ctx, db.rebind(`
		SELECT id, email, password_hash, profile, created_at FROM users WHERE email = ?`),
		email,
	).Scan(&user.ID, &user.Email, &passwordHash, &profile, &createdAt)
	if err != nil {
		return model.User{}, "", err
	}
	if err := decodeUser(&user, profile, createdAt); err != nil {
		return model.User{}, "", err
	}
	return user, passwordHash, nil
}

func (db *DB) userByID(ctx context.Context, id string) (model.User, error) {
	var user model.User
	var profile, createdAt string
	err := db.QueryRowContext(ctx, db.rebind(`
		SELECT id, email, profile, created_at FROM users WHERE id = ?`),
		id,
	).Scan(&user.ID, &user.Email, &profile, &createdAt)
	if err != nil {
		return model.User{}, err
	}
	if err := decodeUser(&user, profile, createdAt); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func decodeUser(user *model.User, profile, createdAt string) error {
	if err := json.Unmarshal([]byte(profile), &user.Profile); err != nil {
		return fmt.Errorf("failed to decode profile: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return fmt.Errorf("failed to parse created_at: %w", err)
	}
	user.CreatedAt = t
	return nil
}

// createSession creates a new session for a user
func (db *DB) createSession(ctx context.Context, user model.User) (*model.Session, error) {
	token, err := randomToken()
	if err != nil {
		return nil, apperr.Remote("Failed to create session", 0, err)
	}
	refresh, err := randomToken()
	if err != nil {
		return nil, apperr.Remote("Failed to create session", 0, err)
	}

	now := db.now().UTC()
	expiresAt := now.Add(db.sessionTTL)

	_, err = db.ExecContext(ctx, db.rebind(`
		INSERT INTO sessions (id, user_id, token, refresh_token, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`),
		uuid.NewString(), user.ID, token, refresh,
		expiresAt.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, apperr.Remote("Failed to create session", 0, err)
	}

	return &model.Session{
		AccessToken:  token,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		User:         user,
	}, nil
}

func randomToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(tokenBytes), nil
}

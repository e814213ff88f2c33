package auth

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"filesmanager/internal/cache"
	"filesmanager/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionTTL is how long an issued token stays valid.
const SessionTTL = 24 * time.Hour

const sessionKeyPrefix = "auth_"

// ErrUnauthorized covers every authentication failure: bad credentials,
// malformed header, missing or expired token.
var ErrUnauthorized = errors.New("unauthorized")

// SessionService issues, resolves and revokes opaque session tokens. Validity
// lives entirely in the cache; there is no local state to invalidate.
type SessionService struct {
	cache cache.Cache
	users repository.UserStore
}

// NewSessionService creates a session service over the given cache and user
// store.
func NewSessionService(c cache.Cache, users repository.UserStore) *SessionService {
	return &SessionService{cache: c, users: users}
}

// HashPassword returns the hex-encoded SHA1 digest of a password. The digest
// is deterministic so a login can match email and digest in one lookup.
func HashPassword(password string) string {
	sum := sha1.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Authenticate exchanges a Basic Authorization header for a fresh session
// token with a 24h expiry.
func (s *SessionService) Authenticate(ctx context.Context, authHeader string) (string, error) {
	email, password, ok := parseBasicAuth(authHeader)
	if !ok {
		return "", ErrUnauthorized
	}

	user, err := s.users.GetUserByCredentials(ctx, email, HashPassword(password))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("looking up user: %w", err)
	}

	token := uuid.New().String()
	if err := s.cache.Set(ctx, sessionKey(token), user.ID.Hex(), SessionTTL); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}
	return token, nil
}

// Resolve returns the user id a token maps to. It is read-only and safe to
// call on every request.
func (s *SessionService) Resolve(ctx context.Context, token string) (primitive.ObjectID, error) {
	if token == "" {
		return primitive.NilObjectID, ErrUnauthorized
	}

	val, err := s.cache.Get(ctx, sessionKey(token))
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return primitive.NilObjectID, ErrUnauthorized
		}
		return primitive.NilObjectID, fmt.Errorf("reading session: %w", err)
	}

	id, err := primitive.ObjectIDFromHex(val)
	if err != nil {
		return primitive.NilObjectID, ErrUnauthorized
	}
	return id, nil
}

// Revoke deletes the token's mapping. A token that was never issued or has
// already expired yields ErrUnauthorized.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if _, err := s.Resolve(ctx, token); err != nil {
		return err
	}
	if err := s.cache.Del(ctx, sessionKey(token)); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

func parseBasicAuth(header string) (email, password string, ok bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[len(prefix):]))
	if err != nil {
		return "", "", false
	}
	creds := string(decoded)
	i := strings.IndexByte(creds, ':')
	if i < 0 {
		return "", "", false
	}
	return creds[:i], creds[i+1:], true
}

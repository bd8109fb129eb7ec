// Package auth performs the sign-in handshake and issues the bearer tokens
// that authorise session mutations.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "ferveu"

// Credentials are what the user typed on the sign-in screen.
type Credentials struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Identity is the confirmed user plus the token that proves it.
type Identity struct {
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Provider confirms credentials.
type Provider interface {
	Authenticate(ctx context.Context, creds Credentials) (Identity, error)
}

// Verifier validates previously issued tokens.
type Verifier interface {
	Verify(token string) (Identity, error)
}

// Claims are the JWT claims of a session token.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Local is a self-contained provider: it simulates the remote handshake
// latency and signs HS256 tokens with a shared secret.
type Local struct {
	secret []byte
	delay  time.Duration
	ttl    time.Duration
	now    func() time.Time
}

// NewLocal returns a Local provider.
func NewLocal(secret string, delay, ttl time.Duration) *Local {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Local{secret: []byte(secret), delay: delay, ttl: ttl, now: time.Now}
}

// Authenticate waits for the handshake delay, then issues a token.
// It returns ctx.Err() if the caller gives up first.
func (l *Local) Authenticate(ctx context.Context, creds Credentials) (Identity, error) {
	name := strings.TrimSpace(creds.Name)
	if name == "" {
		return Identity{}, ErrInvalidCredentials
	}
	if l.delay > 0 {
		t := time.NewTimer(l.delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return Identity{}, ctx.Err()
		case <-t.C:
		}
	}
	return l.Issue(UserIDFor(creds), name, strings.TrimSpace(creds.Email))
}

// Issue signs a token for an already confirmed user.
func (l *Local) Issue(userID, name, email string) (Identity, error) {
	now := l.now()
	exp := now.Add(l.ttl)
	claims := Claims{
		Name:  name,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(l.secret)
	if err != nil {
		return Identity{}, fmt.Errorf("sign token: %w", err)
	}
	return Identity{UserID: userID, Name: name, Email: email, Token: signed, ExpiresAt: exp}, nil
}

// Verify parses and validates a token issued by this provider.
func (l *Local) Verify(token string) (Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return l.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(l.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id := Identity{UserID: claims.Subject, Name: claims.Name, Email: claims.Email, Token: token}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

// UserIDFor derives a stable user id from the credentials so the same person
// maps to the same id across sign-ins.
func UserIDFor(creds Credentials) string {
	key := strings.ToLower(strings.TrimSpace(creds.Email))
	if key == "" {
		key = "name:" + strings.ToLower(strings.TrimSpace(creds.Name))
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("ferveu:"+key)).String()
}

// ExtractBearer extracts the token from an Authorization header.
func ExtractBearer(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrMissingToken
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errors.New("invalid Authorization header format, expected 'Bearer <token>'")
	}
	return parts[1], nil
}

package utils

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrSessionRevoked is returned for a well-formed session token that was logged out.
var ErrSessionRevoked = errors.New("session revoked")

// SessionClaims is the signed payload of the session cookie.
type SessionClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionManager issues, verifies and revokes cookie sessions signed with an HMAC secret.
type SessionManager struct {
	secret    []byte
	ttl       time.Duration
	cookie    string
	secure    bool
	blacklist *Blacklist
}

// NewSessionManager creates a SessionManager. blacklist may be nil, which disables revocation.
func NewSessionManager(secret string, ttl time.Duration, cookie string, secure bool, blacklist *Blacklist) *SessionManager {
	if blacklist == nil {
		blacklist = NewBlacklist(nil)
	}
	return &SessionManager{
		secret:    []byte(secret),
		ttl:       ttl,
		cookie:    cookie,
		secure:    secure,
		blacklist: blacklist,
	}
}

// CookieName is the name of the session cookie.
func (m *SessionManager) CookieName() string {
	return m.cookie
}

// Issue signs a new session token for the given identity.
func (m *SessionManager) Issue(userID uint, username string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates a session token and rejects revoked ones.
func (m *SessionManager) Parse(ctx context.Context, tokenStr string) (*SessionClaims, error) {
	claims, err := m.verify(tokenStr)
	if err != nil {
		return nil, err
	}
	if m.blacklist.IsRevoked(ctx, claims.ID) {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}

// Revoke blacklists the token until it expires. Invalid tokens are ignored.
func (m *SessionManager) Revoke(ctx context.Context, tokenStr string) {
	claims, err := m.verify(tokenStr)
	if err != nil {
		return
	}
	expiresAt := time.Now().Add(m.ttl)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	m.blacklist.Revoke(ctx, claims.ID, expiresAt)
}

func (m *SessionManager) verify(tokenStr string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid session claims")
	}
	return claims, nil
}

// SetCookie writes the session cookie.
func (m *SessionManager) SetCookie(ctx *gin.Context, token string) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(m.cookie, token, int(m.ttl.Seconds()), "/", "", m.secure, true)
}

// ClearCookie expires the session cookie in the browser.
func (m *SessionManager) ClearCookie(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(m.cookie, "", -1, "/", "", m.secure, true)
}

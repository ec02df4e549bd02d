package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid session token")

// Claims represents the JWT claims of an anonymous storefront session
type Claims struct {
	SessionID string `json:"sid"`
	jwt.StandardClaims
}

// SessionTokens signs and verifies session tokens with one HMAC key
type SessionTokens struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewSessionTokens(secret string, ttl time.Duration) *SessionTokens {
	return &SessionTokens{key: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue starts a new session and returns its id and signed token
func (st *SessionTokens) Issue() (string, string, error) {
	sessionID := uuid.NewString()
	now := st.now()
	claims := &Claims{
		SessionID: sessionID,
		StandardClaims: jwt.StandardClaims{
			Id:        sessionID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(st.ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(st.key)
	if err != nil {
		return "", "", fmt.Errorf("sign session token: %w", err)
	}
	return sessionID, tokenString, nil
}

// Parse verifies tokenString and returns its claims
func (st *SessionTokens) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return st.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

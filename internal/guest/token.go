package guest

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/davidbloss/wghub/internal/model"
)

// ErrInvalidToken is returned for expired, malformed, or foreign-key
// guest tokens.
var ErrInvalidToken = errors.New("invalid guest token")

// Claims is the payload of a guest session token. Subject is the pass id.
type Claims struct {
	GuestName string `json:"guest_name"`
	WGID      string `json:"wg_id"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies short-lived guest session tokens. A
// token is handed out when an access code validates; revoking the pass
// does not recall tokens already issued, which is why the TTL is short.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl, now: time.Now}
}

// Issue signs a session token for the holder of a validated pass.
func (ti *TokenIssuer) Issue(pass model.GuestPass) (string, error) {
	now := ti.now()
	claims := Claims{
		GuestName: pass.GuestName,
		WGID:      pass.WGID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   pass.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("sign guest token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a guest session token.
func (ti *TokenIssuer) Verify(tokenString string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return ti.secret, nil
	}, jwt.WithTimeFunc(ti.now))
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the access token lifetime when none is configured.
const DefaultTokenTTL = 30 * time.Minute

// Claims is the payload of an access token: the username in sub plus expiry.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 access tokens. It holds no mutable
// state and is safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService builds a TokenService signing with secret. ttl is the
// default lifetime used by Issue.
func NewTokenService(secret []byte, ttl time.Duration) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: empty signing secret")
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token ttl must be positive")
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &TokenService{secret: key, ttl: ttl, now: time.Now}, nil
}

// TTL returns the default token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for subject with the default lifetime.
func (s *TokenService) Issue(subject string) (string, error) {
	return s.IssueWithTTL(subject, s.ttl)
}

// IssueWithTTL signs a token for subject that expires ttl from now. A
// negative ttl yields a token that is already expired.
func (s *TokenService) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate checks the signature and expiry of token and returns its claims.
// Any failure is an *Error matching ErrUnauthorized.
func (s *TokenService) Validate(token string) (*Claims, error) {
	if token == "" {
		return nil, unauthorized(ReasonMissingToken, nil)
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, unauthorized(ReasonExpired, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, unauthorized(ReasonBadSignature, err)
		default:
			return nil, unauthorized(ReasonMalformedToken, err)
		}
	}
	if !parsed.Valid {
		return nil, unauthorized(ReasonMalformedToken, nil)
	}
	if claims.Subject == "" {
		return nil, unauthorized(ReasonMissingSubject, nil)
	}
	return claims, nil
}

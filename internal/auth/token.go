package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"medmarket/internal/entity"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Principal is the authenticated identity attached to a request after
// successful token verification.
type Principal struct {
	UserID int
	Role   entity.Role
}

type jwtCustomClaims struct {
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies signed session tokens. Claims are
// trusted without a store lookup, so the signature is the only thing
// standing between a client and an arbitrary role.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: ttl}
}

// Issue binds the identity and role into an HS256 token with an
// absolute expiry.
func (c *TokenCodec) Issue(userID int, role entity.Role) (string, error) {
	now := time.Now()
	claims := &jwtCustomClaims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks the signature and expiry and returns the embedded
// principal. ErrTokenExpired and ErrTokenInvalid are distinct so
// callers can log them differently; both are unauthorized outward.
func (c *TokenCodec) Verify(raw string) (Principal, error) {
	claims := &jwtCustomClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, ErrTokenExpired
		}
		return Principal{}, ErrTokenInvalid
	}

	role, err := entity.ParseRole(claims.Role)
	if err != nil {
		return Principal{}, ErrTokenInvalid
	}
	if claims.UserID <= 0 {
		return Principal{}, ErrTokenInvalid
	}
	return Principal{UserID: claims.UserID, Role: role}, nil
}

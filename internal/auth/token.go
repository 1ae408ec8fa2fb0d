package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every verification failure: bad
// signature, malformed token, unexpected algorithm or expired claims.
// Collapsing them into one error keeps callers from leaking which check
// failed.
var ErrInvalidToken = errors.New("invalid token")

// purposeReset marks tokens that may only be redeemed by the password
// reset endpoint. Access token verification rejects them.
const purposeReset = "password_reset"

// AccessToken is a signed JWT along with its expiry. Tokens are
// self-contained: validity is decided by signature and expiry alone, there
// is no server-side revocation list.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs a JWT for a user. Claims are the subject
// (sub), issued at (iat) and expiration (exp).
func NewAccessToken(secret, alg string, userID uint64, ttl time.Duration) (AccessToken, error) {
	return newToken(secret, alg, userID, ttl, "")
}

// NewResetToken issues a short-lived token scoped to password resets via a
// purpose claim, signed with the same key material.
func NewResetToken(secret, alg string, userID uint64, ttl time.Duration) (AccessToken, error) {
	return newToken(secret, alg, userID, ttl, purposeReset)
}

func newToken(secret, alg string, userID uint64, ttl time.Duration, purpose string) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": exp.Unix(),
	}
	if purpose != "" {
		claims["purpose"] = purpose
	}
	t := jwt.NewWithClaims(signingMethod(alg), claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// VerifyAccessToken checks signature and expiry and returns the subject
// user ID. Purpose-scoped tokens do not authenticate requests.
func VerifyAccessToken(secret, raw string) (uint64, error) {
	claims, err := parse(secret, raw)
	if err != nil {
		return 0, err
	}
	if _, scoped := claims["purpose"]; scoped {
		return 0, ErrInvalidToken
	}
	return subject(claims)
}

// VerifyResetToken checks a password reset token and returns the subject
// user ID.
func VerifyResetToken(secret, raw string) (uint64, error) {
	claims, err := parse(secret, raw)
	if err != nil {
		return 0, err
	}
	if p, _ := claims["purpose"].(string); p != purposeReset {
		return 0, ErrInvalidToken
	}
	return subject(claims)
}

func parse(secret, raw string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Only HMAC variants are ever issued; reject anything else.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// subject extracts the sub claim. Numeric claims decode as float64; some
// clients re-sign with string subjects, so both are accepted.
func subject(claims jwt.MapClaims) (uint64, error) {
	switch v := claims["sub"].(type) {
	case float64:
		return uint64(v), nil
	case string:
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			return id, nil
		}
	}
	return 0, ErrInvalidToken
}

func signingMethod(alg string) jwt.SigningMethod {
	switch alg {
	case "HS384":
		return jwt.SigningMethodHS384
	case "HS512":
		return jwt.SigningMethodHS512
	default:
		return jwt.SigningMethodHS256
	}
}

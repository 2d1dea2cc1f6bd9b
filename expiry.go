package goAuthClient

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiry extracts the exp claim from a JWT access token without verifying the
// signature. Verification is the backend's job; the client only peeks at expiry to
// decide whether a proactive renewal is worthwhile. Opaque (non-JWT) tokens report
// no expiry and are renewed reactively on 401.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func expiresWithin(token string, lead time.Duration) bool {
	exp, ok := tokenExpiry(token)
	if !ok {
		return false
	}
	return time.Until(exp) <= lead
}

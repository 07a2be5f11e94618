package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// CookieName carries the signed session id.
const CookieName = "portal_session"

var (
	ErrNoCookie      = errors.New("no session cookie")
	ErrInvalidCookie = errors.New("invalid session cookie")
)

type sessionClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// CookieSigner issues and verifies the HS256 session cookie. The cookie
// only names a server-side session; the backend token never leaves the
// portal.
type CookieSigner struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewCookieSigner builds a signer. A zero ttl issues session cookies with
// no expiry claim.
func NewCookieSigner(secret string, ttl time.Duration, secure bool) *CookieSigner {
	return &CookieSigner{secret: []byte(secret), ttl: ttl, secure: secure}
}

// NewSessionID returns a fresh random session id.
func NewSessionID() string {
	return uuid.NewString()
}

// Sign returns the cookie value for sid.
func (c *CookieSigner) Sign(sid string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		SID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Parse verifies a cookie value and returns its session id.
func (c *CookieSigner) Parse(value string) (string, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(strings.TrimSpace(value), &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidCookie
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidCookie
	}
	if _, err := uuid.Parse(claims.SID); err != nil {
		return "", ErrInvalidCookie
	}
	return claims.SID, nil
}

// SessionID reads and verifies the request cookie.
func (c *CookieSigner) SessionID(r *http.Request) (string, error) {
	ck, err := r.Cookie(CookieName)
	if err != nil {
		return "", ErrNoCookie
	}
	return c.Parse(ck.Value)
}

// Issue sets the cookie for sid on the response.
func (c *CookieSigner) Issue(w http.ResponseWriter, sid string) error {
	value, err := c.Sign(sid)
	if err != nil {
		return err
	}
	ck := &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if c.ttl > 0 {
		ck.MaxAge = int(c.ttl.Seconds())
	}
	http.SetCookie(w, ck)
	return nil
}

// Expire tells the browser to drop the cookie.
func (c *CookieSigner) Expire(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

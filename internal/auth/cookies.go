package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const SessionCookieName = "wicc_session"

// CookieCodec signs operator sessions. The cookie value is the session's
// expiry timestamp plus an HMAC over it; there is a single operator, so no
// session table is needed.
type CookieCodec struct {
	secret []byte
}

func NewCookieCodec(secret []byte) CookieCodec {
	secretCopy := make([]byte, len(secret))
	copy(secretCopy, secret)
	return CookieCodec{secret: secretCopy}
}

func (c CookieCodec) Encode(expiresAt time.Time) string {
	payload := strconv.FormatInt(expiresAt.Unix(), 10)
	return payload + "." + base64.RawURLEncoding.EncodeToString(c.sign(payload))
}

// Decode verifies the signature and returns the session expiry. A tampered,
// malformed or expired value yields false.
func (c CookieCodec) Decode(cookieValue string, now time.Time) (time.Time, bool) {
	payload, sigB64, ok := strings.Cut(cookieValue, ".")
	if !ok || payload == "" || sigB64 == "" {
		return time.Time{}, false
	}

	sig, err := base64.RawURLEncoding.DecodeString(sigB64)
	if err != nil || len(sig) != sha256.Size {
		return time.Time{}, false
	}
	if subtle.ConstantTimeCompare(sig, c.sign(payload)) != 1 {
		return time.Time{}, false
	}

	unix, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	expiresAt := time.Unix(unix, 0)
	if !now.Before(expiresAt) {
		return time.Time{}, false
	}
	return expiresAt, true
}

func (c CookieCodec) sign(payload string) []byte {
	mac := hmac.New(sha256.New, c.secret)
	_, _ = mac.Write([]byte(payload))
	return mac.Sum(nil)
}

func SetSessionCookie(w http.ResponseWriter, cookieValue string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    cookieValue,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
	})
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}

package httpapi

import (
	"net/http"
	"time"

	"WiccRecorderwebserver/internal/auth"
	"WiccRecorderwebserver/internal/domain"
)

// requireAuth gates scorer endpoints behind the operator cookie. When
// no passcode hash is configured the instance runs open, for local
// single-operator use.
func (a *api) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.passcodeHash == "" {
			next.ServeHTTP(w, r)
			return
		}

		c, err := r.Cookie(auth.SessionCookieName)
		if err != nil || c.Value == "" {
			WriteDomainError(w, domain.ErrUnauthorized)
			return
		}
		if _, ok := a.cookieCodec.Decode(c.Value, time.Now()); !ok {
			WriteDomainError(w, domain.ErrUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	}
}

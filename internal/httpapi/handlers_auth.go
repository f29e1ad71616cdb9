package httpapi

import (
	"net/http"
	"time"

	"WiccRecorderwebserver/internal/auth"
	"WiccRecorderwebserver/internal/domain"
)

type loginRequest struct {
	Passcode string `json:"passcode"`
}

func (a *api) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}
	if req.Passcode == "" {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"passcode": "required"}))
		return
	}
	if a.passcodeHash == "" {
		WriteError(w, http.StatusConflict, "auth_disabled", "no operator passcode configured")
		return
	}

	now := time.Now()
	if !a.loginLimiter.Allow("ip:"+clientIP(r), now) {
		WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many attempts")
		return
	}

	ok, err := auth.VerifyPasscode(a.passcodeHash, req.Passcode)
	if err != nil {
		a.logger.Error("passcode hash unusable", "error", err)
		WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	if !ok {
		WriteDomainError(w, domain.ErrInvalidCredentials)
		return
	}

	expiresAt := now.Add(a.sessionTTL)
	auth.SetSessionCookie(w, a.cookieCodec.Encode(expiresAt), a.sessionTTL, a.cookieSecure)
	WriteJSON(w, http.StatusOK, map[string]any{"expires_at": expiresAt.UTC()})
}

func (a *api) handleAuthLogout(w http.ResponseWriter, _ *http.Request) {
	auth.ClearSessionCookie(w, a.cookieSecure)
	w.WriteHeader(http.StatusNoContent)
}

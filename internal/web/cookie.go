// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 skbp Contributors

package web

import (
	"net/http"
	"time"

	"github.com/techydad05/skbp/internal/auth"
)

// SessionCookieName is the cookie carrying the raw session token. The value
// is always the raw token text, never the lookup key.
const SessionCookieName = "auth-session"

// cookieWriter binds session tokens into client cookies. HttpOnly and
// SameSite are always set; Secure follows deployment configuration.
type cookieWriter struct {
	secure bool
}

// set writes the session cookie with the given token and expiry.
func (c cookieWriter) set(w http.ResponseWriter, token auth.RawToken, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    string(token),
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clear instructs the client to drop the session cookie.
func (c cookieWriter) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// tokenFromRequest extracts the raw token from the request cookie, or ""
// when no cookie is present.
func tokenFromRequest(r *http.Request) auth.RawToken {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return auth.RawToken(cookie.Value)
}

/*
Package csrf implements double-submit cookie protection for state-changing routes.

A cryptographically random token is issued in a cookie the frontend can read
(not HttpOnly) and must be echoed back byte-for-byte in the x-csrf-token header
on every state-changing request. No server-side token storage is involved: only
same-origin script can read the cookie, so only the legitimate frontend can
attach a matching header.
*/
package csrf

import (
	"crypto/subtle"
	"net/http"

	"github.com/herkeens/Secure-Payment-App/internal/pkg/errs"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/randx"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/resp"
)

const (
	// HeaderName is the request header that must echo the cookie token.
	HeaderName = "x-csrf-token"

	// CookieMaxAge bounds the token lifetime to one hour.
	CookieMaxAge = 3600
)

// IssueHandler returns the handler for the token bootstrap route. It mints a
// fresh 256-bit token on every call and stores it in a readable, Secure,
// SameSite=Strict cookie scoped to path "/".
func IssueHandler(cookieName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := randx.CSRFToken()
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    token,
			Path:     "/",
			MaxAge:   CookieMaxAge,
			HttpOnly: false,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		})

		resp.RespondSuccess(w, r, nil)
	}
}

// Require returns a middleware enforcing the double-submit check on every
// state-changing request. Safe methods pass through: they perform no state
// change, and the bootstrap call itself must stay reachable without a token.
// Absence of either side, or any mismatch, fails with the same Forbidden
// error; the comparison is constant-time.
func Require(cookieName string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get(HeaderName)

			cookie, err := r.Cookie(cookieName)
			if err != nil || header == "" || !tokensEqual(cookie.Value, header) {
				resp.RespondError(w, r, errs.NewError(errs.ErrCSRFTokenInvalid))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// tokensEqual compares two tokens in constant time.
func tokensEqual(cookieToken, headerToken string) bool {
	if cookieToken == "" || headerToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookieToken), []byte(headerToken)) == 1
}

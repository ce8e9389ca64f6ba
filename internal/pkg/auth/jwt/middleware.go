package jwt

import (
	"context"
	"net/http"

	"github.com/herkeens/Secure-Payment-App/internal/pkg/errs"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/resp"
)

// Cookie names, one per token kind so the two sessions can never be confused.
const (
	// SubmitterCookieName carries the customer session token.
	SubmitterCookieName = "session"

	// VerifierCookieName carries the staff session token.
	VerifierCookieName = "staff_session"
)

// Context keys for the verified claim sets, unexported type to prevent collisions.
type contextKey string

const (
	submitterContextKey contextKey = "submitter_claims"
	verifierContextKey  contextKey = "verifier_claims"
)

// RequireSubmitter returns a middleware that rejects requests without a valid
// customer session cookie. A verifier token presented here is rejected even
// though it is a structurally valid signed token. All failures are one opaque 401.
func RequireSubmitter(secretKey string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SubmitterCookieName)
			if err != nil || cookie.Value == "" {
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			claims, err := VerifySubmitter(cookie.Value, secretKey)
			if err != nil {
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			ctx := context.WithValue(r.Context(), submitterContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireVerifier returns a middleware that rejects requests without a valid
// staff session cookie carrying role "staff". The mirror-image of
// RequireSubmitter: submitter tokens never pass here.
func RequireVerifier(secretKey string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(VerifierCookieName)
			if err != nil || cookie.Value == "" {
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			claims, err := VerifyVerifier(cookie.Value, secretKey)
			if err != nil {
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			ctx := context.WithValue(r.Context(), verifierContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubmitterFromContext extracts the verified submitter claims injected by RequireSubmitter.
// It returns nil when the request did not pass through the middleware.
func SubmitterFromContext(r *http.Request) *SubmitterClaims {
	claims, ok := r.Context().Value(submitterContextKey).(*SubmitterClaims)
	if !ok {
		return nil
	}
	return claims
}

// VerifierFromContext extracts the verified verifier claims injected by RequireVerifier.
func VerifierFromContext(r *http.Request) *VerifierClaims {
	claims, ok := r.Context().Value(verifierContextKey).(*VerifierClaims)
	if !ok {
		return nil
	}
	return claims
}

// SetSessionCookie writes a session token into its protected cookie:
// HttpOnly, Secure, SameSite=Strict, scoped to path "/".
func SetSessionCookie(w http.ResponseWriter, name, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookie expires the named session cookie. Only the specific
// cookie is cleared; the other session namespace is untouched.
func ClearSessionCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

package csrf

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCookieName = "__Host-csrf"

func issueToken(t *testing.T) *http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	IssueHandler(testCookieName)(rec, httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestIssueSetsReadableCookie(t *testing.T) {
	cookie := issueToken(t)

	assert.Equal(t, testCookieName, cookie.Name)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), cookie.Value)
	assert.False(t, cookie.HttpOnly, "frontend script must be able to read the token")
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, CookieMaxAge, cookie.MaxAge)
}

func TestIssuedTokensAreUnpredictable(t *testing.T) {
	assert.NotEqual(t, issueToken(t).Value, issueToken(t).Value)
}

func TestRequireMiddleware(t *testing.T) {
	protected := Require(testCookieName)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	cookie := issueToken(t)

	// Flip the last character so the mismatch case never collides.
	last := "0"
	if cookie.Value[63] == '0' {
		last = "1"
	}
	mismatched := cookie.Value[:63] + last

	cases := []struct {
		name       string
		withCookie bool
		header     string
		wantStatus int
	}{
		{"matching pair", true, cookie.Value, http.StatusOK},
		{"missing header", true, "", http.StatusForbidden},
		{"missing cookie", false, cookie.Value, http.StatusForbidden},
		{"mismatched header", true, mismatched, http.StatusForbidden},
		{"both absent", false, "", http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/payments/transfer", nil)
			if tc.withCookie {
				r.AddCookie(&http.Cookie{Name: testCookieName, Value: cookie.Value})
			}
			if tc.header != "" {
				r.Header.Set(HeaderName, tc.header)
			}

			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, r)
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}

	t.Run("safe method passes without token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

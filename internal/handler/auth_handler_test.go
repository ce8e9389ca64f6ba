package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herkeens/Secure-Payment-App/internal/pkg/auth/jwt"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/errs"
)

func validRegisterBody() map[string]any {
	return map[string]any{
		"name":            "Alice Morgan",
		"email":           "alice@example.com",
		"username":        "alice",
		"idNumber":        "9001015800087",
		"accountNumber":   "1234567890",
		"password":        "Passw0rd!",
		"confirmPassword": "Passw0rd!",
	}
}

func TestHandleRegister(t *testing.T) {
	t.Run("creates user and returns public fields", func(t *testing.T) {
		deps := newTestDeps(t)

		rec := postJSON(t, HandleRegister(deps), "/api/auth/register", validRegisterBody())
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		envelope := decodeEnvelope(t, rec)
		data := envelope["data"].(map[string]any)
		user := data["user"].(map[string]any)

		assert.Equal(t, "alice", user["username"])
		assert.Equal(t, "1234567890", user["accountNumber"])
		assert.NotEmpty(t, user["id"])
		assert.NotContains(t, rec.Body.String(), "password")
		assert.NotContains(t, rec.Body.String(), "idNumber")
	})

	t.Run("rejects invalid fields and names them", func(t *testing.T) {
		deps := newTestDeps(t)

		body := validRegisterBody()
		body["username"] = "x"           // too short
		body["accountNumber"] = "12ab34" // not all digits

		rec := postJSON(t, HandleRegister(deps), "/api/auth/register", body)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		fields := envelopeFields(t, rec)
		assert.ElementsMatch(t, []string{"username", "accountNumber"}, fields)
	})

	t.Run("enforces password policy", func(t *testing.T) {
		deps := newTestDeps(t)

		weak := []string{
			"short1A",    // under 8 chars
			"alllower1",  // no uppercase
			"ALLUPPER1",  // no lowercase
			"NoDigitsHere",
		}

		for _, pw := range weak {
			body := validRegisterBody()
			body["password"] = pw
			body["confirmPassword"] = pw

			rec := postJSON(t, HandleRegister(deps), "/api/auth/register", body)
			require.Equal(t, http.StatusBadRequest, rec.Code, "password %q should be rejected", pw)
			assert.Contains(t, envelopeFields(t, rec), "password")
		}
	})

	t.Run("rejects mismatched confirmation", func(t *testing.T) {
		deps := newTestDeps(t)

		body := validRegisterBody()
		body["confirmPassword"] = "Different1"

		rec := postJSON(t, HandleRegister(deps), "/api/auth/register", body)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, envelopeFields(t, rec), "confirmPassword")
	})

	t.Run("reports conflicts without naming the colliding field", func(t *testing.T) {
		deps := newTestDeps(t)
		seedUser(t, deps, "alice", "1234567890", "Passw0rd!")

		rec := postJSON(t, HandleRegister(deps), "/api/auth/register", validRegisterBody())
		require.Equal(t, http.StatusConflict, rec.Code)

		envelope := decodeEnvelope(t, rec)
		assert.Equal(t, float64(errs.ErrUserAlreadyExists), envelope["code"])
		assert.NotContains(t, envelope, "fields")
	})
}

func TestHandleLogin(t *testing.T) {
	login := func(t *testing.T, deps *AppDeps, password string) *httptest.ResponseRecorder {
		return postJSON(t, HandleLogin(deps), "/api/auth/login", map[string]any{
			"username":      "alice",
			"accountNumber": "1234567890",
			"password":      password,
		})
	}

	t.Run("issues session cookie on success", func(t *testing.T) {
		deps := newTestDeps(t)
		user := seedUser(t, deps, "alice", "1234567890", "Passw0rd!")

		rec := login(t, deps, "Passw0rd!")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		cookies := rec.Result().Cookies()
		var session *http.Cookie
		for _, c := range cookies {
			if c.Name == jwt.SubmitterCookieName {
				session = c
			}
		}
		require.NotNil(t, session, "session cookie missing")
		assert.True(t, session.HttpOnly)
		assert.True(t, session.Secure)
		assert.Equal(t, http.SameSiteStrictMode, session.SameSite)

		claims, err := jwt.VerifySubmitter(session.Value, deps.Config.JWTSecret)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.Subject)
	})

	t.Run("rejects wrong password and unknown user identically", func(t *testing.T) {
		deps := newTestDeps(t)
		seedUser(t, deps, "alice", "1234567890", "Passw0rd!")

		wrongPW := login(t, deps, "WrongPass1")
		require.Equal(t, http.StatusUnauthorized, wrongPW.Code)

		unknown := postJSON(t, HandleLogin(deps), "/api/auth/login", map[string]any{
			"username":      "nobody",
			"accountNumber": "9999999999",
			"password":      "WrongPass1",
		})
		require.Equal(t, http.StatusUnauthorized, unknown.Code)

		assert.JSONEq(t, wrongPW.Body.String(), unknown.Body.String())
	})

	t.Run("locks the identity after repeated failures", func(t *testing.T) {
		deps := newTestDeps(t)
		seedUser(t, deps, "alice", "1234567890", "Passw0rd!")

		for i := 0; i < 5; i++ {
			rec := login(t, deps, "WrongPass1")
			require.Equal(t, http.StatusUnauthorized, rec.Code, "attempt %d", i+1)
		}

		// The sixth attempt is refused before credentials are checked,
		// even when the password is now correct.
		rec := login(t, deps, "Passw0rd!")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)

		envelope := decodeEnvelope(t, rec)
		assert.Equal(t, float64(errs.ErrLoginLocked), envelope["code"])
	})

	t.Run("success resets the failure counter", func(t *testing.T) {
		deps := newTestDeps(t)
		seedUser(t, deps, "alice", "1234567890", "Passw0rd!")

		for i := 0; i < 4; i++ {
			login(t, deps, "WrongPass1")
		}

		rec := login(t, deps, "Passw0rd!")
		require.Equal(t, http.StatusOK, rec.Code)

		// The counter is back at zero, so four more failures do not lock.
		for i := 0; i < 4; i++ {
			rec := login(t, deps, "WrongPass1")
			require.Equal(t, http.StatusUnauthorized, rec.Code)
		}
	})

	t.Run("different account numbers track separately", func(t *testing.T) {
		deps := newTestDeps(t)
		seedUser(t, deps, "alice", "1234567890", "Passw0rd!")
		seedUser(t, deps, "bob", "2222222222", "Passw0rd!")

		for i := 0; i < 5; i++ {
			login(t, deps, "WrongPass1")
		}

		rec := postJSON(t, HandleLogin(deps), "/api/auth/login", map[string]any{
			"username":      "bob",
			"accountNumber": "2222222222",
			"password":      "Passw0rd!",
		})
		require.Equal(t, http.StatusOK, rec.Code, "lockout must not leak across identities")
	})

	t.Run("validates input shape before touching the guard", func(t *testing.T) {
		deps := newTestDeps(t)

		rec := postJSON(t, HandleLogin(deps), "/api/auth/login", map[string]any{
			"username":      "al",
			"accountNumber": "1234567890",
			"password":      "",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.ElementsMatch(t, []string{"username", "password"}, envelopeFields(t, rec))
	})
}

func TestHandleLogout(t *testing.T) {
	deps := newTestDeps(t)

	rec := postJSON(t, HandleLogout(deps), "/api/auth/logout", map[string]any{})
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, jwt.SubmitterCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

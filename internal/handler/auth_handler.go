// This file contains the customer authentication handlers: registration,
// login (wrapped by the brute-force guard), session introspection, and logout.

package handler

import (
	"errors"
	"net"
	"net/http"
	"regexp"
	"strings"
	"unicode"

	"github.com/herkeens/Secure-Payment-App/internal/app/store"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/auth/jwt"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/bruteforce"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/errs"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/logx"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/req"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/resp"
)

var (
	nameRegex     = regexp.MustCompile(`^[A-Za-zÀ-ÖØ-öø-ÿ' -]{2,80}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,32}$`)
	idNumberRegex = regexp.MustCompile(`^[0-9A-Za-z-]{6,32}$`)
	accountRegex  = regexp.MustCompile(`^[0-9]{6,20}$`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// validPassword enforces the registration password policy: at least 8
// characters with a lowercase letter, an uppercase letter, and a digit.
func validPassword(pw string) bool {
	if len(pw) < 8 {
		return false
	}

	var hasLower, hasUpper, hasDigit bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	return hasLower && hasUpper && hasDigit
}

// clientIP extracts the client address for the lockout identity. The RealIP
// middleware has already folded proxy headers into RemoteAddr.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if ip == "" {
		ip = "unknown_ip"
	}
	return ip
}

type RegisterInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	IDNumber        string `json:"idNumber"`
	AccountNumber   string `json:"accountNumber"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// HandleRegister creates a new submitter account. Validation failures
// enumerate the offending fields; unique collisions on username, account
// number, or email are reported as a conflict without naming which field
// collided.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input RegisterInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		input.Name = strings.TrimSpace(input.Name)
		input.Email = strings.ToLower(strings.TrimSpace(input.Email))
		input.Username = strings.TrimSpace(input.Username)
		input.IDNumber = strings.TrimSpace(input.IDNumber)
		input.AccountNumber = strings.TrimSpace(input.AccountNumber)

		var badFields []string
		if !nameRegex.MatchString(input.Name) {
			badFields = append(badFields, "name")
		}
		if input.Email != "" && !emailRegex.MatchString(input.Email) {
			badFields = append(badFields, "email")
		}
		if !usernameRegex.MatchString(input.Username) {
			badFields = append(badFields, "username")
		}
		if !idNumberRegex.MatchString(input.IDNumber) {
			badFields = append(badFields, "idNumber")
		}
		if !accountRegex.MatchString(input.AccountNumber) {
			badFields = append(badFields, "accountNumber")
		}
		if !validPassword(input.Password) {
			badFields = append(badFields, "password")
		}
		if input.ConfirmPassword != input.Password {
			badFields = append(badFields, "confirmPassword")
		}
		if len(badFields) > 0 {
			resp.RespondError(w, r, errs.NewValidationError(badFields...))
			return
		}

		hash, err := deps.Hasher.Hash(r.Context(), input.Password)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		var email *string
		if input.Email != "" {
			email = &input.Email
		}

		user, err := deps.Users.CreateUser(r.Context(), store.CreateUserParams{
			Name:          input.Name,
			Email:         email,
			Username:      input.Username,
			IDNumber:      input.IDNumber,
			AccountNumber: input.AccountNumber,
			PasswordHash:  hash,
		})

		if err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				logx.Warn("registration conflict on unique field", "username", input.Username)
				resp.RespondError(w, r, errs.NewError(errs.ErrUserAlreadyExists))
				return
			}

			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondCreated(w, r, map[string]any{
			"user": map[string]any{
				"id":            user.ID,
				"name":          user.Name,
				"username":      user.Username,
				"accountNumber": user.AccountNumber,
			},
		})
	}
}

type LoginInput struct {
	Username      string `json:"username"`
	AccountNumber string `json:"accountNumber"`
	Password      string `json:"password"`
}

// HandleLogin verifies submitter credentials and issues the customer session
// cookie. The brute-force guard is consulted before any credential work; a
// lookup miss still burns a dummy hash verification so that unknown-user and
// wrong-password attempts take comparable time.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input LoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		input.Username = strings.TrimSpace(input.Username)
		input.AccountNumber = strings.TrimSpace(input.AccountNumber)

		var badFields []string
		if !usernameRegex.MatchString(input.Username) {
			badFields = append(badFields, "username")
		}
		if !accountRegex.MatchString(input.AccountNumber) {
			badFields = append(badFields, "accountNumber")
		}
		if input.Password == "" {
			badFields = append(badFields, "password")
		}
		if len(badFields) > 0 {
			resp.RespondError(w, r, errs.NewValidationError(badFields...))
			return
		}

		identity := bruteforce.Identity(clientIP(r), input.Username, input.AccountNumber)

		// Any guard failure locks the attempt out; the guard never reveals
		// which sub-identity tripped the limit, and neither does this handler.
		if err := deps.Guard.Consume(r.Context(), identity); err != nil {
			if !errors.Is(err, bruteforce.ErrLimited) {
				logx.Error(err, "brute-force guard consume failed, failing closed")
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrLoginLocked))
			return
		}

		user, err := deps.Users.GetUserByLogin(r.Context(), input.Username, input.AccountNumber)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				deps.Hasher.DummyVerify(r.Context())
				recordLoginFailure(deps, r, identity)
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
				return
			}

			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		ok, err := deps.Hasher.Verify(r.Context(), user.PasswordHash, input.Password)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}
		if !ok {
			recordLoginFailure(deps, r, identity)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := deps.Guard.Reset(r.Context(), identity); err != nil {
			logx.Error(err, "failed to reset brute-force counter after successful login")
		}

		token, err := jwt.GenerateSubmitter(user.ID, user.Email, &user.Name, deps.Config.JWTSecret)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		jwt.SetSessionCookie(w, jwt.SubmitterCookieName, token)

		resp.RespondSuccess(w, r, map[string]any{
			"user": map[string]any{
				"id":            user.ID,
				"name":          user.Name,
				"username":      user.Username,
				"accountNumber": user.AccountNumber,
			},
		})
	}
}

// recordLoginFailure adds a penalty point for the identity. Guard errors are
// logged and swallowed: a failed penalty must not change the login response.
func recordLoginFailure(deps *AppDeps, r *http.Request, identity string) {
	if err := deps.Guard.Penalty(r.Context(), identity); err != nil {
		logx.Error(err, "failed to record login failure")
	}
}

// HandleMe returns the verified claims of the current submitter session.
func HandleMe(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := jwt.SubmitterFromContext(r)
		if claims == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"sub":   claims.Subject,
			"email": claims.Email,
			"name":  claims.Name,
		})
	}
}

// HandleLogout clears the submitter session cookie. Tokens are short-lived
// and stateless, so there is no server-side revocation to perform.
func HandleLogout(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jwt.ClearSessionCookie(w, jwt.SubmitterCookieName)
		resp.RespondSuccess(w, r, nil)
	}
}

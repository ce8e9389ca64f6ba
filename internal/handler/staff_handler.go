package handler

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/herkeens/Secure-Payment-App/internal/app/store"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/auth/jwt"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/errs"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/randx"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/req"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/resp"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/sanitize"
)

var (
	staffPasswordRegex = regexp.MustCompile(`^[A-Za-z0-9!@#$%^&*]{6,72}$`)

	// Strict SWIFT/BIC shape: bank, country, location, optional branch.
	verifySwiftRegex = regexp.MustCompile(`^[A-Z]{4}[A-Z]{2}[A-Z0-9]{2}([A-Z0-9]{3})?$`)
)

type StaffLoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleStaffLogin authenticates a verifier and issues the staff session
// cookie. Unknown usernames burn a dummy hash verification so the response
// time does not reveal whether the account exists.
func HandleStaffLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input StaffLoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		input.Username = strings.TrimSpace(input.Username)
		input.Password = strings.TrimSpace(input.Password)

		var badFields []string
		if !usernameRegex.MatchString(input.Username) {
			badFields = append(badFields, "username")
		}
		if !staffPasswordRegex.MatchString(input.Password) {
			badFields = append(badFields, "password")
		}
		if len(badFields) > 0 {
			resp.RespondError(w, r, errs.NewValidationError(badFields...))
			return
		}

		staff, err := deps.Staff.GetStaffByUsername(r.Context(), input.Username)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				deps.Hasher.DummyVerify(r.Context())
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
				return
			}

			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		ok, err := deps.Hasher.Verify(r.Context(), staff.PasswordHash, input.Password)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		token, err := jwt.GenerateVerifier(staff.ID, staff.Name, deps.Config.JWTSecret)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		jwt.SetSessionCookie(w, jwt.VerifierCookieName, token)

		resp.RespondSuccess(w, r, map[string]any{
			"staff": map[string]any{
				"id":   staff.ID,
				"name": staff.Name,
			},
		})
	}
}

// HandleStaffLogout clears the staff session cookie.
func HandleStaffLogout(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jwt.ClearSessionCookie(w, jwt.VerifierCookieName)
		resp.RespondSuccess(w, r, nil)
	}
}

// HandlePendingTransfers lists transfers awaiting verification or forwarding,
// newest first.
func HandlePendingTransfers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := deps.Transfers.PendingTransfers(r.Context())
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		if items == nil {
			items = []store.Transfer{}
		}

		resp.RespondSuccess(w, r, map[string]any{"items": items})
	}
}

// transferIDParam extracts and validates the {id} URL parameter. The route
// sanitizer does not see URL parameters, so markup stripping happens here.
func transferIDParam(r *http.Request) (string, bool) {
	id := sanitize.String(chi.URLParam(r, "id"))
	return id, randx.IsValidRecordID(id)
}

type VerifyInput struct {
	Swift string `json:"swift"`
}

// HandleVerifyTransfer approves a submitted transfer, recording the confirmed
// SWIFT code and the verifying staff member. A transfer that is missing or no
// longer in the submitted state reports not found.
func HandleVerifyTransfer(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := jwt.VerifierFromContext(r)
		if claims == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		id, ok := transferIDParam(r)
		if !ok {
			resp.RespondError(w, r, errs.NewValidationError("id"))
			return
		}

		var input VerifyInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		input.Swift = strings.TrimSpace(input.Swift)
		if !verifySwiftRegex.MatchString(input.Swift) {
			resp.RespondError(w, r, errs.NewValidationError("swift"))
			return
		}

		err := deps.Transfers.VerifyTransfer(r.Context(), id, input.Swift, claims.StaffID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrTransferNotFound))
				return
			}

			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

// HandleForwardTransfer marks a verified transfer as submitted to the SWIFT
// network. Forwarding an already-forwarded transfer succeeds without change;
// forwarding an unverified one is rejected.
func HandleForwardTransfer(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := transferIDParam(r)
		if !ok {
			resp.RespondError(w, r, errs.NewValidationError("id"))
			return
		}

		err := deps.Transfers.ForwardTransfer(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrTransferNotFound))
				return
			}
			if errors.Is(err, store.ErrNotVerified) {
				resp.RespondError(w, r, errs.NewError(errs.ErrTransferNotVerified))
				return
			}

			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

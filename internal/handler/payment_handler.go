package handler

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/herkeens/Secure-Payment-App/internal/app/store"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/auth/jwt"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/errs"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/req"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/resp"
)

var (
	beneficiaryAccountRegex = regexp.MustCompile(`^[A-Za-z0-9-]{6,34}$`)
	transferSwiftRegex      = regexp.MustCompile(`^[A-Za-z0-9]{8,11}$`)
	amountRegex             = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
	currencyRegex           = regexp.MustCompile(`^(ZAR|USD|EUR|GBP)$`)
	phoneRegex              = regexp.MustCompile(`^[0-9+\-\s().]{6,40}$`)
	referenceRegex          = regexp.MustCompile(`^[A-Za-z0-9 .,'-]*$`)
)

const maxReferenceLen = 140

type TransferInput struct {
	BeneficiaryID      string `json:"beneficiaryId"`
	BeneficiaryName    string `json:"beneficiaryName"`
	BeneficiaryAddress string `json:"beneficiaryAddress"`
	BeneficiaryAccount string `json:"beneficiaryAccount"`
	BeneficiarySwift   string `json:"beneficiarySwift"`
	BankName           string `json:"bankName"`
	BankAddress        string `json:"bankAddress"`
	RoutingCode        string `json:"routingCode"`
	RecipientContact   string `json:"recipientContact"`
	Amount             string `json:"amount"`
	Currency           string `json:"currency"`
	Reference          string `json:"reference"`
}

// optional returns nil for an empty string so blank optional fields are
// stored as NULL rather than "".
func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// HandleCreateTransfer records a new funds transfer for the authenticated
// submitter. The amount string is persisted exactly as received; it is never
// parsed into a float.
func HandleCreateTransfer(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := jwt.SubmitterFromContext(r)
		if claims == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input TransferInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		input.BeneficiaryID = strings.TrimSpace(input.BeneficiaryID)
		input.BeneficiaryName = strings.TrimSpace(input.BeneficiaryName)
		input.BeneficiaryAddress = strings.TrimSpace(input.BeneficiaryAddress)
		input.BeneficiaryAccount = strings.TrimSpace(input.BeneficiaryAccount)
		input.BeneficiarySwift = strings.TrimSpace(input.BeneficiarySwift)
		input.BankName = strings.TrimSpace(input.BankName)
		input.BankAddress = strings.TrimSpace(input.BankAddress)
		input.RoutingCode = strings.TrimSpace(input.RoutingCode)
		input.RecipientContact = strings.TrimSpace(input.RecipientContact)
		input.Amount = strings.TrimSpace(input.Amount)
		input.Reference = strings.TrimSpace(input.Reference)

		var badFields []string
		if l := len(input.BeneficiaryID); l < 6 || l > 64 {
			badFields = append(badFields, "beneficiaryId")
		}
		if !nameRegex.MatchString(input.BeneficiaryName) {
			badFields = append(badFields, "beneficiaryName")
		}
		if l := len(input.BeneficiaryAddress); l == 0 || l > 200 {
			badFields = append(badFields, "beneficiaryAddress")
		}
		if !beneficiaryAccountRegex.MatchString(input.BeneficiaryAccount) {
			badFields = append(badFields, "beneficiaryAccount")
		}
		if input.BeneficiarySwift != "" && !transferSwiftRegex.MatchString(input.BeneficiarySwift) {
			badFields = append(badFields, "beneficiarySwift")
		}
		if l := len(input.BankName); l == 0 || l > 120 {
			badFields = append(badFields, "bankName")
		}
		if input.BankAddress != "" && len(input.BankAddress) > 200 {
			badFields = append(badFields, "bankAddress")
		}
		if input.RoutingCode != "" && len(input.RoutingCode) > 40 {
			badFields = append(badFields, "routingCode")
		}
		if input.RecipientContact != "" && !phoneRegex.MatchString(input.RecipientContact) {
			badFields = append(badFields, "recipientContact")
		}
		if !amountRegex.MatchString(input.Amount) {
			badFields = append(badFields, "amount")
		}
		if !currencyRegex.MatchString(input.Currency) {
			badFields = append(badFields, "currency")
		}
		if len(input.Reference) > maxReferenceLen || !referenceRegex.MatchString(input.Reference) {
			badFields = append(badFields, "reference")
		}
		if len(badFields) > 0 {
			resp.RespondError(w, r, errs.NewValidationError(badFields...))
			return
		}

		transfer, err := deps.Transfers.CreateTransfer(r.Context(), store.CreateTransferParams{
			UserID:             claims.Subject,
			BeneficiaryID:      input.BeneficiaryID,
			BeneficiaryName:    input.BeneficiaryName,
			BeneficiaryAddress: input.BeneficiaryAddress,
			BeneficiaryAccount: input.BeneficiaryAccount,
			BeneficiarySwift:   optional(input.BeneficiarySwift),
			BankName:           input.BankName,
			BankAddress:        optional(input.BankAddress),
			RoutingCode:        optional(input.RoutingCode),
			RecipientContact:   optional(input.RecipientContact),
			Amount:             input.Amount,
			Currency:           input.Currency,
			Reference:          optional(input.Reference),
		})
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondCreated(w, r, map[string]any{
			"status":     transfer.Status,
			"transferId": transfer.ID,
			"transfer":   transfer,
		})
	}
}

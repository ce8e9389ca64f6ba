package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/herkeens/Secure-Payment-App/internal/app/store"
	"github.com/herkeens/Secure-Payment-App/internal/configs"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/bruteforce"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/password"
)

// testHashParams keeps the KDF cheap so the suite stays fast.
var testHashParams = password.Params{
	MemoryKiB:   64,
	Time:        1,
	Parallelism: 1,
	SaltLen:     16,
	KeyLen:      32,
}

// fakeUserStore is an in-memory UserStore with the same uniqueness rules as
// the database schema.
type fakeUserStore struct {
	mu    sync.Mutex
	users []store.User
}

func (f *fakeUserStore) CreateUser(_ context.Context, params store.CreateUserParams) (store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Username == params.Username || u.AccountNumber == params.AccountNumber {
			return store.User{}, store.ErrDuplicate
		}
		if params.Email != nil && u.Email != nil && *u.Email == *params.Email {
			return store.User{}, store.ErrDuplicate
		}
	}

	user := store.User{
		ID:            uuid.NewString(),
		Name:          params.Name,
		Email:         params.Email,
		Username:      params.Username,
		IDNumber:      params.IDNumber,
		AccountNumber: params.AccountNumber,
		PasswordHash:  params.PasswordHash,
	}
	f.users = append(f.users, user)

	return user, nil
}

func (f *fakeUserStore) GetUserByLogin(_ context.Context, username, accountNumber string) (store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Username == username && u.AccountNumber == accountNumber {
			return u, nil
		}
	}

	return store.User{}, store.ErrNotFound
}

type fakeStaffStore struct {
	mu    sync.Mutex
	staff []store.Staff
}

func (f *fakeStaffStore) GetStaffByUsername(_ context.Context, username string) (store.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range f.staff {
		if s.Username == username {
			return s, nil
		}
	}

	return store.Staff{}, store.ErrNotFound
}

// fakeTransferStore mirrors the conditional-update semantics of the real
// store: verify only moves submitted records, forward requires a prior
// verify, and a repeated forward is a no-op success.
type fakeTransferStore struct {
	mu        sync.Mutex
	seq       int
	transfers []store.Transfer
}

func (f *fakeTransferStore) CreateTransfer(_ context.Context, params store.CreateTransferParams) (store.Transfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	t := store.Transfer{
		ID:                 fmt.Sprintf("%024x", f.seq),
		UserID:             params.UserID,
		BeneficiaryID:      params.BeneficiaryID,
		BeneficiaryName:    params.BeneficiaryName,
		BeneficiaryAddress: params.BeneficiaryAddress,
		BeneficiaryAccount: params.BeneficiaryAccount,
		BeneficiarySwift:   params.BeneficiarySwift,
		BankName:           params.BankName,
		BankAddress:        params.BankAddress,
		RoutingCode:        params.RoutingCode,
		RecipientContact:   params.RecipientContact,
		Amount:             params.Amount,
		Currency:           params.Currency,
		Reference:          params.Reference,
		Status:             store.StatusSubmitted,
	}
	f.transfers = append(f.transfers, t)

	return t, nil
}

func (f *fakeTransferStore) PendingTransfers(_ context.Context) ([]store.Transfer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var items []store.Transfer
	for i := len(f.transfers) - 1; i >= 0; i-- {
		t := f.transfers[i]
		if t.Status == store.StatusSubmitted && !t.SwiftSubmitted {
			items = append(items, t)
		}
	}

	return items, nil
}

func (f *fakeTransferStore) VerifyTransfer(_ context.Context, id, swift, verifierID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.transfers {
		if f.transfers[i].ID != id {
			continue
		}
		if f.transfers[i].Status != store.StatusSubmitted {
			return store.ErrNotFound
		}

		f.transfers[i].BeneficiarySwift = &swift
		f.transfers[i].Status = store.StatusApproved
		f.transfers[i].StaffVerified = true
		f.transfers[i].VerifiedBy = &verifierID

		return nil
	}

	return store.ErrNotFound
}

func (f *fakeTransferStore) ForwardTransfer(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.transfers {
		if f.transfers[i].ID != id {
			continue
		}
		if f.transfers[i].SwiftSubmitted {
			return nil
		}
		if !f.transfers[i].StaffVerified {
			return store.ErrNotVerified
		}

		f.transfers[i].SwiftSubmitted = true

		return nil
	}

	return store.ErrNotFound
}

func (f *fakeTransferStore) get(t *testing.T, id string) store.Transfer {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, tr := range f.transfers {
		if tr.ID == id {
			return tr
		}
	}

	t.Fatalf("transfer %s not found", id)
	return store.Transfer{}
}

func newTestDeps(t *testing.T) *AppDeps {
	t.Helper()

	hasher, err := password.New(testHashParams)
	require.NoError(t, err)

	return &AppDeps{
		Config: &configs.AppConfig{
			Environment:    "development",
			JWTSecret:      "test-secret-key-for-handlers",
			CSRFCookieName: "__Host-csrf",
		},
		Users:     &fakeUserStore{},
		Staff:     &fakeStaffStore{},
		Transfers: &fakeTransferStore{},
		Hasher:    hasher,
		Guard:     bruteforce.NewMemoryGuard(bruteforce.DefaultConfig),
	}
}

// seedUser registers a user directly through the store with a real hash.
func seedUser(t *testing.T, deps *AppDeps, username, accountNumber, plaintext string) store.User {
	t.Helper()

	hash, err := deps.Hasher.Hash(context.Background(), plaintext)
	require.NoError(t, err)

	user, err := deps.Users.CreateUser(context.Background(), store.CreateUserParams{
		Name:          "Seed User",
		Username:      username,
		IDNumber:      "9001015800087",
		AccountNumber: accountNumber,
		PasswordHash:  hash,
	})
	require.NoError(t, err)

	return user
}

func seedStaff(t *testing.T, deps *AppDeps, username, plaintext string) store.Staff {
	t.Helper()

	hash, err := deps.Hasher.Hash(context.Background(), plaintext)
	require.NoError(t, err)

	fs, ok := deps.Staff.(*fakeStaffStore)
	require.True(t, ok)

	staff := store.Staff{
		ID:           uuid.NewString(),
		Username:     username,
		EmployeeID:   "EMP-0001",
		Name:         "Seed Verifier",
		PasswordHash: hash,
		Role:         "staff",
	}

	fs.mu.Lock()
	fs.staff = append(fs.staff, staff)
	fs.mu.Unlock()

	return staff
}

// postJSON runs a handler directly with a JSON body, bypassing the router
// middleware stack.
func postJSON(t *testing.T, h http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

// decodeEnvelope unmarshals the standard response envelope.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	return envelope
}

// envelopeFields returns the "fields" list of a validation error response.
func envelopeFields(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()

	envelope := decodeEnvelope(t, rec)
	raw, ok := envelope["fields"].([]any)
	require.True(t, ok, "response has no fields list: %s", rec.Body.String())

	fields := make([]string, 0, len(raw))
	for _, f := range raw {
		fields = append(fields, f.(string))
	}

	return fields
}

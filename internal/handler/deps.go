package handler

import (
	"context"

	"github.com/herkeens/Secure-Payment-App/internal/app/store"
	"github.com/herkeens/Secure-Payment-App/internal/configs"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/bruteforce"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/password"
)

// UserStore is the submitter persistence surface the handlers depend on.
type UserStore interface {
	CreateUser(ctx context.Context, params store.CreateUserParams) (store.User, error)
	GetUserByLogin(ctx context.Context, username, accountNumber string) (store.User, error)
}

// StaffStore is the verifier persistence surface the handlers depend on.
type StaffStore interface {
	GetStaffByUsername(ctx context.Context, username string) (store.Staff, error)
}

// TransferStore is the transfer persistence and state-machine surface.
type TransferStore interface {
	CreateTransfer(ctx context.Context, params store.CreateTransferParams) (store.Transfer, error)
	PendingTransfers(ctx context.Context) ([]store.Transfer, error)
	VerifyTransfer(ctx context.Context, id, swift, verifierID string) error
	ForwardTransfer(ctx context.Context, id string) error
}

// AppDeps bundles the explicitly constructed services the route handlers use.
// Everything here is created once at startup and injected; tests substitute
// fakes for the narrow store interfaces.
type AppDeps struct {
	Config    *configs.AppConfig
	Users     UserStore
	Staff     StaffStore
	Transfers TransferStore
	Hasher    *password.Hasher
	Guard     bruteforce.Guard
}

/*
Package store provides persistence for principal and transfer records.

It exposes the transfer lifecycle as conditional-update operations: a state
transition only happens when the record is still in the expected pre-state,
so two racing verifiers cannot double-approve and a forward cannot overtake a
verify.
*/
package store

import (
	"errors"
	"time"
)

// Transfer lifecycle statuses. StatusDeclined belongs to the domain but no
// operation currently produces it.
const (
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
	StatusDeclined  = "declined"
)

var (
	// ErrNotFound indicates that no record matched, or that a state
	// transition found the record outside its expected pre-state.
	ErrNotFound = errors.New("store: record not found")

	// ErrNotVerified indicates that forwarding was attempted on a transfer
	// that has not been staff-verified.
	ErrNotVerified = errors.New("store: transfer not verified")

	// ErrDuplicate indicates a unique-constraint collision.
	ErrDuplicate = errors.New("store: duplicate unique field")
)

// User is a submitter principal.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         *string   `json:"email,omitempty"`
	Username      string    `json:"username"`
	IDNumber      string    `json:"-"`
	AccountNumber string    `json:"accountNumber"`
	PasswordHash  string    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Staff is a verifier principal. Staff records are provisioned out-of-band;
// no registration route creates them.
type Staff struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	EmployeeID   string    `json:"employeeId"`
	Email        *string   `json:"email,omitempty"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Transfer is a submitted funds-transfer record and its verification state.
type Transfer struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"userId"`
	BeneficiaryID      string     `json:"beneficiaryId"`
	BeneficiaryName    string     `json:"beneficiaryName"`
	BeneficiaryAddress string     `json:"beneficiaryAddress"`
	BeneficiaryAccount string     `json:"beneficiaryAccount"`
	BeneficiarySwift   *string    `json:"beneficiarySwift,omitempty"`
	BankName           string     `json:"bankName"`
	BankAddress        *string    `json:"bankAddress,omitempty"`
	RoutingCode        *string    `json:"routingCode,omitempty"`
	RecipientContact   *string    `json:"recipientContact,omitempty"`
	Amount             string     `json:"amount"`
	Currency           string     `json:"currency"`
	Reference          *string    `json:"reference,omitempty"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"createdAt"`
	StaffVerified      bool       `json:"staffVerified"`
	VerifiedAt         *time.Time `json:"verifiedAt,omitempty"`
	VerifiedBy         *string    `json:"verifiedBy,omitempty"`
	SwiftSubmitted     bool       `json:"swiftSubmitted"`
	SwiftSubmittedAt   *time.Time `json:"swiftSubmittedAt,omitempty"`

	// SwiftRef exists in the schema but is never written by any handler.
	SwiftRef *string `json:"swiftRef,omitempty"`
}

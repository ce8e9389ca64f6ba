package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/herkeens/Secure-Payment-App/internal/app/db"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/randx"
)

// Store is the PostgreSQL-backed persistence layer.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an initialized connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// CreateUserParams carries the fields needed to provision a submitter.
type CreateUserParams struct {
	Name          string
	Email         *string
	Username      string
	IDNumber      string
	AccountNumber string
	PasswordHash  string
}

// CreateUser inserts a submitter principal. Unique collisions on username,
// account number, or email surface as ErrDuplicate.
func (s *Store) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	user := User{
		ID:            randx.PrincipalID(),
		Name:          params.Name,
		Email:         params.Email,
		Username:      params.Username,
		IDNumber:      params.IDNumber,
		AccountNumber: params.AccountNumber,
		PasswordHash:  params.PasswordHash,
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, username, id_number, account_number, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		user.ID, user.Name, user.Email, user.Username, user.IDNumber, user.AccountNumber, user.PasswordHash,
	).Scan(&user.CreatedAt)

	if err != nil {
		if db.IsUniqueViolation(err) {
			return User{}, ErrDuplicate
		}
		return User{}, err
	}

	return user, nil
}

// GetUserByLogin fetches the submitter matching both claimed identifiers.
func (s *Store) GetUserByLogin(ctx context.Context, username, accountNumber string) (User, error) {
	var user User

	err := s.pool.QueryRow(ctx, `
		SELECT id, name, email, username, id_number, account_number, password_hash, created_at
		FROM users
		WHERE username = $1 AND account_number = $2`,
		username, accountNumber,
	).Scan(&user.ID, &user.Name, &user.Email, &user.Username, &user.IDNumber,
		&user.AccountNumber, &user.PasswordHash, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	return user, nil
}

// CreateStaffParams carries the fields needed to provision a verifier.
type CreateStaffParams struct {
	Username     string
	EmployeeID   string
	Email        *string
	Name         string
	PasswordHash string
	Role         string
}

// CreateStaff inserts a verifier principal. Only the provisioning CLI calls this.
func (s *Store) CreateStaff(ctx context.Context, params CreateStaffParams) (Staff, error) {
	staff := Staff{
		ID:           randx.PrincipalID(),
		Username:     params.Username,
		EmployeeID:   params.EmployeeID,
		Email:        params.Email,
		Name:         params.Name,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO staff (id, username, employee_id, email, name, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		staff.ID, staff.Username, staff.EmployeeID, staff.Email, staff.Name, staff.PasswordHash, staff.Role,
	).Scan(&staff.CreatedAt)

	if err != nil {
		if db.IsUniqueViolation(err) {
			return Staff{}, ErrDuplicate
		}
		return Staff{}, err
	}

	return staff, nil
}

// GetStaffByUsername fetches a verifier by username.
func (s *Store) GetStaffByUsername(ctx context.Context, username string) (Staff, error) {
	var staff Staff

	err := s.pool.QueryRow(ctx, `
		SELECT id, username, employee_id, email, name, password_hash, role, created_at
		FROM staff
		WHERE username = $1`,
		username,
	).Scan(&staff.ID, &staff.Username, &staff.EmployeeID, &staff.Email, &staff.Name,
		&staff.PasswordHash, &staff.Role, &staff.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Staff{}, ErrNotFound
		}
		return Staff{}, err
	}

	return staff, nil
}

// CreateTransferParams carries the submitted transfer fields.
// Amount and currency are persisted verbatim.
type CreateTransferParams struct {
	UserID             string
	BeneficiaryID      string
	BeneficiaryName    string
	BeneficiaryAddress string
	BeneficiaryAccount string
	BeneficiarySwift   *string
	BankName           string
	BankAddress        *string
	RoutingCode        *string
	RecipientContact   *string
	Amount             string
	Currency           string
	Reference          *string
}

// CreateTransfer inserts a new record with status "submitted" and both
// lifecycle flags false.
func (s *Store) CreateTransfer(ctx context.Context, params CreateTransferParams) (Transfer, error) {
	id, err := randx.RecordID()
	if err != nil {
		return Transfer{}, err
	}

	transfer := Transfer{
		ID:                 id,
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
		Status:             StatusSubmitted,
	}

	err = s.pool.QueryRow(ctx, `
		INSERT INTO transfers (
			id, user_id, beneficiary_id, beneficiary_name, beneficiary_address,
			beneficiary_account, beneficiary_swift, bank_name, bank_address,
			routing_code, recipient_contact, amount, currency, reference, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at`,
		transfer.ID, transfer.UserID, transfer.BeneficiaryID, transfer.BeneficiaryName,
		transfer.BeneficiaryAddress, transfer.BeneficiaryAccount, transfer.BeneficiarySwift,
		transfer.BankName, transfer.BankAddress, transfer.RoutingCode, transfer.RecipientContact,
		transfer.Amount, transfer.Currency, transfer.Reference, transfer.Status,
	).Scan(&transfer.CreatedAt)

	if err != nil {
		return Transfer{}, err
	}

	return transfer, nil
}

// PendingTransfers returns the 200 most-recent records that are still
// "submitted" and not yet forwarded, newest first.
func (s *Store) PendingTransfers(ctx context.Context) ([]Transfer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, beneficiary_id, beneficiary_name, beneficiary_address,
			beneficiary_account, beneficiary_swift, bank_name, bank_address,
			routing_code, recipient_contact, amount, currency, reference, status,
			created_at, staff_verified, verified_at, verified_by,
			swift_submitted, swift_submitted_at, swift_ref
		FROM transfers
		WHERE status = $1 AND swift_submitted = FALSE
		ORDER BY created_at DESC
		LIMIT 200`,
		StatusSubmitted,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transfers := []Transfer{}
	for rows.Next() {
		var t Transfer
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.BeneficiaryID, &t.BeneficiaryName, &t.BeneficiaryAddress,
			&t.BeneficiaryAccount, &t.BeneficiarySwift, &t.BankName, &t.BankAddress,
			&t.RoutingCode, &t.RecipientContact, &t.Amount, &t.Currency, &t.Reference, &t.Status,
			&t.CreatedAt, &t.StaffVerified, &t.VerifiedAt, &t.VerifiedBy,
			&t.SwiftSubmitted, &t.SwiftSubmittedAt, &t.SwiftRef,
		); err != nil {
			return nil, err
		}
		transfers = append(transfers, t)
	}

	return transfers, rows.Err()
}

// VerifyTransfer approves a submitted transfer. The update is conditional on
// the record still being "submitted", so a concurrent second verify misses and
// reports ErrNotFound; whether the id was unknown or the record had already
// left "submitted" is deliberately not distinguished.
func (s *Store) VerifyTransfer(ctx context.Context, id, swift, verifierID string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE transfers
		SET beneficiary_swift = $2,
			status = $3,
			staff_verified = TRUE,
			verified_at = $4,
			verified_by = $5
		WHERE id = $1 AND status = $6`,
		id, swift, StatusApproved, time.Now().UTC(), verifierID, StatusSubmitted,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ForwardTransfer marks a verified transfer as submitted onward. The update is
// conditional on staff_verified being set and the flag not yet set, closing
// the race between two concurrent forwards. A forward that arrives after the
// flag is already set is a no-op success; an unverified record fails with
// ErrNotVerified.
func (s *Store) ForwardTransfer(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE transfers
		SET swift_submitted = TRUE,
			swift_submitted_at = $2
		WHERE id = $1 AND staff_verified = TRUE AND swift_submitted = FALSE`,
		id, time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() > 0 {
		return nil
	}

	// The conditional update missed: inspect the record to report why.
	var staffVerified, swiftSubmitted bool
	err = s.pool.QueryRow(ctx,
		`SELECT staff_verified, swift_submitted FROM transfers WHERE id = $1`, id,
	).Scan(&staffVerified, &swiftSubmitted)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if !staffVerified {
		return ErrNotVerified
	}

	// Already forwarded by a concurrent request; the flag is one-way, so
	// repeating the transition is safe.
	return nil
}

/*
Package main provisions verifier accounts.

There is no registration route for staff: every verifier is created
out-of-band with this tool by an operator with database access.

Usage:

	createstaff <username> <password> "<Full Name>" <EMP-ID> [email]
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/herkeens/Secure-Payment-App/internal/app/db"
	"github.com/herkeens/Secure-Payment-App/internal/app/store"
	"github.com/herkeens/Secure-Payment-App/internal/configs"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/password"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	args := os.Args[1:]
	if len(args) < 4 {
		return errors.New(`usage: createstaff <username> <password> "<Full Name>" <EMP-ID> [email]`)
	}

	username, plaintext, name, employeeID := args[0], args[1], args[2], args[3]

	var email *string
	if len(args) > 4 && args[4] != "" {
		email = &args[4]
	}

	cfg, err := configs.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hasher, err := password.New(password.DefaultParams)
	if err != nil {
		return err
	}

	hash, err := hasher.Hash(ctx, plaintext)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	staff, err := store.New(pool).CreateStaff(ctx, store.CreateStaffParams{
		Username:     username,
		EmployeeID:   employeeID,
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         "staff",
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("staff username or employee id already exists")
		}
		return fmt.Errorf("failed to create staff record: %w", err)
	}

	fmt.Printf("Created staff: id=%s username=%s employeeId=%s\n", staff.ID, staff.Username, staff.EmployeeID)
	return nil
}

/*
Package randx provides functions for generating cryptographically secure random tokens and identifiers.

It is used to mint CSRF tokens, fixed-length hexadecimal transfer record identifiers,
and UUIDs for principal records.
*/
package randx

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

const (
	// CSRFTokenBytes is the entropy of a CSRF token in bytes (256 bits).
	CSRFTokenBytes = 32

	// RecordIDBytes is the entropy of a transfer record identifier in bytes.
	// Hex-encoded it yields the fixed 24-character id format.
	RecordIDBytes = 12
)

var recordIDRegex = regexp.MustCompile(`^[a-f0-9]{24}$`)

// CSRFToken generates a hex-encoded random token with CSRFTokenBytes of entropy.
func CSRFToken() (string, error) {
	b := make([]byte, CSRFTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes for CSRF token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// RecordID generates a 24-character lowercase hexadecimal transfer record identifier.
func RecordID() (string, error) {
	b := make([]byte, RecordIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes for record id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// IsValidRecordID checks if the given string is a valid transfer record identifier
// (exactly 24 lowercase hexadecimal characters).
func IsValidRecordID(id string) bool {
	return recordIDRegex.MatchString(id)
}

// PrincipalID generates a standard UUID v4 string to serve as a unique identifier for a principal.
func PrincipalID() string {
	return uuid.New().String()
}

package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	// SubmitterSessionDuration is the lifetime of a customer session token.
	SubmitterSessionDuration = 1 * time.Hour

	// VerifierSessionDuration is the lifetime of a staff session token.
	VerifierSessionDuration = 2 * time.Hour

	// TokenIssuer identifies the issuer of every token.
	TokenIssuer = "secure-payment-gateway"

	// staffRole is the only role accepted on verifier tokens.
	staffRole = "staff"
)

// ErrInvalidToken is the single opaque verification failure. Missing cookie,
// bad signature, expiry, and malformed claims all collapse into it so that a
// client cannot distinguish "expired" from "forged".
var ErrInvalidToken = errors.New("jwt: invalid token")

// GenerateSubmitter signs a customer session token for the given principal.
func GenerateSubmitter(userID string, email, name *string, secretKey string) (string, error) {
	now := time.Now()

	claims := &SubmitterClaims{
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			ExpiresAt: now.Add(SubmitterSessionDuration).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    TokenIssuer,
		},
		Email: email,
		Name:  name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secretKey))
}

// GenerateVerifier signs a staff session token for the given principal.
func GenerateVerifier(staffID, name, secretKey string) (string, error) {
	now := time.Now()

	claims := &VerifierClaims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(VerifierSessionDuration).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    TokenIssuer,
		},
		StaffID: staffID,
		Role:    staffRole,
		Name:    name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secretKey))
}

// combinedClaims is the superset used during parsing, before the kind tag is decided.
type combinedClaims struct {
	jwt.StandardClaims

	Email *string `json:"email,omitempty"`
	Name  any     `json:"name,omitempty"`

	StaffID string `json:"sid,omitempty"`
	Role    string `json:"role,omitempty"`
}

// Verify parses and validates a token string and returns the tagged session.
// A verifier token whose role claim is not "staff" is rejected, as is any
// token that fits neither namespace. All failures surface as ErrInvalidToken;
// the underlying cause is intentionally not propagated.
func Verify(tokenString, secretKey string) (*Session, error) {
	claims := &combinedClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.StaffID != "" {
		if claims.Role != staffRole {
			return nil, ErrInvalidToken
		}

		name, _ := claims.Name.(string)
		return &Session{
			Kind: KindVerifier,
			Verifier: &VerifierClaims{
				StandardClaims: claims.StandardClaims,
				StaffID:        claims.StaffID,
				Role:           claims.Role,
				Name:           name,
			},
		}, nil
	}

	if claims.Subject != "" && claims.Role == "" {
		var name *string
		if s, ok := claims.Name.(string); ok {
			name = &s
		}
		return &Session{
			Kind: KindSubmitter,
			Submitter: &SubmitterClaims{
				StandardClaims: claims.StandardClaims,
				Email:          claims.Email,
				Name:           name,
			},
		}, nil
	}

	return nil, ErrInvalidToken
}

// VerifySubmitter verifies a token and requires the submitter tag.
func VerifySubmitter(tokenString, secretKey string) (*SubmitterClaims, error) {
	session, err := Verify(tokenString, secretKey)
	if err != nil {
		return nil, err
	}
	if session.Kind != KindSubmitter {
		return nil, ErrInvalidToken
	}
	return session.Submitter, nil
}

// VerifyVerifier verifies a token and requires the verifier tag.
func VerifyVerifier(tokenString, secretKey string) (*VerifierClaims, error) {
	session, err := Verify(tokenString, secretKey)
	if err != nil {
		return nil, err
	}
	if session.Kind != KindVerifier {
		return nil, ErrInvalidToken
	}
	return session.Verifier, nil
}

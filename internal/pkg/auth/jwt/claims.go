package jwt

import "github.com/golang-jwt/jwt"

// Kind tags which session namespace a verified token belongs to.
// The two token kinds are structurally similar signed tokens, but they are
// semantically disjoint: authorization always dispatches on the tag, never
// on the shape of the claims.
type Kind int

const (
	// KindSubmitter marks a customer session token.
	KindSubmitter Kind = iota

	// KindVerifier marks a staff session token.
	KindVerifier
)

// SubmitterClaims is the claim set carried by a customer session token.
// The principal id travels in the standard "sub" claim.
type SubmitterClaims struct {
	jwt.StandardClaims

	// Email is the submitter's email, or null when none was registered.
	Email *string `json:"email"`

	// Name is the submitter's full name, or null.
	Name *string `json:"name"`
}

// VerifierClaims is the claim set carried by a staff session token.
type VerifierClaims struct {
	jwt.StandardClaims

	// StaffID is the verifier principal id.
	StaffID string `json:"sid"`

	// Role must be "staff" for the token to be accepted on staff routes.
	Role string `json:"role"`

	// Name is the verifier's full name.
	Name string `json:"name"`
}

// Session is the tagged result of verifying a token. Exactly one of the two
// claim pointers is set, matching Kind.
type Session struct {
	Kind      Kind
	Submitter *SubmitterClaims
	Verifier  *VerifierClaims
}

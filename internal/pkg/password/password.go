/*
Package password provides one-way credential hashing and verification built on Argon2id.

Digests are stored in PHC string format, so the cost parameters travel with the digest
and stored credentials remain verifiable if the defaults are retuned later. Because the
KDF is intentionally expensive, all hashing work passes through a bounded weighted
semaphore so a burst of login attempts cannot starve unrelated request handling.
*/
package password

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/sync/semaphore"
)

// Params holds the Argon2id cost parameters used when producing new digests.
type Params struct {
	// MemoryKiB is the memory cost in KiB.
	MemoryKiB uint32

	// Time is the number of passes over the memory.
	Time uint32

	// Parallelism is the number of lanes.
	Parallelism uint8

	// SaltLen is the salt length in bytes.
	SaltLen uint32

	// KeyLen is the derived key length in bytes.
	KeyLen uint32
}

// DefaultParams are the fixed production cost parameters
// (19 MiB memory, 2 passes, 1 lane, 32-byte key).
var DefaultParams = Params{
	MemoryKiB:   19456,
	Time:        2,
	Parallelism: 1,
	SaltLen:     16,
	KeyLen:      32,
}

// ErrInvalidDigest indicates that a stored digest could not be parsed as a PHC Argon2id string.
var ErrInvalidDigest = errors.New("password: invalid argon2id digest")

// dummyPlaintext only exists to feed DummyVerify; it never matches a real credential.
const dummyPlaintext = "timing-normalization-placeholder"

// Hasher hashes and verifies credentials with fixed cost parameters.
// Construct it once at startup and inject it into handlers.
type Hasher struct {
	params Params
	sem    *semaphore.Weighted

	// dummyDigest is verified against when the principal lookup misses,
	// normalizing response timing between unknown user and wrong password.
	dummyDigest string
}

// New constructs a Hasher with the given parameters and a worker pool
// bounded to the number of schedulable CPUs.
func New(params Params) (*Hasher, error) {
	h := &Hasher{
		params: params,
		sem:    semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
	}

	dummy, err := h.hash(dummyPlaintext)
	if err != nil {
		return nil, fmt.Errorf("password: failed to prepare dummy digest: %w", err)
	}
	h.dummyDigest = dummy

	return h, nil
}

// Hash derives a PHC-encoded Argon2id digest for the given plaintext.
// It blocks until a pool slot is available or the context is done.
// The plaintext is never logged or returned.
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	return h.hash(plaintext)
}

// Verify reports whether plaintext matches the stored PHC digest.
// The cost parameters are read from the digest itself. The final comparison
// is constant-time.
func (h *Hasher) Verify(ctx context.Context, digest, plaintext string) (bool, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.sem.Release(1)

	params, salt, key, err := decodeDigest(digest)
	if err != nil {
		return false, err
	}

	derived := argon2.IDKey([]byte(plaintext), salt, params.Time, params.MemoryKiB, params.Parallelism, params.KeyLen)

	return subtle.ConstantTimeCompare(derived, key) == 1, nil
}

// DummyVerify burns a full verification against a fixed digest.
// Call it when the principal lookup misses so that "user not found" and
// "wrong password" take comparable time.
func (h *Hasher) DummyVerify(ctx context.Context) {
	// The result is always false and deliberately discarded.
	_, _ = h.Verify(ctx, h.dummyDigest, "")
}

func (h *Hasher) hash(plaintext string) (string, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, h.params.Time, h.params.MemoryKiB, h.params.Parallelism, h.params.KeyLen)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.MemoryKiB,
		h.params.Time,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return encoded, nil
}

// decodeDigest parses a PHC Argon2id string into its parameters, salt, and key.
func decodeDigest(digest string) (Params, []byte, []byte, error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Params{}, nil, nil, ErrInvalidDigest
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return Params{}, nil, nil, ErrInvalidDigest
	}

	var params Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.MemoryKiB, &params.Time, &params.Parallelism); err != nil {
		return Params{}, nil, nil, ErrInvalidDigest
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Params{}, nil, nil, ErrInvalidDigest
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return Params{}, nil, nil, ErrInvalidDigest
	}

	params.SaltLen = uint32(len(salt))
	params.KeyLen = uint32(len(key))

	return params, salt, key, nil
}

/*
Package bruteforce provides the sliding-window login lockout guard.

The guard tracks failed login attempts per composite identity (client network
origin + claimed username + claimed account number) so that an attacker cannot
dodge the lockout by varying a single field, while a victim logging in from a
different origin is not penalized by the attacker's attempts.

Two interchangeable backends exist: a process-local counter for single-instance
deployments and a Redis-backed counter that makes the lockout effective across
all instances. Call sites depend only on the Guard interface.
*/
package bruteforce

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrLimited is returned by Consume when the identity is locked out.
// It deliberately carries no detail about which sub-identity tripped the limit.
var ErrLimited = errors.New("bruteforce: too many attempts")

// Config tunes the sliding-window counter.
type Config struct {
	// Points is the failed-attempt budget inside one window.
	Points int

	// Window is the sliding window over which failures accumulate.
	Window time.Duration

	// Block is the lockout duration applied once the budget is exhausted.
	Block time.Duration
}

// DefaultConfig mirrors the production lockout policy:
// 5 failures within 10 minutes lock the identity out for 15 minutes.
var DefaultConfig = Config{
	Points: 5,
	Window: 600 * time.Second,
	Block:  900 * time.Second,
}

// Guard is the narrow capability interface the login handler depends on.
type Guard interface {
	// Consume checks the identity's budget before a login attempt and
	// fails with ErrLimited when it is exhausted or a block is active.
	Consume(ctx context.Context, identity string) error

	// Penalty records a failed login attempt for the identity.
	Penalty(ctx context.Context, identity string) error

	// Reset clears the identity's counter after a successful login.
	Reset(ctx context.Context, identity string) error
}

// Identity builds the composite lockout key from the client network origin
// and the claimed credentials. The username is case-normalized.
func Identity(ip, username, accountNumber string) string {
	return ip + ":" + strings.ToLower(strings.TrimSpace(username)) + ":" + strings.TrimSpace(accountNumber)
}

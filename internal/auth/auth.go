// Package auth verifies the admin password and enforces a persisted lockout:
// five failed attempts lock the account for fifteen minutes. Attempt state
// lives in the key-value store so restarts do not reset it.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/bossbooker/portal/internal/kv"
	"github.com/bossbooker/portal/internal/logging"
)

const (
	MaxLoginAttempts = 5
	LockoutDuration  = 15 * time.Minute

	attemptKey = "bb_admin_attempts"
	lockoutKey = "bb_admin_lockout"
)

// Result is the outcome of a login attempt.
type Result struct {
	OK bool
	// AttemptsRemaining is set on a failed attempt before lockout.
	AttemptsRemaining int
	// LockedOut is set while the lockout window is active.
	LockedOut bool
	// RetryAfter is how long until the lockout expires.
	RetryAfter time.Duration
}

// Message renders the login error for a failed result.
func (r Result) Message() string {
	if r.OK {
		return ""
	}
	if r.LockedOut {
		minutes := int(math.Ceil(r.RetryAfter.Minutes()))
		return fmt.Sprintf("Too many failed attempts. Try again in %d minute%s.", minutes, plural(minutes))
	}
	return fmt.Sprintf("Invalid password. %d attempt%s remaining.", r.AttemptsRemaining, plural(r.AttemptsRemaining))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// Guard checks passwords and tracks failed attempts.
type Guard struct {
	kv       kv.Store
	password string
	log      *slog.Logger
	now      func() time.Time
}

// NewGuard returns a Guard for the configured admin password.
func NewGuard(backend kv.Store, password string) *Guard {
	return &Guard{
		kv:       backend,
		password: password,
		log:      logging.With("component", "auth"),
		now:      time.Now,
	}
}

// Attempt checks a submitted password. While locked out every attempt is
// rejected without touching the counter; when the window has expired the
// counter resets first.
func (g *Guard) Attempt(password string) Result {
	if locked, retryAfter := g.lockedOut(); locked {
		return Result{LockedOut: true, RetryAfter: retryAfter}
	}

	if g.password != "" && subtle.ConstantTimeCompare([]byte(password), []byte(g.password)) == 1 {
		g.clearAttempts()
		return Result{OK: true}
	}

	attempts := g.attempts() + 1
	g.setInt(attemptKey, int64(attempts))

	if attempts >= MaxLoginAttempts {
		lockoutEnd := g.now().Add(LockoutDuration)
		g.setInt(lockoutKey, lockoutEnd.UnixMilli())
		g.log.Warn("admin login locked out", "attempts", attempts)
		return Result{LockedOut: true, RetryAfter: LockoutDuration}
	}

	return Result{AttemptsRemaining: MaxLoginAttempts - attempts}
}

// Verify reports whether token equals the admin password. Used for bearer
// token checks after login; it never touches the attempt counter.
func (g *Guard) Verify(token string) bool {
	if g.password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(g.password)) == 1
}

func (g *Guard) lockedOut() (bool, time.Duration) {
	end, ok := g.getInt(lockoutKey)
	if !ok {
		return false, 0
	}
	nowMs := g.now().UnixMilli()
	if nowMs < end {
		return true, time.Duration(end-nowMs) * time.Millisecond
	}
	// Window expired: reset state.
	g.clearAttempts()
	return false, 0
}

func (g *Guard) attempts() int {
	n, _ := g.getInt(attemptKey)
	return int(n)
}

func (g *Guard) clearAttempts() {
	if err := g.kv.Delete(attemptKey); err != nil {
		g.log.Warn("failed to clear attempts", "error", err)
	}
	if err := g.kv.Delete(lockoutKey); err != nil {
		g.log.Warn("failed to clear lockout", "error", err)
	}
}

func (g *Guard) getInt(key string) (int64, bool) {
	raw, err := g.kv.Get(key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			g.log.Warn("read failed", "key", key, "error", err)
		}
		return 0, false
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (g *Guard) setInt(key string, n int64) {
	if err := g.kv.Set(key, []byte(strconv.FormatInt(n, 10))); err != nil {
		g.log.Warn("write failed", "key", key, "error", err)
	}
}

package account

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// MaxFailedAttempts is the number of consecutive wrong passwords that locks
// an account. A locked account never unlocks.
const MaxFailedAttempts = 3

// Credential guards an account with a hashed password and a failed attempt
// counter. An empty hash means no password was set and every check fails.
type Credential struct {
	hash           string
	failedAttempts int
	locked         bool
}

func NewCredential(plaintext string) Credential {
	return Credential{hash: HashPassword(plaintext)}
}

func RestoreCredential(hash string, failedAttempts int, locked bool) Credential {
	if failedAttempts < 0 {
		failedAttempts = 0
	}
	if failedAttempts > MaxFailedAttempts {
		failedAttempts = MaxFailedAttempts
	}
	return Credential{hash: hash, failedAttempts: failedAttempts, locked: locked}
}

// HashPassword returns the hex SHA-256 digest of the UTF-8 password, or the
// empty string for an empty password.
func HashPassword(plaintext string) string {
	if plaintext == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// Verify checks plaintext against the stored hash. It mutates the counter on
// every call that reaches the comparison, so callers must persist afterwards.
func (c *Credential) Verify(plaintext string) bool {
	if c.locked {
		return false
	}
	if c.hash != "" && subtle.ConstantTimeCompare([]byte(c.hash), []byte(HashPassword(plaintext))) == 1 {
		c.failedAttempts = 0
		return true
	}
	c.RecordFailedAttempt()
	return false
}

func (c *Credential) RecordFailedAttempt() {
	if c.locked {
		return
	}
	c.failedAttempts++
	if c.failedAttempts >= MaxFailedAttempts {
		c.failedAttempts = MaxFailedAttempts
		c.locked = true
	}
}

func (c *Credential) Hash() string {
	return c.hash
}

func (c *Credential) HasPassword() bool {
	return c.hash != ""
}

func (c *Credential) IsLocked() bool {
	return c.locked
}

func (c *Credential) FailedAttempts() int {
	return c.failedAttempts
}

func (c *Credential) RemainingAttempts() int {
	if c.locked {
		return 0
	}
	return MaxFailedAttempts - c.failedAttempts
}

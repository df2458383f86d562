package domain

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"
)

const (
	RoleAdmin    = "Admin"
	RoleManager  = "Manager"
	RoleEmployee = "Employee"
)

var ErrUserNotFound = errors.New("User not found")
var ErrUserDeletionBlocked = errors.New("User can not be deleted")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidRole = errors.New("invalid role")
var ErrForbidden = errors.New("access forbidden")

// Role is a value object owned by User; it has no independent lifecycle.
type Role struct {
	Description string `json:"description"`
}

// ValidRole reports whether the description belongs to the closed role set.
func ValidRole(description string) bool {
	switch description {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// tombstoneLen is the length of the random suffix appended on soft delete.
const tombstoneLen = 8

// Tombstone rewrites a soft-deleted natural key so the original becomes
// free for reuse. Format: <original>-<8 hex chars>.
func Tombstone(key string) string {
	b := make([]byte, tombstoneLen/2)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%s-%08X", key, time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("%s-%08X", key, b)
}

// TombstoneOriginal recovers the original key from a tombstoned one. The
// second return is false when the key does not carry a tombstone suffix.
func TombstoneOriginal(key string) (string, bool) {
	cut := len(key) - tombstoneLen - 1
	if cut <= 0 || key[cut] != '-' {
		return "", false
	}
	for _, c := range key[cut+1:] {
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'F') {
			return "", false
		}
	}
	return key[:cut], true
}

// User is a directory account. Username is the natural key used for all
// lookups; a soft-deleted user is excluded from active queries and its
// username is tombstoned so the original key becomes free for reuse.
// ID is the storage identity, so a save after a rename still replaces the
// same record.
type User struct {
	ID           string `json:"-"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PasswordHash string `json:"-"`
	Enabled      bool   `json:"enabled"`
	IsDeleted    bool   `json:"-"`
	Role         Role   `json:"role"`
}

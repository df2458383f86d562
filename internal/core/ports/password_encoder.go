package ports

// PasswordEncoder hashes plaintext credentials before they are persisted.
// The contract is hash-before-store: a plaintext password must never reach
// the repository, and comparisons never happen in plaintext.
type PasswordEncoder interface {
	Encode(plain string) (string, error)
	Matches(plain, hash string) bool
}

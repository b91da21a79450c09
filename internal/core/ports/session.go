package ports

// SessionRegistry enforces at most one live authenticated connection per
// user id. One instance exists for the process lifetime.
type SessionRegistry interface {
	// TryLogin atomically checks and sets the user's logged-in flag. It
	// returns false, without mutating state, if a session already exists.
	TryLogin(userID int) bool
	// Logout clears the flag. Safe to call for ids that are not logged in.
	Logout(userID int)
	// Active reports whether the user currently holds a session.
	Active(userID int) bool
}

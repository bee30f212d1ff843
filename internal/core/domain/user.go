package domain

import "time"

// User mirrors the persisted representation in the users table. The password
// hash and security stamp are opaque to callers outside the identity store.
type User struct {
	ID               string
	Username         string
	Email            string
	PasswordHash     string
	PasswordAlgo     string
	SecurityStamp    string
	EmailConfirmed   bool
	TwoFactorEnabled bool
	CreatedAt        time.Time
	ConfirmedAt      *time.Time
}

// Confirm flips the confirmation state and rotates the security stamp.
// Returns true when the user transitioned from unconfirmed to confirmed.
func (u *User) Confirm(stamp string, at time.Time) bool {
	if u.EmailConfirmed {
		return false
	}
	u.EmailConfirmed = true
	u.SecurityStamp = stamp
	timeCopy := at
	u.ConfirmedAt = &timeCopy
	return true
}

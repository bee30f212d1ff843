package domain

import "time"

// UserRegisteredEvent is emitted after a user row is created.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Username     string
	Email        string
	RegisteredAt time.Time
	Metadata     map[string]any
}

// EmailConfirmedEvent is emitted after a confirmation token is redeemed.
type EmailConfirmedEvent struct {
	EventID     string
	UserID      string
	Email       string
	ConfirmedAt time.Time
	Metadata    map[string]any
}

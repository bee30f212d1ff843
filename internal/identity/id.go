package identity

import uuid "github.com/google/uuid"

func newUUID() string {
	return uuid.NewString()
}

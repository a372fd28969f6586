package models

// User is a registered player. The ID is the opaque WebAuthn user handle.
type User struct {
	ID          []byte `db:"id"`
	DisplayName string `db:"display_name"`
	// Progress counts solved cases. It never decreases and is mutated only when a
	// correct accusation is recorded.
	Progress int64 `db:"progress"`
}

// Level is the difficulty index for the user's next case.
func (u *User) Level() int64 {
	return u.Progress + 1
}

package domain

import "time"

// User is the authenticated identity the host wiki hands us: an integer
// ID plus a registered flag. ID 0 is the anonymous caller.
type User struct {
	ID         int64     `db:"user_id" json:"id"`
	Username   string    `db:"username" json:"username"`
	Registered bool      `db:"registered" json:"registered"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Anonymous is the identity used for unauthenticated requests.
var Anonymous = User{}

package models

import "time"

// User is an account identified solely by its login code.
// There is no password and no email; the code is the whole credential.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	LoginCode string    `json:"login_code"`
	CreatedAt time.Time `json:"created_at"`
}

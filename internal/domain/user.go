package domain

import "time"

// User is an account that can authenticate against the API.
// Username is an email address, unique within the tenant ignoring case.
// PasswordHash is the bcrypt-transformed password; the plaintext is never
// stored or logged.
type User struct {
	ID           int64     `json:"userId"`
	TenantID     int64     `json:"-"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

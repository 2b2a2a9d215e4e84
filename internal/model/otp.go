package model

import "time"

// OTPChallenge is a pending email login challenge kept in Redis. Only the
// bcrypt hash of the code is stored.
type OTPChallenge struct {
	Email     string    `json:"email"`
	CodeHash  string    `json:"codeHash"`
	ExpiresAt time.Time `json:"expiresAt"`
	Attempts  int       `json:"attempts"`
}

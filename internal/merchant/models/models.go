// Package models defines merchant identities used by the auth guard.
package models

import "time"

// Merchant is an API consumer allowed to submit provider webhooks. API keys
// are stored as bcrypt hashes only; the plaintext key exists solely in the
// merchant's hands.
type Merchant struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	APIKeyHash string    `json:"-"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

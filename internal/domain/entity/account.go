// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// Account is the core entity in the system, representing a single login-capable
// account. The email address is the natural primary key; there is no surrogate ID.
type Account struct {
	Email        string    // Unique login identifier and primary key.
	Name         string    // The account's display name.
	PasswordHash string    // Salted bcrypt hash. Never serialized into any response.
	IsActive     bool      // Whether the account may log in and run bulk operations.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this account.
}

package domain

import "time"

// User represents a registered account. Username is the primary key and
// doubles as the JWT subject.
type User struct {
	Username     string    `bson:"username" json:"username"` // Unique, case-sensitive
	Email        string    `bson:"email" json:"email"`
	FullName     string    `bson:"fullName,omitempty" json:"full_name,omitempty"`
	PasswordHash string    `bson:"passwordHash" json:"-"` // Never expose this via JSON
	CreatedAt    time.Time `bson:"createdAt" json:"created_at"`
}

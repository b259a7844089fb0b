package domain

import "time"

// User represents a registered identity of the system.
type User struct {
	ID           string `validate:"required"`
	Name         string `validate:"required"`
	LastName     string `validate:"required"`
	Email        string `validate:"required,contains=@"`
	PasswordHash string
	// Token is only populated on successful login.
	Token     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

var userMessages = map[string]string{
	"ID":       "user ID (cedula) is required",
	"Name":     "name is required",
	"LastName": "last name is required",
	"Email":    "valid email is required",
}

// NewUser builds a user and enforces its invariants.
func NewUser(id, name, lastName, email, passwordHash string) (*User, error) {
	u := &User{
		ID:           id,
		Name:         name,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks id, email and name invariants.
func (u *User) Validate() error {
	return validateStruct(u, userMessages)
}

// Sanitized returns a copy without the password hash.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.PasswordHash = ""
	return &c
}

package user

import (
	"net/mail"
	"strings"
	"time"
)

// User is a registered participant. Email is unique across users.
type User struct {
	id        int64
	name      string
	email     string
	createdAt time.Time
	updatedAt time.Time
}

// NewUser validates and creates a user.
func NewUser(name, email string) (*User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidUser.Withf("user name is required")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		name:      name,
		email:     email,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(id int64, name, email string, createdAt, updatedAt time.Time) *User {
	return &User{
		id:        id,
		name:      name,
		email:     email,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (u *User) ID() int64            { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() string        { return u.email }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// AssignID records the identifier issued by the store on insert.
func (u *User) AssignID(id int64) { u.id = id }

// Update applies a partial update. Nil or blank fields are left untouched.
func (u *User) Update(name, email *string) error {
	if email != nil && strings.TrimSpace(*email) != "" {
		if err := validateEmail(*email); err != nil {
			return err
		}
		u.email = *email
	}
	if name != nil && strings.TrimSpace(*name) != "" {
		u.name = *name
	}
	u.updatedAt = time.Now().UTC()
	return nil
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrInvalidUser.Withf("user email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidUser.Withf("malformed email: %s", email)
	}
	return nil
}

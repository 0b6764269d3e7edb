package data

import (
	"errors"
	"strings"
	"time"

	"github.com/emzola/bookreviews/internal/validator"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost used when hashing passwords.
var PasswordCost = 12

var AnonymousUser = &User{}

// Check if a user instance is the anonymous user.
func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}

// User defines a user model.
type User struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  password  `json:"-"`
	Version   int32     `json:"-"`
}

// Ref returns the public reference to the user attached to books and reviews.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name}
}

// password defines the plaintext and hashed versions of a user's password.
// The plaintext field is a pointer so that a missing password can be told
// apart from an empty one.
type password struct {
	Plaintext *string
	Hash      []byte
}

// Set calculates the bcrypt hash of a plaintext password.
func (p *password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), PasswordCost)
	if err != nil {
		return err
	}
	p.Plaintext = &plaintextPassword
	p.Hash = hash
	return nil
}

// Matches checks whether the provided plaintext password matches the hashed
// password stored in the User model.
func (p *password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.Hash, []byte(plaintextPassword))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}
	return true, nil
}

// NormalizeEmail lowercases and trims an email address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateName(v *validator.Validator, name string) {
	v.Check(name != "", "name", "must be provided")
	v.Check(validator.MaxChars(name, 50), "name", "must not be more than 50 characters long")
}

func ValidateEmail(v *validator.Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(validator.Matches(email, validator.EmailRX), "email", "must be a valid email address")
}

func ValidatePasswordPlaintext(v *validator.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(len(password) >= 6, "password", "must be at least 6 bytes long")
	v.Check(len(password) <= 72, "password", "must not be more than 72 bytes long")
}

// ValidateUser checks a user ahead of registration. The plaintext password is
// checked before it is hashed, so a user must carry one or the other.
func ValidateUser(v *validator.Validator, user *User) {
	ValidateName(v, user.Name)
	ValidateEmail(v, user.Email)
	if user.Password.Plaintext != nil {
		ValidatePasswordPlaintext(v, *user.Password.Plaintext)
	}
	if user.Password.Plaintext == nil && user.Password.Hash == nil {
		panic("missing password for user")
	}
}

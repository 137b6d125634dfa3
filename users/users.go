package users

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/jrsteele09/docflow-admin/store"
)

// RoleType is the role of a dashboard user.
type RoleType string

const (
	RoleDirector RoleType = "ROLE_DIRECTOR" // Manages the members of an organization
	RoleAdmin    RoleType = "ROLE_ADMIN"    // Manages organizations
	RoleOperator RoleType = "ROLE_OPERATOR" // Works with templates and contracts
)

// User is a member of an organization.
type User struct {
	ID             store.ID `json:"id,omitempty"`
	Username       string   `json:"username,omitempty"`
	PasswordHash   string   `json:"-"` // never serialized
	FirstName      string   `json:"firstName,omitempty"`
	LastName       string   `json:"lastName,omitempty"`
	FullName       string   `json:"fullName,omitempty"`
	Role           RoleType `json:"role,omitempty"`
	Status         string   `json:"status,omitempty"`
	OrganizationID store.ID `json:"organizationId,omitempty"`
}

// Key returns the user id.
func (u User) Key() string {
	return string(u.ID)
}

func (u User) Active() bool {
	return u.Status == "" || u.Status == store.StatusActive
}

// DisplayName prefers the full name and falls back to first/last name.
func (u User) DisplayName() string {
	switch {
	case u.FullName != "":
		return u.FullName
	case u.FirstName != "" || u.LastName != "":
		return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
	default:
		return u.Username
	}
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckPassword checks a password against the user's hash
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}

package users

import "errors"

var ErrUserNotFound = errors.New("user not found")

// Repo stores the accounts served by the development backend.
type Repo interface {
	Upsert(user *User) error
	Delete(id string) error
	GetByUsername(username string) (*User, error)
	GetByID(id string) (*User, error)
	List() ([]*User, error)
}

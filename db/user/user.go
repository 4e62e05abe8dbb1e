// Package user handles the stored state of users.
package user

import (
	"errors"
	"fmt"
	"unicode"
)

// User contains the stored information for each player.
type User struct {
	Username string `bson:"username" firestore:"-"`
	Password string `bson:"password" firestore:"password"`
	Points   int    `bson:"points" firestore:"points"`
}

const (
	maxUsernameLength = 32
	minPasswordLength = 8
)

// ErrIncorrectLogin is returned when the username does not exist or the password is wrong.
var ErrIncorrectLogin = errors.New("incorrect username/password")

// New creates a new user with the specified name and password.
func New(username, password string) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	u := User{
		Username: username,
		Password: password,
	}
	return &u, nil
}

// validateUsername returns an error if the username is not valid.
func validateUsername(u string) error {
	switch {
	case len(u) < 1:
		return fmt.Errorf("username required")
	case len(u) > maxUsernameLength:
		return fmt.Errorf("username must be no more than %v characters long", maxUsernameLength)
	}
	for _, r := range u {
		if !unicode.IsLower(r) {
			return fmt.Errorf("username must be made of only lowercase letters")
		}
	}
	return nil
}

// validatePassword returns an error if the password is not valid.
func validatePassword(p string) error {
	if len(p) < minPasswordLength {
		return fmt.Errorf("password must be at least %v characters long", minPasswordLength)
	}
	return nil
}

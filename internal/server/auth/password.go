package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/autobody/internal/shared"
)

var ErrNoCredentials = errors.New("no admin password or hash configured")

// Authenticator checks the single archive account.
type Authenticator struct {
	username string
	hash     []byte
}

// NewAuthenticator uses hash when given, otherwise hashes password.
func NewAuthenticator(username, hash, password string) (*Authenticator, error) {
	if hash == "" {
		if password == "" {
			return nil, ErrNoCredentials
		}
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		hash = string(h)
	}
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("admin password hash: %w", err)
	}
	return &Authenticator{username: username, hash: []byte(hash)}, nil
}

// Check returns shared.ErrorInvalidLoginPassword unless both the user name
// and the password match.
func (a *Authenticator) Check(username string, password []byte) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	pwErr := bcrypt.CompareHashAndPassword(a.hash, password)
	if !userOK || pwErr != nil {
		return shared.ErrorInvalidLoginPassword
	}
	return nil
}

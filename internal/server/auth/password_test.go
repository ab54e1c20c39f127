package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/autobody/internal/shared"
)

func TestAuthenticator_FromPassword(t *testing.T) {
	a, err := NewAuthenticator("admin", "", "s3cret")
	require.NoError(t, err)

	require.NoError(t, a.Check("admin", []byte("s3cret")))
	assert.ErrorIs(t, a.Check("admin", []byte("wrong")), shared.ErrorInvalidLoginPassword)
	assert.ErrorIs(t, a.Check("root", []byte("s3cret")), shared.ErrorInvalidLoginPassword)
}

func TestAuthenticator_FromHash(t *testing.T) {
	h, err := bcrypt.GenerateFromPassword([]byte("taller"), bcrypt.MinCost)
	require.NoError(t, err)

	a, err := NewAuthenticator("gil", string(h), "ignored")
	require.NoError(t, err)
	require.NoError(t, a.Check("gil", []byte("taller")))
	assert.Error(t, a.Check("gil", []byte("ignored")))
}

func TestNewAuthenticator_Errors(t *testing.T) {
	_, err := NewAuthenticator("admin", "", "")
	assert.ErrorIs(t, err, ErrNoCredentials)

	_, err = NewAuthenticator("admin", "not-a-bcrypt-hash", "")
	assert.Error(t, err)
}

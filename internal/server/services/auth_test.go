package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/autobody/internal/server/auth"
	"github.com/dmitrijs2005/autobody/internal/server/config"
	"github.com/dmitrijs2005/autobody/internal/shared"
)

func newAuthSvc(t *testing.T) *AuthService {
	t.Helper()
	a, err := auth.NewAuthenticator("admin", "", "taller")
	require.NoError(t, err)
	return NewAuthService(a, &config.Config{SecretKey: "k", AccessTokenValidityDuration: time.Minute})
}

func TestAuthService_LoginAndVerify(t *testing.T) {
	svc := newAuthSvc(t)

	token, exp, err := svc.Login(context.Background(), "admin", []byte("taller"))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	user, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", user)
}

func TestAuthService_LoginRejectsBadPassword(t *testing.T) {
	svc := newAuthSvc(t)

	_, _, err := svc.Login(context.Background(), "admin", []byte("nope"))
	assert.ErrorIs(t, err, shared.ErrorInvalidLoginPassword)
}

func TestAuthService_VerifyRejectsGarbage(t *testing.T) {
	_, err := newAuthSvc(t).Verify("garbage")
	assert.Error(t, err)
}

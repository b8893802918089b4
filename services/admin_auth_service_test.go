package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc := NewAdminAuthService(AdminAuthConfig{Secret: "hunter2"})

	token, expiresAt, err := svc.Login("hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	assert.NoError(t, svc.VerifyToken(token))
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := NewAdminAuthService(AdminAuthConfig{Secret: "hunter2"})

	_, _, err := svc.Login("hunter3")
	assert.ErrorIs(t, err, ErrInvalidAdminPassword)
}

func TestVerifyTokenRejectsForeignToken(t *testing.T) {
	issuer := NewAdminAuthService(AdminAuthConfig{Secret: "one"})
	verifier := NewAdminAuthService(AdminAuthConfig{Secret: "two"})

	token, _, err := issuer.Login("one")
	require.NoError(t, err)

	assert.ErrorIs(t, verifier.VerifyToken(token), ErrInvalidAdminToken)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc := NewAdminAuthService(AdminAuthConfig{Secret: "hunter2"})

	assert.ErrorIs(t, svc.VerifyToken("not-a-token"), ErrInvalidAdminToken)
	assert.ErrorIs(t, svc.VerifyToken(""), ErrInvalidAdminToken)
}

func TestVerifySecretBypass(t *testing.T) {
	svc := NewAdminAuthService(AdminAuthConfig{Secret: "hunter2"})

	assert.NoError(t, svc.VerifySecret("hunter2"))
	assert.ErrorIs(t, svc.VerifySecret("wrong"), ErrInvalidAdminPassword)
	assert.ErrorIs(t, svc.VerifySecret(""), ErrInvalidAdminPassword)
}

func TestHashedSecretConfiguration(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	svc := NewAdminAuthService(AdminAuthConfig{SecretHash: string(hash)})

	assert.NoError(t, svc.VerifySecret("hunter2"))
	assert.ErrorIs(t, svc.VerifySecret("wrong"), ErrInvalidAdminPassword)

	token, _, err := svc.Login("hunter2")
	require.NoError(t, err)
	assert.NoError(t, svc.VerifyToken(token))
}

func TestUnconfiguredAuthenticator(t *testing.T) {
	svc := NewAdminAuthService(AdminAuthConfig{})

	_, _, err := svc.Login("anything")
	assert.ErrorIs(t, err, ErrAuthNotConfigured)
	assert.ErrorIs(t, svc.VerifyToken("token"), ErrAuthNotConfigured)
	assert.ErrorIs(t, svc.VerifySecret("secret"), ErrAuthNotConfigured)
}

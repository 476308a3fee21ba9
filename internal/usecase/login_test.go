package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/prospectplus-agent/internal/auth"
	"github.com/xavierca1/prospectplus-agent/internal/entity"
)

func TestLoginSuccess(t *testing.T) {
	users := new(MockAuthenticator)
	tokens := new(MockTokenService)
	users.On("Authenticate", mock.Anything, "demo", "demo123").Return(entity.User{Username: "demo"}, nil)
	tokens.On("Issue", "demo").Return("signed.jwt.token", time.Now().Add(30*time.Minute), nil)

	out, err := NewLoginService(users, tokens, nil).Login(context.Background(), "demo", "demo123")
	require.NoError(t, err)
	assert.Equal(t, "signed.jwt.token", out.AccessToken)
	assert.Equal(t, "bearer", out.TokenType)
	assert.Equal(t, 1800, out.ExpiresIn)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	users := new(MockAuthenticator)
	users.On("Authenticate", mock.Anything, "demo", "wrong").Return(entity.User{}, auth.ErrInvalidCredential)
	users.On("Authenticate", mock.Anything, "ghost", "demo123").Return(entity.User{}, auth.ErrInvalidCredential)
	svc := NewLoginService(users, new(MockTokenService), nil)

	_, errPassword := svc.Login(context.Background(), "demo", "wrong")
	_, errUser := svc.Login(context.Background(), "ghost", "demo123")
	_, errEmpty := svc.Login(context.Background(), "", "")

	for _, err := range []error{errPassword, errUser, errEmpty} {
		var de *DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, CodeInvalidCredentials, de.Code)
		assert.Equal(t, "Incorrect username or password", de.Message)
	}
}

func TestLoginTokenFailure(t *testing.T) {
	users := new(MockAuthenticator)
	tokens := new(MockTokenService)
	users.On("Authenticate", mock.Anything, "demo", "pw").Return(entity.User{Username: "demo"}, nil)
	tokens.On("Issue", "demo").Return("", time.Time{}, errors.New("bad key"))

	_, err := NewLoginService(users, tokens, nil).Login(context.Background(), "demo", "pw")
	assert.True(t, IsTechnicalError(err))
}

func TestCurrentUser(t *testing.T) {
	users := new(MockAuthenticator)
	tokens := new(MockTokenService)
	tokens.On("Validate", "good").Return(&auth.Claims{Subject: "demo"}, nil)
	tokens.On("Validate", "bad").Return(nil, auth.ErrInvalidCredential)
	tokens.On("Validate", "orphan").Return(&auth.Claims{Subject: "ghost"}, nil)
	users.On("Lookup", mock.Anything, "demo").Return(entity.User{Username: "demo", Email: "demo@example.com"}, true)
	users.On("Lookup", mock.Anything, "ghost").Return(entity.User{}, false)
	svc := NewLoginService(users, tokens, nil)

	u, err := svc.CurrentUser(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "demo@example.com", u.Email)

	_, err = svc.CurrentUser(context.Background(), "bad")
	assert.Equal(t, CodeInvalidCredentials, ErrorCode(err))
	_, err = svc.CurrentUser(context.Background(), "orphan")
	assert.Equal(t, CodeInvalidCredentials, ErrorCode(err))
}

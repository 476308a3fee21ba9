package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/prospectplus-agent/internal/entity"
	"github.com/xavierca1/prospectplus-agent/internal/metrics"
)

const invalidCredentialsMessage = "Incorrect username or password"

type LoginService struct {
	Users  Authenticator
	Tokens TokenService
	Log    *zap.Logger
}

func NewLoginService(users Authenticator, tokens TokenService, log *zap.Logger) *LoginService {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoginService{Users: users, Tokens: tokens, Log: log}
}

// Login never says whether the username or the password was wrong.
func (s *LoginService) Login(ctx context.Context, username, password string) (*TokenOutput, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		metrics.RecordLogin("rejected")
		return nil, &DomainError{Code: CodeInvalidCredentials, Message: invalidCredentialsMessage}
	}

	user, err := s.Users.Authenticate(ctx, username, password)
	if err != nil {
		metrics.RecordLogin("rejected")
		s.Log.Info("login rejected", zap.String("username", username))
		return nil, &DomainError{Code: CodeInvalidCredentials, Message: invalidCredentialsMessage}
	}

	token, _, err := s.Tokens.Issue(user.Username)
	if err != nil {
		return nil, &TechnicalError{Code: "TOKEN_ERROR", Message: "issue token", Err: err}
	}
	metrics.RecordLogin("ok")

	return &TokenOutput{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.Tokens.TTL().Seconds()),
	}, nil
}

// CurrentUser resolves a bearer token to the active user it was issued for.
func (s *LoginService) CurrentUser(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.Tokens.Validate(token)
	if err != nil {
		return nil, &DomainError{Code: CodeInvalidCredentials, Message: "Could not validate credentials"}
	}
	user, ok := s.Users.Lookup(ctx, claims.Subject)
	if !ok || user.Disabled {
		return nil, &DomainError{Code: CodeInvalidCredentials, Message: "Could not validate credentials"}
	}
	return &user, nil
}

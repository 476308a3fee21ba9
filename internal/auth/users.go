package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/xavierca1/prospectplus-agent/internal/entity"
)

// dummyHash is compared against for unknown users so that a miss costs one bcrypt round.
var dummyHash = sync.OnceValue(func() string {
	hash, _ := HashPassword("prospectplus-unknown-user")
	return hash
})

// verifyPassword is swapped in tests.
var verifyPassword = VerifyPassword

// UserStore is a fixed, read-only set of users loaded at startup.
type UserStore struct {
	users map[string]entity.User
}

func NewUserStore(users ...entity.User) *UserStore {
	s := &UserStore{users: make(map[string]entity.User, len(users))}
	for _, u := range users {
		s.users[u.Username] = u
	}
	return s
}

// NewDemoUserStore hashes password and registers a single enabled user.
func NewDemoUserStore(username, password, email string) (*UserStore, error) {
	if username == "" || password == "" {
		return NewUserStore(), nil
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("demo user: %w", err)
	}
	return NewUserStore(entity.User{
		Username:     username,
		Email:        email,
		FullName:     "Demo User",
		PasswordHash: hash,
	}), nil
}

func (s *UserStore) Lookup(_ context.Context, username string) (entity.User, bool) {
	u, ok := s.users[username]
	return u, ok
}

// Authenticate returns ErrInvalidCredential for an unknown user, a wrong password or a disabled account.
func (s *UserStore) Authenticate(ctx context.Context, username, password string) (entity.User, error) {
	u, ok := s.Lookup(ctx, username)
	if !ok {
		verifyPassword(password, dummyHash())
		return entity.User{}, ErrInvalidCredential
	}
	if !verifyPassword(password, u.PasswordHash) || u.Disabled {
		return entity.User{}, ErrInvalidCredential
	}
	return u, nil
}

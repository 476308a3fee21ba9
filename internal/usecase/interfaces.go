package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/prospectplus-agent/internal/auth"
	"github.com/xavierca1/prospectplus-agent/internal/entity"
)

type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (entity.User, error)
	Lookup(ctx context.Context, username string) (entity.User, bool)
}

type TokenService interface {
	Issue(subject string) (string, time.Time, error)
	Validate(token string) (*auth.Claims, error)
	TTL() time.Duration
}

// Mailer delivers one outreach email.
type Mailer interface {
	Send(ctx context.Context, msg OutreachEmail) error
}

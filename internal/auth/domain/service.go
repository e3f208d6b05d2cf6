package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"

	tenantdomain "github.com/getmenuly/menuly/internal/tenant/domain"
)

type Service interface {
	// Signup provisions the user account and its restaurant in one
	// transaction, then opens a session.
	Signup(ctx context.Context, req SignupRequest) (*LoginResult, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	// Authenticate resolves a raw cookie token to its session and the
	// restaurant owned by the session's user.
	Authenticate(ctx context.Context, rawToken string) (*Identity, error)
}

type SignupRequest struct {
	Email          string
	Password       string
	RestaurantName string
	UserAgent      string
	IPAddress      string
}

type LoginRequest struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

type LoginResult struct {
	UserID     snowflake.ID
	Email      string
	Restaurant *tenantdomain.Restaurant
	RawToken   string
	ExpiresAt  time.Time
	SessionID  snowflake.ID
}

type Identity struct {
	Session    *Session
	User       *User
	Restaurant *tenantdomain.Restaurant
}

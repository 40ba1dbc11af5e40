package auth

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrWeakCredential      = errors.New("password does not meet provider requirements")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrIdentityNotFound    = errors.New("identity not found")
	ErrInvalidToken        = errors.New("invalid or revoked token")
	ErrProviderUnavailable = errors.New("identity provider not configured")
)

// Identity is the provider's record of an account.
type Identity struct {
	UID         string         `json:"uid"`
	Email       string         `json:"email"`
	DisplayName string         `json:"displayName"`
	Claims      map[string]any `json:"customClaims,omitempty"`
}

// Role returns the role claim, if any.
func (i *Identity) Role() string {
	role, _ := i.Claims[ClaimRole].(string)
	return role
}

// Tokens are returned by a successful password verification.
type Tokens struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	// ExpiresIn is the id token lifetime in seconds, as reported by the provider.
	ExpiresIn string `json:"expiresIn"`
	UID       string `json:"localId"`
}

// TokenClaims is a decoded, verified id token.
type TokenClaims struct {
	UID      string
	Email    string
	IssuedAt time.Time
	Claims   map[string]any
}

const (
	ClaimRole    = "role"
	ClaimAddress = "address"
)

// Gateway is the identity provider as seen by the account service.
// Implementations return identity facts only.
type Gateway interface {
	// CreateIdentity fails with ErrDuplicateEmail or ErrWeakCredential when the provider rejects the account.
	CreateIdentity(ctx context.Context, email, password, displayName string) (*Identity, error)
	// VerifyCredentials fails with ErrInvalidCredentials without telling unknown email from wrong password.
	VerifyCredentials(ctx context.Context, email, password string) (*Tokens, error)
	SetClaims(ctx context.Context, uid string, claims map[string]any) error
	GetIdentityByEmail(ctx context.Context, email string) (*Identity, error)
	GetIdentity(ctx context.Context, uid string) (*Identity, error)
	// RevokeSessions invalidates every refresh token issued so far for uid.
	RevokeSessions(ctx context.Context, uid string) error
	VerifyToken(ctx context.Context, idToken string, checkRevoked bool) (*TokenClaims, error)
	DeleteIdentity(ctx context.Context, uid string) error
}

package account

import (
	"context"
	"time"

	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/auth"
	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/entity"
	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/gazetteer"
)

// SignupRequest carries the data required to register a customer or driver.
type SignupRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Phone           string `json:"phone" validate:"required"`
	Address         string `json:"address" validate:"required"`
	Role            string `json:"role" validate:"required,oneof=customer driver"`
	LicenseNumber   string `json:"license_number" validate:"required_if=Role driver"`
	VehicleInfo     string `json:"vehicle_info"`
}

// SignupResult is the identity, the stored profile and how the address was resolved.
type SignupResult struct {
	Identity *auth.Identity
	Account  *entity.Account
	Location gazetteer.Match
}

// LoginRequest carries the credentials to verify.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult holds the provider tokens and the caller's profile.
type LoginResult struct {
	Tokens   *auth.Tokens
	Identity *auth.Identity
	Account  *entity.Account
}

// LogoutRequest identifies the sessions to revoke. Both fields are optional.
type LogoutRequest struct {
	UID     string `json:"uid"`
	IDToken string `json:"idToken"`
}

// LogoutResult describes what the server did.
type LogoutResult struct {
	// ServerSide is false when no uid was supplied and nothing was revoked.
	ServerSide  bool
	Revoked     bool
	RevokeError string
	// TokenValid reports whether the supplied id token still verified after revocation.
	TokenValid bool
	Email      string
	Timestamp  time.Time
}

// DeleteRequest identifies the account to remove.
type DeleteRequest struct {
	UID string `json:"uid" validate:"required"`
}

// DeleteResult is a snapshot of what was removed. Account is nil when the
// identity had no stored profile.
type DeleteResult struct {
	Identity  *auth.Identity
	Account   *entity.Account
	Timestamp time.Time
}

// Service implements the account lifecycle.
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*SignupResult, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, req LogoutRequest) (*LogoutResult, error)
	Delete(ctx context.Context, req DeleteRequest) (*DeleteResult, error)
	// Profile returns the stored account of an authenticated identity.
	Profile(ctx context.Context, uid string) (*entity.Account, error)
}

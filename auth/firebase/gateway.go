package firebase

import (
	"context"

	fbAuth "firebase.google.com/go/auth"
	"github.com/pkg/errors"

	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/auth"
)

// minPasswordLength is the shortest password Firebase Authentication accepts.
const minPasswordLength = 6

// Gateway implements auth.Gateway on top of the Firebase Admin SDK. Password
// verification is not part of the Admin SDK and goes through PasswordVerifier.
type Gateway struct {
	client   *fbAuth.Client
	verifier *PasswordVerifier
}

// NewGateway wraps an initialized admin client.
func NewGateway(client *fbAuth.Client, verifier *PasswordVerifier) *Gateway {
	return &Gateway{client: client, verifier: verifier}
}

func (g *Gateway) CreateIdentity(ctx context.Context, email, password, displayName string) (*auth.Identity, error) {
	if len(password) < minPasswordLength {
		return nil, errors.WithStack(auth.ErrWeakCredential)
	}
	params := (&fbAuth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)
	rec, err := g.client.CreateUser(ctx, params)
	if err != nil {
		if fbAuth.IsEmailAlreadyExists(err) {
			return nil, errors.WithStack(auth.ErrDuplicateEmail)
		}
		return nil, errors.Wrap(err, "creating firebase user")
	}
	return toIdentity(rec), nil
}

func (g *Gateway) VerifyCredentials(ctx context.Context, email, password string) (*auth.Tokens, error) {
	return g.verifier.Verify(ctx, email, password)
}

func (g *Gateway) SetClaims(ctx context.Context, uid string, claims map[string]any) error {
	if err := g.client.SetCustomUserClaims(ctx, uid, claims); err != nil {
		if fbAuth.IsUserNotFound(err) {
			return errors.WithStack(auth.ErrIdentityNotFound)
		}
		return errors.Wrap(err, "setting custom claims")
	}
	return nil
}

func (g *Gateway) GetIdentityByEmail(ctx context.Context, email string) (*auth.Identity, error) {
	rec, err := g.client.GetUserByEmail(ctx, email)
	if err != nil {
		if fbAuth.IsUserNotFound(err) {
			return nil, errors.WithStack(auth.ErrIdentityNotFound)
		}
		return nil, errors.Wrap(err, "fetching firebase user by email")
	}
	return toIdentity(rec), nil
}

func (g *Gateway) GetIdentity(ctx context.Context, uid string) (*auth.Identity, error) {
	rec, err := g.client.GetUser(ctx, uid)
	if err != nil {
		if fbAuth.IsUserNotFound(err) {
			return nil, errors.WithStack(auth.ErrIdentityNotFound)
		}
		return nil, errors.Wrap(err, "fetching firebase user")
	}
	return toIdentity(rec), nil
}

func (g *Gateway) RevokeSessions(ctx context.Context, uid string) error {
	if err := g.client.RevokeRefreshTokens(ctx, uid); err != nil {
		if fbAuth.IsUserNotFound(err) {
			return errors.WithStack(auth.ErrIdentityNotFound)
		}
		return errors.Wrap(err, "revoking refresh tokens")
	}
	return nil
}

func (g *Gateway) VerifyToken(ctx context.Context, idToken string, checkRevoked bool) (*auth.TokenClaims, error) {
	var (
		tok *fbAuth.Token
		err error
	)
	if checkRevoked {
		tok, err = g.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	} else {
		tok, err = g.client.VerifyIDToken(ctx, idToken)
	}
	if err != nil {
		return nil, errors.Wrap(auth.ErrInvalidToken, err.Error())
	}
	email, _ := tok.Claims["email"].(string)
	return &auth.TokenClaims{
		UID:      tok.UID,
		Email:    email,
		IssuedAt: unixTime(tok.IssuedAt),
		Claims:   tok.Claims,
	}, nil
}

func (g *Gateway) DeleteIdentity(ctx context.Context, uid string) error {
	if err := g.client.DeleteUser(ctx, uid); err != nil {
		if fbAuth.IsUserNotFound(err) {
			return errors.WithStack(auth.ErrIdentityNotFound)
		}
		return errors.Wrap(err, "deleting firebase user")
	}
	return nil
}

func toIdentity(rec *fbAuth.UserRecord) *auth.Identity {
	id := &auth.Identity{Claims: rec.CustomClaims}
	if rec.UserInfo != nil {
		id.UID = rec.UID
		id.Email = rec.Email
		id.DisplayName = rec.DisplayName
	}
	return id
}

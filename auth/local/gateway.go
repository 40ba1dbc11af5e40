package local

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"maps"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/auth"
)

const (
	minPasswordLength = 6
	defaultTokenTTL   = time.Hour
)

// Gateway is an in-process identity provider with the same contract as the
// Firebase gateway. It backs local development and tests.
type Gateway struct {
	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
	now        func() time.Time
	// dummyHash is compared for unknown emails so they cost as much as a
	// wrong password.
	dummyHash func() []byte

	mu      sync.RWMutex
	byUID   map[string]*record
	byEmail map[string]string
}

type record struct {
	identity     auth.Identity
	passwordHash []byte
	generation   uint64
}

// Option configures a Gateway.
type Option func(g *Gateway)

// WithBcryptCost sets the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(g *Gateway) { g.bcryptCost = cost }
}

// WithTokenTTL sets the id token lifetime.
func WithTokenTTL(ttl time.Duration) Option {
	return func(g *Gateway) { g.tokenTTL = ttl }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// NewGateway creates an empty provider signing id tokens with secret.
func NewGateway(secret string, opts ...Option) *Gateway {
	g := &Gateway{
		secret:     []byte(secret),
		tokenTTL:   defaultTokenTTL,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
		byUID:      map[string]*record{},
		byEmail:    map[string]string{},
	}
	for _, o := range opts {
		o(g)
	}
	g.dummyHash = sync.OnceValue(func() []byte {
		hash, _ := bcrypt.GenerateFromPassword([]byte(randomToken()), g.bcryptCost)
		return hash
	})
	return g
}

func (g *Gateway) CreateIdentity(_ context.Context, email, password, displayName string) (*auth.Identity, error) {
	if len(password) < minPasswordLength {
		return nil, errors.WithStack(auth.ErrWeakCredential)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), g.bcryptCost)
	if err != nil {
		return nil, errors.Wrap(err, "hashing password")
	}

	key := strings.ToLower(email)

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.byEmail[key]; exists {
		return nil, errors.WithStack(auth.ErrDuplicateEmail)
	}
	rec := &record{
		identity: auth.Identity{
			UID:         newUID(),
			Email:       key,
			DisplayName: displayName,
		},
		passwordHash: hash,
	}
	g.byUID[rec.identity.UID] = rec
	g.byEmail[key] = rec.identity.UID

	return copyIdentity(&rec.identity), nil
}

func (g *Gateway) VerifyCredentials(_ context.Context, email, password string) (*auth.Tokens, error) {
	g.mu.RLock()
	r := g.byUID[g.byEmail[strings.ToLower(email)]]
	var (
		hash       []byte
		identity   auth.Identity
		generation uint64
	)
	if r != nil {
		hash = r.passwordHash
		identity = *copyIdentity(&r.identity)
		generation = r.generation
	}
	g.mu.RUnlock()

	if r == nil {
		_ = bcrypt.CompareHashAndPassword(g.dummyHash(), []byte(password))
		return nil, errors.WithStack(auth.ErrInvalidCredentials)
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		return nil, errors.WithStack(auth.ErrInvalidCredentials)
	}

	idToken, err := signIDToken(g.secret, identity.UID, identity.Email, identity.Claims, generation, g.now(), g.tokenTTL)
	if err != nil {
		return nil, errors.Wrap(err, "signing id token")
	}
	return &auth.Tokens{
		IDToken:      idToken,
		RefreshToken: randomToken(),
		ExpiresIn:    strconv.Itoa(int(g.tokenTTL.Seconds())),
		UID:          identity.UID,
	}, nil
}

func (g *Gateway) SetClaims(_ context.Context, uid string, claims map[string]any) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.byUID[uid]
	if !ok {
		return errors.WithStack(auth.ErrIdentityNotFound)
	}
	r.identity.Claims = maps.Clone(claims)
	return nil
}

func (g *Gateway) GetIdentityByEmail(_ context.Context, email string) (*auth.Identity, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	r, ok := g.byUID[g.byEmail[strings.ToLower(email)]]
	if !ok {
		return nil, errors.WithStack(auth.ErrIdentityNotFound)
	}
	return copyIdentity(&r.identity), nil
}

func (g *Gateway) GetIdentity(_ context.Context, uid string) (*auth.Identity, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	r, ok := g.byUID[uid]
	if !ok {
		return nil, errors.WithStack(auth.ErrIdentityNotFound)
	}
	return copyIdentity(&r.identity), nil
}

func (g *Gateway) RevokeSessions(_ context.Context, uid string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.byUID[uid]
	if !ok {
		return errors.WithStack(auth.ErrIdentityNotFound)
	}
	r.generation++
	return nil
}

func (g *Gateway) VerifyToken(_ context.Context, idToken string, checkRevoked bool) (*auth.TokenClaims, error) {
	claims, err := parseIDToken(g.secret, idToken, g.now())
	if err != nil {
		return nil, errors.Wrap(auth.ErrInvalidToken, err.Error())
	}

	if checkRevoked {
		g.mu.RLock()
		r, ok := g.byUID[claims.Subject]
		var generation uint64
		if ok {
			generation = r.generation
		}
		g.mu.RUnlock()

		if !ok {
			return nil, errors.Wrap(auth.ErrInvalidToken, "identity no longer exists")
		}
		if claims.Generation < generation {
			return nil, errors.Wrap(auth.ErrInvalidToken, "token has been revoked")
		}
	}

	tc := &auth.TokenClaims{
		UID:    claims.Subject,
		Email:  claims.Email,
		Claims: maps.Clone(claims.Custom),
	}
	if claims.IssuedAt != nil {
		tc.IssuedAt = claims.IssuedAt.Time
	}
	return tc, nil
}

func (g *Gateway) DeleteIdentity(_ context.Context, uid string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.byUID[uid]
	if !ok {
		return errors.WithStack(auth.ErrIdentityNotFound)
	}
	delete(g.byEmail, r.identity.Email)
	delete(g.byUID, uid)
	return nil
}

func copyIdentity(id *auth.Identity) *auth.Identity {
	c := *id
	c.Claims = maps.Clone(id.Claims)
	return &c
}

// newUID returns a 28 character identifier shaped like a Firebase uid.
func newUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:28]
}

func randomToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

package service

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/outofforest/logger"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	accountpkg "github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/account"
	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/account/repository"
	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/auth"
	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/auth/local"
	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/entity"
	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/gazetteer"
)

var profileIDPattern = regexp.MustCompile(`^[CD][0-9A-F]{8}$`)

// recordingGateway counts provider calls and injects failures.
type recordingGateway struct {
	auth.Gateway

	mu           sync.Mutex
	calls        map[string]int
	deleteErr    error
	setClaimsErr error
	verifyErr    error
}

func (g *recordingGateway) record(op string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[op]++
}

func (g *recordingGateway) count(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[op]
}

func (g *recordingGateway) CreateIdentity(ctx context.Context, email, password, displayName string) (*auth.Identity, error) {
	g.record("CreateIdentity")
	return g.Gateway.CreateIdentity(ctx, email, password, displayName)
}

func (g *recordingGateway) SetClaims(ctx context.Context, uid string, claims map[string]any) error {
	g.record("SetClaims")
	if g.setClaimsErr != nil {
		return g.setClaimsErr
	}
	return g.Gateway.SetClaims(ctx, uid, claims)
}

func (g *recordingGateway) VerifyCredentials(ctx context.Context, email, password string) (*auth.Tokens, error) {
	g.record("VerifyCredentials")
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	return g.Gateway.VerifyCredentials(ctx, email, password)
}

func (g *recordingGateway) RevokeSessions(ctx context.Context, uid string) error {
	g.record("RevokeSessions")
	return g.Gateway.RevokeSessions(ctx, uid)
}

func (g *recordingGateway) VerifyToken(ctx context.Context, idToken string, checkRevoked bool) (*auth.TokenClaims, error) {
	g.record("VerifyToken")
	return g.Gateway.VerifyToken(ctx, idToken, checkRevoked)
}

func (g *recordingGateway) DeleteIdentity(ctx context.Context, uid string) error {
	g.record("DeleteIdentity")
	if g.deleteErr != nil {
		return g.deleteErr
	}
	return g.Gateway.DeleteIdentity(ctx, uid)
}

// failingRepo fails profile writes.
type failingRepo struct {
	accountpkg.Repository
	err error
}

func (r *failingRepo) CreateCustomer(context.Context, *entity.Customer) (*entity.Customer, error) {
	return nil, r.err
}

func (r *failingRepo) CreateDriver(context.Context, *entity.Driver) (*entity.Driver, error) {
	return nil, r.err
}

// racingRepo misses the email on lookup and then loses the insert to a
// concurrent signup holding the same email.
type racingRepo struct {
	accountpkg.Repository
}

func (r *racingRepo) FindByEmail(context.Context, string) (*entity.Account, error) {
	return nil, errors.WithStack(accountpkg.ErrNotFound)
}

func (r *racingRepo) CreateCustomer(context.Context, *entity.Customer) (*entity.Customer, error) {
	return nil, errors.WithStack(&accountpkg.DuplicateKeyError{Field: accountpkg.KeyEmail})
}

type env struct {
	ctx     context.Context
	repo    accountpkg.Repository
	gateway *recordingGateway
	service accountpkg.Service
}

func newEnv(t *testing.T, opts ...Option) *env {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, repository.Migrate(db))

	places, err := gazetteer.Default()
	require.NoError(t, err)

	e := &env{
		ctx:  logger.WithLogger(t.Context(), logger.New(logger.DefaultConfig)),
		repo: repository.NewGormAccountRepo(db),
		gateway: &recordingGateway{
			Gateway: local.NewGateway("test-secret", local.WithBcryptCost(bcrypt.MinCost)),
			calls:   map[string]int{},
		},
	}
	e.service = NewAccountService(e.repo, e.gateway, places, opts...)
	return e
}

func customerSignup() accountpkg.SignupRequest {
	return accountpkg.SignupRequest{
		Name:            "Kasun",
		Email:           "k@x.com",
		Password:        "Pw123!",
		ConfirmPassword: "Pw123!",
		Phone:           "0771234567",
		Address:         "123 Main St, Colombo",
		Role:            "customer",
	}
}

func driverSignup() accountpkg.SignupRequest {
	return accountpkg.SignupRequest{
		Name:            "Nimal",
		Email:           "Nimal@X.com",
		Password:        "secret-pw",
		ConfirmPassword: "secret-pw",
		Phone:           "0719876543",
		Address:         "45 Lake Road, Negombo",
		Role:            "driver",
		LicenseNumber:   "B1234567",
		VehicleInfo:     "Bike - WP AB-1234",
	}
}

func requireKind(t *testing.T, err error, kind accountpkg.Kind) *accountpkg.Error {
	t.Helper()

	var svcErr *accountpkg.Error
	require.True(t, errors.As(err, &svcErr), "unexpected error: %v", err)
	require.Equal(t, kind, svcErr.Kind, svcErr.Error())
	return svcErr
}

func TestSignupCustomer(t *testing.T) {
	t.Parallel()

	requireT := require.New(t)
	e := newEnv(t)

	res, err := e.service.Signup(e.ctx, customerSignup())
	requireT.NoError(err)

	requireT.Equal("Colombo", res.Location.District)
	requireT.Equal(gazetteer.MatchDistrictName, res.Location.Kind)
	requireT.Equal("k@x.com", res.Identity.Email)
	requireT.Equal("Kasun", res.Identity.DisplayName)
	requireT.Equal("customer", res.Identity.Role())
	requireT.Equal("123 Main St, Colombo", res.Identity.Claims[auth.ClaimAddress])

	requireT.Equal(entity.RoleCustomer, res.Account.Role)
	requireT.Regexp(profileIDPattern, res.Account.ProfileID())
	requireT.Equal(byte('C'), res.Account.ProfileID()[0])
	requireT.Equal(res.Identity.UID, res.Account.Base().FirebaseUID)
	requireT.InDelta(6.9271, res.Account.Base().CurrentLocation.Latitude, 1e-9)
	requireT.Empty(res.Account.Customer.OrderHistory)

	// The role claim is held by the provider.
	identity, err := e.gateway.GetIdentityByEmail(e.ctx, "k@x.com")
	requireT.NoError(err)
	requireT.Equal("customer", identity.Role())

	stored, err := e.repo.FindByIdentity(e.ctx, res.Identity.UID)
	requireT.NoError(err)
	requireT.Equal(res.Account.ProfileID(), stored.ProfileID())
}

func TestSignupDriverByAlias(t *testing.T) {
	t.Parallel()

	requireT := require.New(t)
	e := newEnv(t)

	res, err := e.service.Signup(e.ctx, driverSignup())
	requireT.NoError(err)

	requireT.Equal("Gampaha", res.Location.District)
	requireT.Equal(gazetteer.MatchAlias, res.Location.Kind)
	requireT.Equal("Negombo", res.Location.MatchedAlias)

	requireT.Equal(entity.RoleDriver, res.Account.Role)
	requireT.Equal(byte('D'), res.Account.ProfileID()[0])
	requireT.Equal("nimal@x.com", res.Account.Base().Email)
	requireT.Equal("B1234567", res.Account.Driver.LicenseNumber)
	requireT.Equal(entity.DriverAvailable, res.Account.Driver.Status)
}

func TestSignupValidation(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		mutate  func(r *accountpkg.SignupRequest)
		field   string
		message string
	}{
		"missing name": {
			mutate:  func(r *accountpkg.SignupRequest) { r.Name = "" },
			field:   "name",
			message: "name is required",
		},
		"malformed email": {
			mutate:  func(r *accountpkg.SignupRequest) { r.Email = "not-an-email" },
			field:   "email",
			message: "Invalid email format",
		},
		"password mismatch": {
			mutate:  func(r *accountpkg.SignupRequest) { r.ConfirmPassword = "Pw123?" },
			field:   "confirmPassword",
			message: "Passwords do not match",
		},
		"missing phone": {
			mutate:  func(r *accountpkg.SignupRequest) { r.Phone = "" },
			field:   "phone",
			message: "phone is required",
		},
		"unknown role": {
			mutate:  func(r *accountpkg.SignupRequest) { r.Role = "admin" },
			field:   "role",
			message: "Role must be either 'customer' or 'driver'",
		},
		"driver without license": {
			mutate:  func(r *accountpkg.SignupRequest) { r.Role = "driver" },
			field:   "license_number",
			message: "license_number is required for drivers",
		},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			e := newEnv(t)
			req := customerSignup()
			tc.mutate(&req)

			_, err := e.service.Signup(e.ctx, req)
			svcErr := requireKind(t, err, accountpkg.KindValidation)
			require.Equal(t, tc.field, svcErr.Field)
			require.Equal(t, tc.message, svcErr.Message)
			require.Zero(t, e.gateway.count("CreateIdentity"))
		})
	}
}

func TestSignupUnknownAddress(t *testing.T) {
	t.Parallel()

	requireT := require.New(t)
	e := newEnv(t)

	req := customerSignup()
	req.Address = "123 Main St, Nowhereville"
	_, err := e.service.Signup(e.ctx, req)

	svcErr := requireKind(t, err, accountpkg.KindValidation)
	requireT.Equal("address", svcErr.Field)
	requireT.NotEmpty(svcErr.Suggestion)
	requireT.Zero(e.gateway.count("CreateIdentity"))

	_, err = e.gateway.GetIdentityByEmail(e.ctx, "k@x.com")
	requireT.ErrorIs(err, auth.ErrIdentityNotFound)
	_, err = e.repo.FindByEmail(e.ctx, "k@x.com")
	requireT.ErrorIs(err, accountpkg.ErrNotFound)
}

func TestSignupDuplicateEmail(t *testing.T) {
	t.Parallel()

	requireT := require.New(t)
	e := newEnv(t)

	_, err := e.service.Signup(e.ctx, customerSignup())
	requireT.NoError(err)

	req := driverSignup()
	req.Email = "K@x.com"
	_, err = e.service.Signup(e.ctx, req)
	svcErr := requireKind(t, err, accountpkg.KindDuplicate)
	requireT.Equal("User already exists", svcErr.Message)
	requireT.Equal(1, e.gateway.count("CreateIdentity"))
}

func TestSignupWeakPassword(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	req := customerSignup()
	req.Password = "abc"
	req.ConfirmPassword = "abc"

	_, err := e.service.Signup(e.ctx, req)
	svcErr := requireKind(t, err, accountpkg.KindValidation)
	require.Equal(t, "password", svcErr.Field)
}

func TestSignupStoreFailureRemovesIdentity(t *testing.T) {
	t.Parallel()

	requireT := require.New(t)
	e := newEnv(t)
	e.service = NewAccountService(&failingRepo{Repository: e.repo, err: errors.New("disk full")}, e.gateway,
		mustDefaultGazetteer(t))

	_, err := e.service.Signup(e.ctx, customerSignup())
	svcErr := requireKind(t, err, accountpkg.KindUpstream)
	requireT.Equal("Error creating user", svcErr.Message)
	requireT.Equal("disk full", svcErr.Detail())

	requireT.Equal(1, e.gateway.count("DeleteIdentity"))
	_, err = e.gateway.GetIdentityByEmail(e.ctx, "k@x.com")
	requireT.ErrorIs(err, auth.ErrIdentityNotFound)
}

func TestSignupLosesEmailRace(t *testing.T) {
	t.Parallel()

	requireT := require.New(t)
	e := newEnv(t)
	e.service = NewAccountService(&racingRepo{Repository: e.repo}, e.gateway, mustDefaultGazetteer(t))

	_, err := e.service.Signup(e.ctx, customerSignup())
	svcErr := requireKind(t, err, accountpkg.KindDuplicate)
	requireT.Equal("User already exists", svcErr.Message)

	requireT.Equal(1, e.gateway.count("CreateIdentity"))
	requireT.Equal(1, e.gateway.count("DeleteIdentity"))
	_, err = e.gateway.GetIdentityByEmail(e.ctx, "k@x.com")
	requireT.ErrorIs(err, auth.ErrIdentityNotFound)
}

func TestSignupClaimsFailureRemovesIdentity(t *testing.T) {
	t.Parallel()

	requireT := require.New(t)
	e := newEnv(t)
	e.gateway.setClaimsErr = errors.New("quota exceeded")

	_, err := e.service.Signup(e.ctx, customerSignup())
	svcErr := requireKind(t, err, accountpkg.KindUpstream)
	requireT.Equal("Error creating user", svcErr.Message)
	requireT.Equal("quota exceeded", svcErr.Detail())

	requireT.Equal(1, e.gateway.count("DeleteIdentity"))
	_, err = e.gateway.GetIdentityByEmail(e.ctx, "k@x.com")
	requireT.ErrorIs(err, auth.ErrIdentityNotFound)
	_, err = e.repo.FindByEmail(e.ctx, "k@x.com")
	requireT.ErrorIs(err, accountpkg.ErrNotFound)
}

func TestSignupRegeneratesCollidingID(t *testing.T) {
	t.Parallel()

	requireT := require.New(t)

	var mu sync.Mutex
	ids := []string{"C0000000A", "C0000000A", "C0000000B"}
	e := newEnv(t, WithIDGenerator(func(entity.Role) string {
		mu.Lock()
		defer mu.Unlock()
		id := ids[0]
		ids = ids[1:]
		return id
	}))

	first, err := e.service.Signup(e.ctx, customerSignup())
	requireT.NoError(err)
	requireT.Equal("C0000000A", first.Account.ProfileID())

	req := customerSignup()
	req.Email = "other@x.com"
	second, err := e.service.Signup(e.ctx, req)
	requireT.NoError(err)
	requireT.Equal("C0000000B", second.Account.ProfileID())
	requireT.Zero(e.gateway.count("DeleteIdentity"))
}

func TestSignupGivesUpOnRepeatedIDCollision(t *testing.T) {
	t.Parallel()

	requireT := require.New(t)
	e := newEnv(t, WithIDGenerator(func(entity.Role) string { return "C0000000A" }))

	_, err := e.service.Signup(e.ctx, customerSignup())
	requireT.NoError(err)

	req := customerSignup()
	req.Email = "other@x.com"
	_, err = e.service.Signup(e.ctx, req)
	requireKind(t, err, accountpkg.KindDuplicate)
	requireT.Equal(1, e.gateway.count("DeleteIdentity"))

	_, err = e.gateway.GetIdentityByEmail(e.ctx, "other@x.com")
	requireT.ErrorIs(err, auth.ErrIdentityNotFound)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	requireT := require.New(t)
	e := newEnv(t)

	signed, err := e.service.Signup(e.ctx, driverSignup())
	requireT.NoError(err)

	res, err := e.service.Login(e.ctx, accountpkg.LoginRequest{Email: "nimal@x.com", Password: "secret-pw"})
	requireT.NoError(err)
	requireT.NotEmpty(res.Tokens.IDToken)
	requireT.NotEmpty(res.Tokens.RefreshToken)
	requireT.Equal("3600", res.Tokens.ExpiresIn)
	requireT.Equal(signed.Identity.UID, res.Identity.UID)
	requireT.Equal(entity.RoleDriver, res.Account.Role)
	requireT.Equal(signed.Account.ProfileID(), res.Account.ProfileID())

	claims, err := e.gateway.VerifyToken(e.ctx, res.Tokens.IDToken, true)
	requireT.NoError(err)
	requireT.Equal("driver", claims.Claims[auth.ClaimRole])
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	requireT := require.New(t)
	e := newEnv(t)

	_, err := e.service.Signup(e.ctx, customerSignup())
	requireT.NoError(err)

	_, wrongPassword := e.service.Login(e.ctx, accountpkg.LoginRequest{Email: "k@x.com", Password: "wrong-pw"})
	_, unknownEmail := e.service.Login(e.ctx, accountpkg.LoginRequest{Email: "ghost@x.com", Password: "any-pw"})

	first := requireKind(t, wrongPassword, accountpkg.KindAuthentication)
	second := requireKind(t, unknownEmail, accountpkg.KindAuthentication)
	requireT.Equal(first.Message, second.Message)
	requireT.Equal(first.Detail(), second.Detail())
	requireT.Equal(first.Field, second.Field)
}

func TestLoginProviderFailureIsUpstream(t *testing.T) {
	t.Parallel()

	requireT := require.New(t)
	e := newEnv(t)

	_, err := e.service.Signup(e.ctx, customerSignup())
	requireT.NoError(err)

	e.gateway.verifyErr = errors.Wrap(errors.New("dial tcp: connection refused"), "calling identity toolkit")
	_, err = e.service.Login(e.ctx, accountpkg.LoginRequest{Email: "k@x.com", Password: "Pw123!"})
	svcErr := requireKind(t, err, accountpkg.KindUpstream)
	requireT.Equal("Internal server error", svcErr.Message)
	requireT.Contains(svcErr.Detail(), "connection refused")
}

func TestLoginValidation(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	_, err := e.service.Login(e.ctx, accountpkg.LoginRequest{Email: "k@x.com"})
	svcErr := requireKind(t, err, accountpkg.KindValidation)
	require.Equal(t, "Email and password are required", svcErr.Message)
}

func TestLoginWithoutProfile(t *testing.T) {
	t.Parallel()

	requireT := require.New(t)
	e := newEnv(t)

	identity, err := e.gateway.CreateIdentity(e.ctx, "lost@x.com", "secret-pw", "Lost")
	requireT.NoError(err)
	requireT.NoError(e.gateway.SetClaims(e.ctx, identity.UID, map[string]any{auth.ClaimRole: "customer"}))

	_, err = e.service.Login(e.ctx, accountpkg.LoginRequest{Email: "lost@x.com", Password: "secret-pw"})
	requireKind(t, err, accountpkg.KindNotFound)
}

func TestLoginRoleMismatch(t *testing.T) {
	t.Parallel()

	requireT := require.New(t)
	e := newEnv(t)

	signed, err := e.service.Signup(e.ctx, customerSignup())
	requireT.NoError(err)
	requireT.NoError(e.gateway.SetClaims(e.ctx, signed.Identity.UID, map[string]any{auth.ClaimRole: "driver"}))

	_, err = e.service.Login(e.ctx, accountpkg.LoginRequest{Email: "k@x.com", Password: "Pw123!"})
	requireKind(t, err, accountpkg.KindUpstream)
}

func TestLogoutWithoutUID(t *testing.T) {
	t.Parallel()

	requireT := require.New(t)
	e := newEnv(t)

	res, err := e.service.Logout(e.ctx, accountpkg.LogoutRequest{IDToken: "whatever"})
	requireT.NoError(err)
	requireT.False(res.ServerSide)
	requireT.False(res.Timestamp.IsZero())
	requireT.Zero(e.gateway.count("RevokeSessions"))
	requireT.Zero(e.gateway.count("VerifyToken"))
}

func TestLogoutRevokesSessions(t *testing.T) {
	t.Parallel()

	requireT := require.New(t)
	e := newEnv(t)

	_, err := e.service.Signup(e.ctx, customerSignup())
	requireT.NoError(err)
	login, err := e.service.Login(e.ctx, accountpkg.LoginRequest{Email: "k@x.com", Password: "Pw123!"})
	requireT.NoError(err)

	res, err := e.service.Logout(e.ctx, accountpkg.LogoutRequest{
		UID:     login.Identity.UID,
		IDToken: login.Tokens.IDToken,
	})
	requireT.NoError(err)
	requireT.True(res.ServerSide)
	requireT.True(res.Revoked)
	requireT.Empty(res.RevokeError)
	// Revocation happens before verification, so the token no longer verifies.
	requireT.False(res.TokenValid)
	requireT.Equal(1, e.gateway.count("VerifyToken"))

	_, err = e.gateway.VerifyToken(e.ctx, login.Tokens.IDToken, true)
	requireT.ErrorIs(err, auth.ErrInvalidToken)
}

func TestLogoutReportsRevokeFailure(t *testing.T) {
	t.Parallel()

	requireT := require.New(t)
	e := newEnv(t)

	res, err := e.service.Logout(e.ctx, accountpkg.LogoutRequest{UID: "no-such-uid"})
	requireT.NoError(err)
	requireT.True(res.ServerSide)
	requireT.False(res.Revoked)
	requireT.NotEmpty(res.RevokeError)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	requireT := require.New(t)
	e := newEnv(t)

	signed, err := e.service.Signup(e.ctx, customerSignup())
	requireT.NoError(err)
	uid := signed.Identity.UID

	res, err := e.service.Delete(e.ctx, accountpkg.DeleteRequest{UID: uid})
	requireT.NoError(err)
	requireT.Equal("k@x.com", res.Identity.Email)
	requireT.NotNil(res.Account)
	requireT.Equal(signed.Account.ProfileID(), res.Account.ProfileID())

	_, err = e.gateway.GetIdentity(e.ctx, uid)
	requireT.ErrorIs(err, auth.ErrIdentityNotFound)
	_, err = e.repo.FindByIdentity(e.ctx, uid)
	requireT.ErrorIs(err, accountpkg.ErrNotFound)

	_, err = e.service.Delete(e.ctx, accountpkg.DeleteRequest{UID: uid})
	svcErr := requireKind(t, err, accountpkg.KindNotFound)
	requireT.Equal("User not found with provided uid", svcErr.Message)

	// The email can be registered again.
	_, err = e.service.Signup(e.ctx, customerSignup())
	requireT.NoError(err)
}

func TestDeleteIdentityWithoutProfile(t *testing.T) {
	t.Parallel()

	requireT := require.New(t)
	e := newEnv(t)

	identity, err := e.gateway.CreateIdentity(e.ctx, "bare@x.com", "secret-pw", "Bare")
	requireT.NoError(err)

	res, err := e.service.Delete(e.ctx, accountpkg.DeleteRequest{UID: identity.UID})
	requireT.NoError(err)
	requireT.Nil(res.Account)
}

func TestDeleteRestoresProfileWhenProviderFails(t *testing.T) {
	t.Parallel()

	requireT := require.New(t)
	e := newEnv(t)

	signed, err := e.service.Signup(e.ctx, driverSignup())
	requireT.NoError(err)
	uid := signed.Identity.UID

	e.gateway.deleteErr = errors.New("provider unavailable")
	_, err = e.service.Delete(e.ctx, accountpkg.DeleteRequest{UID: uid})
	svcErr := requireKind(t, err, accountpkg.KindUpstream)
	requireT.Equal("provider unavailable", svcErr.Detail())

	acc, err := e.repo.FindByIdentity(e.ctx, uid)
	requireT.NoError(err)
	requireT.Equal(signed.Account.ProfileID(), acc.ProfileID())
	_, err = e.gateway.GetIdentity(e.ctx, uid)
	requireT.NoError(err)
}

func TestDeleteRequiresUID(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	_, err := e.service.Delete(e.ctx, accountpkg.DeleteRequest{})
	svcErr := requireKind(t, err, accountpkg.KindValidation)
	require.Equal(t, "UID is required to delete user", svcErr.Message)
}

func TestProfile(t *testing.T) {
	t.Parallel()

	requireT := require.New(t)
	e := newEnv(t)

	signed, err := e.service.Signup(e.ctx, customerSignup())
	requireT.NoError(err)

	acc, err := e.service.Profile(e.ctx, signed.Identity.UID)
	requireT.NoError(err)
	requireT.Equal(signed.Account.ProfileID(), acc.ProfileID())

	_, err = e.service.Profile(e.ctx, "ghost")
	requireKind(t, err, accountpkg.KindNotFound)
}

func TestNewProfileID(t *testing.T) {
	t.Parallel()

	requireT := require.New(t)
	requireT.Regexp(`^C[0-9A-F]{8}$`, NewProfileID(entity.RoleCustomer))
	requireT.Regexp(`^D[0-9A-F]{8}$`, NewProfileID(entity.RoleDriver))
}

func mustDefaultGazetteer(t *testing.T) *gazetteer.Gazetteer {
	g, err := gazetteer.Default()
	require.NoError(t, err)
	return g
}

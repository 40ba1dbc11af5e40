package service

import (
	"context"
	"encoding/hex"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/outofforest/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	accountpkg "github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/account"
	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/auth"
	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/entity"
	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/gazetteer"
)

const (
	// maxIDAttempts bounds regeneration of a colliding customer_id or driver_id.
	maxIDAttempts       = 3
	compensationTimeout = 5 * time.Second
)

// accountService implements account.Service.
type accountService struct {
	repo     accountpkg.Repository
	identity auth.Gateway
	matcher  *gazetteer.Matcher
	validate *validator.Validate
	newID    func(role entity.Role) string
	now      func() time.Time
}

// Option configures the service.
type Option func(s *accountService)

// WithIDGenerator replaces the generator of role-prefixed profile ids.
func WithIDGenerator(gen func(role entity.Role) string) Option {
	return func(s *accountService) { s.newID = gen }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *accountService) { s.now = now }
}

// NewAccountService constructs an account.Service on top of the store, the
// identity provider and the gazetteer.
func NewAccountService(repo accountpkg.Repository, identity auth.Gateway, places *gazetteer.Gazetteer, opts ...Option) accountpkg.Service {
	s := &accountService{
		repo:     repo,
		identity: identity,
		matcher:  gazetteer.NewMatcher(places),
		validate: newValidator(),
		newID:    NewProfileID,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewProfileID returns "C" or "D" followed by 8 uppercase hex digits.
func NewProfileID(role entity.Role) string {
	prefix := "C"
	if role == entity.RoleDriver {
		prefix = "D"
	}
	id := uuid.New()
	return prefix + strings.ToUpper(hex.EncodeToString(id[:4]))
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Signup registers the identity first and the profile second. Once the
// identity exists, any later failure deletes it again.
func (s *accountService) Signup(ctx context.Context, req accountpkg.SignupRequest) (*accountpkg.SignupResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, signupValidationError(err)
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	location, ok := s.matcher.Match(req.Address)
	if !ok {
		return nil, &accountpkg.Error{
			Kind:       accountpkg.KindValidation,
			Field:      "address",
			Message:    "Could not resolve the address to a known district",
			Suggestion: "Include a district or town name in the address, e.g. \"12 Temple Road, Kandy\"",
		}
	}

	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, accountpkg.NewError(accountpkg.KindDuplicate, "User already exists", nil)
	case !errors.Is(err, accountpkg.ErrNotFound):
		return nil, accountpkg.NewError(accountpkg.KindUpstream, "Error creating user", err)
	}

	identity, err := s.identity.CreateIdentity(ctx, email, req.Password, req.Name)
	switch {
	case errors.Is(err, auth.ErrDuplicateEmail):
		return nil, accountpkg.NewError(accountpkg.KindDuplicate, "User already exists", err)
	case errors.Is(err, auth.ErrWeakCredential):
		return nil, &accountpkg.Error{
			Kind:    accountpkg.KindValidation,
			Field:   "password",
			Message: "Password is too weak",
			Err:     err,
		}
	case err != nil:
		return nil, accountpkg.NewError(accountpkg.KindUpstream, "Error creating user", err)
	}

	role := entity.Role(req.Role)
	claims := map[string]any{
		auth.ClaimRole:    string(role),
		auth.ClaimAddress: req.Address,
	}
	if err := s.identity.SetClaims(ctx, identity.UID, claims); err != nil {
		s.discardIdentity(ctx, identity.UID)
		return nil, accountpkg.NewError(accountpkg.KindUpstream, "Error creating user", err)
	}
	identity.Claims = claims

	profile := entity.Profile{
		FirebaseUID: identity.UID,
		Name:        req.Name,
		Email:       email,
		Role:        role,
		Phone:       req.Phone,
		CurrentLocation: entity.Location{
			Address:   req.Address,
			Latitude:  location.Latitude,
			Longitude: location.Longitude,
		},
	}
	acc, err := s.storeProfile(ctx, profile, req)
	if err != nil {
		s.discardIdentity(ctx, identity.UID)
		if errors.Is(err, accountpkg.ErrDuplicateKey) {
			return nil, accountpkg.NewError(accountpkg.KindDuplicate, "User already exists", err)
		}
		return nil, accountpkg.NewError(accountpkg.KindUpstream, "Error creating user", err)
	}

	return &accountpkg.SignupResult{
		Identity: identity,
		Account:  acc,
		Location: location,
	}, nil
}

// storeProfile persists the role variant, regenerating the profile id when it
// collides with an existing one.
func (s *accountService) storeProfile(ctx context.Context, profile entity.Profile, req accountpkg.SignupRequest) (*entity.Account, error) {
	idField := accountpkg.KeyCustomerID
	if profile.Role == entity.RoleDriver {
		idField = accountpkg.KeyDriverID
	}

	for attempt := 1; ; attempt++ {
		acc, err := s.createVariant(ctx, profile, req)
		if err == nil {
			return acc, nil
		}
		var dupErr *accountpkg.DuplicateKeyError
		if !errors.As(err, &dupErr) || dupErr.Field != idField || attempt == maxIDAttempts {
			return nil, err
		}
		logger.Get(ctx).Warn("Generated profile id collided, regenerating",
			zap.String("field", idField), zap.Int("attempt", attempt))
	}
}

func (s *accountService) createVariant(ctx context.Context, profile entity.Profile, req accountpkg.SignupRequest) (*entity.Account, error) {
	if profile.Role == entity.RoleDriver {
		d, err := s.repo.CreateDriver(ctx, &entity.Driver{
			Profile:       profile,
			DriverID:      s.newID(entity.RoleDriver),
			LicenseNumber: req.LicenseNumber,
			VehicleInfo:   req.VehicleInfo,
			Status:        entity.DriverAvailable,
		})
		if err != nil {
			return nil, err
		}
		return entity.DriverAccount(d), nil
	}

	c, err := s.repo.CreateCustomer(ctx, &entity.Customer{
		Profile:    profile,
		CustomerID: s.newID(entity.RoleCustomer),
	})
	if err != nil {
		return nil, err
	}
	return entity.CustomerAccount(c), nil
}

// discardIdentity is the compensating step of signup. It must run even when
// the request context is already done.
func (s *accountService) discardIdentity(ctx context.Context, uid string) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	log := logger.Get(ctx).With(zap.String("uid", uid))
	if err := s.identity.DeleteIdentity(cctx, uid); err != nil {
		log.Error("Orphaned identity left behind after failed signup", zap.Error(err))
		return
	}
	log.Info("Identity removed after failed signup")
}

func (s *accountService) Login(ctx context.Context, req accountpkg.LoginRequest) (*accountpkg.LoginResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, &accountpkg.Error{
			Kind:    accountpkg.KindValidation,
			Field:   firstInvalidField(err),
			Message: "Email and password are required",
		}
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	tokens, err := s.identity.VerifyCredentials(ctx, email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		// Unknown email and wrong password answer the same body.
		return nil, accountpkg.NewError(accountpkg.KindAuthentication, "Invalid email or password", nil)
	case err != nil:
		return nil, accountpkg.NewError(accountpkg.KindUpstream, "Internal server error", err)
	}

	identity, err := s.identity.GetIdentityByEmail(ctx, email)
	if err != nil {
		return nil, accountpkg.NewError(accountpkg.KindUpstream, "Internal server error", err)
	}

	acc, err := s.repo.FindByIdentity(ctx, identity.UID)
	switch {
	case errors.Is(err, accountpkg.ErrNotFound):
		return nil, accountpkg.NewError(accountpkg.KindNotFound, "User profile not found", err)
	case err != nil:
		return nil, accountpkg.NewError(accountpkg.KindUpstream, "Internal server error", err)
	}
	if role := identity.Role(); role != string(acc.Role) {
		return nil, accountpkg.NewError(accountpkg.KindUpstream, "Internal server error",
			errors.Errorf("role claim %q does not match stored %s profile", role, acc.Role))
	}

	return &accountpkg.LoginResult{
		Tokens:   tokens,
		Identity: identity,
		Account:  acc,
	}, nil
}

// Logout never fails. Revocation and token verification outcomes are
// reported in the result.
func (s *accountService) Logout(ctx context.Context, req accountpkg.LogoutRequest) (*accountpkg.LogoutResult, error) {
	res := &accountpkg.LogoutResult{Timestamp: s.now().UTC()}
	if req.UID == "" {
		return res, nil
	}
	res.ServerSide = true

	log := logger.Get(ctx).With(zap.String("uid", req.UID))
	if err := s.identity.RevokeSessions(ctx, req.UID); err != nil {
		log.Warn("Revoking sessions failed", zap.Error(err))
		res.RevokeError = err.Error()
	} else {
		res.Revoked = true
	}

	if req.IDToken == "" {
		return res, nil
	}
	claims, err := s.identity.VerifyToken(ctx, req.IDToken, true)
	if err != nil {
		// Expected once the sessions are revoked.
		log.Info("Token verification failed during logout", zap.Error(err))
		return res, nil
	}
	res.TokenValid = true
	res.Email = claims.Email
	log.Info("User logged out", zap.String("email", claims.Email))
	return res, nil
}

// Delete removes the profile and then the identity. When the identity cannot
// be deleted the profile is written back.
func (s *accountService) Delete(ctx context.Context, req accountpkg.DeleteRequest) (*accountpkg.DeleteResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, accountpkg.NewValidationError("uid", "UID is required to delete user")
	}

	identity, err := s.identity.GetIdentity(ctx, req.UID)
	switch {
	case errors.Is(err, auth.ErrIdentityNotFound):
		return nil, accountpkg.NewError(accountpkg.KindNotFound, "User not found with provided uid", err)
	case err != nil:
		return nil, accountpkg.NewError(accountpkg.KindUpstream, "Error deleting user", err)
	}

	acc, err := s.repo.DeleteByIdentity(ctx, req.UID)
	switch {
	case errors.Is(err, accountpkg.ErrNotFound):
		acc = nil
	case err != nil:
		return nil, accountpkg.NewError(accountpkg.KindUpstream, "Error deleting user profile", err)
	}

	if err := s.identity.DeleteIdentity(ctx, req.UID); err != nil {
		if acc != nil {
			s.restoreProfile(ctx, acc)
		}
		if errors.Is(err, auth.ErrIdentityNotFound) {
			return nil, accountpkg.NewError(accountpkg.KindNotFound, "User not found with provided uid", err)
		}
		return nil, accountpkg.NewError(accountpkg.KindUpstream, "Error deleting user", err)
	}

	return &accountpkg.DeleteResult{
		Identity:  identity,
		Account:   acc,
		Timestamp: s.now().UTC(),
	}, nil
}

func (s *accountService) restoreProfile(ctx context.Context, acc *entity.Account) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	var err error
	if acc.Customer != nil {
		_, err = s.repo.CreateCustomer(cctx, acc.Customer)
	} else {
		_, err = s.repo.CreateDriver(cctx, acc.Driver)
	}

	log := logger.Get(ctx).With(zap.String("uid", acc.Base().FirebaseUID), zap.String("profileID", acc.ProfileID()))
	if err != nil {
		log.Error("Profile lost after failed identity deletion", zap.Error(err))
		return
	}
	log.Info("Profile restored after failed identity deletion")
}

func (s *accountService) Profile(ctx context.Context, uid string) (*entity.Account, error) {
	acc, err := s.repo.FindByIdentity(ctx, uid)
	switch {
	case errors.Is(err, accountpkg.ErrNotFound):
		return nil, accountpkg.NewError(accountpkg.KindNotFound, "User profile not found", err)
	case err != nil:
		return nil, accountpkg.NewError(accountpkg.KindUpstream, "Error fetching user profile", err)
	}
	return acc, nil
}

func signupValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return accountpkg.NewError(accountpkg.KindValidation, "Invalid signup request", err)
	}
	fe := fieldErrs[0]
	return accountpkg.NewValidationError(fe.Field(), fieldMessage(fe))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "eqfield":
		return "Passwords do not match"
	case "oneof":
		return "Role must be either 'customer' or 'driver'"
	case "email":
		return "Invalid email format"
	case "required_if":
		return fe.Field() + " is required for drivers"
	}
	return fe.Field() + " is required"
}

func firstInvalidField(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return fieldErrs[0].Field()
	}
	return ""
}

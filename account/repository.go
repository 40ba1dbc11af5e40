package account

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/entity"
)

var (
	// ErrNotFound is returned when no customer or driver matches the lookup.
	ErrNotFound = errors.New("account not found")
	// ErrDuplicateKey is matched by every *DuplicateKeyError.
	ErrDuplicateKey = errors.New("duplicate key")
)

// Unique keys enforced by the store.
const (
	KeyFirebaseUID = "firebase_uid"
	KeyEmail       = "email"
	KeyCustomerID  = "customer_id"
	KeyDriverID    = "driver_id"
)

// DuplicateKeyError reports which unique key a write violated.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	if e.Field == "" {
		return ErrDuplicateKey.Error()
	}
	return ErrDuplicateKey.Error() + ": " + e.Field
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// DuplicateKeyFromMessage builds a DuplicateKeyError from a driver error
// message, which names the violated column or index.
func DuplicateKeyFromMessage(msg string) *DuplicateKeyError {
	for _, field := range []string{KeyCustomerID, KeyDriverID, KeyFirebaseUID, KeyEmail} {
		if strings.Contains(msg, field) {
			return &DuplicateKeyError{Field: field}
		}
	}
	return &DuplicateKeyError{}
}

// Repository stores customer and driver profiles keyed by identity reference.
// Email and identity reference are unique across both collections.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
	FindByIdentity(ctx context.Context, uid string) (*entity.Account, error)
	CreateCustomer(ctx context.Context, c *entity.Customer) (*entity.Customer, error)
	CreateDriver(ctx context.Context, d *entity.Driver) (*entity.Driver, error)
	// DeleteByIdentity removes the profile and returns what was removed.
	DeleteByIdentity(ctx context.Context, uid string) (*entity.Account, error)
}

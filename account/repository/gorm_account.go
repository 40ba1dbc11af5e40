package repository

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	accountpkg "github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/account"
	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/entity"
)

// GormAccountRepo implements account.Repository using GORM.
type GormAccountRepo struct {
	db *gorm.DB
}

func NewGormAccountRepo(db *gorm.DB) accountpkg.Repository {
	return &GormAccountRepo{db: db}
}

// Migrate creates or updates the customers and drivers tables.
func Migrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(&entity.Customer{}, &entity.Driver{}), "migrating account tables")
}

func (r *GormAccountRepo) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return findBy(r.db.WithContext(ctx), "email = ?", email)
}

func (r *GormAccountRepo) FindByIdentity(ctx context.Context, uid string) (*entity.Account, error) {
	return findBy(r.db.WithContext(ctx), "firebase_uid = ?", uid)
}

func (r *GormAccountRepo) CreateCustomer(ctx context.Context, c *entity.Customer) (*entity.Customer, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureFree(tx, &entity.Driver{}, &c.Profile); err != nil {
			return err
		}
		return translateError(tx.Create(c).Error)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *GormAccountRepo) CreateDriver(ctx context.Context, d *entity.Driver) (*entity.Driver, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureFree(tx, &entity.Customer{}, &d.Profile); err != nil {
			return err
		}
		return translateError(tx.Create(d).Error)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *GormAccountRepo) DeleteByIdentity(ctx context.Context, uid string) (*entity.Account, error) {
	var acc *entity.Account
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		acc, err = findBy(tx, "firebase_uid = ?", uid)
		if err != nil {
			return err
		}
		if acc.Customer != nil {
			return errors.WithStack(tx.Delete(acc.Customer).Error)
		}
		return errors.WithStack(tx.Delete(acc.Driver).Error)
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

func findBy(db *gorm.DB, query string, arg any) (*entity.Account, error) {
	var c entity.Customer
	err := db.Where(query, arg).First(&c).Error
	if err == nil {
		return entity.CustomerAccount(&c), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.WithStack(err)
	}

	var d entity.Driver
	err = db.Where(query, arg).First(&d).Error
	if err == nil {
		return entity.DriverAccount(&d), nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.WithStack(accountpkg.ErrNotFound)
	}
	return nil, errors.WithStack(err)
}

// ensureFree checks the unique keys shared with the other table, which the
// table's own unique indexes cannot see. The counts run at the database's
// default isolation level, so a customer and a driver signup racing on one
// email can both commit.
func ensureFree(tx *gorm.DB, other any, p *entity.Profile) error {
	var count int64
	if err := tx.Model(other).Where("firebase_uid = ?", p.FirebaseUID).Count(&count).Error; err != nil {
		return errors.WithStack(err)
	}
	if count > 0 {
		return errors.WithStack(&accountpkg.DuplicateKeyError{Field: accountpkg.KeyFirebaseUID})
	}
	if err := tx.Model(other).Where("email = ?", p.Email).Count(&count).Error; err != nil {
		return errors.WithStack(err)
	}
	if count > 0 {
		return errors.WithStack(&accountpkg.DuplicateKeyError{Field: accountpkg.KeyEmail})
	}
	return nil
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "SQLSTATE 23505") {
		return errors.WithStack(accountpkg.DuplicateKeyFromMessage(msg))
	}
	return errors.WithStack(err)
}

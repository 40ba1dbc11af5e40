package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	accountpkg "github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/account"
	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/entity"
)

const (
	customersCollection = "customers"
	driversCollection   = "drivers"
)

// MongoAccountRepo implements account.Repository on two MongoDB collections.
type MongoAccountRepo struct {
	customers *mongo.Collection
	drivers   *mongo.Collection
}

// NewMongoAccountRepo ensures the unique indexes exist and returns the repository.
func NewMongoAccountRepo(ctx context.Context, db *mongo.Database) (accountpkg.Repository, error) {
	r := &MongoAccountRepo{
		customers: db.Collection(customersCollection),
		drivers:   db.Collection(driversCollection),
	}
	if err := r.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func uniqueIndex(field string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true).SetName(field + "_1"),
	}
}

func (r *MongoAccountRepo) ensureIndexes(ctx context.Context) error {
	if _, err := r.customers.Indexes().CreateMany(ctx, []mongo.IndexModel{
		uniqueIndex(accountpkg.KeyFirebaseUID),
		uniqueIndex(accountpkg.KeyEmail),
		uniqueIndex(accountpkg.KeyCustomerID),
	}); err != nil {
		return errors.Wrap(err, "creating customer indexes")
	}
	if _, err := r.drivers.Indexes().CreateMany(ctx, []mongo.IndexModel{
		uniqueIndex(accountpkg.KeyFirebaseUID),
		uniqueIndex(accountpkg.KeyEmail),
		uniqueIndex(accountpkg.KeyDriverID),
	}); err != nil {
		return errors.Wrap(err, "creating driver indexes")
	}
	return nil
}

func (r *MongoAccountRepo) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.findOne(ctx, bson.M{accountpkg.KeyEmail: email})
}

func (r *MongoAccountRepo) FindByIdentity(ctx context.Context, uid string) (*entity.Account, error) {
	return r.findOne(ctx, bson.M{accountpkg.KeyFirebaseUID: uid})
}

func (r *MongoAccountRepo) findOne(ctx context.Context, filter bson.M) (*entity.Account, error) {
	var c entity.Customer
	err := r.customers.FindOne(ctx, filter).Decode(&c)
	if err == nil {
		return entity.CustomerAccount(&c), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.WithStack(err)
	}

	var d entity.Driver
	err = r.drivers.FindOne(ctx, filter).Decode(&d)
	if err == nil {
		return entity.DriverAccount(&d), nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.WithStack(accountpkg.ErrNotFound)
	}
	return nil, errors.WithStack(err)
}

func (r *MongoAccountRepo) CreateCustomer(ctx context.Context, c *entity.Customer) (*entity.Customer, error) {
	if err := ensureFreeIn(ctx, r.drivers, &c.Profile); err != nil {
		return nil, err
	}
	c.Normalize()
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	if _, err := r.customers.InsertOne(ctx, c); err != nil {
		return nil, translateMongoError(err)
	}
	return c, nil
}

func (r *MongoAccountRepo) CreateDriver(ctx context.Context, d *entity.Driver) (*entity.Driver, error) {
	if err := ensureFreeIn(ctx, r.customers, &d.Profile); err != nil {
		return nil, err
	}
	d.Normalize()
	d.CreatedAt = time.Now().UTC()
	d.UpdatedAt = d.CreatedAt
	if _, err := r.drivers.InsertOne(ctx, d); err != nil {
		return nil, translateMongoError(err)
	}
	return d, nil
}

func (r *MongoAccountRepo) DeleteByIdentity(ctx context.Context, uid string) (*entity.Account, error) {
	filter := bson.M{accountpkg.KeyFirebaseUID: uid}

	var c entity.Customer
	err := r.customers.FindOneAndDelete(ctx, filter).Decode(&c)
	if err == nil {
		return entity.CustomerAccount(&c), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.WithStack(err)
	}

	var d entity.Driver
	err = r.drivers.FindOneAndDelete(ctx, filter).Decode(&d)
	if err == nil {
		return entity.DriverAccount(&d), nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.WithStack(accountpkg.ErrNotFound)
	}
	return nil, errors.WithStack(err)
}

// ensureFreeIn checks the keys that must stay unique across both collections.
// There is no multi-document transaction here, so a concurrent insert into the
// other collection can still slip through.
func ensureFreeIn(ctx context.Context, other *mongo.Collection, p *entity.Profile) error {
	for _, key := range []struct{ field, value string }{
		{field: accountpkg.KeyFirebaseUID, value: p.FirebaseUID},
		{field: accountpkg.KeyEmail, value: p.Email},
	} {
		n, err := other.CountDocuments(ctx, bson.M{key.field: key.value}, options.Count().SetLimit(1))
		if err != nil {
			return errors.WithStack(err)
		}
		if n > 0 {
			return errors.WithStack(&accountpkg.DuplicateKeyError{Field: key.field})
		}
	}
	return nil
}

func translateMongoError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return errors.WithStack(accountpkg.DuplicateKeyFromMessage(err.Error()))
	}
	return errors.WithStack(err)
}

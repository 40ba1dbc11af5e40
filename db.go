package main

import (
	"context"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/outofforest/logger"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	accountpkg "github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/account"
	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/account/repository"
	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/config"
)

const storeConnectTimeout = 10 * time.Second

// setupAccountStore opens the configured store. The returned close function
// releases its connections.
func setupAccountStore(ctx context.Context, cfg config.Config) (accountpkg.Repository, func(context.Context) error, error) {
	if cfg.AccountStore == config.StoreMongo {
		return setupMongo(ctx, cfg)
	}
	return setupDatabase(ctx, cfg)
}

func setupDatabase(ctx context.Context, cfg config.Config) (accountpkg.Repository, func(context.Context) error, error) {
	log := logger.Get(ctx)

	dialector := sqlite.Open(cfg.SQLitePath)
	if cfg.DatabaseDSN != "" {
		dialector = postgres.Open(cfg.DatabaseDSN)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to connect database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	if err := repository.Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	log.Info("Account store ready", zap.String("dialect", db.Dialector.Name()))

	return repository.NewGormAccountRepo(db), func(context.Context) error {
		return errors.WithStack(sqlDB.Close())
	}, nil
}

func setupMongo(ctx context.Context, cfg config.Config) (accountpkg.Repository, func(context.Context) error, error) {
	cctx, cancel := context.WithTimeout(ctx, storeConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to connect mongo")
	}
	disconnect := func(ctx context.Context) error {
		return errors.WithStack(client.Disconnect(ctx))
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = disconnect(ctx)
		return nil, nil, errors.Wrap(err, "failed to ping mongo")
	}

	repo, err := repository.NewMongoAccountRepo(cctx, client.Database(cfg.MongoDatabase))
	if err != nil {
		_ = disconnect(ctx)
		return nil, nil, err
	}
	logger.Get(ctx).Info("Account store ready", zap.String("dialect", "mongo"),
		zap.String("database", cfg.MongoDatabase))
	return repo, disconnect, nil
}

package main

import (
	"context"

	"github.com/outofforest/logger"
	"github.com/pkg/errors"

	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/auth"
	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/auth/firebase"
	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/auth/local"
	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/config"
)

// setupIdentity builds the identity provider once for the process lifetime.
func setupIdentity(ctx context.Context, cfg config.Config) (auth.Gateway, error) {
	log := logger.Get(ctx)

	if cfg.IdentityProvider == config.ProviderLocal {
		log.Warn("Using the in-process identity provider")
		return local.NewGateway(cfg.LocalTokenSecret), nil
	}

	client, err := auth.InitFirebaseAuth(ctx, cfg.FirebaseCredentialsFile)
	if err != nil {
		return nil, err
	}
	if client == nil {
		if cfg.IdentityProvider == config.ProviderFirebase {
			return nil, errors.New("firebase service account credentials not found")
		}
		log.Warn("Firebase credentials not found, using the in-process identity provider")
		return local.NewGateway(cfg.LocalTokenSecret), nil
	}

	if cfg.FirebaseAPIKey == "" {
		log.Warn("FIREBASE_API_KEY not set, password login is unavailable")
	}
	verifier := firebase.NewPasswordVerifier(cfg.FirebaseAPIKey, "", nil)
	log.Info("Using the Firebase identity provider")
	return firebase.NewGateway(client, verifier), nil
}

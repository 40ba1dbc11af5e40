package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Identity providers.
const (
	ProviderAuto     = "auto"
	ProviderFirebase = "firebase"
	ProviderLocal    = "local"
)

// Account stores.
const (
	StoreGorm  = "gorm"
	StoreMongo = "mongo"
)

type Config struct {
	Port    string
	GinMode string

	// IdentityProvider is auto, firebase or local. Auto uses Firebase when
	// service-account credentials are found and local otherwise.
	IdentityProvider        string
	FirebaseAPIKey          string
	FirebaseCredentialsFile string
	LocalTokenSecret        string

	// AccountStore is gorm or mongo. Gorm uses Postgres when DatabaseDSN is
	// set and SQLite at SQLitePath otherwise.
	AccountStore  string
	DatabaseDSN   string
	SQLitePath    string
	MongoURI      string
	MongoDatabase string

	// GazetteerPath overrides the embedded district dataset.
	GazetteerPath string
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// Load reads the environment and then applies command line flags from args.
func Load(args []string) (Config, error) {
	cfg := Config{
		Port:                    getEnv("PORT", "8080"),
		GinMode:                 getEnv("GIN_MODE", "release"),
		IdentityProvider:        getEnv("IDENTITY_PROVIDER", ProviderAuto),
		FirebaseAPIKey:          getEnv("FIREBASE_API_KEY", ""),
		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		LocalTokenSecret:        getEnv("LOCAL_TOKEN_SECRET", "dev-insecure-secret-change-me"),
		AccountStore:            getEnv("ACCOUNT_STORE", StoreGorm),
		DatabaseDSN:             getEnv("DATABASE_DSN", ""),
		SQLitePath:              getEnv("SQLITE_PATH", "swifttrack.db"),
		MongoURI:                getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:           getEnv("MONGO_DATABASE", "swifttrack"),
		GazetteerPath:           getEnv("GAZETTEER_PATH", ""),
	}

	flags := pflag.NewFlagSet("swifttrack-auth", pflag.ContinueOnError)
	flags.StringVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	flags.StringVar(&cfg.GazetteerPath, "gazetteer", cfg.GazetteerPath, "path to a district dataset replacing the embedded one")
	flags.StringVar(&cfg.AccountStore, "store", cfg.AccountStore, "account store: gorm or mongo")
	flags.StringVar(&cfg.IdentityProvider, "identity-provider", cfg.IdentityProvider, "identity provider: auto, firebase or local")
	if err := flags.Parse(args); err != nil {
		return Config{}, errors.WithStack(err)
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.IdentityProvider {
	case ProviderAuto, ProviderFirebase, ProviderLocal:
	default:
		return errors.Errorf("unknown identity provider %q", c.IdentityProvider)
	}
	switch c.AccountStore {
	case StoreGorm, StoreMongo:
	default:
		return errors.Errorf("unknown account store %q", c.AccountStore)
	}
	if c.IdentityProvider == ProviderFirebase && c.FirebaseAPIKey == "" {
		return errors.New("FIREBASE_API_KEY is required for the firebase identity provider")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

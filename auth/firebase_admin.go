package auth

import (
	"context"
	"os"
	"path/filepath"

	firebase "firebase.google.com/go"
	fbAuth "firebase.google.com/go/auth"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// InitFirebaseAuth initializes a Firebase Admin SDK auth client from a
// service account file. credentialsFile wins over the
// GOOGLE_APPLICATION_CREDENTIALS environment variable.
// Returns nil if no credentials can be found.
func InitFirebaseAuth(ctx context.Context, credentialsFile string) (*fbAuth.Client, error) {
	cred := credentialsFile
	if cred == "" {
		cred = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	if cred == "" {
		// Local dev convenience: a single service account json in the working directory.
		matches, _ := filepath.Glob("*-firebase-adminsdk-*.json")
		if len(matches) == 0 {
			matches, _ = filepath.Glob("*_serviceAccountKey.json")
		}
		switch len(matches) {
		case 0:
			return nil, nil
		case 1:
			cred = matches[0]
		default:
			return nil, errors.New("multiple firebase service account json files found in working directory; set FIREBASE_CREDENTIALS_FILE explicitly")
		}
	}
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(cred))
	if err != nil {
		return nil, errors.Wrap(err, "initializing firebase app")
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "initializing firebase auth client")
	}
	return client, nil
}

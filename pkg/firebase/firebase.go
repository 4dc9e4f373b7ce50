// Package firebase builds the Firebase Admin auth client used to verify ID tokens.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// ErrNotConfigured is returned when no credentials file is available.
var ErrNotConfigured = errors.New("firebase credentials not configured")

// Options selects the service account and, optionally, the project.
type Options struct {
	CredentialsPath string
	ProjectID       string
}

// NewAuthClient initializes the Firebase app and returns its auth client.
// A missing credentials file yields ErrNotConfigured so callers can run
// without Firebase.
func NewAuthClient(ctx context.Context, opts Options) (*auth.Client, error) {
	if opts.CredentialsPath == "" {
		return nil, ErrNotConfigured
	}
	if _, err := os.Stat(opts.CredentialsPath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: no file at %s", ErrNotConfigured, opts.CredentialsPath)
	}

	var appConfig *firebase.Config
	if opts.ProjectID != "" {
		appConfig = &firebase.Config{ProjectID: opts.ProjectID}
	}

	app, err := firebase.NewApp(ctx, appConfig, option.WithCredentialsFile(opts.CredentialsPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}
	return client, nil
}

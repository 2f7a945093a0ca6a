package firebase

import (
	"context"
	"fmt"
	"os"

	"community-sport/backend/internal/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// ClientOptions picks credentials from the environment. With neither variable
// set, Application Default Credentials apply.
func ClientOptions() []option.ClientOption {
	opts := []option.ClientOption{}

	// FIREBASE_SERVICE_ACCOUNT_JSON holds raw json, GOOGLE_APPLICATION_CREDENTIALS a file path.
	if json := getenv("FIREBASE_SERVICE_ACCOUNT_JSON", ""); json != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(json)))
	} else if path := getenv("GOOGLE_APPLICATION_CREDENTIALS", ""); path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}
	return opts
}

func NewApp(ctx context.Context, cfg config.Config) (*firebase.App, error) {
	appCfg := &firebase.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: cfg.StorageBucket,
	}
	app, err := firebase.NewApp(ctx, appCfg, ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	return app, nil
}

func NewAuthClient(ctx context.Context, app *firebase.App) (*auth.Client, error) {
	c, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth: %w", err)
	}
	return c, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

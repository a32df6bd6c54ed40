package auth

import (
	"context"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"careerhub/internal/config"
	"careerhub/internal/errors"
)

// FirebaseIdentity implements Identity against the Firebase Admin SDK.
type FirebaseIdentity struct {
	client *fbauth.Client
}

// NewFirebaseIdentity initializes the Admin SDK. Credentials resolve the
// same way as the Firestore store: inline JSON, then a file, then
// application default credentials.
func NewFirebaseIdentity(ctx context.Context, cfg *config.FirebaseConfig) (*FirebaseIdentity, error) {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, errors.NewAuthError(errors.ErrCodeInvalidConfig,
			"Failed to initialize Firebase app", err).
			WithContext("project_id", cfg.ProjectID)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.NewAuthError(errors.ErrCodeInvalidConfig,
			"Failed to initialize Firebase auth client", err)
	}
	return &FirebaseIdentity{client: client}, nil
}

func (f *FirebaseIdentity) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&fbauth.UserToCreate{}).
		Email(email).
		Password(password)
	if displayName != "" {
		params = params.DisplayName(displayName)
	}
	record, err := f.client.CreateUser(ctx, params)
	if err != nil {
		return "", err
	}
	return record.UID, nil
}

func (f *FirebaseIdentity) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	token, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", err
	}
	return token.UID, nil
}

func (f *FirebaseIdentity) RevokeRefreshTokens(ctx context.Context, uid string) error {
	return f.client.RevokeRefreshTokens(ctx, uid)
}

func (f *FirebaseIdentity) DeleteUser(ctx context.Context, uid string) error {
	return f.client.DeleteUser(ctx, uid)
}

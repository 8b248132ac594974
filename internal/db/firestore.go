package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// FirebaseCredentials are the service-account fields needed to reach
// Firestore. PrivateKey may contain literal "\n" sequences, as it does when
// stored in a single-line environment variable.
type FirebaseCredentials struct {
	ProjectID   string
	ClientEmail string
	PrivateKey  string
}

// serviceAccountJSON renders the credentials in the Google service-account
// key file format.
func (c FirebaseCredentials) serviceAccountJSON() ([]byte, error) {
	if c.ProjectID == "" || c.ClientEmail == "" || c.PrivateKey == "" {
		return nil, errors.New("incomplete firebase credentials")
	}
	return json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   c.ProjectID,
		"client_email": c.ClientEmail,
		"private_key":  strings.ReplaceAll(c.PrivateKey, `\n`, "\n"),
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
}

// OpenFirestore creates a Firestore client for the credentials' project.
// When FIRESTORE_EMULATOR_HOST is set the client library connects to the
// emulator instead.
func OpenFirestore(ctx context.Context, creds FirebaseCredentials) (*firestore.Client, error) {
	raw, err := creds.serviceAccountJSON()
	if err != nil {
		return nil, err
	}

	client, err := firestore.NewClient(ctx, creds.ProjectID, option.WithCredentialsJSON(raw))
	if err != nil {
		return nil, fmt.Errorf("open firestore: %w", err)
	}
	return client, nil
}

// Package firestore adapts Cloud Firestore to the document store port.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// Config selects the project and, for local development, a service
// account file. An empty CredentialsFile uses Application Default
// Credentials.
type Config struct {
	ProjectID       string
	CredentialsFile string
}

// Connect creates a Firestore client.
func Connect(ctx context.Context, cfg Config) (*firestore.Client, error) {
	projectID := strings.TrimSpace(cfg.ProjectID)
	if projectID == "" {
		return nil, errors.New("firestore: project id is empty")
	}

	var opts []option.ClientOption
	if f := strings.TrimSpace(cfg.CredentialsFile); f != "" {
		opts = append(opts, option.WithCredentialsFile(f))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore connect: %w", err)
	}
	return client, nil
}

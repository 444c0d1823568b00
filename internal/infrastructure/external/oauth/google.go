package oauth

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Scopes needed by the speech and calendar gateways
const (
	ScopeCloudPlatform  = "https://www.googleapis.com/auth/cloud-platform"
	ScopeCalendarEvents = "https://www.googleapis.com/auth/calendar.events"
)

// GoogleProvider issues authenticated HTTP clients for a Google service account
type GoogleProvider struct {
	credentials *google.Credentials
}

// NewGoogleProvider parses a service account key
func NewGoogleProvider(ctx context.Context, credentialsJSON []byte, scopes ...string) (*GoogleProvider, error) {
	if len(scopes) == 0 {
		scopes = []string{ScopeCloudPlatform, ScopeCalendarEvents}
	}

	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse google credentials: %w", err)
	}

	return &GoogleProvider{credentials: creds}, nil
}

// NewGoogleProviderFromFile reads a service account key from path
func NewGoogleProviderFromFile(ctx context.Context, path string, scopes ...string) (*GoogleProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read google credentials file: %w", err)
	}
	return NewGoogleProvider(ctx, data, scopes...)
}

// ProjectID returns the project the key belongs to, if any
func (g *GoogleProvider) ProjectID() string {
	return g.credentials.ProjectID
}

// TokenSource returns the underlying token source
func (g *GoogleProvider) TokenSource() oauth2.TokenSource {
	return g.credentials.TokenSource
}

// Client returns an HTTP client that attaches fresh access tokens.
// ctx only scopes token refreshes, not requests made with the client.
func (g *GoogleProvider) Client(ctx context.Context) *http.Client {
	return oauth2.NewClient(ctx, g.credentials.TokenSource)
}

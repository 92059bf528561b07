package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nischalsh/todo-service/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// Profile is the subset of the Google userinfo response the service needs.
// Email and Name are mandatory; a response missing either is rejected.
type Profile struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleClient exchanges browser-obtained authorization codes and fetches
// the associated profile.
type GoogleClient struct {
	conf *oauth2.Config
}

// NewGoogleClient creates a client for the auth-code flow. The "postmessage"
// redirect matches codes obtained by the Google JS popup flow.
func NewGoogleClient(cfg config.GoogleConfig) *GoogleClient {
	return &GoogleClient{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  "postmessage",
			Endpoint:     google.Endpoint,
		},
	}
}

// ExchangeCode trades an authorization code for the user's profile.
func (g *GoogleClient) ExchangeCode(ctx context.Context, code string) (*Profile, error) {
	token, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	resp, err := g.conf.Client(ctx, token).Get(userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request returned status %d", resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}

	if profile.Email == "" || profile.Name == "" {
		return nil, fmt.Errorf("userinfo response missing required fields")
	}

	return &profile, nil
}

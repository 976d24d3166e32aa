package auth

import (
	"errors"

	"golang.org/x/oauth2/clientcredentials"
)

// Conf holds OAuth2 client credentials for a remote API.
type Conf struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	TokenURL     string   `json:"token_url"`
	Scopes       []string `json:"scopes"`
}

// Enabled reports whether credentials were configured.
func (c Conf) Enabled() bool { return c.TokenURL != "" }

// Validate checks that a configured token endpoint comes with an id.
func (c Conf) Validate() error {
	if c.Enabled() && c.ClientID == "" {
		return errors.New("client_id required with token_url")
	}
	return nil
}

func (c Conf) toOauth2Config() clientcredentials.Config {
	return clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     c.TokenURL,
		Scopes:       c.Scopes,
	}
}

// Package identity implements the Keycloak admin client used to provision
// gateway accounts alongside directory records.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config mirrors the Keycloak connection settings: the application realm
// the users live in, plus the master-realm credentials used to obtain an
// admin token.
type Config struct {
	Realm          string
	AuthServerURL  string
	ClientID       string
	ClientSecret   string
	MasterRealm    string
	MasterClient   string
	MasterUser     string
	MasterPassword string
}

// KeycloakClient talks to the Keycloak admin REST API. It implements
// ports.IdentityProvider.
type KeycloakClient struct {
	cfg    Config
	http   *http.Client
	logger zerolog.Logger
}

func NewKeycloakClient(cfg Config, logger zerolog.Logger) *KeycloakClient {
	return &KeycloakClient{
		cfg:    cfg,
		http:   &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

type keycloakUser struct {
	ID          string               `json:"id,omitempty"`
	Username    string               `json:"username"`
	Enabled     bool                 `json:"enabled"`
	Credentials []keycloakCredential `json:"credentials,omitempty"`
}

type keycloakCredential struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

// CreateUser provisions the account in the application realm.
func (c *KeycloakClient) CreateUser(ctx context.Context, username, password string) error {
	token, err := c.adminToken(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(keycloakUser{
		Username: username,
		Enabled:  true,
		Credentials: []keycloakCredential{
			{Type: "password", Value: password, Temporary: false},
		},
	})
	if err != nil {
		return fmt.Errorf("keycloak create user: %w", err)
	}

	endpoint := fmt.Sprintf("%s/admin/realms/%s/users", strings.TrimRight(c.cfg.AuthServerURL, "/"), c.cfg.Realm)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("keycloak create user: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("keycloak create user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusConflict {
		return fmt.Errorf("keycloak create user: unexpected status %d", resp.StatusCode)
	}

	c.logger.Debug().Str("username", username).Msg("keycloak account created")
	return nil
}

// DeleteUser removes the account from the application realm. A user absent
// from Keycloak is treated as already deleted.
func (c *KeycloakClient) DeleteUser(ctx context.Context, username string) error {
	token, err := c.adminToken(ctx)
	if err != nil {
		return err
	}

	id, err := c.lookupID(ctx, token, username)
	if err != nil {
		return err
	}
	if id == "" {
		c.logger.Debug().Str("username", username).Msg("keycloak account already absent")
		return nil
	}

	endpoint := fmt.Sprintf("%s/admin/realms/%s/users/%s", strings.TrimRight(c.cfg.AuthServerURL, "/"), c.cfg.Realm, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("keycloak delete user: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("keycloak delete user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("keycloak delete user: unexpected status %d", resp.StatusCode)
	}

	c.logger.Debug().Str("username", username).Msg("keycloak account deleted")
	return nil
}

// lookupID resolves a username to the Keycloak internal id, or "" when the
// account does not exist.
func (c *KeycloakClient) lookupID(ctx context.Context, token, username string) (string, error) {
	endpoint := fmt.Sprintf("%s/admin/realms/%s/users?username=%s&exact=true",
		strings.TrimRight(c.cfg.AuthServerURL, "/"), c.cfg.Realm, url.QueryEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("keycloak lookup user: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("keycloak lookup user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("keycloak lookup user: unexpected status %d", resp.StatusCode)
	}

	var users []keycloakUser
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return "", fmt.Errorf("keycloak lookup user: %w", err)
	}
	for _, u := range users {
		if u.Username == username {
			return u.ID, nil
		}
	}
	return "", nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// adminToken obtains an admin access token via password grant on the master
// realm.
func (c *KeycloakClient) adminToken(ctx context.Context) (string, error) {
	endpoint := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token",
		strings.TrimRight(c.cfg.AuthServerURL, "/"), c.cfg.MasterRealm)

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("client_id", c.cfg.MasterClient)
	form.Set("username", c.cfg.MasterUser)
	form.Set("password", c.cfg.MasterPassword)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("keycloak token: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("keycloak token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("keycloak token: unexpected status %d", resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("keycloak token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("keycloak token: empty access token")
	}
	return tok.AccessToken, nil
}

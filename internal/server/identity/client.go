package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/filevault/internal/common"
)

// Client talks to the identity provider. Sign-ups go over its admin API
// (service-key authenticated); verification stays local via the shared
// JWT secret.
type Client struct {
	baseURL    string
	serviceKey string
	jwtSecret  []byte
	httpClient *http.Client
}

func NewClient(baseURL, serviceKey, jwtSecret string) *Client {
	return &Client{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		jwtSecret:  []byte(jwtSecret),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type signUpRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	EmailConfirm bool   `json:"email_confirm"`
}

type signUpResponse struct {
	ID string `json:"id"`
}

func (c *Client) SignUp(ctx context.Context, email, password string) (string, error) {

	body, err := json.Marshal(signUpRequest{Email: email, Password: password, EmailConfirm: true})
	if err != nil {
		return "", fmt.Errorf("marshal sign-up request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/admin/users", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build sign-up request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("identity provider request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity:
		// The provider reports an already-registered email this way.
		return "", common.ErrorAlreadyExists
	case resp.StatusCode >= 300:
		return "", fmt.Errorf("identity provider sign-up: unexpected status %d", resp.StatusCode)
	}

	var out signUpResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode sign-up response: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("identity provider sign-up: empty user id")
	}

	return out.ID, nil
}

func (c *Client) Verify(_ context.Context, token string) (*Identity, error) {
	claims, err := parseToken(token, c.jwtSecret)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return &Identity{ID: claims.Subject, Email: claims.Email, Role: claims.Role}, nil
}

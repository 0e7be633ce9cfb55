package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"timbal.com.mx/internal/auth"
)

const defaultTimeout = 10 * time.Second

// Client talks to the hosted identity provider over HTTP. It covers the two
// capabilities this service consumes: exchanging a user token for the caller's
// identity, and the service-key gated administrative create-account call.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// ClientOption configures Client behavior.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client (useful for tests).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient constructs a provider client. serviceKey authorizes admin calls.
func NewClient(baseURL, serviceKey string, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("provider: base URL is required")
	}
	c := &Client{
		baseURL:    baseURL,
		serviceKey: strings.TrimSpace(serviceKey),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type createUserRequest struct {
	Email        string         `json:"email"`
	Password     string         `json:"password"`
	EmailConfirm bool           `json:"email_confirm"`
	UserMetadata map[string]any `json:"user_metadata"`
}

type createUserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// CreateUser calls the provider's administrative create-account endpoint. The
// email is pre-confirmed and fullName/role ride along as profile metadata for
// the provider's post-creation hook.
func (c *Client) CreateUser(ctx context.Context, email, password, fullName string, role auth.Role) (string, error) {
	payload := createUserRequest{
		Email:        strings.TrimSpace(strings.ToLower(email)),
		Password:     password,
		EmailConfirm: true,
		UserMetadata: map[string]any{
			"full_name": fullName,
			"role":      string(role),
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/admin/v1/users", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		var out createUserResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return "", fmt.Errorf("decode create user response: %w", err)
		}
		if out.ID == "" {
			return "", fmt.Errorf("provider returned no user id")
		}
		return out.ID, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return "", fmt.Errorf("%w: %s", ErrRejected, providerMessage(resp.Body))
	default:
		return "", fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}
}

// Exchange resolves a user bearer token into the caller's identity record.
func (c *Client) Exchange(ctx context.Context, token string) (auth.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", http.NoBody)
	if err != nil {
		return auth.Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return auth.Identity{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var identity auth.Identity
		if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
			return auth.Identity{}, fmt.Errorf("decode identity: %w", err)
		}
		if identity.ID == "" {
			return auth.Identity{}, auth.ErrInvalidCredential
		}
		return identity, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return auth.Identity{}, auth.ErrInvalidCredential
	default:
		return auth.Identity{}, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}
}

func providerMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil || len(data) == 0 {
		return "request rejected"
	}
	var parsed errorResponse
	if err := json.Unmarshal(data, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	return strings.TrimSpace(string(data))
}

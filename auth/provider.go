// ABOUTME: Password authentication against a GoTrue-style token endpoint
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Provider exchanges credentials for a session.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, s Session) error
}

// HTTPProvider implements Provider against /auth/v1 endpoints.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewHTTPProvider(baseURL, apiKey string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"msg"`
}

// SignIn performs the password grant.
func (p *HTTPProvider) SignIn(ctx context.Context, email, password string) (Session, error) {
	return p.credentialRequest(ctx, "/auth/v1/token?grant_type=password", "sign in", email, password)
}

// SignUp registers a new account. The backend returns a session when
// email confirmation is disabled.
func (p *HTTPProvider) SignUp(ctx context.Context, email, password string) (Session, error) {
	return p.credentialRequest(ctx, "/auth/v1/signup", "sign up", email, password)
}

func (p *HTTPProvider) credentialRequest(ctx context.Context, path, action, email, password string) (Session, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return Session{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return Session{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", p.apiKey)

	resp, err := p.http.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("auth request: %w", err)
	}
	defer resp.Body.Close()

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return Session{}, fmt.Errorf("parsing auth response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := tr.ErrorDescription
		if msg == "" {
			msg = tr.Message
		}
		if msg == "" {
			msg = resp.Status
		}
		return Session{}, fmt.Errorf("%s failed: %s", action, msg)
	}
	if tr.AccessToken == "" {
		return Session{}, fmt.Errorf("%s failed: empty token", action)
	}
	return Authenticated(tr.User.ID, tr.User.Email, tr.AccessToken), nil
}

// SignOut revokes the session token. An anonymous session is a no-op.
func (p *HTTPProvider) SignOut(ctx context.Context, s Session) error {
	if !s.Authenticated {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", p.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.AccessToken)

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("logout failed: %s", resp.Status)
	}
	return nil
}

// Package google exchanges Google OAuth authorization codes for the
// provider identity used by third-party sign-in.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/heartmarshall/accountlinking/internal/config"
	"github.com/heartmarshall/accountlinking/internal/domain"
)

// ThirdPartyID is the provider id stored on Google login methods.
const ThirdPartyID = "google"

const (
	defaultTokenURL    = "https://oauth2.googleapis.com/token"
	defaultUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	retryBackoff       = 500 * time.Millisecond
)

// Verifier exchanges Google OAuth authorization codes for user identity.
type Verifier struct {
	clientID     string
	clientSecret string
	redirectURI  string
	tokenURL     string
	userinfoURL  string
	httpClient   *http.Client
	log          *slog.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithEndpoints overrides the token and userinfo endpoints.
func WithEndpoints(tokenURL, userinfoURL string) Option {
	return func(v *Verifier) {
		v.tokenURL = tokenURL
		v.userinfoURL = userinfoURL
	}
}

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(v *Verifier) { v.httpClient = c }
}

// NewVerifier creates a Google OAuth verifier from the auth settings.
func NewVerifier(cfg config.AuthConfig, logger *slog.Logger, opts ...Option) *Verifier {
	v := &Verifier{
		clientID:     cfg.GoogleClientID,
		clientSecret: cfg.GoogleClientSecret,
		redirectURI:  cfg.GoogleRedirectURI,
		tokenURL:     defaultTokenURL,
		userinfoURL:  defaultUserinfoURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		log:          logger.With("adapter", "google_oauth"),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

type userinfoResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
}

// VerifyCode exchanges an authorization code for the identity behind it.
// An unverified email is reported as such rather than rejected; the linking
// policy decides what it may do.
func (v *Verifier) VerifyCode(ctx context.Context, provider, code string) (*domain.ProviderIdentity, error) {
	if provider != ThirdPartyID {
		return nil, domain.NewValidationError("provider", "unsupported")
	}
	if code == "" {
		return nil, domain.NewValidationError("code", "required")
	}

	accessToken, err := v.exchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	info, err := v.fetchUserinfo(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	v.log.DebugContext(ctx, "google oauth success",
		slog.String("third_party_user_id", info.ID),
		slog.Bool("email_verified", info.VerifiedEmail))

	return &domain.ProviderIdentity{
		ThirdPartyID:     ThirdPartyID,
		ThirdPartyUserID: info.ID,
		Email:            info.Email,
		EmailVerified:    info.VerifiedEmail,
	}, nil
}

func (v *Verifier) exchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", v.clientID)
	form.Set("client_secret", v.clientSecret)
	form.Set("redirect_uri", v.redirectURI)
	encoded := form.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.tokenURL, strings.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("google: token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(encoded)), nil
	}

	resp, err := v.doWithRetry(ctx, req)
	if err != nil {
		v.log.ErrorContext(ctx, "google token exchange failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("google: token exchange: %w", domain.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("google: read token response: %w", domain.ErrProviderUnavailable)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			v.log.WarnContext(ctx, "google token exchange rejected",
				slog.Int("status", resp.StatusCode),
				slog.String("error", errResp.Error))
		}
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			return "", fmt.Errorf("google: invalid or expired code: %w", domain.ErrUnauthorized)
		}
		return "", fmt.Errorf("google: token exchange status %d: %w", resp.StatusCode, domain.ErrProviderUnavailable)
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil || tok.AccessToken == "" {
		return "", fmt.Errorf("google: invalid token response: %w", domain.ErrProviderUnavailable)
	}
	return tok.AccessToken, nil
}

func (v *Verifier) fetchUserinfo(ctx context.Context, accessToken string) (*userinfoResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.userinfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("google: userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := v.doWithRetry(ctx, req)
	if err != nil {
		v.log.ErrorContext(ctx, "google userinfo failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("google: userinfo: %w", domain.ErrProviderUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google: userinfo status %d: %w", resp.StatusCode, domain.ErrProviderUnavailable)
	}

	var info userinfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.ID == "" {
		return nil, fmt.Errorf("google: invalid userinfo response: %w", domain.ErrProviderUnavailable)
	}
	return &info, nil
}

// doWithRetry retries once, after a short backoff, on network errors and
// 5xx responses. POST bodies must be replayable through req.GetBody.
func (v *Verifier) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := v.httpClient.Do(req)
	if err == nil && resp.StatusCode < 500 {
		return resp, nil
	}
	if resp != nil {
		resp.Body.Close()
	}

	select {
	case <-time.After(retryBackoff):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		req.Body = body
	}
	return v.httpClient.Do(req)
}

//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/accountlinking/internal/adapter/memstore"
	"github.com/heartmarshall/accountlinking/internal/adapter/policy"
	"github.com/heartmarshall/accountlinking/internal/adapter/provider/google"
	"github.com/heartmarshall/accountlinking/internal/config"
	"github.com/heartmarshall/accountlinking/internal/events"
	"github.com/heartmarshall/accountlinking/internal/service/accountlinking"
	"github.com/heartmarshall/accountlinking/internal/service/auth"
	"github.com/heartmarshall/accountlinking/internal/sessiontoken"
	"github.com/heartmarshall/accountlinking/internal/transport/middleware"
	"github.com/heartmarshall/accountlinking/internal/transport/rest"
)

const (
	testAPIKey   = "e2e-admin-key"
	testPassword = "password123"
)

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Store  *memstore.Store
	Events *events.Recorder
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

type serverOptions struct {
	linking config.LinkingConfig
	// googleTokenURL and googleUserinfoURL enable the code flow when set.
	googleTokenURL    string
	googleUserinfoURL string
}

// setupTestServer bootstraps the application stack on the in-memory store.
func setupTestServer(t *testing.T, opts serverOptions) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))

	store, err := memstore.New()
	require.NoError(t, err)

	if opts.linking.MaxAttempts == 0 {
		opts.linking.MaxAttempts = 3
	}
	authCfg := config.AuthConfig{
		JWTSecret:          "test-secret-at-least-32-chars-long!!",
		JWTIssuer:          "e2e",
		PasswordHashCost:   4,
		MinPasswordLength:  8,
		GoogleClientID:     "client",
		GoogleClientSecret: "secret",
	}

	rec := events.NewRecorder()
	linking := accountlinking.NewService(logger, store, store, store,
		policy.NewStatic(opts.linking), events.Multi{events.NewLogSink(logger), rec}, opts.linking)
	authService := auth.NewService(logger, store, linking, store, store, authCfg)
	if opts.googleTokenURL != "" {
		authService.SetProviderVerifier(google.NewVerifier(authCfg, logger,
			google.WithEndpoints(opts.googleTokenURL, opts.googleUserinfoURL)))
	}

	tokens := sessiontoken.NewManager(authCfg.JWTSecret, authCfg.JWTIssuer)

	handler := rest.NewRouter(&rest.RouterDeps{
		Server: config.ServerConfig{APIKey: testAPIKey, AuthRateLimit: 1000},
		CORS: config.CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET,POST,DELETE,OPTIONS",
			AllowedHeaders: "Authorization,Content-Type",
			MaxAge:         300,
		},
		Auth:     rest.NewAuthHandler(authService, tokens, logger),
		Admin:    rest.NewAdminHandler(linking, logger),
		Health:   rest.NewHealthHandler("test-version", map[string]rest.Pinger{}),
		Logger:   middleware.Logger(logger),
		Recovery: middleware.Recovery(logger),
		Session:  middleware.Session(tokens, store),
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{URL: srv.URL, Client: srv.Client(), Store: store, Events: rec}
}

// ---------------------------------------------------------------------------
// Request helpers.
// ---------------------------------------------------------------------------

// do sends a JSON request and decodes a JSON response body, if any.
// headers are set as key/value pairs.
func (ts *testServer) do(t *testing.T, method, path string, body any, headers ...string) (int, map[string]any) {
	t.Helper()

	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	if resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&out)
	}
	return resp.StatusCode, out
}

// admin sends a request to the admin API with the API key.
func (ts *testServer) admin(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	return ts.do(t, method, "/admin"+path, body, middleware.APIKeyHeader, testAPIKey)
}

// signUp registers an email/password account and returns the auth response.
func (ts *testServer) signUp(t *testing.T, email string, doNotLink bool) map[string]any {
	t.Helper()
	status, body := ts.do(t, http.MethodPost, "/auth/signup", map[string]any{
		"email": email, "password": testPassword, "doNotLink": doNotLink,
	})
	require.Equal(t, http.StatusCreated, status, "signup: %v", body)
	return body
}

// thirdParty signs in with a provider identity and returns the auth response.
func (ts *testServer) thirdParty(t *testing.T, email, tpUserID string, verified bool) (int, map[string]any) {
	t.Helper()
	return ts.do(t, http.MethodPost, "/auth/thirdparty", map[string]any{
		"thirdPartyId": "google", "thirdPartyUserId": tpUserID, "email": email, "emailVerified": verified,
	})
}

// ---------------------------------------------------------------------------
// Response extraction helpers.
// ---------------------------------------------------------------------------

func userOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	user, ok := body["user"].(map[string]any)
	require.True(t, ok, "expected user object in %v", body)
	return user
}

func accessTokenOf(t *testing.T, body map[string]any) string {
	t.Helper()
	sess, ok := body["session"].(map[string]any)
	require.True(t, ok, "expected session object in %v", body)
	token, ok := sess["accessToken"].(string)
	require.True(t, ok, "expected access token in %v", sess)
	return token
}

func loginMethodsOf(t *testing.T, user map[string]any) []any {
	t.Helper()
	lms, ok := user["loginMethods"].([]any)
	require.True(t, ok, "expected loginMethods array in %v", user)
	return lms
}

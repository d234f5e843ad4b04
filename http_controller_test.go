package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-client-auth"
)

type testServer struct {
	app    *fiber.App
	tokens *auth.TokenService
}

func newTestServer(t *testing.T, provider auth.IdentityProvider) *testServer {
	t.Helper()

	logger := &MockLogger{}
	tokens := auth.NewTokenServiceFromConfig(newMockConfig(), logger)
	issuer := auth.NewTokenIssuer(tokens, "1h").WithLogger(logger)
	auther := auth.NewAuthenticator(provider, issuer).WithLogger(logger)

	srv := newFiberServer(logger)

	auth.RegisterAuthRoutes(srv.Router(),
		auth.WithAuthenticator(auther),
		auth.WithTokenValidator(tokens),
		auth.WithControllerLogger(logger),
		auth.WithControllerConfig(newMockConfig()),
		auth.WithDebug(true),
	)

	return &testServer{app: srv.WrappedRouter(), tokens: tokens}
}

func newFiberServer(logger auth.Logger) router.Server[*fiber.App] {
	return router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ErrorHandler:          auth.ErrorHandler(logger),
		})
	})
}

func newSeededTestServer(t *testing.T) *testServer {
	t.Helper()

	repo := auth.NewRepositoryManager(setupTestDB(t))
	require.NoError(t, auth.SeedClients(context.Background(), repo, []*auth.Client{
		{Name: "Maria Silva", CPF: "52998224725", Email: "maria@example.com"},
	}))

	return newTestServer(t, auth.NewClientProvider(repo.Clients()))
}

func (s *testServer) do(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, body
}

func (s *testServer) postJSON(t *testing.T, path, payload string) (int, []byte) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return s.do(t, req)
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

func TestAuthenticateRoute_KnownClient(t *testing.T) {
	server := newSeededTestServer(t)
	before := time.Now()

	status, body := server.postJSON(t, "/auth", `{"taxId":"52998224725"}`)
	require.Equal(t, http.StatusOK, status, string(body))

	resp := decode[auth.TokenResponse](t, body)
	require.NotEmpty(t, resp.Token)

	expires, err := time.Parse(time.RFC3339, resp.ExpiresIn)
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(time.Hour), expires, 5*time.Second)

	claims, err := server.tokens.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "52998224725", claims.TaxID())
	assert.Equal(t, "Maria Silva", claims.Name())

	raw := decode[map[string]any](t, body)
	assert.Len(t, raw, 2)
}

func TestAuthenticateRoute_MaskedAndAliasedIdentifier(t *testing.T) {
	server := newSeededTestServer(t)

	status, _ := server.postJSON(t, "/auth", `{"taxId":"529.982.247-25"}`)
	assert.Equal(t, http.StatusOK, status)

	status, _ = server.postJSON(t, "/auth", `{"cpf":"52998224725"}`)
	assert.Equal(t, http.StatusOK, status)
}

func TestAuthenticateRoute_UnknownClient(t *testing.T) {
	server := newSeededTestServer(t)

	status, body := server.postJSON(t, "/auth", `{"taxId":"11111111111"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.JSONEq(t, `{"error":"Unauthorized","message":"Unauthorized"}`, string(body))
}

func TestAuthenticateRoute_InvalidCPF(t *testing.T) {
	server := newSeededTestServer(t)

	status, body := server.postJSON(t, "/auth", `{"taxId":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{
		"error": "Bad Request",
		"message": "Validation failed",
		"details": [{"field": "cpf", "message": "Invalid CPF"}]
	}`, string(body))
}

func TestAuthenticateRoute_MissingCPF(t *testing.T) {
	server := newSeededTestServer(t)

	status, body := server.postJSON(t, "/auth", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)

	env := decode[auth.ErrorEnvelope](t, body)
	assert.Equal(t, []auth.FieldDetail{{Field: "cpf", Message: "CPF is required"}}, env.Details)
}

func TestAuthenticateRoute_MalformedBody(t *testing.T) {
	server := newSeededTestServer(t)

	status, body := server.postJSON(t, "/auth", `{"taxId":`)
	assert.Equal(t, http.StatusBadRequest, status)

	env := decode[auth.ErrorEnvelope](t, body)
	assert.Equal(t, "Validation failed", env.Message)
	assert.Equal(t, []auth.FieldDetail{{Field: "body", Message: "Malformed request body"}}, env.Details)
}

func TestAuthenticateRoute_InternalFailure(t *testing.T) {
	provider := new(MockIdentityProvider)
	provider.On("FindIdentityByTaxID", mock.Anything, "52998224725").
		Return(nil, goerrors.Wrap(errors.New("disk I/O error"), goerrors.CategoryInternal, "failed to retrieve client"))

	server := newTestServer(t, provider)

	status, body := server.postJSON(t, "/auth", `{"taxId":"52998224725"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":"Internal Server Error","message":"Internal server error"}`, string(body))
	assert.NotContains(t, string(body), "disk")
}

func TestSessionRoute(t *testing.T) {
	server := newSeededTestServer(t)

	status, body := server.postJSON(t, "/auth", `{"taxId":"52998224725"}`)
	require.Equal(t, http.StatusOK, status)
	issued := decode[auth.TokenResponse](t, body)

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+issued.Token)

		status, body := server.do(t, req)
		require.Equal(t, http.StatusOK, status, string(body))

		session := decode[auth.SessionResponse](t, body)
		assert.NotEmpty(t, session.Subject)

		issuedExpiry, err := time.Parse(time.RFC3339, issued.ExpiresIn)
		require.NoError(t, err)
		sessionExpiry, err := time.Parse(time.RFC3339, session.ExpiresIn)
		require.NoError(t, err)
		assert.WithinDuration(t, issuedExpiry, sessionExpiry, time.Second)
	})

	t.Run("missing token", func(t *testing.T) {
		status, body := server.do(t, httptest.NewRequest(http.MethodGet, "/auth/session", nil))
		assert.Equal(t, http.StatusUnauthorized, status)

		env := decode[auth.ErrorEnvelope](t, body)
		assert.Equal(t, "Unauthorized", env.Error)
	})

	t.Run("token issued outside the configured lifetime", func(t *testing.T) {
		identity := TestIdentity{id: "client-1", name: "Maria Silva", taxID: "52998224725"}
		// exp is still an hour away, but iat is older than the 1h lifetime
		stale, err := server.tokens.Sign(identity, time.Now().Add(-2*time.Hour), "3h")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+stale)

		status, body := server.do(t, req)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.JSONEq(t, `{"error":"Unauthorized","message":"Unauthorized"}`, string(body))
	})

	t.Run("tampered token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+issued.Token+"x")

		status, _ := server.do(t, req)
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestHealthRoute(t *testing.T) {
	server := newTestServer(t, new(MockIdentityProvider))

	status, body := server.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestUnknownRoute(t *testing.T) {
	server := newTestServer(t, new(MockIdentityProvider))

	status, body := server.do(t, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, status)

	env := decode[auth.ErrorEnvelope](t, body)
	assert.Equal(t, "Not Found", env.Error)
}

func TestAuthenticateRoute_StoreErrorsAreInternal(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"auth category", goerrors.New("connection refused", goerrors.CategoryAuth)},
		{"bad input category", goerrors.New("connection refused", goerrors.CategoryBadInput)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := new(MockClientFinder)
			store.On("GetByTaxID", mock.Anything, "52998224725").Return(nil, tc.err)

			server := newTestServer(t, auth.NewClientProvider(store))

			status, body := server.postJSON(t, "/auth", `{"taxId":"52998224725"}`)
			assert.Equal(t, http.StatusInternalServerError, status)
			assert.JSONEq(t, `{"error":"Internal Server Error","message":"Internal server error"}`, string(body))
		})
	}
}

func TestRegisterAuthRoutes_RequiresAuthenticator(t *testing.T) {
	assert.Panics(t, func() {
		auth.RegisterAuthRoutes(newFiberServer(nil).Router())
	})
}

func TestRegisterAuthRoutes_WithoutValidatorSkipsSession(t *testing.T) {
	srv := newFiberServer(nil)
	auth.RegisterAuthRoutes(srv.Router(),
		auth.WithAuthenticator(auth.NewAuthenticator(new(MockIdentityProvider), auth.NewTokenIssuer(new(MockSigner), "1h"))),
		auth.WithRoutes(auth.AuthControllerRoutes{Authenticate: "/token"}),
	)

	app := srv.WrappedRouter()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/auth/session", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(`{"taxId":"abc"}`)), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

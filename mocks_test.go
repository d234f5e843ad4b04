package auth_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	auth "github.com/goliatone/go-client-auth"
)

// TestIdentity is a simple implementation of Identity interface for testing
type TestIdentity struct {
	id    string
	name  string
	taxID string
	email string
}

func (t TestIdentity) ID() string    { return t.id }
func (t TestIdentity) Name() string  { return t.name }
func (t TestIdentity) TaxID() string { return t.taxID }
func (t TestIdentity) Email() string { return t.email }

// MockIdentityProvider implements auth.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) FindIdentityByTaxID(ctx context.Context, taxID string) (auth.Identity, error) {
	args := m.Called(ctx, taxID)
	identity, _ := args.Get(0).(auth.Identity)
	return identity, args.Error(1)
}

// MockSigner implements auth.TokenSigner
type MockSigner struct {
	mock.Mock
}

func (m *MockSigner) Sign(identity auth.Identity, issuedAt time.Time, expiresIn string) (string, error) {
	args := m.Called(identity, issuedAt, expiresIn)
	return args.String(0), args.Error(1)
}

// MockConfig implements auth.Config
type MockConfig struct {
	mock.Mock
}

func (m *MockConfig) GetSigningKey() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetTokenLifetime() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetIssuer() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetAudience() []string {
	args := m.Called()
	audience, _ := args.Get(0).([]string)
	return audience
}

func (m *MockConfig) GetContextKey() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetTokenLookup() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetAuthScheme() string {
	args := m.Called()
	return args.String(0)
}

func newMockConfig() *MockConfig {
	mockConfig := new(MockConfig)
	mockConfig.On("GetSigningKey").Return("test-signing-key")
	mockConfig.On("GetTokenLifetime").Return("1h")
	mockConfig.On("GetIssuer").Return("test-issuer")
	mockConfig.On("GetAudience").Return([]string{"test:audience"})
	mockConfig.On("GetContextKey").Return("user")
	mockConfig.On("GetTokenLookup").Return("header:Authorization")
	mockConfig.On("GetAuthScheme").Return("Bearer")
	return mockConfig
}

// MockLogger records every log line
type MockLogger struct {
	mu    sync.Mutex
	lines []string
}

func (m *MockLogger) record(level, format string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, level+" "+format)
}

func (m *MockLogger) Debug(format string, args ...any) { m.record("DEBUG", format) }
func (m *MockLogger) Info(format string, args ...any)  { m.record("INFO", format) }
func (m *MockLogger) Warn(format string, args ...any)  { m.record("WARN", format) }
func (m *MockLogger) Error(format string, args ...any) { m.record("ERROR", format) }

func (m *MockLogger) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.lines...)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

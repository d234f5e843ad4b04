package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	goerrors "github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
)

// Config is the runtime configuration of the auth server, read from the
// environment and an optional .env file.
type Config struct {
	SigningKey    string   `env:"AUTH_SIGNING_KEY,required,notEmpty"`
	TokenLifetime string   `env:"AUTH_TOKEN_LIFETIME" envDefault:"1h"`
	Issuer        string   `env:"AUTH_ISSUER" envDefault:"go-client-auth"`
	Audience      []string `env:"AUTH_AUDIENCE" envSeparator:","`
	HTTPAddr      string   `env:"AUTH_HTTP_ADDR" envDefault:":8572"`
	DatabaseDSN   string   `env:"AUTH_DATABASE_DSN" envDefault:"file:clients.db?cache=shared"`
	LogLevel      string   `env:"AUTH_LOG_LEVEL" envDefault:"info"`
	SeedClients   string   `env:"AUTH_SEED_CLIENTS"`
	Debug         bool     `env:"AUTH_DEBUG"`

	ContextKey  string `env:"AUTH_CONTEXT_KEY" envDefault:"user"`
	TokenLookup string `env:"AUTH_TOKEN_LOOKUP" envDefault:"header:Authorization"`
	AuthScheme  string `env:"AUTH_SCHEME" envDefault:"Bearer"`

	// Runtime selects how requests reach the service: "http" listens on
	// HTTPAddr, "lambda" serves API Gateway proxy events and "auto" picks
	// lambda when the Lambda runtime API is present.
	Runtime          string `env:"AUTH_RUNTIME" envDefault:"auto"`
	LambdaRuntimeAPI string `env:"AWS_LAMBDA_RUNTIME_API"`
}

const (
	RuntimeAuto   = "auto"
	RuntimeHTTP   = "http"
	RuntimeLambda = "lambda"
)

// SeedClient is a client record declared in AUTH_SEED_CLIENTS
type SeedClient struct {
	Name  string `json:"name"`
	CPF   string `json:"cpf"`
	Email string `json:"email"`
}

// Load reads .env files, if any, and parses the environment.
func Load(filenames ...string) (*Config, error) {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load env file")
	}

	return FromEnv()
}

// FromEnv parses the current environment without touching .env files
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid configuration")
	}

	cfg.Audience = compact(cfg.Audience)

	switch cfg.Runtime = strings.ToLower(strings.TrimSpace(cfg.Runtime)); cfg.Runtime {
	case RuntimeAuto, RuntimeHTTP, RuntimeLambda:
	default:
		return nil, goerrors.New("invalid AUTH_RUNTIME", goerrors.CategoryValidation).
			WithTextCode("INVALID_RUNTIME").
			WithMetadata(map[string]any{"runtime": cfg.Runtime})
	}

	return cfg, nil
}

// ServeLambda reports whether requests arrive as Lambda proxy events
func (c Config) ServeLambda() bool {
	switch c.Runtime {
	case RuntimeLambda:
		return true
	case RuntimeHTTP:
		return false
	default:
		return c.LambdaRuntimeAPI != ""
	}
}

// Clients decodes the JSON array held in AUTH_SEED_CLIENTS
func (c Config) Clients() ([]SeedClient, error) {
	raw := strings.TrimSpace(c.SeedClients)
	if raw == "" {
		return nil, nil
	}

	var out []SeedClient
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid AUTH_SEED_CLIENTS").
			WithTextCode("INVALID_SEED_CLIENTS")
	}

	return out, nil
}

func (c Config) GetSigningKey() string {
	return c.SigningKey
}

func (c Config) GetTokenLifetime() string {
	return c.TokenLifetime
}

func (c Config) GetIssuer() string {
	return c.Issuer
}

func (c Config) GetAudience() []string {
	return c.Audience
}

func (c Config) GetContextKey() string {
	return c.ContextKey
}

func (c Config) GetTokenLookup() string {
	return c.TokenLookup
}

func (c Config) GetAuthScheme() string {
	return c.AuthScheme
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

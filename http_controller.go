package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-client-auth/middleware/jwtware"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

type AuthControllerRoutes struct {
	Authenticate string
	Session      string
	Health       string
}

type AuthController struct {
	Debug      bool
	Logger     Logger
	Auther     Authenticator
	Validator  TokenValidator
	Routes     *AuthControllerRoutes
	ContextKey string
	// TokenLookup and AuthScheme configure where the session route reads
	// the bearer token from (see jwtware.GetExtractors).
	TokenLookup string
	AuthScheme  string
	// Lifetime rejects session tokens issued longer ago than this
	// literal, even if their exp claim is still in the future.
	Lifetime string
	Now      func() time.Time
}

type AuthControllerOption func(*AuthController) *AuthController

// RegisterAuthRoutes mounts the authentication routes on app
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Authenticate, controller.Authenticate).
		SetName("auth.post")

	if controller.Validator != nil {
		app.Get(controller.Routes.Session, controller.Session, controller.ProtectedRoute()).
			SetName("auth.session.get")
	}

	app.Get(controller.Routes.Health, controller.Health).
		SetName("health.get")

	return controller
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Authenticate: "/auth",
			Session:      "/auth/session",
			Health:       "/health",
		},
		ContextKey: "user",
		Lifetime:   DefaultTokenLifetime,
		Now:        time.Now,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

func WithAuthenticator(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithTokenValidator(validator TokenValidator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Validator = validator
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerConfig(cfg Config) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if key := cfg.GetContextKey(); key != "" {
			c.ContextKey = key
		}
		c.TokenLookup = cfg.GetTokenLookup()
		c.AuthScheme = cfg.GetAuthScheme()
		if lifetime := cfg.GetTokenLifetime(); lifetime != "" {
			c.Lifetime = lifetime
		}
		return c
	}
}

func WithDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func WithRoutes(routes AuthControllerRoutes) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if routes.Authenticate != "" {
			c.Routes.Authenticate = routes.Authenticate
		}
		if routes.Session != "" {
			c.Routes.Session = routes.Session
		}
		if routes.Health != "" {
			c.Routes.Health = routes.Health
		}
		return c
	}
}

// Authenticate handles POST /auth
func (a *AuthController) Authenticate(ctx router.Context) error {
	payload := new(AuthRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Debug("Authenticate could not parse body", "error", err)
		return NewValidationError(FieldDetail{
			Field:   "body",
			Message: "Malformed request body",
		})
	}

	if a.Debug {
		a.Logger.Debug("Authenticate payload", "payload", print.MaybePrettyJSON(payload))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Debug("Authenticate validation failed", "error", err)
		return err
	}

	result, err := a.Auther.Authenticate(ctx.Context(), *payload)
	if err != nil {
		return err
	}

	return ctx.JSON(router.StatusOK, NewTokenResponse(result))
}

// SessionResponse describes the token presented to GET /auth/session
type SessionResponse struct {
	Subject   string `json:"subject"`
	ExpiresIn string `json:"expiresIn"`
}

// Session handles GET /auth/session, guarded by ProtectedRoute
func (a *AuthController) Session(ctx router.Context) error {
	claims, ok := ClaimsFromContext(ctx.Context())
	if !ok {
		if claims, ok = ctx.Locals(a.ContextKey).(*JWTClaims); !ok {
			return ErrUnauthorized
		}
	}

	return ctx.JSON(router.StatusOK, SessionResponse{
		Subject:   claims.Subject(),
		ExpiresIn: FormatExpiry(claims.Expires()),
	})
}

// Health handles GET /health
func (a *AuthController) Health(ctx router.Context) error {
	return ctx.JSON(router.StatusOK, map[string]string{"status": "ok"})
}

// ProtectedRoute returns a jwtware guard validating tokens with a.Validator
func (a *AuthController) ProtectedRoute() router.MiddlewareFunc {
	return jwtware.New(jwtware.Config{
		ContextKey:      a.ContextKey,
		TokenLookup:     a.TokenLookup,
		AuthScheme:      a.AuthScheme,
		TokenValidator:  NewJWTValidatorAdapter(a.Validator),
		ContextEnricher: claimsEnricher,
		ValidationListeners: []jwtware.ValidationListener{
			a.checkLifetime,
		},
	})
}

// checkLifetime rejects tokens whose issue time falls outside the
// configured lifetime window.
func (a *AuthController) checkLifetime(ctx router.Context, claims jwtware.Claims) error {
	c, ok := claims.(*JWTClaims)
	if !ok || c.IssuedAt().IsZero() {
		return nil
	}

	now := time.Now
	if a.Now != nil {
		now = a.Now
	}

	if !IsWithinLifetime(c.IssuedAt(), a.Lifetime, now()) {
		return ErrTokenExpired
	}
	return nil
}

// NewJWTValidatorAdapter exposes a TokenValidator to the jwtware middleware
func NewJWTValidatorAdapter(validator TokenValidator) jwtware.TokenValidator {
	return jwtware.ValidatorFunc(func(token string) (jwtware.Claims, error) {
		claims, err := validator.Validate(token)
		if err != nil {
			return nil, err
		}
		return claims, nil
	})
}

// ErrorHandler renders every error returned by a handler as an ErrorEnvelope
func ErrorHandler(logger Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = defLogger{}
	}

	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(ErrorEnvelope{
				Error:   http.StatusText(fiberErr.Code),
				Message: fiberErr.Message,
			})
		}

		status, envelope := ToEnvelope(err)

		switch KindOf(err) {
		case KindInternal:
			logger.Error("request failed", "path", c.Path(), "error", err)
		case KindUnauthorized:
			logger.Info("request unauthorized", "path", c.Path(), "error", err)
		}

		return c.Status(status).JSON(envelope)
	}
}

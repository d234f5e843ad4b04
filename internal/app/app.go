// Package app wires the client authentication service together and serves
// it either as a long running HTTP listener or behind AWS Lambda.
package app

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/events"
	fiberadapter "github.com/awslabs/aws-lambda-go-api-proxy/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"

	auth "github.com/goliatone/go-client-auth"
	"github.com/goliatone/go-client-auth/config"
)

const shutdownTimeout = 10 * time.Second

// LambdaHandler serves API Gateway proxy events
type LambdaHandler func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// App holds the composed service
type App struct {
	cfg    *config.Config
	logger auth.Logger
	db     *bun.DB
	srv    router.Server[*fiber.App]
	issuer *auth.TokenIssuer
}

// New opens the database, applies migrations, seeds the configured clients
// and registers the HTTP routes.
func New(ctx context.Context, cfg *config.Config, logger auth.Logger) (*App, error) {
	db, err := auth.OpenDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	a, err := compose(ctx, cfg, logger, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return a, nil
}

func compose(ctx context.Context, cfg *config.Config, logger auth.Logger, db *bun.DB) (*App, error) {
	if err := auth.Migrate(ctx, db); err != nil {
		return nil, err
	}

	repo := auth.NewRepositoryManager(db)
	if err := repo.Validate(); err != nil {
		return nil, err
	}

	if err := seed(ctx, cfg, repo); err != nil {
		return nil, err
	}

	provider := auth.NewClientProvider(repo.Clients()).WithLogger(logger)
	tokens := auth.NewTokenServiceFromConfig(cfg, logger)
	issuer := auth.NewTokenIssuer(tokens, cfg.GetTokenLifetime()).WithLogger(logger)
	auther := auth.NewAuthenticator(provider, issuer).WithLogger(logger)

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			AppName:               "auth-server",
			DisableStartupMessage: true,
			ErrorHandler:          auth.ErrorHandler(logger),
		}))
	})

	auth.RegisterAuthRoutes(srv.Router(),
		auth.WithAuthenticator(auther),
		auth.WithTokenValidator(tokens),
		auth.WithControllerLogger(logger),
		auth.WithControllerConfig(cfg),
		auth.WithDebug(cfg.Debug),
	)

	return &App{
		cfg:    cfg,
		logger: logger,
		db:     db,
		srv:    srv,
		issuer: issuer,
	}, nil
}

// HTTP returns the underlying fiber application
func (a *App) HTTP() *fiber.App {
	return a.srv.WrappedRouter()
}

// Listen serves HTTP on the configured address until ctx is done, then
// shuts the listener down gracefully.
func (a *App) Listen(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		a.logger.Info("auth server listening", "addr", a.cfg.HTTPAddr, "lifetime", a.issuer.Lifetime())
		errc <- a.srv.Serve(a.cfg.HTTPAddr)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("auth server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return a.HTTP().ShutdownWithContext(shutdownCtx)
}

// Lambda returns a handler that replays API Gateway proxy events against
// the same routes Listen serves.
func (a *App) Lambda() LambdaHandler {
	proxy := fiberadapter.New(a.HTTP())
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return proxy.ProxyWithContext(ctx, req)
	}
}

// Close releases the database
func (a *App) Close() error {
	return a.db.Close()
}

func seed(ctx context.Context, cfg *config.Config, repo auth.RepositoryManager) error {
	declared, err := cfg.Clients()
	if err != nil {
		return err
	}

	records := make([]*auth.Client, 0, len(declared))
	for _, c := range declared {
		records = append(records, &auth.Client{
			Name:  c.Name,
			CPF:   c.CPF,
			Email: c.Email,
		})
	}

	return auth.SeedClients(ctx, repo, records)
}

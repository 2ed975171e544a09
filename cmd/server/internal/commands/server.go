package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/oncallhq/tenantd/internal/auth"
	"github.com/oncallhq/tenantd/internal/httpapi"
	"github.com/oncallhq/tenantd/internal/httpx"
	"github.com/oncallhq/tenantd/internal/logger"
	"github.com/oncallhq/tenantd/internal/models"
	"github.com/oncallhq/tenantd/internal/store"
	memorystore "github.com/oncallhq/tenantd/internal/store/memory"
	postgresstore "github.com/oncallhq/tenantd/internal/store/postgres"
	"github.com/oncallhq/tenantd/internal/tenant"
)

type ServerCmd struct {
	// Server configuration
	Listen string `help:"HTTP server listen address" default:"0.0.0.0:8080" env:"TENANTD_LISTEN"`

	// CORS configuration
	CORSOrigins []string `help:"allowed CORS origins for API requests" default:"http://localhost:3000" env:"TENANTD_CORS_ORIGINS"`

	// Token configuration
	TokenSecret string        `help:"shared secret for HMAC signing of session tokens" env:"TENANTD_TOKEN_SECRET"`
	TokenTTL    time.Duration `help:"session token TTL" default:"30m" env:"TENANTD_TOKEN_TTL"`

	// Store configuration
	StoreType     string             `help:"store type (memory or postgres)" default:"memory" env:"TENANTD_STORE_TYPE" enum:"memory,postgres"`
	PostgresStore PostgresStoreFlags `embed:"" prefix:"postgres-"`

	// Development bootstrap
	Bootstrap BootstrapFlags `embed:"" prefix:"bootstrap-"`
}

type PostgresStoreFlags struct {
	// Connection Configuration
	ConnString string `help:"PostgreSQL connection string" env:"POSTGRES_CONNECTION_STRING"`

	// Connection Pool Configuration
	MaxConns        int32 `help:"maximum number of connections in pool" default:"20"`
	MinConns        int32 `help:"minimum number of connections in pool" default:"5"`
	MaxConnLifetime int32 `help:"maximum connection lifetime in seconds" default:"3600"`
	MaxConnIdleTime int32 `help:"maximum connection idle time in seconds" default:"1800"`

	// Migration Configuration
	AutoMigrate bool `help:"run database migrations on startup" default:"false" env:"TENANTD_POSTGRES_AUTO_MIGRATE"`
}

// BootstrapFlags optionally seed a first user and organization on startup.
// Intended for development and first-run provisioning.
type BootstrapFlags struct {
	Email    string `help:"seed user email" default:"" env:"TENANTD_BOOTSTRAP_EMAIL"`
	Password string `help:"seed user password" default:"" env:"TENANTD_BOOTSTRAP_PASSWORD"`
	OrgName  string `help:"seed organization name" default:"default" env:"TENANTD_BOOTSTRAP_ORG"`
}

type stores struct {
	users         store.UserStore
	memberships   store.MembershipStore
	organizations store.OrganizationStore
	projects      store.ProjectStore
	close         func()
}

func (c *ServerCmd) Run(globals *Globals) error {
	log := logger.Setup(globals.Debug)
	ctx := context.Background()

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting server")

	if len(c.TokenSecret) < 32 {
		return errors.New("token secret must be at least 32 bytes (256 bits) for HMAC-SHA256 (--token-secret or TENANTD_TOKEN_SECRET)")
	}

	tokens, err := auth.NewTokenService([]byte(c.TokenSecret), c.TokenTTL)
	if err != nil {
		return err
	}

	st, err := c.buildStores(ctx)
	if err != nil {
		return err
	}
	defer st.close()

	authSvc := auth.NewService(st.users, tokens)
	tenants := auth.NewTenantResolver(st.memberships)
	projects := tenant.NewScoped(st.projects)

	if c.Bootstrap.Email != "" {
		if err := c.seed(ctx, authSvc, st); err != nil {
			return fmt.Errorf("bootstrap failed: %w", err)
		}
	}

	api := httpapi.New(authSvc, tenants, projects, globals.Version)

	handler := httpx.NewCORS(c.CORSOrigins).Handler(
		httpx.RequestMiddleware(log)(api.Routes()),
	)

	srv := configureHTTPServer(c.Listen, handler)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("listen", c.Listen).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

// buildStores creates the backing stores for the configured store type. The
// returned close func releases the shared pool; it is safe to call on every
// exit path, including startup failure.
func (c *ServerCmd) buildStores(ctx context.Context) (*stores, error) {
	switch c.StoreType {
	case "postgres":
		if c.PostgresStore.ConnString == "" {
			return nil, errors.New("PostgreSQL connection string is required (--postgres-conn-string or POSTGRES_CONNECTION_STRING)")
		}

		pool, err := postgresstore.NewPool(ctx, &postgresstore.PoolConfig{
			ConnString:      c.PostgresStore.ConnString,
			MaxConns:        c.PostgresStore.MaxConns,
			MinConns:        c.PostgresStore.MinConns,
			MaxConnLifetime: c.PostgresStore.MaxConnLifetime,
			MaxConnIdleTime: c.PostgresStore.MaxConnIdleTime,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres pool: %w", err)
		}

		if c.PostgresStore.AutoMigrate {
			if err := postgresstore.RunMigrations(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}

		return &stores{
			users:         postgresstore.NewUserStore(pool),
			memberships:   postgresstore.NewMembershipStore(pool),
			organizations: postgresstore.NewOrganizationStore(pool),
			projects:      postgresstore.NewProjectStore(pool),
			close:         pool.Close,
		}, nil

	default:
		return &stores{
			users:         memorystore.NewUserStore(),
			memberships:   memorystore.NewMembershipStore(),
			organizations: memorystore.NewOrganizationStore(),
			projects:      memorystore.NewProjectStore(),
			close:         func() {},
		}, nil
	}
}

// seed provisions the bootstrap user and organization when they don't exist
// yet. Idempotent across restarts.
func (c *ServerCmd) seed(ctx context.Context, authSvc *auth.Service, st *stores) error {
	user, err := authSvc.Register(ctx, c.Bootstrap.Email, c.Bootstrap.Password, "Bootstrap Admin")
	if err != nil {
		if errors.Is(err, store.ErrUserAlreadyExists) {
			return nil
		}
		return err
	}

	orgID, err := uuid.NewV7()
	if err != nil {
		return err
	}

	now := time.Now()
	if err := st.organizations.Create(ctx, &models.Organization{
		OrgID:     orgID,
		Name:      c.Bootstrap.OrgName,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return err
	}

	return st.memberships.Add(ctx, &models.Membership{
		UserID:    user.UserID,
		OrgID:     orgID,
		CreatedAt: now,
	})
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/boswecw/boswell/internal/analytics"
	"github.com/boswecw/boswell/internal/api"
	"github.com/boswecw/boswell/internal/catalog"
	"github.com/boswecw/boswell/internal/config"
	"github.com/boswecw/boswell/internal/contact"
	"github.com/boswecw/boswell/internal/database"
	"github.com/boswecw/boswell/internal/handler"
	"github.com/boswecw/boswell/internal/inquiry"
	"github.com/boswecw/boswell/internal/intake"
	"github.com/boswecw/boswell/internal/logger"
	"github.com/boswecw/boswell/internal/middleware"
	"github.com/boswecw/boswell/internal/portfolio"
	"github.com/boswecw/boswell/internal/repolist"
	"github.com/boswecw/boswell/internal/session"
	"github.com/boswecw/boswell/internal/static"
	"github.com/boswecw/boswell/internal/template"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func main() {
	app := &cli.App{
		Name:  "boswell",
		Usage: "Boswell Web Development site: pricing, contact form and portfolio",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML settings file",
				EnvVars: []string{"CONFIG"},
			},
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   config.DefaultPort,
				Usage:   "HTTP server port",
				EnvVars: []string{"PORT"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "site-url",
				Value:   config.DefaultSiteURL,
				Usage:   "Canonical public URL used in page metadata",
				EnvVars: []string{"SITE_URL"},
			},
			&cli.StringFlag{
				Name:    "github-account",
				Value:   config.DefaultGitHubAccount,
				Usage:   "GitHub account whose public repositories fill the portfolio",
				EnvVars: []string{"GITHUB_ACCOUNT"},
			},
			&cli.StringFlag{
				Name:    "github-token",
				Usage:   "Optional GitHub token for a higher API rate limit",
				EnvVars: []string{"GITHUB_TOKEN"},
			},
			&cli.StringFlag{
				Name:    "intake-url",
				Value:   config.DefaultIntakeURL,
				Usage:   "Endpoint contact inquiries are posted to",
				EnvVars: []string{"INTAKE_URL"},
			},
			&cli.StringFlag{
				Name:    "intake-encoding",
				Value:   config.DefaultIntakeEncoding,
				Usage:   "Intake body encoding (form, json)",
				EnvVars: []string{"INTAKE_ENCODING"},
			},
			&cli.StringFlag{
				Name:    "database-url",
				Aliases: []string{"d"},
				Usage:   "PostgreSQL connection URL for the inquiry archive (disabled when empty)",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.IntFlag{
				Name:    "rate-limit",
				Value:   config.DefaultRateLimit,
				Usage:   "Form posts per minute per IP address",
				EnvVars: []string{"RATE_LIMIT"},
			},
			&cli.BoolFlag{
				Name:    "analytics",
				Usage:   "Log analytics events",
				EnvVars: []string{"ANALYTICS"},
			},
			&cli.DurationFlag{
				Name:    "session-ttl",
				Value:   config.DefaultSessionTTL,
				Usage:   "How long an idle visitor's form state is kept",
				EnvVars: []string{"SESSION_TTL"},
			},
			&cli.DurationFlag{
				Name:    "request-timeout",
				Value:   config.DefaultRequestTimeout,
				Usage:   "Timeout for outbound intake and GitHub requests",
				EnvVars: []string{"REQUEST_TIMEOUT"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Action: run,
		Commands: []*cli.Command{
			{
				Name:  "inquiries",
				Usage: "List archived contact inquiries, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Value:   inquiry.DefaultRecentLimit,
						Usage:   "Maximum number of inquiries to show",
					},
				},
				Action: listInquiries,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// loadSettings reads the settings file and applies explicitly set flags on top.
func loadSettings(c *cli.Context) (config.Settings, error) {
	s, err := config.Load(c.String("config"))
	if err != nil {
		return s, err
	}

	if c.IsSet("port") {
		s.Port = c.String("port")
	}
	if c.IsSet("log-level") {
		s.LogLevel = c.String("log-level")
	}
	if c.IsSet("site-url") {
		s.SiteURL = c.String("site-url")
	}
	if c.IsSet("github-account") {
		s.GitHubAccount = c.String("github-account")
	}
	if c.IsSet("github-token") {
		s.GitHubToken = c.String("github-token")
	}
	if c.IsSet("intake-url") {
		s.IntakeURL = c.String("intake-url")
	}
	if c.IsSet("intake-encoding") {
		s.IntakeEncoding = c.String("intake-encoding")
	}
	if c.IsSet("database-url") {
		s.DatabaseURL = c.String("database-url")
	}
	if c.IsSet("rate-limit") {
		s.RateLimit = c.Int("rate-limit")
	}
	if c.IsSet("analytics") {
		s.Analytics = c.Bool("analytics")
	}
	if c.IsSet("session-ttl") {
		s.SessionTTL = c.Duration("session-ttl")
	}
	if c.IsSet("request-timeout") {
		s.RequestTimeout = c.Duration("request-timeout")
	}

	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

func run(c *cli.Context) error {
	settings, err := loadSettings(c)
	if err != nil {
		return err
	}
	// a config file may carry its own level
	if !c.IsSet("log-level") {
		logger.Setup(logger.ParseLevel(settings.LogLevel))
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tmpl, err := template.New()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	cat := catalog.Default()
	slog.Debug("loaded package catalog", "packages", cat.IDs(), "default", cat.DefaultID())

	var recorder analytics.Recorder = analytics.Nop{}
	if settings.Analytics {
		dispatcher := analytics.NewDispatcher(analytics.DefaultBufferSize, analytics.LogSink{Logger: slog.Default()})
		defer func() {
			dispatcher.Close()
			if n := dispatcher.Dropped(); n > 0 {
				slog.Warn("analytics events dropped", "count", n)
			}
		}()
		recorder = dispatcher
	}

	submitter, closeArchive, err := newSubmitter(ctx, settings)
	if err != nil {
		return err
	}
	defer closeArchive()

	lister, err := repolist.New(settings.GitHubAccount,
		repolist.WithToken(settings.GitHubToken),
		repolist.WithHTTPClient(&http.Client{Timeout: settings.RequestTimeout}),
	)
	if err != nil {
		return fmt.Errorf("failed to create repository client: %w", err)
	}
	loader, err := portfolio.NewLoader(lister, portfolio.WithTimeout(settings.RequestTimeout))
	if err != nil {
		return fmt.Errorf("failed to create portfolio loader: %w", err)
	}
	defer loader.Close()
	loader.Load(ctx)

	formLogger := slog.Default().With("component", "contact")
	sessions, err := session.New(func() (*contact.Form, error) {
		return contact.NewForm(cat, submitter, recorder,
			contact.WithLogger(formLogger),
			contact.WithMessages("", contact.FailureMessage(config.ContactEmail)),
		)
	}, settings.SessionTTL, session.WithSecureCookie(strings.HasPrefix(settings.SiteURL, "https://")))
	if err != nil {
		return fmt.Errorf("failed to create session store: %w", err)
	}
	defer sessions.Close()

	h, err := handler.New(cat, sessions, loader, tmpl,
		handler.WithSiteURL(settings.SiteURL),
		handler.WithAccount(lister.Account()),
		handler.WithContactEmail(config.ContactEmail),
	)
	if err != nil {
		return fmt.Errorf("failed to create handler: %w", err)
	}
	apiHandler, err := api.New(cat, loader, recorder)
	if err != nil {
		return fmt.Errorf("failed to create API handler: %w", err)
	}

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	apiHandler.RegisterRoutes(mux)
	for _, p := range static.Paths {
		mux.Handle("GET "+p, static.Handler())
	}

	limiter, err := middleware.NewRateLimiter(settings.RateLimit, middleware.WithStaticPaths(static.Paths...))
	if err != nil {
		return fmt.Errorf("failed to create rate limiter: %w", err)
	}
	defer limiter.Close()

	recoverer := middleware.Recover(http.HandlerFunc(h.ErrorPage))
	server := &http.Server{
		Addr:         ":" + settings.Port,
		Handler:      recoverer(middleware.CacheControl(limiter.Middleware(mux))),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting server",
			"server_addr", "http://localhost:"+settings.Port,
			"github_account", settings.GitHubAccount,
			"archive", settings.DatabaseURL != "",
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("server stopped")
	return nil
}

// newSubmitter builds the intake client, wrapped in the inquiry archive when a
// database is configured. The returned func releases the database pool.
func newSubmitter(ctx context.Context, settings config.Settings) (contact.Submitter, func(), error) {
	encoding, err := intake.ParseEncoding(settings.IntakeEncoding)
	if err != nil {
		return nil, nil, err
	}
	client, err := intake.New(settings.IntakeURL,
		intake.WithEncoding(encoding),
		intake.WithHTTPClient(&http.Client{Timeout: settings.RequestTimeout}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create intake client: %w", err)
	}

	if settings.DatabaseURL == "" {
		return client, func() {}, nil
	}

	pool, err := database.Connect(ctx, settings.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	repo, err := inquiry.NewRepository(pool)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	archive, err := inquiry.NewArchive(client, repo, inquiry.WithLogger(slog.Default().With("component", "inquiry")))
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	if n, err := repo.Count(ctx); err == nil {
		slog.Info("inquiry archive ready", "archived", n)
	}

	return archive, pool.Close, nil
}

func listInquiries(c *cli.Context) error {
	settings, err := loadSettings(c)
	if err != nil {
		return err
	}
	if settings.DatabaseURL == "" {
		return errors.New("database URL is required to list inquiries")
	}

	pool, err := database.Connect(c.Context, settings.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	repo, err := inquiry.NewRepository(pool)
	if err != nil {
		return err
	}
	records, err := repo.Recent(c.Context, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list inquiries: %w", err)
	}

	return inquiry.WriteTable(c.App.Writer, records)
}

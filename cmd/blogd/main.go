package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrymomot/blogd/modules/post"
	"github.com/dmitrymomot/blogd/modules/user"
	"github.com/dmitrymomot/blogd/pkg/config"
	"github.com/dmitrymomot/blogd/pkg/cookie"
	"github.com/dmitrymomot/blogd/pkg/httpserver"
	"github.com/dmitrymomot/blogd/pkg/logger"
	"github.com/dmitrymomot/blogd/pkg/mongo"
	"github.com/dmitrymomot/blogd/pkg/redis"
	"github.com/dmitrymomot/blogd/pkg/session"
)

const serviceName = "blogd"

type appConfig struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

// corsConfig controls cross-origin access for browser clients. The defaults
// allow any origin without credentials; deployments serving a browser app
// from another origin narrow the origins and enable credentials so the
// session cookie is sent along.
type corsConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envDefault:"GET,POST,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envDefault:"Accept,Content-Type"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"300"`
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("service stopped", logger.Error(err))
		os.Exit(1)
	}
}

// run builds every dependency explicitly and tears it down in reverse order.
// An unreachable store aborts startup: the service never serves requests it
// could only answer with 503.
func run(ctx context.Context) error {
	var appCfg appConfig
	config.MustLoad(&appCfg)

	log := logger.New(logger.WithEnvironment(appCfg.Environment, serviceName))
	logger.SetAsDefault(log)

	var mongoCfg mongo.Config
	config.MustLoad(&mongoCfg)

	db, err := mongo.NewWithDatabase(ctx, mongoCfg, mongoCfg.Database)
	if err != nil {
		return fmt.Errorf("mongo: %w", err)
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			log.Error("failed to disconnect mongo", logger.Error(err))
		}
	}()

	var redisCfg redis.Config
	config.MustLoad(&redisCfg)

	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("failed to close redis", logger.Error(err))
		}
	}()

	var cookieCfg cookie.Config
	config.MustLoad(&cookieCfg)

	cookieMgr, err := cookie.NewFromConfig(cookieCfg)
	if err != nil {
		return fmt.Errorf("cookie manager: %w", err)
	}

	var sessionCfg session.Config
	config.MustLoad(&sessionCfg)

	sessions := session.NewFromConfig(sessionCfg,
		session.WithStore(session.NewRedisStore(redisClient)),
		session.WithCookieManager(cookieMgr),
	)

	userStorage := user.NewMongoStorage(db)
	if err := userStorage.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}
	postStorage := post.NewMongoStorage(db)

	userSvc := user.NewService(userStorage, user.WithLogger(log))

	var corsCfg corsConfig
	config.MustLoad(&corsCfg)

	r := newRouter(log, sessions, userSvc, postStorage, corsCfg,
		mongo.Healthcheck(db.Client()),
		redis.Healthcheck(redisClient),
	)

	var srvCfg httpserver.Config
	config.MustLoad(&srvCfg)

	srv := httpserver.NewFromConfig(srvCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("server started", slog.String("addr", srvCfg.Addr))
		}),
		httpserver.WithStopHook(func(l *slog.Logger) {
			l.Info("server stopped")
		}),
	)

	return srv.Run(ctx, r)
}

// newRouter assembles the HTTP surface. CORS runs ahead of the session
// middleware so preflights are answered without touching the session store.
func newRouter(
	log *slog.Logger,
	sessions *session.Manager,
	userSvc *user.Service,
	postStorage post.Storage,
	corsCfg corsConfig,
	healthchecks ...func(context.Context) error,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsCfg.AllowedOrigins,
		AllowedMethods:   corsCfg.AllowedMethods,
		AllowedHeaders:   corsCfg.AllowedHeaders,
		AllowCredentials: corsCfg.AllowCredentials,
		MaxAge:           corsCfg.MaxAge,
	}))

	// Health stays outside the session middleware so a session store outage
	// shows up as NOT_READY instead of a 503 from EnsureSession.
	r.Get("/health", httpserver.HealthCheckHandler(log, healthchecks...))

	r.Group(func(r chi.Router) {
		r.Use(sessions.EnsureSession)
		r.Mount("/user", user.NewHandler(userSvc, sessions, user.WithHandlerLogger(log)).Router())
		r.Mount("/posts", post.NewHandler(postStorage, post.WithHandlerLogger(log)).Router(sessions.RequireAuth))
	})

	return r
}

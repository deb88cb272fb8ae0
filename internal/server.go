package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"

	"github.com/2beens/diarynotes/internal/cache"
	"github.com/2beens/diarynotes/internal/config"
	"github.com/2beens/diarynotes/internal/db"
	"github.com/2beens/diarynotes/internal/middleware"
	"github.com/2beens/diarynotes/internal/misc"
	"github.com/2beens/diarynotes/internal/notes"
	"github.com/2beens/diarynotes/internal/telemetry/metrics"
	"github.com/2beens/diarynotes/internal/telemetry/tracing"
	"github.com/2beens/diarynotes/pkg"
)

// swapped in tests
var honeycombSetup = tracing.HoneycombSetup

const (
	msgRouteNotFound    = "Route not found"
	msgMethodNotAllowed = "Method not allowed"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config       *config.Config
	notesService *notes.Service

	// storage and cache connections, nil when not configured
	dbPool      *pgxpool.Pool
	mongoClient *mongo.Client
	redisClient *redis.Client
	rateLimiter middleware.RequestRateLimiter

	// telemetry
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	VersionInfo string
	// Repo overrides the configured storage backend, used by tests.
	Repo notes.Repo
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	if cfg == nil {
		return nil, errors.New("nil config")
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := honeycombSetup(cfg.HoneycombEnabled, "diary-backend")
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:       cfg,
		versionInfo:  params.VersionInfo,
		otelShutdown: otelShutdown,
	}

	repo := params.Repo
	var collectors []prometheus.Collector
	if repo == nil {
		repo, err = s.setupStorage(ctx)
		if err != nil {
			s.closeConnections()
			s.otelShutdown()
			return nil, err
		}
	}
	if s.dbPool != nil {
		collectors = append(collectors, pgxpoolprometheus.NewCollector(
			s.dbPool,
			map[string]string{"db_name": "diary_notes"},
		))
	}

	s.promRegistry = metrics.SetupPrometheus(collectors...)
	s.metricsManager = metrics.NewManager("diary", "main", s.promRegistry)
	s.metricsManager.GaugeLifeSignal.Set(0)

	if cfg.Cache == config.CacheRedis || cfg.MutationsRateLimitPerMin > 0 {
		s.redisClient = newRedisClient(ctx, cfg)
	}
	if cfg.MutationsRateLimitPerMin > 0 {
		s.rateLimiter = redis_rate.NewLimiter(s.redisClient)
	}

	var serviceOpts []notes.ServiceOption
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	switch cfg.Cache {
	case config.CacheRedis:
		serviceOpts = append(serviceOpts, notes.WithCache(cache.NewRedisCache(s.redisClient, cacheTTL)))
	case config.CacheMemory:
		serviceOpts = append(serviceOpts, notes.WithCache(cache.NewMemoryCache(cfg.MemoryCacheSizeMB, cacheTTL)))
	}
	log.Debugf("notes cache: %s", cfg.Cache)

	s.notesService = notes.NewService(repo, s.metricsManager, serviceOpts...)

	return s, nil
}

func (s *Server) setupStorage(ctx context.Context) (notes.Repo, error) {
	tracingEnabled := s.config.HoneycombEnabled

	switch s.config.Storage {
	case config.StorageMongo:
		client, err := db.NewMongoClient(ctx, db.NewMongoClientParams{
			URI:            s.config.MongoURI,
			TracingEnabled: tracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new mongo client: %w", err)
		}
		s.mongoClient = client

		repo := notes.NewMongoRepo(
			client.Database(s.config.MongoDatabase).Collection(s.config.MongoCollection),
		)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		log.Debugf("using mongo storage [%s.%s]", s.config.MongoDatabase, s.config.MongoCollection)
		return repo, nil

	case config.StoragePostgres:
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			ConnString:     s.config.PostgresURL,
			TracingEnabled: tracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		s.dbPool = dbPool

		if err := dbPool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("ping db: %w", err)
		}

		repo := notes.NewPsqlRepo(dbPool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure db schema: %w", err)
		}
		log.Debugln("using postgres storage")
		return repo, nil

	case config.StorageMemory:
		log.Warnln("using in-memory storage, notes will not survive a restart")
		return notes.NewMemoryRepo(), nil
	}

	return nil, fmt.Errorf("unknown storage backend: %q", s.config.Storage)
}

// newRedisClient does not fail on an unreachable redis, cache calls then degrade to misses.
func newRedisClient(ctx context.Context, cfg *config.Config) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       0, // use default DB
	})
	if cfg.HoneycombEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	return rdb
}

// Router builds the full HTTP handler: routes plus the common middleware chain.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("diary-router"))

	misc.NewHandler(s.versionInfo).SetupRoutes(r)

	var mutationMiddlewares []mux.MiddlewareFunc
	if s.rateLimiter != nil {
		mutationMiddlewares = append(mutationMiddlewares, middleware.RateLimit(
			s.rateLimiter,
			"notes-mutations",
			s.config.MutationsRateLimitPerMin,
			s.metricsManager,
		))
	}
	notes.NewHandler(s.notesService).SetupRoutes(r, mutationMiddlewares...)

	common := []mux.MiddlewareFunc{
		middleware.PanicRecovery(s.metricsManager),
		middleware.RequestID(),
		middleware.LogRequest(),
		middleware.RequestMetrics(s.metricsManager),
		middleware.SecurityHeaders(s.config.IsProduction()),
		middleware.Cors(s.config.AllowedOrigins),
		middleware.DrainAndCloseRequest(),
	}
	r.Use(common...)

	// mux skips router middlewares for these two, so they get the chain explicitly
	r.NotFoundHandler = chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteMessage(w, http.StatusNotFound, msgRouteNotFound)
	}), common)
	r.MethodNotAllowedHandler = chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteMessage(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	}), common)

	return r
}

// chain wraps h so that mws[0] is the outermost middleware, the same order as mux.Router.Use.
func chain(h http.Handler, mws []mux.MiddlewareFunc) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:           s.Router(),
		Addr:              ipAndPort,
		WriteTimeout:      time.Minute,
		ReadTimeout:       time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
		ConnState:         s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() error {
	log.Debug("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	var err error
	if s.httpServer != nil {
		if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown http server: %w", shutdownErr))
		}
		log.Warnln("server shut down")
	}
	if s.metricsHttpServer != nil {
		if shutdownErr := s.metricsHttpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown metrics http server: %w", shutdownErr))
		}
		log.Warnln("metrics server shut down")
	}

	err = multierr.Append(err, s.closeConnections())

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	return err
}

func (s *Server) closeConnections() error {
	var err error
	if s.redisClient != nil {
		if closeErr := s.redisClient.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close redis client: %w", closeErr))
		}
	}
	if s.mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if disconnectErr := s.mongoClient.Disconnect(ctx); disconnectErr != nil {
			err = multierr.Append(err, fmt.Errorf("disconnect mongo: %w", disconnectErr))
		}
	}
	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}
	return err
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}

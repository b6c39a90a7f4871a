// Package web wires the services, session handling and HTTP router of the
// course assistant and runs the server with its background jobs.
package web

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ortosupport/course-assistant/config"
	"github.com/ortosupport/course-assistant/database"
	"github.com/ortosupport/course-assistant/logger"
	"github.com/ortosupport/course-assistant/util/common"
	"github.com/ortosupport/course-assistant/util/metrics"
	"github.com/ortosupport/course-assistant/web/cache"
	"github.com/ortosupport/course-assistant/web/controller"
	"github.com/ortosupport/course-assistant/web/entity"
	"github.com/ortosupport/course-assistant/web/job"
	"github.com/ortosupport/course-assistant/web/locale"
	"github.com/ortosupport/course-assistant/web/middleware"
	"github.com/ortosupport/course-assistant/web/service"
	"github.com/ortosupport/course-assistant/web/session"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

var startTime = time.Now()

// Dependencies are the resources a Server is built on. Redis and Generator
// are created from the config when nil; the server then owns and closes them.
type Dependencies struct {
	DB        *gorm.DB
	Redis     *cache.Redis
	Generator service.Generator
}

type Server struct {
	cfg *config.Config
	db  *gorm.DB

	redis     *cache.Redis
	ownsRedis bool

	sessions    *session.Manager
	gormBackend *session.GormBackend
	assistant   *service.AssistantService
	api         *controller.APIController
	engine      *gin.Engine

	httpServer *http.Server
	listener   net.Listener
	cron       *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer builds the services and the router. Nothing listens until Start.
func NewServer(cfg *config.Config, deps Dependencies) (s *Server, err error) {
	if deps.DB == nil {
		return nil, errors.New("web: database is required")
	}
	ctx, cancel := context.WithCancel(context.Background())
	s = &Server{cfg: cfg, db: deps.DB, redis: deps.Redis, ctx: ctx, cancel: cancel}
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	if s.redis == nil {
		if s.redis, err = cache.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword); err != nil {
			return nil, err
		}
		s.ownsRedis = true
	}

	var backend session.Backend
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		backend = session.NewRedisBackend(s.redis.Client())
	default:
		s.gormBackend = session.NewGormBackend(s.db)
		backend = s.gormBackend
	}
	s.sessions = session.NewManager(backend, cfg.SessionMaxAge)

	catalog := service.DefaultCatalog()
	if cfg.CatalogFile != "" {
		if catalog, err = service.LoadCatalog(cfg.CatalogFile); err != nil {
			return nil, err
		}
	}
	generator := deps.Generator
	if generator == nil {
		if generator, err = service.NewGenerator(ctx, cfg); err != nil {
			return nil, err
		}
	}
	s.assistant = service.NewAssistantService(generator, catalog, service.AssistantOptions{
		Mode:    cfg.TopicMode,
		Timeout: cfg.GeneratorTimeout,
		Cache:   cache.NewAnswerCache(cfg.AnswerCacheTTL),
	})

	if s.engine, err = s.initRouter(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(s.cfg.TrustedProxies); err != nil {
		return nil, err
	}
	engine.Use(middleware.RequestLogger(), gin.Recovery())
	engine.Use(gzip.Gzip(
		gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{"/metrics"}),
	))

	store := session.NewStore(s.sessions, []byte(s.cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(s.sessions.TTL() / time.Second),
		HttpOnly: true,
		Secure:   s.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	engine.Use(locale.LocalizerMiddleware())
	engine.Use(sessions.Sessions(session.CookieName, store))

	// body validation, then session resolution, then access checks
	users := service.NewUserService(s.db)
	engine.Use(
		controller.ValidateBody(),
		middleware.LoadUser(users),
		middleware.Guard(controller.Capabilities),
	)

	engine.GET("/healthz", s.healthz)
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	limiter := middleware.RateLimitMiddleware(s.redis.Client(), middleware.DefaultRateLimitConfig(s.cfg.RateLimitPerMinute))
	s.api = controller.NewAPIController(engine.Group("/"), controller.Services{
		Users:       users,
		Questions:   service.NewQuestionService(s.db),
		Suggestions: service.NewSuggestionService(s.db),
		Assistant:   s.assistant,
	}, limiter)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, entity.ErrorResponse{Message: locale.T(c, "not found")})
	})
	return engine, nil
}

func (s *Server) healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := database.Ping(ctx, s.db); err != nil {
		logger.Warning("health check failed:", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"version": config.GetVersion(),
		"uptime":  int64(time.Since(startTime).Seconds()),
	})
}

// Handler returns the router, for serving without Start.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// startTask schedules the background jobs.
func (s *Server) startTask() {
	if s.gormBackend != nil {
		if _, err := s.cron.AddJob("@every 10m", job.NewPurgeSessionsJob(s.gormBackend)); err != nil {
			logger.Warning("Add PurgeSessionsJob error", err)
		}
	}
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	s.cron = cron.New(cron.WithSeconds())
	s.cron.Start()

	listenAddr := net.JoinHostPort(s.cfg.Listen, strconv.Itoa(s.cfg.Port))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	logger.Info("Web server running HTTP on", listener.Addr())

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.listener = listener
	s.httpServer = srv

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("web server stopped:", err)
		}
	}()

	s.startTask()
	return nil
}

// Stop shuts the server down, waiting up to 10 seconds for requests in flight.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	var errs []error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		errs = append(errs, s.httpServer.Shutdown(ctx))
		s.httpServer = nil
	} else if s.listener != nil {
		errs = append(errs, s.listener.Close())
	}
	s.listener = nil
	if s.assistant != nil {
		errs = append(errs, s.assistant.Close())
		s.assistant = nil
	}
	if s.ownsRedis && s.redis != nil {
		errs = append(errs, s.redis.Close())
		s.redis = nil
	}
	return common.Combine(errs...)
}

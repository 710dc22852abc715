package main

import (
	"context"
	"net/http/pprof"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/analysis"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/cache"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/config"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/database"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/diagnosis"
	apperrors "github.com/ZanzyTHEbar/readiness-diagnosis/internal/errors"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/middleware"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/monitoring"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/narrative"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/peers"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/privacy"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/quality"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/ratelimit"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/resilience"
	"github.com/ZanzyTHEbar/readiness-diagnosis/internal/security"
)

// app holds every long-lived service the HTTP handlers use.
type app struct {
	cfg         *config.Config
	logger      *monitoring.Logger
	metrics     *monitoring.Metrics
	health      *resilience.HealthTracker
	breakers    *resilience.Registry
	diagnoser   *diagnosis.Service
	db          *database.DB
	store       *database.DiagnosisService
	privacy     *privacy.PrivacyService
	peers       *peers.Service
	peerCache   *peers.RankingCache
	cache       *cache.Cache
	redis       *ratelimit.RedisClient
	limiter     *ratelimit.RateLimiter
	security    *security.SecurityMiddleware
	compression *middleware.CompressionMiddleware
	startTime   time.Time
}

// newApp wires the pipeline and its supporting services. narrator and judge
// may be nil.
func newApp(ctx context.Context, cfg *config.Config, logger *monitoring.Logger, narrator narrative.Narrator, judge narrative.Judge) (*app, error) {
	a := &app{
		cfg:       cfg,
		logger:    logger,
		metrics:   monitoring.NewMetrics(),
		health:    resilience.NewHealthTracker(resilience.DefaultHealthConfig()),
		breakers:  resilience.NewRegistry(resilience.Config{}),
		startTime: time.Now(),
	}

	db, err := database.NewDB(cfg.Storage.DataDir)
	if err != nil {
		return nil, apperrors.NewConfigurationError("failed to open diagnosis store", err)
	}
	a.db = db
	a.cache = cache.NewCache(cfg.Storage.CacheTTL, time.Minute)
	a.store = database.NewDiagnosisService(database.NewRepository(db), a.cache)
	a.privacy = privacy.NewService(a.store, cfg.Storage.RetentionDays, cfg.Storage.CacheTTL)

	a.redis, err = ratelimit.NewRedisClient(ctx, cfg.RateLimit.RedisAddr, cfg.RateLimit.RedisPassword, cfg.RateLimit.RedisDB)
	if err != nil {
		logger.Warn("Redis unavailable, rate limits are per instance", "addr", cfg.RateLimit.RedisAddr, "error", err)
	}
	rlConfig := ratelimit.DefaultConfig()
	rlConfig.IPLimitPerMin = cfg.RateLimit.IPPerMin
	rlConfig.DiagnosisLimitPerMin = cfg.RateLimit.DiagnosisPerMin
	a.limiter = ratelimit.NewRateLimiter(a.redis, rlConfig, a.metrics)

	secConfig := security.DefaultSecurityConfig()
	secConfig.MaxBodyBytes = cfg.Server.MaxBodyBytes
	secConfig.AllowedOrigins = cfg.Server.AllowedOrigins
	secConfig.TrustedProxies = cfg.Server.TrustedProxies
	secConfig.RequestTimeout = cfg.Server.RequestTimeout
	secConfig.EnableHSTS = cfg.Server.EnableHSTS
	a.security = security.NewSecurityMiddleware(secConfig)
	a.compression = middleware.NewCompressionMiddleware(middleware.DefaultCompressionConfig())

	analyzerOpts := []analysis.Option{
		analysis.WithBenchmarks(cfg.BenchmarkTable()),
		analysis.WithLogger(logger.Logger),
	}
	if !cfg.Pipeline.Engagement {
		analyzerOpts = append(analyzerOpts, analysis.WithEngagement(nil))
	}

	assessorOpts := []quality.Option{quality.WithLogger(logger.Logger)}
	if judge != nil {
		guarded := narrative.NewGuardedJudge(judge, a.guard("judge", cfg.Pipeline.JudgeTimeout))
		assessorOpts = append(assessorOpts, quality.WithJudge(guarded, cfg.Pipeline.JudgeTimeout))
	}
	assessor, err := quality.NewAssessor(cfg.Rubric(), assessorOpts...)
	if err != nil {
		a.Close()
		return nil, err
	}

	opts := []diagnosis.Option{
		diagnosis.WithAnalyzer(analysis.NewAnalyzer(analyzerOpts...)),
		diagnosis.WithAssessor(assessor),
		diagnosis.WithBrand(cfg.Pipeline.Brand),
		diagnosis.WithLogger(logger.Logger),
	}
	if narrator != nil {
		guarded := narrative.NewGuardedNarrator(narrator, a.guard("narrator", cfg.Pipeline.NarrationTimeout))
		opts = append(opts, diagnosis.WithNarrator(guarded, cfg.Pipeline.NarrationTimeout))
	}
	a.diagnoser, err = diagnosis.NewService(opts...)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.peerCache = peers.NewRankingCache(cfg.Storage.CacheTTL)
	a.peers = peers.NewService(a.store, a.diagnoser.Analyzer().Benchmarks(), a.peerCache, cfg.Storage.PeerMinSamples)

	return a, nil
}

// guard bounds one collaborator with its own breaker and reports every call
// to the logs and metrics.
func (a *app) guard(name string, timeout time.Duration) narrative.Guard {
	return narrative.Guard{
		Name:    name,
		Timeout: timeout,
		Breaker: a.breakers.Get(name),
		Health:  a.health,
		Observe: func(name string, duration time.Duration, err error) {
			a.logger.CollaboratorLogger(name, "call", duration, err == nil)
			a.metrics.RecordCollaboratorCall(name, err == nil)
		},
	}
}

// Close releases the store, the caches and the rate limiter.
func (a *app) Close() {
	if a.limiter != nil {
		a.limiter.Close()
	}
	if a.redis != nil {
		apperrors.SafeClose(a.redis, "redis client")
	}
	if a.cache != nil {
		a.cache.Close()
	}
	if a.peerCache != nil {
		a.peerCache.Close()
	}
	if a.db != nil {
		apperrors.SafeClose(a.db, "database")
	}
}

func (a *app) router() *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(a.cfg.Server.TrustedProxies); err != nil {
		a.logger.Warn("Invalid trusted proxies, trusting none", "error", err)
		_ = r.SetTrustedProxies(nil)
	}

	// monitoring first so it sees the final status of every request
	r.Use(monitoring.MonitoringMiddleware(a.metrics, a.logger))
	r.Use(monitoring.SecurityMonitoringMiddleware(a.logger, a.cfg.Server.MaxBodyBytes))
	r.Use(a.compression.Handler())
	r.Use(apperrors.ErrorHandler())
	r.Use(apperrors.RecoveryHandler())
	r.Use(a.security.CORS())
	r.Use(a.security.SecurityHeadersMiddleware("/swagger/"))
	r.Use(a.security.RequestTimeout)
	r.Use(a.security.LimitBody)
	r.Use(a.security.ValidateContentType)

	r.GET("/health", a.handleHealth)
	r.GET("/metrics", a.handleMetrics)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	v1.Use(a.limiter.IPRateLimitMiddleware())
	v1.Use(a.cache.Middleware(a.metrics, "/api/v1/catalogs", "/api/v1/benchmarks"))
	{
		v1.POST("/diagnoses",
			a.limiter.EndpointRateLimitMiddleware("diagnoses", a.cfg.RateLimit.DiagnosisPerMin),
			a.handleCreateDiagnosis)
		v1.GET("/diagnoses", a.handleListDiagnoses)
		v1.GET("/diagnoses/:id", a.handleGetDiagnosis)
		v1.DELETE("/diagnoses/:id", a.handleDeleteDiagnosis)
		v1.GET("/catalogs", a.handleListCatalogs)
		v1.GET("/catalogs/:variant", a.handleGetCatalog)
		v1.GET("/benchmarks", a.handleBenchmarks)
		v1.GET("/stats/grades", a.handleGradeStats)
		v1.GET("/stats/industries", a.handleIndustryStats)
		v1.GET("/privacy/policy", a.handlePrivacyPolicy)
		v1.GET("/ratelimit/status", a.limiter.HandleRateLimitStatus())
	}

	if a.cfg.Server.EnableAdmin {
		admin := r.Group("/admin")
		admin.GET("/ratelimits", a.limiter.HandleAdminRateLimits())
		admin.DELETE("/ratelimits/ip/:ip", a.limiter.HandleAdminInvalidateIP())
	}

	if a.cfg.Server.EnableProfiling {
		a.logger.Info("Enabling performance profiling endpoints")
		r.GET("/debug/pprof/*name", profileHandler)
	}

	return r
}

// profileHandler serves every pprof endpoint from one catch-all route.
func profileHandler(c *gin.Context) {
	switch strings.TrimPrefix(c.Param("name"), "/") {
	case "cmdline":
		pprof.Cmdline(c.Writer, c.Request)
	case "profile":
		pprof.Profile(c.Writer, c.Request)
	case "symbol":
		pprof.Symbol(c.Writer, c.Request)
	case "trace":
		pprof.Trace(c.Writer, c.Request)
	default:
		pprof.Index(c.Writer, c.Request)
	}
}

package dailydiet

import (
	"fmt"

	"github.com/lborres/dailydiet/core"
	"github.com/lborres/dailydiet/pkg/cache"
	"github.com/lborres/dailydiet/pkg/crypto"
	"github.com/lborres/dailydiet/pkg/logging"
	"github.com/lborres/dailydiet/services"
)

// interfaces
type (
	StorageAdapter = core.StorageAdapter
	HTTPAdapter    = core.HTTPAdapter
	Logger         = logging.Logger
)

// structs
type (
	DailyDiet     = core.DailyDiet
	Config        = core.Config
	SessionConfig = core.SessionConfig
	CacheConfig   = core.CacheConfig
	CacheStats    = core.CacheStats
)

type (
	User    = core.User
	Meal    = core.Meal
	Metrics = core.Metrics
)

const (
	defaultSecretLen = 32

	SessionCacheName = "sessions"
	MetricsCacheName = "metrics"
)

// Constructors & helpers (convenience re-exports)
var (
	DefaultSessionConfig = core.DefaultSessionConfig
)

var (
	ErrEmailTaken      = core.ErrEmailTaken
	ErrUnauthenticated = core.ErrUnauthenticated
	ErrMealNotFound    = core.ErrMealNotFound
)

var (
	ErrDBAdapterRequired   = core.ErrDBAdapterRequired
	ErrHTTPAdapterRequired = core.ErrHTTPAdapterRequired
	ErrSecretRequired      = core.ErrSecretRequired
	ErrSecretTooShort      = core.ErrSecretTooShort
)

// New validates config, builds the services and registers the HTTP routes.
func New(config Config) (*DailyDiet, error) {
	if config.Secret == "" {
		return nil, ErrSecretRequired
	}
	if len(config.Secret) < defaultSecretLen {
		return nil, fmt.Errorf("%w - minimum of %d characters", ErrSecretTooShort, defaultSecretLen)
	}
	if config.Database == nil {
		return nil, ErrDBAdapterRequired
	}
	if config.HTTP == nil {
		return nil, ErrHTTPAdapterRequired
	}

	// Set Defaults

	logger := config.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	sessionConfig := core.DefaultSessionConfig()
	if config.SessionConfig != nil {
		sessionConfig = *config.SessionConfig
		if sessionConfig.CookieName == "" {
			sessionConfig.CookieName = core.DefaultCookieName
		}
		if sessionConfig.MaxAge <= 0 {
			sessionConfig.MaxAge = core.DefaultSessionAge
		}
	}

	tokens, err := crypto.NewTokenHasher(config.Secret)
	if err != nil {
		return nil, err
	}

	caches := make(map[string]core.StatsReporter)

	sessionCache := config.SessionCache
	if config.DisableCache {
		sessionCache = nil
	} else if sessionCache == nil {
		cacheConfig := core.CacheConfig{}
		if config.CacheConfig != nil {
			cacheConfig = *config.CacheConfig
		}
		sessionCache = cache.NewInMemoryCache[*core.User](cacheConfig)
	}
	if r, ok := sessionCache.(core.StatsReporter); ok {
		caches[SessionCacheName] = r
	}

	if r, ok := config.MetricsCache.(core.StatsReporter); ok {
		caches[MetricsCacheName] = r
	}
	metricsCache := services.NewMetricsCache(config.MetricsCache)

	dd := &DailyDiet{
		Identity:      services.NewIdentityService(config.Database, tokens, logger),
		Sessions:      services.NewResolver(config.Database, tokens, sessionCache, logger),
		Meals:         services.NewMealLedger(config.Database, metricsCache, logger),
		Metrics:       services.NewMetricsEngine(config.Database, metricsCache, logger),
		SessionConfig: sessionConfig,
		Logger:        logger,
		Caches:        caches,
	}

	if err := config.HTTP.RegisterRoutes(dd); err != nil {
		return nil, err
	}

	return dd, nil
}

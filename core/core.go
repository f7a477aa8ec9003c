package core

import "github.com/lborres/dailydiet/pkg/logging"

type Config struct {
	// Secret keys the session token hash. At least 32 characters.
	Secret string

	Database StorageAdapter

	HTTP HTTPAdapter

	// Optional config
	SessionCache Cache[*User]
	// MetricsCache is off unless set. Ledger writes invalidate the owner's entry.
	MetricsCache  Cache[*Metrics]
	DisableCache  bool
	CacheConfig   *CacheConfig // sizing for the default in-memory session cache
	SessionConfig *SessionConfig
	Logger        logging.Logger
}

type DailyDiet struct {
	Identity IdentityHandler
	Sessions SessionResolver
	Meals    MealHandler
	Metrics  MetricsHandler

	SessionConfig SessionConfig
	Logger        logging.Logger

	// Caches in use, by name. In-memory ones also implement Purger.
	Caches map[string]StatsReporter
}

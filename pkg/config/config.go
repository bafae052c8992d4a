package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

type Config struct {
	App             AppConfig
	Service         ServiceConfig
	DB              DBConfig
	Redis           RedisConfig
	FeatureFlags    FeatureFlagsConfig
	RM              RMConfig
	Alerts          AlertsConfig
	Recommendations RecommendationsConfig
	OpenAI          OpenAIConfig
	Collection      CollectionConfig
	GCP             GCPConfig
	PubSub          PubSubConfig
	AdminRateLimit  AdminRateLimitConfig
}

// Load reads the process environment into a Config and validates the
// revenue-management guard rails. It is meant to run once at startup.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = "sqlite"
	}
	cfg.RM.ABMode = NormalizeABMode(cfg.RM.ABMode)
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"RM_APP_ENV" required:"true"`
	Port         string   `envconfig:"RM_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"RM_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"RM_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"RM_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"RM_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"RM_DB_DSN"`
	Driver string `envconfig:"RM_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RM_DB_HOST"`
	LegacyPort     int    `envconfig:"RM_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RM_DB_USER"`
	LegacyPassword string `envconfig:"RM_DB_PASSWORD"`
	LegacyName     string `envconfig:"RM_DB_NAME"`
	LegacySSLMode  string `envconfig:"RM_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"RM_SQLITE_PATH" default:"rm-copilot.db"`

	MaxOpenConns    int           `envconfig:"RM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RM_REDIS_URL"`
	Address      string        `envconfig:"RM_REDIS_ADDR"`
	Password     string        `envconfig:"RM_REDIS_PASSWORD"`
	DB           int           `envconfig:"RM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"RM_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"RM_AUTO_MIGRATE" default:"false"`
}

// RMConfig holds the revenue-management guard rails. The env names match the
// overrides operators already use (RM_WEIGHT_CAP_PCT and friends).
type RMConfig struct {
	WeightCapPct          float64 `envconfig:"RM_WEIGHT_CAP_PCT" default:"0.10"`
	ABMode                string  `envconfig:"RM_AB_MODE" default:"all"`
	AIConfidenceThreshold float64 `envconfig:"RM_AI_CONFIDENCE_THRESHOLD" default:"0.85"`
	ExcellentScore        int     `envconfig:"RM_EXCELLENT_SCORE_THRESHOLD" default:"90"`
	OptimizedScore        int     `envconfig:"RM_OPTIMIZED_SCORE_THRESHOLD" default:"80"`
}

type AlertsConfig struct {
	ZScoreThreshold     float64       `envconfig:"RM_ALERT_Z_SCORE_THRESHOLD" default:"-1.5"`
	DeclineThresholdPct float64       `envconfig:"RM_ALERT_DECLINE_THRESHOLD_PCT" default:"-15"`
	CriticalDeclinePct  float64       `envconfig:"RM_ALERT_CRITICAL_DECLINE_PCT" default:"-25"`
	AssumedDispersion   float64       `envconfig:"RM_ALERT_ASSUMED_DISPERSION" default:"0.15"`
	LookbackDays        int           `envconfig:"RM_ALERT_LOOKBACK_DAYS" default:"30"`
	CacheTTL            time.Duration `envconfig:"RM_ALERT_CACHE_TTL" default:"5m"`
}

type RecommendationsConfig struct {
	ImpactMax      float64       `envconfig:"RM_REC_IMPACT_MAX" default:"5000"`
	ConfidenceMin  float64       `envconfig:"RM_REC_CONFIDENCE_MIN" default:"50"`
	ConfidenceMax  float64       `envconfig:"RM_REC_CONFIDENCE_MAX" default:"100"`
	MaxCount       int           `envconfig:"RM_REC_MAX_COUNT" default:"3"`
	AdvisorTimeout time.Duration `envconfig:"RM_REC_ADVISOR_TIMEOUT" default:"20s"`
}

type OpenAIConfig struct {
	APIKey string `envconfig:"RM_OPENAI_API_KEY"`
	Model  string `envconfig:"RM_OPENAI_MODEL" default:"gpt-4o"`
}

type CollectionConfig struct {
	Schedule             string        `envconfig:"RM_COLLECTION_SCHEDULE" default:"0 3,11,19 * * *"`
	Timezone             string        `envconfig:"RM_COLLECTION_TIMEZONE" default:"America/Los_Angeles"`
	BatchSize            int           `envconfig:"RM_COLLECTION_BATCH_SIZE" default:"5"`
	BatchDelay           time.Duration `envconfig:"RM_COLLECTION_BATCH_DELAY" default:"3s"`
	WheelhouseRPM        int           `envconfig:"RM_WHEELHOUSE_RPM" default:"20"`
	GuestyMinInterval    time.Duration `envconfig:"RM_GUESTY_MIN_INTERVAL" default:"60s"`
	GuestyEnabled        bool          `envconfig:"RM_GUESTY_ENABLED" default:"false"`
	RetentionDays        int           `envconfig:"RM_RETENTION_DAYS" default:"365"`
	ManualRefreshTimeout time.Duration `envconfig:"RM_MANUAL_REFRESH_TIMEOUT" default:"5m"`
}

// AdminRateLimitConfig throttles the manual sync and refresh endpoints.
type AdminRateLimitConfig struct {
	Window time.Duration `envconfig:"RM_ADMIN_RATE_LIMIT_WINDOW" default:"1m"`
	Limit  int           `envconfig:"RM_ADMIN_RATE_LIMIT" default:"3"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"RM_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	AlertsTopic string `envconfig:"RM_PUBSUB_ALERTS_TOPIC"`
}

// Enabled reports whether alert fan-out over Pub/Sub is configured.
func (p PubSubConfig) Enabled(gcp GCPConfig) bool {
	return strings.TrimSpace(p.AlertsTopic) != "" && strings.TrimSpace(gcp.ProjectID) != ""
}

// Validate checks the guard-rail ranges and returns every violation at once.
func (c *Config) Validate() error {
	var errs []error
	if c.RM.WeightCapPct < 0.05 || c.RM.WeightCapPct > 0.15 {
		errs = append(errs, fmt.Errorf("weight cap %.3f is outside acceptable range (0.05-0.15)", c.RM.WeightCapPct))
	}
	if !isValidABMode(c.RM.ABMode) {
		errs = append(errs, fmt.Errorf("invalid AB mode: %q", c.RM.ABMode))
	}
	if c.RM.AIConfidenceThreshold < 0.7 || c.RM.AIConfidenceThreshold > 0.95 {
		errs = append(errs, fmt.Errorf("AI confidence threshold %.3f is outside acceptable range (0.7-0.95)", c.RM.AIConfidenceThreshold))
	}
	if c.Alerts.AssumedDispersion <= 0 {
		errs = append(errs, fmt.Errorf("assumed dispersion must be positive, got %.3f", c.Alerts.AssumedDispersion))
	}
	if c.Recommendations.ConfidenceMin < MinRecommendationConfidence || c.Recommendations.ConfidenceMax > MaxRecommendationConfidence {
		errs = append(errs, fmt.Errorf("recommendation confidence bounds %.0f-%.0f are outside acceptable range (%d-%d)",
			c.Recommendations.ConfidenceMin, c.Recommendations.ConfidenceMax, MinRecommendationConfidence, MaxRecommendationConfidence))
	}
	if c.Recommendations.ConfidenceMin > c.Recommendations.ConfidenceMax {
		errs = append(errs, fmt.Errorf("recommendation confidence bounds inverted (%.0f > %.0f)", c.Recommendations.ConfidenceMin, c.Recommendations.ConfidenceMax))
	}
	if c.Recommendations.ImpactMax <= 0 {
		errs = append(errs, fmt.Errorf("recommendation impact max must be positive, got %.0f", c.Recommendations.ImpactMax))
	}
	return multierr.Combine(errs...)
}

// NormalizeABMode folds case and surrounding whitespace so "PARTIAL" and
// " partial " select the same rollout.
func NormalizeABMode(mode string) string {
	return strings.ToLower(strings.TrimSpace(mode))
}

func isValidABMode(mode string) bool {
	switch NormalizeABMode(mode) {
	case ABModeAll, ABModePartial, ABModeControl:
		return true
	}
	return false
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" || useSQLite {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

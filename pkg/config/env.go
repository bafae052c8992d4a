package config

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	ABModeAll     = "all"
	ABModePartial = "partial"
	ABModeControl = "control"

	MinRecommendationConfidence = 50
	MaxRecommendationConfidence = 100
)

const (
	EnvAppEnv   = "RM_APP_ENV"
	EnvPort     = "RM_APP_PORT"
	EnvLogLevel = "RM_LOG_LEVEL"

	EnvDBDSN  = "RM_DB_DSN"
	EnvDBHost = "RM_DB_HOST"
	EnvDBUser = "RM_DB_USER"
	EnvDBName = "RM_DB_NAME"

	EnvRedisURL  = "RM_REDIS_URL"
	EnvUseSQLite = "RM_USE_SQLITE"

	EnvWeightCapPct          = "RM_WEIGHT_CAP_PCT"
	EnvABMode                = "RM_AB_MODE"
	EnvAIConfidenceThreshold = "RM_AI_CONFIDENCE_THRESHOLD"
	EnvOpenAIAPIKey          = "RM_OPENAI_API_KEY"
	EnvRecConfidenceMin      = "RM_REC_CONFIDENCE_MIN"
	EnvRecConfidenceMax      = "RM_REC_CONFIDENCE_MAX"
	EnvRecImpactMax          = "RM_REC_IMPACT_MAX"

	EnvGCPProjectID      = "RM_GCP_PROJECT_ID"
	EnvPubSubAlertsTopic = "RM_PUBSUB_ALERTS_TOPIC"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

package config

// EnvPrefix is the envconfig prefix applied to every configuration key.
const EnvPrefix = "fasalmitra"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                 = "FASALMITRA_APP_ENV"
	EnvPort                   = "FASALMITRA_APP_PORT"
	EnvBaseURL                = "FASALMITRA_APP_BASE_URL"
	EnvLogLevel               = "FASALMITRA_LOG_LEVEL"
	EnvDBDSN                  = "FASALMITRA_DB_DSN"
	EnvDBHost                 = "FASALMITRA_DB_HOST"
	EnvDBPort                 = "FASALMITRA_DB_PORT"
	EnvDBUser                 = "FASALMITRA_DB_USER"
	EnvDBPassword             = "FASALMITRA_DB_PASSWORD"
	EnvDBName                 = "FASALMITRA_DB_NAME"
	EnvRedisURL               = "FASALMITRA_REDIS_URL"
	EnvJWTSecret              = "FASALMITRA_JWT_SECRET"
	EnvJWTIssuer              = "FASALMITRA_JWT_ISSUER"
	EnvJWTExpMins             = "FASALMITRA_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "FASALMITRA_REFRESH_TOKEN_TTL_MINUTES"
	EnvAutoMigrate            = "FASALMITRA_AUTO_MIGRATE"
	EnvSMTPHost               = "FASALMITRA_SMTP_HOST"
	EnvSMTPPort               = "FASALMITRA_SMTP_PORT"
	EnvRazorpayKeyID          = "FASALMITRA_RAZORPAY_KEY_ID"
	EnvRazorpayKeySecret      = "FASALMITRA_RAZORPAY_KEY_SECRET"
	EnvCashfreeClientID       = "FASALMITRA_CASHFREE_CLIENT_ID"
	EnvCashfreeClientSecret   = "FASALMITRA_CASHFREE_CLIENT_SECRET"
)

// legacyDBEnvVars are the discrete connection vars accepted when no DSN is set.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

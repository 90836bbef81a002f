package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	SMTP          SMTPConfig
	Razorpay      RazorpayConfig
	Cashfree      CashfreeConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FASALMITRA_APP_ENV" required:"true"`
	Port         string `envconfig:"FASALMITRA_APP_PORT" required:"true"`
	BaseURL      string `envconfig:"FASALMITRA_APP_BASE_URL" default:"http://localhost:8080"`
	LogLevel     string `envconfig:"FASALMITRA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FASALMITRA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FASALMITRA_DB_DSN"`
	Driver string `envconfig:"FASALMITRA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FASALMITRA_DB_HOST"`
	LegacyPort     int    `envconfig:"FASALMITRA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FASALMITRA_DB_USER"`
	LegacyPassword string `envconfig:"FASALMITRA_DB_PASSWORD"`
	LegacyName     string `envconfig:"FASALMITRA_DB_NAME"`
	LegacySSLMode  string `envconfig:"FASALMITRA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FASALMITRA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FASALMITRA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FASALMITRA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FASALMITRA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FASALMITRA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FASALMITRA_REDIS_ADDR"`
	Password     string        `envconfig:"FASALMITRA_REDIS_PASSWORD"`
	DB           int           `envconfig:"FASALMITRA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FASALMITRA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FASALMITRA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FASALMITRA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FASALMITRA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FASALMITRA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FASALMITRA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FASALMITRA_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FASALMITRA_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"FASALMITRA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FASALMITRA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FASALMITRA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FASALMITRA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FASALMITRA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FASALMITRA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FASALMITRA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FASALMITRA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FASALMITRA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FASALMITRA_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FASALMITRA_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FASALMITRA_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FASALMITRA_AUTO_MIGRATE" default:"false"`
}

type SMTPConfig struct {
	Host        string `envconfig:"FASALMITRA_SMTP_HOST"`
	Port        int    `envconfig:"FASALMITRA_SMTP_PORT" default:"587"`
	Username    string `envconfig:"FASALMITRA_SMTP_USERNAME"`
	Password    string `envconfig:"FASALMITRA_SMTP_PASSWORD"`
	DefaultFrom string `envconfig:"FASALMITRA_SMTP_FROM_EMAIL" default:"noreply@fasalmitra.in"`
}

type RazorpayConfig struct {
	KeyID     string `envconfig:"FASALMITRA_RAZORPAY_KEY_ID"`
	KeySecret string `envconfig:"FASALMITRA_RAZORPAY_KEY_SECRET"`
}

type CashfreeConfig struct {
	BaseURL      string        `envconfig:"FASALMITRA_CASHFREE_BASE_URL" default:"https://sandbox.cashfree.com/verification"`
	ClientID     string        `envconfig:"FASALMITRA_CASHFREE_CLIENT_ID"`
	ClientSecret string        `envconfig:"FASALMITRA_CASHFREE_CLIENT_SECRET"`
	Timeout      time.Duration `envconfig:"FASALMITRA_CASHFREE_TIMEOUT" default:"15s"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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

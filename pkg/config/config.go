package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "TERAVOO_DB_DSN"
	EnvDBHost = "TERAVOO_DB_HOST"
	EnvDBUser = "TERAVOO_DB_USER"
	EnvDBName = "TERAVOO_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	OTP           OTPConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"TERAVOO_APP_ENV" required:"true"`
	Port         string `envconfig:"TERAVOO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TERAVOO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TERAVOO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TERAVOO_DB_DSN"`
	Driver string `envconfig:"TERAVOO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TERAVOO_DB_HOST"`
	LegacyPort     int    `envconfig:"TERAVOO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TERAVOO_DB_USER"`
	LegacyPassword string `envconfig:"TERAVOO_DB_PASSWORD"`
	LegacyName     string `envconfig:"TERAVOO_DB_NAME"`
	LegacySSLMode  string `envconfig:"TERAVOO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TERAVOO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TERAVOO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TERAVOO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TERAVOO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TERAVOO_REDIS_URL"`
	Address      string        `envconfig:"TERAVOO_REDIS_ADDR"`
	Password     string        `envconfig:"TERAVOO_REDIS_PASSWORD"`
	DB           int           `envconfig:"TERAVOO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TERAVOO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TERAVOO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TERAVOO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TERAVOO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TERAVOO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"TERAVOO_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TERAVOO_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"TERAVOO_JWT_EXPIRATION_MINUTES" default:"720"`
}

// OTPConfig controls the mock login-code flow.
type OTPConfig struct {
	TTL         time.Duration `envconfig:"TERAVOO_OTP_TTL" default:"5m"`
	Digits      int           `envconfig:"TERAVOO_OTP_DIGITS" default:"6"`
	MaxAttempts int           `envconfig:"TERAVOO_OTP_MAX_ATTEMPTS" default:"5"`
	DevEcho     bool          `envconfig:"TERAVOO_OTP_DEV_ECHO" default:"true"`
}

// AuthRateLimitConfig throttles the login-code endpoints per IP and per phone.
type AuthRateLimitConfig struct {
	RequestCodeWindow     time.Duration `envconfig:"TERAVOO_RL_REQUEST_CODE_WINDOW" default:"1m"`
	RequestCodeIPLimit    int           `envconfig:"TERAVOO_RL_REQUEST_CODE_IP_LIMIT" default:"10"`
	RequestCodePhoneLimit int           `envconfig:"TERAVOO_RL_REQUEST_CODE_PHONE_LIMIT" default:"3"`
	VerifyCodeWindow      time.Duration `envconfig:"TERAVOO_RL_VERIFY_CODE_WINDOW" default:"1m"`
	VerifyCodeIPLimit     int           `envconfig:"TERAVOO_RL_VERIFY_CODE_IP_LIMIT" default:"20"`
	VerifyCodePhoneLimit  int           `envconfig:"TERAVOO_RL_VERIFY_CODE_PHONE_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TERAVOO_AUTO_MIGRATE" default:"false"`
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

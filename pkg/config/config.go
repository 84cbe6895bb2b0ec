package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "VIGNERONS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "VIGNERONS_DB_DSN"
	EnvDBHost = "VIGNERONS_DB_HOST"
	EnvDBUser = "VIGNERONS_DB_USER"
	EnvDBName = "VIGNERONS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	WooCommerce  WooCommerceConfig
	Stripe       StripeConfig
	Cache        CacheConfig
	Shipping     ShippingConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = "sqlite"
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"VIGNERONS_APP_ENV" required:"true"`
	Port         string `envconfig:"VIGNERONS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VIGNERONS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VIGNERONS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VIGNERONS_DB_DSN"`
	Driver string `envconfig:"VIGNERONS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VIGNERONS_DB_HOST"`
	LegacyPort     int    `envconfig:"VIGNERONS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VIGNERONS_DB_USER"`
	LegacyPassword string `envconfig:"VIGNERONS_DB_PASSWORD"`
	LegacyName     string `envconfig:"VIGNERONS_DB_NAME"`
	LegacySSLMode  string `envconfig:"VIGNERONS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VIGNERONS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VIGNERONS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VIGNERONS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VIGNERONS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VIGNERONS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VIGNERONS_REDIS_ADDR"`
	Password     string        `envconfig:"VIGNERONS_REDIS_PASSWORD"`
	DB           int           `envconfig:"VIGNERONS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VIGNERONS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VIGNERONS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VIGNERONS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VIGNERONS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VIGNERONS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig carries the shared secret of the WordPress JWT plugin. Tokens are
// minted by WordPress; this service only validates them.
type JWTConfig struct {
	Secret string `envconfig:"VIGNERONS_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"VIGNERONS_JWT_ISSUER" default:""`
}

type WooCommerceConfig struct {
	StoreURL       string        `envconfig:"VIGNERONS_WC_STORE_URL" required:"true"`
	ConsumerKey    string        `envconfig:"VIGNERONS_WC_CONSUMER_KEY" required:"true"`
	ConsumerSecret string        `envconfig:"VIGNERONS_WC_CONSUMER_SECRET" required:"true"`
	Timeout        time.Duration `envconfig:"VIGNERONS_WC_TIMEOUT" default:"15s"`
}

type StripeConfig struct {
	APIKey string `envconfig:"VIGNERONS_STRIPE_API_KEY"`
	Env    string `envconfig:"VIGNERONS_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type CacheConfig struct {
	VendorTTL      time.Duration `envconfig:"VIGNERONS_CACHE_VENDOR_TTL" default:"10m"`
	ProductListTTL time.Duration `envconfig:"VIGNERONS_CACHE_PRODUCT_LIST_TTL" default:"5m"`
	CouponTTL      time.Duration `envconfig:"VIGNERONS_CACHE_COUPON_TTL" default:"5m"`
}

type ShippingConfig struct {
	StandardRate      string `envconfig:"VIGNERONS_SHIPPING_STANDARD_RATE" default:"10"`
	FreeBottleCount   int    `envconfig:"VIGNERONS_SHIPPING_FREE_BOTTLE_COUNT" default:"6"`
	PickupRate        string `envconfig:"VIGNERONS_SHIPPING_PICKUP_RATE" default:"10"`
	StandardMethodID  string `envconfig:"VIGNERONS_SHIPPING_STANDARD_METHOD_ID" default:"flat_rate"`
	PickupMethodID    string `envconfig:"VIGNERONS_SHIPPING_PICKUP_METHOD_ID" default:"local_pickup"`
	StandardMethodLbl string `envconfig:"VIGNERONS_SHIPPING_STANDARD_METHOD_LABEL" default:"Livraison à domicile"`
	PickupMethodLbl   string `envconfig:"VIGNERONS_SHIPPING_PICKUP_METHOD_LABEL" default:"Point relais"`
}

type RateLimitConfig struct {
	AuthLimit  int64         `envconfig:"VIGNERONS_RATE_LIMIT_AUTH" default:"20"`
	AuthWindow time.Duration `envconfig:"VIGNERONS_RATE_LIMIT_AUTH_WINDOW" default:"1m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"VIGNERONS_CORS_ALLOWED_ORIGINS" default:"*"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"VIGNERONS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"VIGNERONS_AUTO_MIGRATE" default:"false"`
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

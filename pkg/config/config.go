package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Upload       UploadConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"SPENDLEDGER_APP_ENV" required:"true"`
	Port         string `envconfig:"SPENDLEDGER_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SPENDLEDGER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SPENDLEDGER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SPENDLEDGER_DB_DSN"`
	Driver string `envconfig:"SPENDLEDGER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SPENDLEDGER_DB_HOST"`
	LegacyPort     int    `envconfig:"SPENDLEDGER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SPENDLEDGER_DB_USER"`
	LegacyPassword string `envconfig:"SPENDLEDGER_DB_PASSWORD"`
	LegacyName     string `envconfig:"SPENDLEDGER_DB_NAME"`
	LegacySSLMode  string `envconfig:"SPENDLEDGER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SPENDLEDGER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SPENDLEDGER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SPENDLEDGER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SPENDLEDGER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// UploadConfig bounds the batch upload surface. Sheet names default to the
// workbook layout the extract has always shipped with.
type UploadConfig struct {
	MaxUploadMB       int    `envconfig:"SPENDLEDGER_MAX_UPLOAD_MB" default:"25"`
	TransactionsSheet string `envconfig:"SPENDLEDGER_SHEET_TRANSACTIONS" default:"Transactions"`
	CustomersSheet    string `envconfig:"SPENDLEDGER_SHEET_CUSTOMERS" default:"Customers"`
	ProductsSheet     string `envconfig:"SPENDLEDGER_SHEET_PRODUCTS" default:"Products"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SPENDLEDGER_AUTO_MIGRATE" default:"false"`
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

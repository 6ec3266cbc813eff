package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/culturatoken/ctk-platform/internal/ledger"
	"github.com/culturatoken/ctk-platform/internal/recommender"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// LedgerConfig holds the platform token economics
type LedgerConfig struct {
	MinInvestment   float64 `mapstructure:"min_investment"`
	CTKPerUSDC      float64 `mapstructure:"ctk_per_usdc"`
	RewardDivisor   float64 `mapstructure:"reward_divisor"`
	PlatformFeeRate float64 `mapstructure:"platform_fee_rate"`
	ClaimBonusRate  float64 `mapstructure:"claim_bonus_rate"`
	TokenDecimals   int     `mapstructure:"token_decimals"`
}

// Rates converts the configuration into ledger rates
func (c LedgerConfig) Rates() ledger.Rates {
	return ledger.Rates{
		MinInvestment:   c.MinInvestment,
		CTKPerUSDC:      c.CTKPerUSDC,
		RewardDivisor:   c.RewardDivisor,
		PlatformFeeRate: c.PlatformFeeRate,
		ClaimBonusRate:  c.ClaimBonusRate,
		TokenDecimals:   c.TokenDecimals,
	}
}

// SessionConfig holds local session configuration
type SessionConfig struct {
	// StateDir is where session snapshots are persisted
	StateDir string `mapstructure:"state_dir"`
	// InitialUSDC and InitialCTK seed new registrations
	InitialUSDC float64 `mapstructure:"initial_usdc"`
	InitialCTK  float64 `mapstructure:"initial_ctk"`
	// SettleDelay simulates on-chain transaction confirmation time
	SettleDelay time.Duration `mapstructure:"settle_delay"`
}

// DistributorConfig holds the royalty distributor sweep configuration
type DistributorConfig struct {
	BaseConfig    `mapstructure:",squash"`
	Database      DatabaseConfig `mapstructure:"database"`
	NATS          NATSConfig     `mapstructure:"nats"`
	Ledger        LedgerConfig   `mapstructure:"ledger"`
	SweepInterval time.Duration  `mapstructure:"sweep_interval"`
	PoolSize      int            `mapstructure:"pool_size"`
	MaxRetryWait  time.Duration  `mapstructure:"max_retry_wait"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig  `mapstructure:",squash"`
	Server      ServerConfig       `mapstructure:"server"`
	Database    DatabaseConfig     `mapstructure:"database"`
	NATS        NATSConfig         `mapstructure:"nats"`
	Auth        AuthConfig         `mapstructure:"auth"`
	Ledger      LedgerConfig       `mapstructure:"ledger"`
	Session     SessionConfig      `mapstructure:"session"`
	Recommender recommender.Config `mapstructure:"recommender"`
	CatalogPath string             `mapstructure:"catalog_path"`
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "LEDGER_EVENTS")
	v.SetDefault("session.state_dir", "state/")
	v.SetDefault("session.initial_usdc", 1000)
	v.SetDefault("session.initial_ctk", 50)
	v.SetDefault("session.settle_delay", "2s")
	setLedgerDefaults(v)
	setRecommenderDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use environment variables
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// LoadDistributorConfig loads configuration for the royalty distributor
func LoadDistributorConfig(configFile string, envPath string) (*DistributorConfig, error) {
	v := configureViper("distributor", configFile, envPath)

	// Set defaults
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 5)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "LEDGER_EVENTS")
	v.SetDefault("sweep_interval", "1h")
	v.SetDefault("pool_size", 10)
	v.SetDefault("max_retry_wait", "5m")
	setLedgerDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg DistributorConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate required fields
	if cfg.Database.Host == "" {
		return nil, errors.New("database.host is required")
	}
	if cfg.Database.DBName == "" {
		return nil, errors.New("database.dbname is required")
	}

	return &cfg, nil
}

func setLedgerDefaults(v *viper.Viper) {
	v.SetDefault("ledger.min_investment", 100)
	v.SetDefault("ledger.ctk_per_usdc", 2.5)
	v.SetDefault("ledger.reward_divisor", 5)
	v.SetDefault("ledger.platform_fee_rate", 0.02)
	v.SetDefault("ledger.claim_bonus_rate", 1.10)
	v.SetDefault("ledger.token_decimals", 4)
}

func setRecommenderDefaults(v *viper.Viper) {
	v.SetDefault("recommender.weights.genre_match", 0.4)
	v.SetDefault("recommender.weights.risk_match", 0.3)
	v.SetDefault("recommender.weights.roi_potential", 0.2)
	v.SetDefault("recommender.weights.funding_urgency", 0.1)
	v.SetDefault("recommender.min_score", 0.6)
	v.SetDefault("recommender.max_results", 5)
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in the current directory, the service
		// directory and the config directory
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("CULTURATOKEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables.
// This is required for viper to map env vars to config struct fields when
// no config file exists.
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		"catalog_path",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
		// Ledger
		"ledger.min_investment",
		"ledger.ctk_per_usdc",
		"ledger.reward_divisor",
		"ledger.platform_fee_rate",
		"ledger.claim_bonus_rate",
		"ledger.token_decimals",
		// Session
		"session.state_dir",
		"session.initial_usdc",
		"session.initial_ctk",
		"session.settle_delay",
		// Recommender
		"recommender.weights.genre_match",
		"recommender.weights.risk_match",
		"recommender.weights.roi_potential",
		"recommender.weights.funding_urgency",
		"recommender.min_score",
		"recommender.max_results",
		// Distributor
		"sweep_interval",
		"pool_size",
		"max_retry_wait",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

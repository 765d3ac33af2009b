package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/reef-chain/explorer-backtracker/internal/domain"
)

// Source values select where the backtracker reads its queue and writes its records
const (
	SourceUpstream = "upstream"
	SourcePostgres = "postgres"
)

// Retry strategies for failed contracts
const (
	RetryStrategyForever     = "forever"
	RetryStrategyExponential = "exponential"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool           `mapstructure:"debug"`
	SentryDSN string         `mapstructure:"sentry_dsn"`
	Network   domain.Network `mapstructure:"network"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// NATSConfig holds NATS JetStream configuration. An empty URL disables notifications.
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// EthereumConfig holds EVM RPC configuration
type EthereumConfig struct {
	WebSocketURL string `mapstructure:"websocket_url"`
	RPCURL       string `mapstructure:"rpc_url"`
}

// UpstreamConfig holds the upstream GraphQL service configuration
type UpstreamConfig struct {
	GraphQLURL string        `mapstructure:"graphql_url"`
	JWTSecret  string        `mapstructure:"jwt_secret"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// RetryConfig selects how failed contracts are retried
type RetryConfig struct {
	Strategy        string        `mapstructure:"strategy"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
}

// BacktrackingConfig holds the backtracking loop configuration
type BacktrackingConfig struct {
	ChunkSize    int           `mapstructure:"chunk_size"`
	MutationSize int           `mapstructure:"mutation_size"`
	QueueLimit   int           `mapstructure:"queue_limit"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Retry        RetryConfig   `mapstructure:"retry"`
}

// AddressCacheConfig holds the EVM to native address cache configuration
type AddressCacheConfig struct {
	SizeMB     int           `mapstructure:"size_mb"`
	TTL        time.Duration `mapstructure:"ttl"`
	UnboundTTL time.Duration `mapstructure:"unbound_ttl"`
}

// MetricsConfig holds the prometheus pull endpoint configuration
type MetricsConfig struct {
	Address string `mapstructure:"address"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
}

// PriceConfig holds the native token price provider configuration
type PriceConfig struct {
	URL         string        `mapstructure:"url"`
	TTL         time.Duration `mapstructure:"ttl"`
	StaleWindow time.Duration `mapstructure:"stale_window"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// BacktrackerConfig holds configuration for the backtracker
type BacktrackerConfig struct {
	BaseConfig           `mapstructure:",squash"`
	Source               string             `mapstructure:"source"`
	Upstream             UpstreamConfig     `mapstructure:"upstream"`
	Ethereum             EthereumConfig     `mapstructure:"ethereum"`
	Backtracking         BacktrackingConfig `mapstructure:"backtracking"`
	Database             DatabaseConfig     `mapstructure:"database"`
	NATS                 NATSConfig         `mapstructure:"nats"`
	AddressCache         AddressCacheConfig `mapstructure:"address_cache"`
	Metrics              MetricsConfig      `mapstructure:"metrics"`
	TrackFinalizedBlocks bool               `mapstructure:"track_finalized_blocks"`
}

// APIConfig holds configuration for API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig `mapstructure:"server"`
	Price      PriceConfig  `mapstructure:"price"`
	Version    string       `mapstructure:"version"`
}

// LoadBacktrackerConfig loads configuration for the backtracker
func LoadBacktrackerConfig(configFile string, envPath string) (*BacktrackerConfig, error) {
	v := configureViper("backtracker", configFile, envPath, BacktrackerConfig{})

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("network", string(domain.NetworkMainnet))
	v.SetDefault("source", SourceUpstream)
	v.SetDefault("upstream.timeout", "30s")
	v.SetDefault("backtracking.chunk_size", domain.DefaultChunkSize)
	v.SetDefault("backtracking.mutation_size", domain.DefaultMutationSize)
	v.SetDefault("backtracking.queue_limit", domain.DefaultQueueLimit)
	v.SetDefault("backtracking.poll_interval", "1s")
	v.SetDefault("backtracking.retry.strategy", RetryStrategyForever)
	v.SetDefault("backtracking.retry.initial_interval", "5s")
	v.SetDefault("backtracking.retry.max_interval", "10m")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.subject_prefix", "backtracking")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.connection_name", "explorer-backtracker")
	v.SetDefault("address_cache.size_mb", 32)
	v.SetDefault("address_cache.ttl", "24h")
	v.SetDefault("address_cache.unbound_ttl", "1m")
	v.SetDefault("metrics.address", ":9090")
	v.SetDefault("track_finalized_blocks", false)

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config BacktrackerConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	switch config.Source {
	case SourceUpstream, SourcePostgres:
	default:
		return nil, fmt.Errorf("unknown source %q", config.Source)
	}

	switch config.Backtracking.Retry.Strategy {
	case RetryStrategyForever, RetryStrategyExponential:
	default:
		return nil, fmt.Errorf("unknown retry strategy %q", config.Backtracking.Retry.Strategy)
	}

	return &config, nil
}

// LoadAPIConfig loads configuration for API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath, APIConfig{})

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("network", string(domain.NetworkMainnet))
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("price.ttl", "30s")
	v.SetDefault("price.stale_window", "5m")
	v.SetDefault("price.timeout", "10s")
	v.SetDefault("version", "dev")

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// readConfig reads the config file if there is one
func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			// Config file not found, use environment variables
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set.
// Every mapstructure key of target is bound to its EXPLORER_ environment variable.
func configureViper(service string, configFile string, envPath string, target interface{}) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/backtracker/, cmd/api/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("EXPLORER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// viper only maps env vars to struct fields that are bound or present in a config file
	bindEnvs(v, reflect.TypeOf(target), "")
	return v
}

// bindEnvs binds the mapstructure key of every leaf field of t under prefix
func bindEnvs(v *viper.Viper, t reflect.Type, prefix string) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, opts, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")

		key := prefix
		if opts != "squash" {
			if name == "" {
				continue
			}
			key = strings.TrimPrefix(prefix+"."+name, ".")
		}

		// time.Duration is a leaf; it is decoded from a string
		if field.Type.Kind() == reflect.Struct {
			bindEnvs(v, field.Type, key)
			continue
		}
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
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

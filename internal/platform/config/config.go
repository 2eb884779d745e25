package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	strutil "secreg/pkg/platform/strings"
)

// EnvPrefix namespaces every environment variable, e.g. SECREG_ADDR or
// SECREG_DATABASE_URL.
const EnvPrefix = "SECREG"

// Store backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr     string
	Backend  string
	LogLevel string
	Auth     AuthConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Relay    RelayConfig
	Policy   PolicyConfig
}

type AuthConfig struct {
	JWTSigningKey string
	Issuer        string
	TokenTTL      time.Duration
	// AdminToken guards /metrics when set.
	AdminToken string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrateOnStart  bool
}

// RedisConfig configures the event stream mirror. An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Stream       string
	StreamMaxLen int64
}

// KafkaConfig configures the outbox relay's broker destination. No brokers
// disables it.
type KafkaConfig struct {
	Brokers           []string
	Topic             string
	Partitions        int32
	ReplicationFactor int16
}

type RelayConfig struct {
	Interval  time.Duration
	BatchSize int
}

// PolicyConfig mirrors service.Policy.
type PolicyConfig struct {
	VerifierNameScope         string
	MintWithReservation       bool
	StrictCompanyRegistration bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("backend", BackendMemory)
	v.SetDefault("log_level", "info")

	// Use a default for development - should be overridden in production
	v.SetDefault("auth.jwt_signing_key", "dev-secret-key-change-in-production")
	v.SetDefault("auth.issuer", "secreg")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.admin_token", "")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.migrate_on_start", true)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)
	v.SetDefault("redis.stream", "secreg:events")
	v.SetDefault("redis.stream_max_len", 100000)

	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.topic", "secreg.events")
	v.SetDefault("kafka.partitions", 3)
	v.SetDefault("kafka.replication_factor", 1)

	v.SetDefault("relay.interval", time.Second)
	v.SetDefault("relay.batch_size", 100)

	v.SetDefault("policy.verifier_name_scope", "global")
	v.SetDefault("policy.mint_with_reservation", false)
	v.SetDefault("policy.strict_company_registration", false)
}

// Load reads configuration from the environment and, when configFile is set,
// from that file. Environment variables win over the file.
func Load(configFile string) (Server, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Server{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Server{
		Addr:     v.GetString("addr"),
		Backend:  strings.ToLower(v.GetString("backend")),
		LogLevel: v.GetString("log_level"),
		Auth: AuthConfig{
			JWTSigningKey: v.GetString("auth.jwt_signing_key"),
			Issuer:        v.GetString("auth.issuer"),
			TokenTTL:      v.GetDuration("auth.token_ttl"),
			AdminToken:    v.GetString("auth.admin_token"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("database.url"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
			MigrateOnStart:  v.GetBool("database.migrate_on_start"),
		},
		Redis: RedisConfig{
			URL:          v.GetString("redis.url"),
			PoolSize:     v.GetInt("redis.pool_size"),
			MinIdleConns: v.GetInt("redis.min_idle_conns"),
			DialTimeout:  v.GetDuration("redis.dial_timeout"),
			ReadTimeout:  v.GetDuration("redis.read_timeout"),
			WriteTimeout: v.GetDuration("redis.write_timeout"),
			Stream:       v.GetString("redis.stream"),
			StreamMaxLen: v.GetInt64("redis.stream_max_len"),
		},
		Kafka: KafkaConfig{
			Brokers:           strutil.SplitList(v.GetString("kafka.brokers")),
			Topic:             v.GetString("kafka.topic"),
			Partitions:        v.GetInt32("kafka.partitions"),
			ReplicationFactor: int16(v.GetInt("kafka.replication_factor")),
		},
		Relay: RelayConfig{
			Interval:  v.GetDuration("relay.interval"),
			BatchSize: v.GetInt("relay.batch_size"),
		},
		Policy: PolicyConfig{
			VerifierNameScope:         v.GetString("policy.verifier_name_scope"),
			MintWithReservation:       v.GetBool("policy.mint_with_reservation"),
			StrictCompanyRegistration: v.GetBool("policy.strict_company_registration"),
		},
	}
	return cfg, cfg.Validate()
}

// FromEnv loads configuration from the environment only.
func FromEnv() (Server, error) {
	return Load("")
}

func (c Server) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("%s_DATABASE_URL is required for the postgres backend", EnvPrefix)
		}
	default:
		return fmt.Errorf("unknown backend %q: want %s or %s", c.Backend, BackendMemory, BackendPostgres)
	}
	if c.Auth.JWTSigningKey == "" {
		return fmt.Errorf("%s_AUTH_JWT_SIGNING_KEY must not be empty", EnvPrefix)
	}
	if c.Relay.BatchSize <= 0 {
		return fmt.Errorf("%s_RELAY_BATCH_SIZE must be positive", EnvPrefix)
	}
	return nil
}

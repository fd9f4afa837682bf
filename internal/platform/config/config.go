package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"landchain/pkg/evm"
)

// EnvPrefix namespaces every variable, e.g. LANDCHAIN_CHAIN_ID.
const EnvPrefix = "landchain"

// Config is the full process configuration, loaded once in main.
type Config struct {
	Server   Server
	Chain    Chain
	Backend  Backend
	Auth     Auth
	Provider Provider
	Redis    RedisConfig
	Kafka    Kafka
	Log      Log
}

// Server captures console HTTP level configuration. SessionKey names this
// console's wallet session in the restore hint store.
type Server struct {
	Addr              string        `envconfig:"ADDR" default:":8090"`
	SessionKey        string        `envconfig:"SESSION_KEY" default:"console"`
	ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"5s"`
	IdleTimeout       time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Auth configures how access tokens are read. Without a signing key the
// claims are decoded but not verified; the backend verifies every call.
type Auth struct {
	SigningKey string `envconfig:"SIGNING_KEY"`
}

// Chain describes the network the registry contracts live on. The wallet
// session compares the provider's chain id against ID, and SwitchNetwork
// offers the rest as the add-network descriptor.
type Chain struct {
	ID               string `envconfig:"ID" default:"11155111"`
	Name             string `envconfig:"NAME" default:"Sepolia"`
	RPCURL           string `envconfig:"RPC_URL" default:"https://rpc.sepolia.org"`
	ExplorerURL      string `envconfig:"EXPLORER_URL" default:"https://sepolia.etherscan.io"`
	CurrencyName     string `envconfig:"CURRENCY_NAME" default:"Sepolia ETH"`
	CurrencySymbol   string `envconfig:"CURRENCY_SYMBOL" default:"SepoliaETH"`
	CurrencyDecimals uint8  `envconfig:"CURRENCY_DECIMALS" default:"18"`
}

// Backend points at the registry REST API.
type Backend struct {
	BaseURL string        `envconfig:"BASE_URL" default:"http://localhost:8000/api/v1"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"30s"`
}

// Provider selects the signing provider. URL is a JSON-RPC endpoint (ws:// or
// http://) of a wallet bridge; DevKey, when set, runs an in-process key-backed
// wallet instead and is meant for local development only.
type Provider struct {
	URL    string `envconfig:"URL"`
	DevKey string `envconfig:"DEV_KEY"`
}

// RedisConfig configures the optional session-restore hint store.
type RedisConfig struct {
	URL          string        `envconfig:"URL"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

// Kafka configures the optional audit sink. Empty Brokers keeps audit in memory.
type Kafka struct {
	Brokers    []string `envconfig:"BROKERS"`
	AuditTopic string   `envconfig:"AUDIT_TOPIC" default:"landchain.audit"`
}

// Log configures the slog handler.
type Log struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"text"`
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if _, err := cfg.Chain.TargetID(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// TargetID parses the configured chain id.
func (c Chain) TargetID() (evm.ChainID, error) {
	return evm.ParseChainID(c.ID)
}

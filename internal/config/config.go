package config

import (
	"fmt"
	"strings"
	"time"
)

// BuildVersion is overridden at build time with -ldflags "-X .../internal/config.BuildVersion=..."
var BuildVersion = "0.0.0-dev"

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"

	CollaboratorsLocal    = "local"
	CollaboratorsEthereum = "ethereum"

	ClockBlock = "block"
	ClockUnix  = "unix"
)

// Validation tags described here: https://pkg.go.dev/github.com/go-playground/validator/v10
type Config struct {
	Blockchain struct {
		EthNodeAddress   string        `env:"ETH_NODE_ADDRESS"    flag:"eth-node-address"    validate:"omitempty,url"`
		EthLegacyTx      bool          `env:"ETH_NODE_LEGACY_TX"  flag:"eth-node-legacy-tx"  desc:"use it to disable EIP-1559 transactions"`
		CallTimeout      time.Duration `env:"ETH_CALL_TIMEOUT"    flag:"eth-call-timeout"     desc:"timeout for a single collaborator call or transaction"`
		Mnemonic         string        `env:"WALLET_MNEMONIC"     flag:"wallet-mnemonic"     desc:"mnemonic of the wallet signing custodian transactions"`
		AccountIndex     int           `env:"WALLET_ACCOUNT_INDEX" flag:"wallet-account-index" validate:"omitempty,min=0"`
		WalletPrivateKey string        `env:"WALLET_PRIVATE_KEY"  flag:"wallet-private-key"  desc:"private key of the wallet signing custodian transactions, takes precedence over mnemonic"`
	}
	Clock struct {
		Source string `env:"CLOCK_SOURCE" flag:"clock-source" validate:"omitempty,oneof=block unix" desc:"logical time source: chain head height or unix seconds"`
	}
	Collaborators struct {
		Mode       string `env:"COLLABORATORS_MODE"    flag:"collaborators-mode"    validate:"omitempty,oneof=local ethereum"`
		Governance string `env:"GOVERNANCE_ADDRESS"   flag:"governance-address"    validate:"omitempty,eth_addr"`
		Oracle     string `env:"ORACLE_ADDRESS"        flag:"oracle-address"        validate:"omitempty,eth_addr"`
		Custodian  string `env:"CUSTODIAN_ADDRESS"     flag:"custodian-address"     validate:"omitempty,eth_addr"`
	}
	Environment string `env:"ENVIRONMENT" flag:"environment"`
	Events      struct {
		PoolSize     int    `env:"EVENTS_POOL_SIZE"     flag:"events-pool-size"     validate:"omitempty,min=1" desc:"number of workers delivering events to subscribers"`
		KafkaBrokers string `env:"EVENTS_KAFKA_BROKERS" flag:"events-kafka-brokers" desc:"comma separated kafka brokers, kafka publishing is disabled if empty"`
		KafkaTopic   string `env:"EVENTS_KAFKA_TOPIC"   flag:"events-kafka-topic"`
	}
	Ledger struct {
		Owner           string `env:"LEDGER_OWNER"            flag:"ledger-owner"            validate:"omitempty,eth_addr" desc:"deployer identity, becomes the owner on first start"`
		MinContribution uint64 `env:"LEDGER_MIN_CONTRIBUTION" flag:"ledger-min-contribution" desc:"minimum accepted contribution"`
		ServiceAddress  string `env:"LEDGER_SERVICE_ADDRESS"  flag:"ledger-service-address"  validate:"omitempty,eth_addr" desc:"caller identity used by background jobs"`
	}
	Log struct {
		Color          bool   `env:"LOG_COLOR"           flag:"log-color"`
		FolderPath     string `env:"LOG_FOLDER_PATH"     flag:"log-folder-path"     validate:"omitempty,dirpath" desc:"enables file logging and sets the folder path"`
		IsProd         bool   `env:"LOG_IS_PROD"         flag:"log-is-prod"         validate:""                  desc:"affects the format of the log output"`
		JSON           bool   `env:"LOG_JSON"            flag:"log-json"`
		LevelApp       string `env:"LOG_LEVEL_APP"       flag:"log-level-app"       validate:"omitempty,oneof=debug info warn error dpanic panic fatal"`
		LevelLedger    string `env:"LOG_LEVEL_LEDGER"    flag:"log-level-ledger"    validate:"omitempty,oneof=debug info warn error dpanic panic fatal"`
		LevelRPC       string `env:"LOG_LEVEL_RPC"       flag:"log-level-rpc"       validate:"omitempty,oneof=debug info warn error dpanic panic fatal"`
		LevelScheduler string `env:"LOG_LEVEL_SCHEDULER" flag:"log-level-scheduler" validate:"omitempty,oneof=debug info warn error dpanic panic fatal"`
	}
	Scheduler struct {
		Disable  bool          `env:"SCHEDULER_DISABLE"  flag:"scheduler-disable"  desc:"disables the deadline sweeper"`
		Interval time.Duration `env:"SCHEDULER_INTERVAL" flag:"scheduler-interval"  desc:"interval between deadline sweeps"`
	}
	Store struct {
		Driver string `env:"STORE_DRIVER" flag:"store-driver" validate:"omitempty,oneof=memory sqlite postgres"`
		DSN    string `env:"STORE_DSN"    flag:"store-dsn"    desc:"postgres connection string or sqlite file path"`
	}
	Web struct {
		Address   string `env:"WEB_ADDRESS"    flag:"web-address"    validate:"required,hostname_port" desc:"http server address host:port"`
		PublicUrl string `env:"WEB_PUBLIC_URL" flag:"web-public-url" validate:"omitempty,url"          desc:"public url of the ledger api, falls back to web-address if empty"`
	}
}

func (cfg *Config) SetDefaults() {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// Blockchain

	if cfg.Blockchain.CallTimeout == 0 {
		cfg.Blockchain.CallTimeout = 30 * time.Second
	}
	// normalizes private key
	cfg.Blockchain.WalletPrivateKey = strings.TrimPrefix(cfg.Blockchain.WalletPrivateKey, "0x")

	// Clock

	if cfg.Clock.Source == "" {
		if cfg.Collaborators.Mode == CollaboratorsEthereum {
			cfg.Clock.Source = ClockBlock
		} else {
			cfg.Clock.Source = ClockUnix
		}
	}

	// Collaborators

	if cfg.Collaborators.Mode == "" {
		cfg.Collaborators.Mode = CollaboratorsLocal
	}

	// Events

	if cfg.Events.PoolSize == 0 {
		cfg.Events.PoolSize = 8
	}
	if cfg.Events.KafkaTopic == "" {
		cfg.Events.KafkaTopic = "ledger.events"
	}

	// Ledger

	if cfg.Ledger.MinContribution == 0 {
		cfg.Ledger.MinContribution = 1_000_000
	}

	// Log

	if cfg.Log.LevelApp == "" {
		cfg.Log.LevelApp = "debug"
	}
	if cfg.Log.LevelLedger == "" {
		cfg.Log.LevelLedger = "debug"
	}
	if cfg.Log.LevelRPC == "" {
		cfg.Log.LevelRPC = "info"
	}
	if cfg.Log.LevelScheduler == "" {
		cfg.Log.LevelScheduler = "info"
	}

	// Scheduler

	if cfg.Scheduler.Interval == 0 {
		cfg.Scheduler.Interval = time.Minute
	}

	// Store

	if cfg.Store.Driver == "" {
		cfg.Store.Driver = StoreMemory
	}

	// Web

	if cfg.Web.Address == "" {
		cfg.Web.Address = "0.0.0.0:8080"
	}
	if cfg.Web.PublicUrl == "" {
		cfg.Web.PublicUrl = "http://localhost:8080"
	}
}

// Brokers splits the comma separated kafka broker list
func (cfg *Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(cfg.Events.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// Validate checks the rules that span several sections
func (cfg *Config) Validate() error {
	if cfg.Store.Driver != StoreMemory && cfg.Store.DSN == "" {
		return fmt.Errorf("%w: STORE_DSN is required for driver %s", ErrConfigValidation, cfg.Store.Driver)
	}
	if cfg.Collaborators.Mode == CollaboratorsEthereum || cfg.Clock.Source == ClockBlock {
		if cfg.Blockchain.EthNodeAddress == "" {
			return fmt.Errorf("%w: ETH_NODE_ADDRESS is required for ethereum collaborators or block clock", ErrConfigValidation)
		}
	}
	if cfg.Collaborators.Mode == CollaboratorsEthereum && cfg.Blockchain.Mnemonic == "" && cfg.Blockchain.WalletPrivateKey == "" {
		return fmt.Errorf("%w: WALLET_MNEMONIC or WALLET_PRIVATE_KEY is required for ethereum collaborators", ErrConfigValidation)
	}
	return nil
}

// GetSanitized returns a copy of the config with sensitive data removed
// explicitly adding each field here to avoid accidentally leaking sensitive data
func (cfg *Config) GetSanitized() interface{} {
	publicCfg := Config{}

	publicCfg.Blockchain.EthLegacyTx = cfg.Blockchain.EthLegacyTx
	publicCfg.Blockchain.CallTimeout = cfg.Blockchain.CallTimeout
	publicCfg.Blockchain.AccountIndex = cfg.Blockchain.AccountIndex

	publicCfg.Clock.Source = cfg.Clock.Source

	publicCfg.Collaborators.Mode = cfg.Collaborators.Mode
	publicCfg.Collaborators.Governance = cfg.Collaborators.Governance
	publicCfg.Collaborators.Oracle = cfg.Collaborators.Oracle
	publicCfg.Collaborators.Custodian = cfg.Collaborators.Custodian

	publicCfg.Environment = cfg.Environment

	publicCfg.Events.PoolSize = cfg.Events.PoolSize
	publicCfg.Events.KafkaTopic = cfg.Events.KafkaTopic
	publicCfg.Events.KafkaBrokers = cfg.Events.KafkaBrokers

	publicCfg.Ledger.Owner = cfg.Ledger.Owner
	publicCfg.Ledger.MinContribution = cfg.Ledger.MinContribution
	publicCfg.Ledger.ServiceAddress = cfg.Ledger.ServiceAddress

	publicCfg.Log.Color = cfg.Log.Color
	publicCfg.Log.FolderPath = cfg.Log.FolderPath
	publicCfg.Log.IsProd = cfg.Log.IsProd
	publicCfg.Log.JSON = cfg.Log.JSON
	publicCfg.Log.LevelApp = cfg.Log.LevelApp
	publicCfg.Log.LevelLedger = cfg.Log.LevelLedger
	publicCfg.Log.LevelRPC = cfg.Log.LevelRPC
	publicCfg.Log.LevelScheduler = cfg.Log.LevelScheduler

	publicCfg.Scheduler.Disable = cfg.Scheduler.Disable
	publicCfg.Scheduler.Interval = cfg.Scheduler.Interval

	publicCfg.Store.Driver = cfg.Store.Driver

	publicCfg.Web.Address = cfg.Web.Address
	publicCfg.Web.PublicUrl = cfg.Web.PublicUrl

	return publicCfg
}

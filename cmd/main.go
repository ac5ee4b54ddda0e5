package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Lumerin-protocol/milestone-ledger/internal/config"
	"github.com/Lumerin-protocol/milestone-ledger/internal/events"
	"github.com/Lumerin-protocol/milestone-ledger/internal/handlers/httphandlers"
	"github.com/Lumerin-protocol/milestone-ledger/internal/interfaces"
	"github.com/Lumerin-protocol/milestone-ledger/internal/ledger"
	"github.com/Lumerin-protocol/milestone-ledger/internal/lib"
	"github.com/Lumerin-protocol/milestone-ledger/internal/repositories/ethereum"
	"github.com/Lumerin-protocol/milestone-ledger/internal/repositories/gormstore"
	"github.com/Lumerin-protocol/milestone-ledger/internal/repositories/local"
	"github.com/Lumerin-protocol/milestone-ledger/internal/repositories/memory"
	"github.com/Lumerin-protocol/milestone-ledger/internal/scheduler"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

type closableStore interface {
	ledger.Store
	Close() error
}

func main() {
	err := start()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func start() error {
	if err := config.LoadEnvFile(); err != nil {
		return err
	}

	var cfg config.Config
	err := config.LoadConfig(&cfg, &os.Args)
	if err != nil {
		return err
	}

	newLogger := func(level string) (*lib.Logger, error) {
		return lib.NewLogger(lib.LoggerConfig{
			Level:      level,
			Color:      cfg.Log.Color,
			IsProd:     cfg.Log.IsProd,
			IsJSON:     cfg.Log.JSON,
			FolderPath: cfg.Log.FolderPath,
		})
	}

	appLog, err := newLogger(cfg.Log.LevelApp)
	if err != nil {
		return err
	}
	ledgerLog, err := newLogger(cfg.Log.LevelLedger)
	if err != nil {
		return err
	}
	rpcLog, err := newLogger(cfg.Log.LevelRPC)
	if err != nil {
		return err
	}
	schedulerLog, err := newLogger(cfg.Log.LevelScheduler)
	if err != nil {
		return err
	}

	defer func() {
		_ = appLog.Sync()
		_ = ledgerLog.Sync()
		_ = rpcLog.Sync()
		_ = schedulerLog.Sync()
	}()

	log := appLog.Named("APP")
	log.Infof("milestone ledger %s starting, %s collaborators, %s store", config.BuildVersion, cfg.Collaborators.Mode, cfg.Store.Driver)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-shutdownChan
		log.Warnf("Received signal: %s", s)
		cancel()

		s = <-shutdownChan
		log.Warnf("Received signal: %s. Forcing exit...", s)
		os.Exit(1)
	}()

	store, err := openStore(&cfg, appLog.Named("STORE"))
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warnf("store close: %s", err)
		}
	}()

	var (
		client *ethereum.EthClient
		wallet *ethereum.Wallet
	)
	if cfg.Blockchain.EthNodeAddress != "" {
		client, err = ethereum.DialContext(ctx, cfg.Blockchain.EthNodeAddress)
		if err != nil {
			return fmt.Errorf("failed to connect to ethereum node: %w", err)
		}
		defer client.Close()
		log.Infof("connected to ethereum node %s", client.URL())
	}
	if cfg.Blockchain.WalletPrivateKey != "" {
		wallet, err = ethereum.NewWalletFromPrivateKey(cfg.Blockchain.WalletPrivateKey)
	} else if cfg.Blockchain.Mnemonic != "" {
		wallet, err = ethereum.NewWalletFromMnemonic(cfg.Blockchain.Mnemonic, cfg.Blockchain.AccountIndex)
	}
	if err != nil {
		return err
	}

	owner, err := resolveOwner(&cfg, wallet)
	if err != nil {
		return err
	}

	var clock ledger.Clock = ledger.UnixClock{}
	if cfg.Clock.Source == config.ClockBlock {
		clock = ethereum.NewBlockClock(client)
	}

	var (
		directory     ledger.Directory
		simulators    *httphandlers.Simulators
		collaborators [3]common.Address
	)
	switch cfg.Collaborators.Mode {
	case config.CollaboratorsEthereum:
		transactor := ethereum.NewTransactor(client, wallet, cfg.Blockchain.EthLegacyTx, rpcLog.Named("ETH"))
		directory = ethereum.NewDirectory(client, transactor, cfg.Blockchain.CallTimeout)
		collaborators = configuredCollaborators(&cfg, [3]common.Address{})
	default:
		simulators, directory, collaborators = localCollaborators(&cfg)
	}

	subscribers := []events.Subscriber{events.NewLogSubscriber(appLog.Named("EVENTS"))}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		kafkaSub, err := events.NewKafkaSubscriber(brokers, cfg.Events.KafkaTopic)
		if err != nil {
			return err
		}
		defer func() {
			if err := kafkaSub.Close(); err != nil {
				log.Warnf("kafka writer close: %s", err)
			}
		}()
		subscribers = append(subscribers, kafkaSub)
		log.Infof("publishing events to kafka topic %s", cfg.Events.KafkaTopic)
	}

	bus, err := events.NewBus(cfg.Events.PoolSize, appLog.Named("EVENTS"), subscribers...)
	if err != nil {
		return err
	}
	// runs after the server drained so late events still go out
	defer bus.Close()

	l := ledger.NewLedger(ledger.Config{
		Deployer:        owner,
		MinContribution: cfg.Ledger.MinContribution,
	}, store, directory, clock, bus, ledgerLog.Named("LEDGER"))

	if err := l.Init(ctx); err != nil {
		return err
	}
	if err := syncCollaborators(ctx, l, owner, collaborators, log); err != nil {
		return err
	}

	handl := httphandlers.NewHTTPHandler(l, &cfg, bus, simulators, rpcLog.Named("HTTP"))
	server := httphandlers.NewServer(cfg.Web.Address, handl, rpcLog.Named("HTTP"))

	runners := []interfaces.Runnable{server}
	if !cfg.Scheduler.Disable {
		service := owner
		if cfg.Ledger.ServiceAddress != "" {
			service = common.HexToAddress(cfg.Ledger.ServiceAddress)
		}
		runners = append(runners, scheduler.NewDeadlineSweeper(l, service, cfg.Scheduler.Interval, schedulerLog.Named("SCHEDULER")))
	}

	errGrp, grpCtx := errgroup.WithContext(ctx)
	for _, r := range runners {
		r := r
		errGrp.Go(func() error {
			return r.Run(grpCtx)
		})
	}

	err = errGrp.Wait()
	log.Infof("App exited due to %v", err)
	return err
}

func openStore(cfg *config.Config, log interfaces.ILogger) (closableStore, error) {
	switch cfg.Store.Driver {
	case config.StoreMemory:
		log.Warn("using in-memory store, state is lost on exit")
		return memory.NewStore(), nil
	default:
		return gormstore.Open(cfg.Store.Driver, cfg.Store.DSN, log)
	}
}

// resolveOwner picks the deployer identity: configured owner first, then the signing wallet
func resolveOwner(cfg *config.Config, wallet *ethereum.Wallet) (common.Address, error) {
	if cfg.Ledger.Owner != "" {
		return common.HexToAddress(cfg.Ledger.Owner), nil
	}
	if wallet != nil {
		return wallet.Address(), nil
	}
	return common.Address{}, fmt.Errorf("%w: LEDGER_OWNER is required when no wallet is configured", config.ErrConfigValidation)
}

func configuredCollaborators(cfg *config.Config, defaults [3]common.Address) [3]common.Address {
	res := defaults
	for i, addr := range []string{cfg.Collaborators.Governance, cfg.Collaborators.Oracle, cfg.Collaborators.Custodian} {
		if addr != "" {
			res[i] = common.HexToAddress(addr)
		}
	}
	return res
}

func localCollaborators(cfg *config.Config) (*httphandlers.Simulators, ledger.Directory, [3]common.Address) {
	addrs := configuredCollaborators(cfg, [3]common.Address{
		local.DefaultGovernanceAddress,
		local.DefaultOracleAddress,
		local.DefaultCustodianAddress,
	})
	sims := &httphandlers.Simulators{
		Governance: local.NewGovernance(addrs[0]),
		Oracle:     local.NewOracle(addrs[1]),
		Custodian:  local.NewCustodian(addrs[2]),
	}
	directory := local.NewDirectory()
	directory.Register(sims.Governance)
	directory.Register(sims.Oracle)
	directory.Register(sims.Custodian)
	return sims, directory, addrs
}

// syncCollaborators points the ledger at the configured collaborators, acting as the owner
func syncCollaborators(ctx context.Context, l *ledger.Ledger, owner common.Address, addrs [3]common.Address, log interfaces.ILogger) error {
	for _, addr := range addrs {
		if addr == (common.Address{}) {
			return nil
		}
	}
	state, err := l.GetState(ctx)
	if err != nil {
		return err
	}
	if state.Governance == addrs[0] && state.Oracle == addrs[1] && state.Custodian == addrs[2] {
		return nil
	}
	if state.Owner != owner {
		log.Warnf("collaborators not updated, %s is not the ledger owner", owner.Hex())
		return nil
	}
	log.Infof("setting collaborators governance=%s oracle=%s custodian=%s",
		lib.AddrShort(addrs[0].Hex()), lib.AddrShort(addrs[1].Hex()), lib.AddrShort(addrs[2].Hex()))
	return l.SetCollaboratorAddresses(ctx, owner, addrs[0], addrs[1], addrs[2])
}

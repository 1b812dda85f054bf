// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package govvm

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/rpc/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/multigov/utils/json"
	"github.com/luxfi/multigov/utils/timer/mockable"
	"github.com/luxfi/multigov/vms/govvm/checkpoint"
	"github.com/luxfi/multigov/vms/govvm/config"
	"github.com/luxfi/multigov/vms/govvm/events"
	"github.com/luxfi/multigov/vms/govvm/genesis"
	"github.com/luxfi/multigov/vms/govvm/metrics"
	"github.com/luxfi/multigov/vms/govvm/rent"
	"github.com/luxfi/multigov/vms/govvm/state"
	"github.com/luxfi/multigov/vms/govvm/txs"
	"github.com/luxfi/multigov/vms/govvm/txs/executor"
)

const Name = "govvm"

var (
	Version = "v1.0.0"

	errNotInitialized = errors.New("vm not initialized")
)

// VM executes governance operations one at a time against persisted state.
// An operation either commits every modification it made or none.
type VM struct {
	lock sync.Mutex

	log     log.Logger
	clk     mockable.Clock
	state   state.State
	metrics metrics.Metrics
	backend *executor.Backend
}

// Initialize loads the configuration and genesis and opens the state in
// [db]. When [airlock] is nil, relayed instructions for other programs are
// rejected.
func (vm *VM) Initialize(
	db database.Database,
	genesisBytes []byte,
	configBytes []byte,
	logger log.Logger,
	registerer prometheus.Registerer,
	airlock executor.Airlock,
) error {
	cfg, err := config.GetConfig(configBytes)
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	g, err := genesis.Parse(genesisBytes)
	if err != nil {
		return fmt.Errorf("failed to parse genesis: %w", err)
	}

	logger.Info("initializing governance vm",
		log.String("version", Version),
		log.Uint64("maxCheckpointsPerSegment", cfg.MaxCheckpointsPerSegment),
		log.Int("allocations", len(g.Allocations)),
	)

	if cfg.MockClockTime != 0 {
		vm.clk.SetUnix(cfg.MockClockTime)
	}
	vm.state, err = state.New(db, g, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize state: %w", err)
	}
	vm.metrics, err = metrics.New(registerer)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	vm.log = logger
	vm.backend = &executor.Backend{
		Config:  cfg,
		Clk:     &vm.clk,
		Rent:    rent.NewCalculator(cfg.Rent),
		Log:     logger,
		Airlock: airlock,
	}
	return nil
}

// IssueTx executes [tx] and returns the events it emitted. A failed
// operation leaves the state unchanged.
func (vm *VM) IssueTx(tx *txs.Tx) ([]events.Event, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	switch {
	case vm.state == nil:
		return nil, errNotInitialized
	case tx == nil:
		return nil, txs.ErrNilTx
	}

	emitted, err := executor.StandardTx(vm.backend, vm.state, tx)
	if err != nil {
		vm.state.Abort()
		vm.log.Debug("operation rejected",
			log.Stringer("txID", tx.ID()),
			log.Stringer("signer", tx.Signer()),
			log.Err(err),
		)
		if err := vm.metrics.MarkRejected(tx); err != nil {
			vm.log.Warn("failed to mark rejected operation", log.Err(err))
		}
		return nil, err
	}
	if err := vm.state.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit %s: %w", tx.ID(), err)
	}

	vm.log.Debug("operation accepted",
		log.Stringer("txID", tx.ID()),
		log.Stringer("signer", tx.Signer()),
		log.Int("events", len(emitted)),
	)
	for _, e := range emitted {
		vm.log.Debug("event emitted",
			log.Stringer("txID", tx.ID()),
			log.String("event", e.Name()),
		)
	}
	if err := vm.metrics.MarkAccepted(tx, emitted); err != nil {
		vm.log.Warn("failed to mark accepted operation", log.Err(err))
	}
	return emitted, nil
}

// Clock exposes the VM clock, so a host can pin or advance the time
// operations observe.
func (vm *VM) Clock() *mockable.Clock {
	return &vm.clk
}

func (vm *VM) GetStakeAccount(subject ids.ID) (state.StakeAccountMetadata, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	return vm.state.GetStakeAccount(subject)
}

// GetNonce returns the nonce [addr] must sign its next operation with.
func (vm *VM) GetNonce(addr ids.ShortID) (uint64, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	return vm.state.GetNonce(addr)
}

// GetCheckpoints returns one segment of [owner]'s checkpoint history.
func (vm *VM) GetCheckpoints(owner ids.ID, segment uint8) ([]checkpoint.Checkpoint, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	store, err := vm.state.GetCheckpoints(owner, segment)
	if err != nil {
		return nil, err
	}
	return store.Checkpoints(), nil
}

func (vm *VM) GetWindowLengths() ([]checkpoint.Checkpoint, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	store, err := vm.state.GetWindowLengths()
	if err != nil {
		return nil, err
	}
	return store.Checkpoints(), nil
}

func (vm *VM) GetProposal(proposalID ids.ID) (state.Proposal, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	return vm.state.GetProposal(proposalID)
}

func (vm *VM) GetProposals(voteStart uint64, limit int) []state.Proposal {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	return vm.state.GetProposals(voteStart, limit)
}

func (vm *VM) GetConfig() (state.GlobalConfig, state.SpokeMetadataCollector, state.SpokeMessageExecutor, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	var (
		collector state.SpokeMetadataCollector
		spoke     state.SpokeMessageExecutor
	)
	global, err := vm.state.GetConfig()
	if err != nil {
		return global, collector, spoke, err
	}
	if collector, err = vm.state.GetSpokeMetadataCollector(); err != nil {
		return global, collector, spoke, err
	}
	spoke, err = vm.state.GetSpokeMessageExecutor()
	return global, collector, spoke, err
}

func (vm *VM) GetVestingBalance(configID ids.ID, vester ids.ShortID) (state.VestingBalance, error) {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	return vm.state.GetVestingBalance(configID, vester)
}

// CreateHandlers returns the JSON-RPC handler of the VM, keyed by its path
// extension.
func (vm *VM) CreateHandlers() (map[string]http.Handler, error) {
	server := rpc.NewServer()
	server.RegisterCodec(json.NewCodec(), "application/json")
	server.RegisterCodec(json.NewCodec(), "application/json;charset=UTF-8")
	return map[string]http.Handler{
		"": server,
	}, server.RegisterService(&Service{vm: vm}, "gov")
}

func (vm *VM) Shutdown() error {
	vm.lock.Lock()
	defer vm.lock.Unlock()

	if vm.state == nil {
		return nil
	}
	return vm.state.Close()
}

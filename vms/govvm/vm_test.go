// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package govvm

import (
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/multigov/vms/govvm/checkpoint"
	"github.com/luxfi/multigov/vms/govvm/custody"
	"github.com/luxfi/multigov/vms/govvm/events"
	"github.com/luxfi/multigov/vms/govvm/genesis"
	"github.com/luxfi/multigov/vms/govvm/state"
	"github.com/luxfi/multigov/vms/govvm/txs"
	"github.com/luxfi/multigov/vms/govvm/txs/executor"
)

const (
	testWindowLength = 10
	testHubChainID   = 2
	testSpokeChainID = 1
)

var (
	testAuthority = testKey(0xff)
	testVoter     = testKey(1)
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testKey(seed byte) *secp256k1.PrivateKey {
	var b [32]byte
	b[0] = 0x01
	b[31] = seed
	return secp256k1.PrivKeyFromBytes(b[:])
}

type testVM struct {
	*VM
	registry *prometheus.Registry
}

func newTestVM(t *testing.T, configBytes []byte) *testVM {
	require := require.New(t)

	g := &genesis.Genesis{
		Initializer: txs.Address(testAuthority),
		Allocations: []genesis.Allocation{
			{
				Address:      txs.Address(testAuthority),
				TokenBalance: 1_000,
				RentBalance:  1_000_000_000_000,
			},
			{
				Address:      txs.Address(testVoter),
				TokenBalance: 1_000,
				RentBalance:  1_000_000_000_000,
			},
		},
	}
	genesisBytes, err := g.Bytes()
	require.NoError(err)

	vm := &VM{}
	registry := prometheus.NewRegistry()
	require.NoError(vm.Initialize(
		memdb.New(),
		genesisBytes,
		configBytes,
		log.NewNoOpLogger(),
		registry,
		nil,
	))
	t.Cleanup(func() {
		require.NoError(vm.Shutdown())
	})
	return &testVM{
		VM:       vm,
		registry: registry,
	}
}

// sign signs [unsigned] with [key]'s next nonce.
func (vm *testVM) sign(t *testing.T, key *secp256k1.PrivateKey, unsigned txs.UnsignedTx) *txs.Tx {
	nonce, err := vm.GetNonce(txs.Address(key))
	require.NoError(t, err)
	tx, err := txs.Sign(unsigned, nonce, key)
	require.NoError(t, err)
	return tx
}

func (vm *testVM) initialize(t *testing.T) {
	authority := txs.Address(testAuthority)
	_, err := vm.IssueTx(vm.sign(t, testAuthority, &txs.InitConfigTx{
		GovernanceAuthority: authority,
		VestingAdmin:        authority,
		InitialWindowLength: testWindowLength,
		HubChainID:          testHubChainID,
		HubDispatcher:       ids.ID{0xbb},
		SpokeChainID:        testSpokeChainID,
	}))
	require.NoError(t, err)
}

// counter returns the value of the [name] counter labeled [label].
func (vm *testVM) counter(t *testing.T, name, label string) float64 {
	families, err := vm.registry.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetValue() == label {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestVMMockClock(t *testing.T) {
	vm := newTestVM(t, []byte(`{"mock-clock-time":1700000000}`))
	require.Equal(t, uint64(1700000000), vm.Clock().Unix())
}

func TestVMInvalidConfig(t *testing.T) {
	require := require.New(t)

	vm := &VM{}
	err := vm.Initialize(
		memdb.New(),
		nil,
		[]byte(`{"max-checkpoints-per-segment":1}`),
		log.NewNoOpLogger(),
		prometheus.NewRegistry(),
		nil,
	)
	require.ErrorContains(err, "failed to parse config")
	require.NoError(vm.Shutdown())
}

func TestVMNotInitialized(t *testing.T) {
	vm := &VM{}
	_, err := vm.IssueTx(&txs.Tx{})
	require.ErrorIs(t, err, errNotInitialized)
}

func TestVMIssueTx(t *testing.T) {
	require := require.New(t)

	vm := newTestVM(t, nil)
	vm.Clock().SetUnix(100)
	vm.initialize(t)

	_, err := vm.IssueTx(nil)
	require.ErrorIs(err, txs.ErrNilTx)

	evs, err := vm.IssueTx(vm.sign(t, testVoter, &txs.CreateStakeAccountTx{}))
	require.NoError(err)
	require.Empty(evs)

	evs, err = vm.IssueTx(vm.sign(t, testVoter, &txs.DepositTx{Amount: 400}))
	require.NoError(err)
	require.Empty(evs)
	subject := state.StakeAccountID(txs.Address(testVoter))

	vm.Clock().SetUnix(110)
	evs, err = vm.IssueTx(vm.sign(t, testVoter, &txs.DelegateTx{Delegatee: subject}))
	require.NoError(err)
	require.Contains(evs, events.Event(&events.DelegateVotesChanged{
		Delegate:      subject,
		PreviousVotes: 0,
		NewVotes:      400,
	}))

	metadata, err := vm.GetStakeAccount(subject)
	require.NoError(err)
	require.Equal(subject, metadata.Delegate)
	require.Equal(uint64(400), metadata.RecordedBalance)

	checkpoints, err := vm.GetCheckpoints(subject, 0)
	require.NoError(err)
	require.Equal([]checkpoint.Checkpoint{{Timestamp: 110, Value: 400}}, checkpoints)

	lengths, err := vm.GetWindowLengths()
	require.NoError(err)
	require.Equal([]checkpoint.Checkpoint{{Timestamp: 100, Value: testWindowLength}}, lengths)

	// A rejected operation leaves no trace.
	_, err = vm.IssueTx(vm.sign(t, testVoter, &txs.DepositTx{Amount: 10_000}))
	require.ErrorIs(err, custody.ErrInsufficientFunds)
	metadata, err = vm.GetStakeAccount(subject)
	require.NoError(err)
	require.Equal(uint64(400), metadata.RecordedBalance)

	// Replayed bytes are rejected.
	deposit := vm.sign(t, testVoter, &txs.DepositTx{Amount: 100})
	_, err = vm.IssueTx(deposit)
	require.NoError(err)
	_, err = vm.IssueTx(deposit)
	require.ErrorIs(err, executor.ErrInvalidNonce)
	nonce, err := vm.GetNonce(txs.Address(testVoter))
	require.NoError(err)
	require.Equal(uint64(4), nonce)

	require.InDelta(1, vm.counter(t, "txs_accepted", "delegate"), 0)
	require.InDelta(2, vm.counter(t, "txs_rejected", "deposit"), 0)
	require.InDelta(1, vm.counter(t, "events_emitted", "DelegateChanged"), 0)
}


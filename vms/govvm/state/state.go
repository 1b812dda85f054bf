// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"errors"
	"fmt"

	"github.com/google/btree"

	"github.com/luxfi/cache"
	"github.com/luxfi/cache/lru"
	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/database/versiondb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"

	"github.com/luxfi/multigov/vms/govvm/checkpoint"
	"github.com/luxfi/multigov/vms/govvm/config"
	"github.com/luxfi/multigov/vms/govvm/genesis"
	"github.com/luxfi/multigov/vms/govvm/guardian"
)

const proposalTreeDegree = 32

var (
	_ State = (*state)(nil)

	SingletonPrefix       = []byte("singleton")
	StakeAccountPrefix    = []byte("stakeAccount")
	CheckpointPrefix      = []byte("checkpoint")
	ProposalPrefix        = []byte("proposal")
	WeightCastPrefix      = []byte("weightCast")
	VestingConfigPrefix   = []byte("vestingConfig")
	VestingPrefix         = []byte("vesting")
	VestingBalancePrefix  = []byte("vestingBalance")
	GuardianSetPrefix     = []byte("guardianSet")
	SignatureBatchPrefix  = []byte("signatureBatch")
	MessageReceivedPrefix = []byte("messageReceived")
	RentBalancePrefix     = []byte("rentBalance")
	TokenBalancePrefix    = []byte("tokenBalance")
	NoncePrefix           = []byte("nonce")

	InitializedKey            = []byte("initialized")
	InitializerKey            = []byte("initializer")
	ConfigKey                 = []byte("config")
	SpokeMetadataCollectorKey = []byte("spoke metadata collector")
	SpokeMessageExecutorKey   = []byte("spoke message executor")
	WindowLengthsKey          = []byte("window lengths")
	GuardianSetIndexKey       = []byte("guardian set index")
)

// Config collects the governance singletons.
type Config interface {
	// GetInitializer returns the address allowed to create the GlobalConfig.
	GetInitializer() (ids.ShortID, error)

	GetConfig() (GlobalConfig, error)
	SetConfig(GlobalConfig)

	GetSpokeMetadataCollector() (SpokeMetadataCollector, error)
	SetSpokeMetadataCollector(SpokeMetadataCollector)

	GetSpokeMessageExecutor() (SpokeMessageExecutor, error)
	SetSpokeMessageExecutor(SpokeMessageExecutor)
}

type StakeAccounts interface {
	GetStakeAccount(subject ids.ID) (StakeAccountMetadata, error)
	SetStakeAccount(subject ids.ID, metadata StakeAccountMetadata)

	// GetCheckpoints returns a copy of one checkpoint store segment.
	GetCheckpoints(owner ids.ID, segment uint8) (*checkpoint.Store, error)
	PutCheckpoints(segment uint8, store *checkpoint.Store)

	GetWindowLengths() (*checkpoint.Store, error)
	PutWindowLengths(*checkpoint.Store)
}

type Proposals interface {
	GetProposal(proposalID ids.ID) (Proposal, error)
	SetProposal(Proposal)

	// GetWeightCast returns database.ErrNotFound if [voter] has not voted on
	// [proposalID].
	GetWeightCast(proposalID, voter ids.ID) (uint64, error)
	SetWeightCast(proposalID, voter ids.ID, weight uint64)
}

type VestingRecords interface {
	GetVestingConfig(configID ids.ID) (VestingConfig, error)
	SetVestingConfig(VestingConfig)

	GetVesting(configID ids.ID, vester ids.ShortID, maturation uint64) (Vesting, error)
	SetVesting(Vesting)
	DeleteVesting(configID ids.ID, vester ids.ShortID, maturation uint64)

	GetVestingBalance(configID ids.ID, vester ids.ShortID) (VestingBalance, error)
	SetVestingBalance(VestingBalance)
	DeleteVestingBalance(configID ids.ID, vester ids.ShortID)
}

type Guardians interface {
	GetGuardianSet(index uint32) (*guardian.Set, error)
	SetGuardianSet(*guardian.Set)
	// GetGuardianSetIndex returns the index of the newest guardian set.
	GetGuardianSetIndex() (uint32, error)

	GetSignatureBatch(batchID ids.ID) (*guardian.SignatureBatch, error)
	SetSignatureBatch(batchID ids.ID, batch *guardian.SignatureBatch)
	DeleteSignatureBatch(batchID ids.ID)

	// GetMessageReceived returns the time a relayed message was executed.
	GetMessageReceived(messageID ids.ID) (uint64, error)
	SetMessageReceived(messageID ids.ID, timestamp uint64)
}

// Balances are read as zero when absent.
type Balances interface {
	GetRentBalance(addr ids.ShortID) (uint64, error)
	SetRentBalance(addr ids.ShortID, balance uint64)

	GetTokenBalance(account ids.ID) (uint64, error)
	SetTokenBalance(account ids.ID, balance uint64)
}

// Nonces are read as zero when absent. A signer's nonce is the number of
// operations it has had accepted.
type Nonces interface {
	GetNonce(addr ids.ShortID) (uint64, error)
	SetNonce(addr ids.ShortID, nonce uint64)
}

// Chain collects all methods to read and modify governance state during
// operation execution.
type Chain interface {
	Config
	StakeAccounts
	Proposals
	VestingRecords
	Guardians
	Balances
	Nonces
}

type State interface {
	Chain

	// GetProposals returns up to [limit] proposals with a vote start of at
	// least [voteStart], in vote start order. Only committed proposals are
	// indexed.
	GetProposals(voteStart uint64, limit int) []Proposal

	// Commit persists every modification made since the last Commit or
	// Abort.
	Commit() error
	// Abort discards every modification made since the last Commit or
	// Abort.
	Abort()
	Close() error
}

type checkpointKey struct {
	owner   ids.ID
	segment uint8
}

func (k checkpointKey) Bytes() []byte {
	return append(k.owner[:], k.segment)
}

type weightCastKey struct {
	proposalID ids.ID
	voter      ids.ID
}

func (k weightCastKey) Bytes() []byte {
	return append(k.proposalID[:], k.voter[:]...)
}

type vestingBalanceKey struct {
	config ids.ID
	vester ids.ShortID
}

func (k vestingBalanceKey) Bytes() []byte {
	return append(k.config[:], k.vester[:]...)
}

type vestingKey struct {
	vestingBalanceKey
	maturation uint64
}

func (k vestingKey) Bytes() []byte {
	return append(k.vestingBalanceKey.Bytes(), database.PackUInt64(k.maturation)...)
}

type state struct {
	log log.Logger

	baseDB *versiondb.Database

	singletonDB       database.Database
	stakeAccountDB    database.Database
	checkpointDB      database.Database
	proposalDB        database.Database
	weightCastDB      database.Database
	vestingConfigDB   database.Database
	vestingDB         database.Database
	vestingBalanceDB  database.Database
	guardianSetDB     database.Database
	signatureBatchDB  database.Database
	messageReceivedDB database.Database
	rentBalanceDB     database.Database
	tokenBalanceDB    database.Database
	nonceDB           database.Database

	stakeAccountCache cache.Cacher[ids.ID, StakeAccountMetadata]
	checkpointCache   cache.Cacher[checkpointKey, *checkpoint.Store]
	proposalCache     cache.Cacher[ids.ID, Proposal]

	// proposals indexed by vote start
	proposalIndex *btree.BTreeG[Proposal]

	// pending modifications; a nil pointer marks a deletion
	config                 *GlobalConfig
	spokeMetadataCollector *SpokeMetadataCollector
	spokeMessageExecutor   *SpokeMessageExecutor
	windowLengths          *checkpoint.Store
	guardianSetIndex       *uint32
	stakeAccounts          map[ids.ID]StakeAccountMetadata
	checkpoints            map[checkpointKey]*checkpoint.Store
	proposals              map[ids.ID]Proposal
	weightCasts            map[weightCastKey]uint64
	vestingConfigs         map[ids.ID]VestingConfig
	vests                  map[vestingKey]*Vesting
	vestingBalances        map[vestingBalanceKey]*VestingBalance
	guardianSets           map[uint32]*guardian.Set
	signatureBatches       map[ids.ID]*guardian.SignatureBatch
	messagesReceived       map[ids.ID]uint64
	rentBalances           map[ids.ShortID]uint64
	tokenBalances          map[ids.ID]uint64
	nonces                 map[ids.ShortID]uint64
}

// New returns the state persisted in [db], applying [g] if the database has
// not been initialized.
func New(
	db database.Database,
	g *genesis.Genesis,
	cfg *config.Config,
	log log.Logger,
) (State, error) {
	baseDB := versiondb.New(db)
	s := &state{
		log:    log,
		baseDB: baseDB,

		singletonDB:       prefixdb.New(SingletonPrefix, baseDB),
		stakeAccountDB:    prefixdb.New(StakeAccountPrefix, baseDB),
		checkpointDB:      prefixdb.New(CheckpointPrefix, baseDB),
		proposalDB:        prefixdb.New(ProposalPrefix, baseDB),
		weightCastDB:      prefixdb.New(WeightCastPrefix, baseDB),
		vestingConfigDB:   prefixdb.New(VestingConfigPrefix, baseDB),
		vestingDB:         prefixdb.New(VestingPrefix, baseDB),
		vestingBalanceDB:  prefixdb.New(VestingBalancePrefix, baseDB),
		guardianSetDB:     prefixdb.New(GuardianSetPrefix, baseDB),
		signatureBatchDB:  prefixdb.New(SignatureBatchPrefix, baseDB),
		messageReceivedDB: prefixdb.New(MessageReceivedPrefix, baseDB),
		rentBalanceDB:     prefixdb.New(RentBalancePrefix, baseDB),
		tokenBalanceDB:    prefixdb.New(TokenBalancePrefix, baseDB),
		nonceDB:           prefixdb.New(NoncePrefix, baseDB),

		stakeAccountCache: lru.NewCache[ids.ID, StakeAccountMetadata](cfg.StakeAccountCacheSize),
		checkpointCache:   lru.NewCache[checkpointKey, *checkpoint.Store](cfg.CheckpointCacheSize),
		proposalCache:     lru.NewCache[ids.ID, Proposal](cfg.ProposalCacheSize),
		proposalIndex:     btree.NewG(proposalTreeDegree, Proposal.Less),
	}
	s.reset()

	initialized, err := s.singletonDB.Has(InitializedKey)
	if err != nil {
		return nil, err
	}
	if !initialized {
		if err := s.syncGenesis(g); err != nil {
			return nil, fmt.Errorf("failed to apply genesis: %w", err)
		}
	}
	if err := s.loadProposalIndex(); err != nil {
		return nil, fmt.Errorf("failed to index proposals: %w", err)
	}
	return s, nil
}

func (s *state) syncGenesis(g *genesis.Genesis) error {
	for _, a := range g.Allocations {
		s.SetTokenBalance(WalletAccount(a.Address), a.TokenBalance)
		s.SetRentBalance(a.Address, a.RentBalance)
	}
	if err := s.singletonDB.Put(InitializerKey, g.Initializer[:]); err != nil {
		return err
	}
	if err := s.singletonDB.Put(InitializedKey, nil); err != nil {
		return err
	}
	s.log.Info("applied genesis",
		log.Int("allocations", len(g.Allocations)),
	)
	return s.Commit()
}

func (s *state) loadProposalIndex() error {
	it := s.proposalDB.NewIterator()
	defer it.Release()

	for it.Next() {
		var p Proposal
		if _, err := Codec.Unmarshal(it.Value(), &p); err != nil {
			return err
		}
		s.proposalIndex.ReplaceOrInsert(p)
	}
	return it.Error()
}

func (s *state) reset() {
	s.config = nil
	s.spokeMetadataCollector = nil
	s.spokeMessageExecutor = nil
	s.windowLengths = nil
	s.guardianSetIndex = nil
	s.stakeAccounts = make(map[ids.ID]StakeAccountMetadata)
	s.checkpoints = make(map[checkpointKey]*checkpoint.Store)
	s.proposals = make(map[ids.ID]Proposal)
	s.weightCasts = make(map[weightCastKey]uint64)
	s.vestingConfigs = make(map[ids.ID]VestingConfig)
	s.vests = make(map[vestingKey]*Vesting)
	s.vestingBalances = make(map[vestingBalanceKey]*VestingBalance)
	s.guardianSets = make(map[uint32]*guardian.Set)
	s.signatureBatches = make(map[ids.ID]*guardian.SignatureBatch)
	s.messagesReceived = make(map[ids.ID]uint64)
	s.rentBalances = make(map[ids.ShortID]uint64)
	s.tokenBalances = make(map[ids.ID]uint64)
	s.nonces = make(map[ids.ShortID]uint64)
}

func getRecord[T any](db database.Database, key []byte) (T, error) {
	var record T
	bytes, err := db.Get(key)
	if err != nil {
		return record, err
	}
	_, err = Codec.Unmarshal(bytes, &record)
	return record, err
}

func putRecord(db database.Database, key []byte, record any) error {
	bytes, err := Codec.Marshal(CodecVersion, record)
	if err != nil {
		return err
	}
	return db.Put(key, bytes)
}

// getBalance reads a uint64 that defaults to zero.
func getBalance(db database.Database, key []byte) (uint64, error) {
	balance, err := database.GetUInt64(db, key)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	return balance, err
}

func (s *state) GetInitializer() (ids.ShortID, error) {
	bytes, err := s.singletonDB.Get(InitializerKey)
	if err != nil {
		return ids.ShortEmpty, err
	}
	return ids.ToShortID(bytes)
}

func (s *state) GetConfig() (GlobalConfig, error) {
	if s.config != nil {
		return *s.config, nil
	}
	return getRecord[GlobalConfig](s.singletonDB, ConfigKey)
}

func (s *state) SetConfig(c GlobalConfig) {
	s.config = &c
}

func (s *state) GetSpokeMetadataCollector() (SpokeMetadataCollector, error) {
	if s.spokeMetadataCollector != nil {
		return *s.spokeMetadataCollector, nil
	}
	return getRecord[SpokeMetadataCollector](s.singletonDB, SpokeMetadataCollectorKey)
}

func (s *state) SetSpokeMetadataCollector(c SpokeMetadataCollector) {
	s.spokeMetadataCollector = &c
}

func (s *state) GetSpokeMessageExecutor() (SpokeMessageExecutor, error) {
	if s.spokeMessageExecutor != nil {
		return *s.spokeMessageExecutor, nil
	}
	return getRecord[SpokeMessageExecutor](s.singletonDB, SpokeMessageExecutorKey)
}

func (s *state) SetSpokeMessageExecutor(e SpokeMessageExecutor) {
	s.spokeMessageExecutor = &e
}

func (s *state) GetStakeAccount(subject ids.ID) (StakeAccountMetadata, error) {
	if m, ok := s.stakeAccounts[subject]; ok {
		return m, nil
	}
	if m, ok := s.stakeAccountCache.Get(subject); ok {
		return m, nil
	}
	m, err := getRecord[StakeAccountMetadata](s.stakeAccountDB, subject[:])
	if err != nil {
		return StakeAccountMetadata{}, err
	}
	s.stakeAccountCache.Put(subject, m)
	return m, nil
}

func (s *state) SetStakeAccount(subject ids.ID, m StakeAccountMetadata) {
	s.stakeAccounts[subject] = m
}

func (s *state) GetCheckpoints(owner ids.ID, segment uint8) (*checkpoint.Store, error) {
	key := checkpointKey{owner: owner, segment: segment}
	if store, ok := s.checkpoints[key]; ok {
		return store.Clone(), nil
	}
	if store, ok := s.checkpointCache.Get(key); ok {
		return store.Clone(), nil
	}
	bytes, err := s.checkpointDB.Get(key.Bytes())
	if err != nil {
		return nil, err
	}
	store, err := checkpoint.Parse(bytes)
	if err != nil {
		return nil, err
	}
	s.checkpointCache.Put(key, store)
	return store.Clone(), nil
}

func (s *state) PutCheckpoints(segment uint8, store *checkpoint.Store) {
	s.checkpoints[checkpointKey{owner: store.Owner, segment: segment}] = store.Clone()
}

func (s *state) GetWindowLengths() (*checkpoint.Store, error) {
	if s.windowLengths != nil {
		return s.windowLengths.Clone(), nil
	}
	bytes, err := s.singletonDB.Get(WindowLengthsKey)
	if err != nil {
		return nil, err
	}
	return checkpoint.Parse(bytes)
}

func (s *state) PutWindowLengths(store *checkpoint.Store) {
	s.windowLengths = store.Clone()
}

func (s *state) GetProposal(proposalID ids.ID) (Proposal, error) {
	if p, ok := s.proposals[proposalID]; ok {
		return p, nil
	}
	if p, ok := s.proposalCache.Get(proposalID); ok {
		return p, nil
	}
	p, err := getRecord[Proposal](s.proposalDB, proposalID[:])
	if err != nil {
		return Proposal{}, err
	}
	s.proposalCache.Put(proposalID, p)
	return p, nil
}

func (s *state) SetProposal(p Proposal) {
	s.proposals[p.ID] = p
}

func (s *state) GetProposals(voteStart uint64, limit int) []Proposal {
	if limit <= 0 {
		return nil
	}
	proposals := make([]Proposal, 0, min(limit, s.proposalIndex.Len()))
	s.proposalIndex.AscendGreaterOrEqual(Proposal{VoteStart: voteStart}, func(p Proposal) bool {
		proposals = append(proposals, p)
		return len(proposals) < limit
	})
	return proposals
}

func (s *state) GetWeightCast(proposalID, voter ids.ID) (uint64, error) {
	key := weightCastKey{proposalID: proposalID, voter: voter}
	if weight, ok := s.weightCasts[key]; ok {
		return weight, nil
	}
	return database.GetUInt64(s.weightCastDB, key.Bytes())
}

func (s *state) SetWeightCast(proposalID, voter ids.ID, weight uint64) {
	s.weightCasts[weightCastKey{proposalID: proposalID, voter: voter}] = weight
}

func (s *state) GetVestingConfig(configID ids.ID) (VestingConfig, error) {
	if c, ok := s.vestingConfigs[configID]; ok {
		return c, nil
	}
	return getRecord[VestingConfig](s.vestingConfigDB, configID[:])
}

func (s *state) SetVestingConfig(c VestingConfig) {
	s.vestingConfigs[c.ID] = c
}

func (s *state) GetVesting(configID ids.ID, vester ids.ShortID, maturation uint64) (Vesting, error) {
	key := vestingKey{
		vestingBalanceKey: vestingBalanceKey{config: configID, vester: vester},
		maturation:        maturation,
	}
	if v, ok := s.vests[key]; ok {
		if v == nil {
			return Vesting{}, database.ErrNotFound
		}
		return *v, nil
	}
	return getRecord[Vesting](s.vestingDB, key.Bytes())
}

func (s *state) SetVesting(v Vesting) {
	key := vestingKey{
		vestingBalanceKey: vestingBalanceKey{config: v.Config, vester: v.Vester},
		maturation:        v.Maturation,
	}
	s.vests[key] = &v
}

func (s *state) DeleteVesting(configID ids.ID, vester ids.ShortID, maturation uint64) {
	key := vestingKey{
		vestingBalanceKey: vestingBalanceKey{config: configID, vester: vester},
		maturation:        maturation,
	}
	s.vests[key] = nil
}

func (s *state) GetVestingBalance(configID ids.ID, vester ids.ShortID) (VestingBalance, error) {
	key := vestingBalanceKey{config: configID, vester: vester}
	if b, ok := s.vestingBalances[key]; ok {
		if b == nil {
			return VestingBalance{}, database.ErrNotFound
		}
		return *b, nil
	}
	return getRecord[VestingBalance](s.vestingBalanceDB, key.Bytes())
}

func (s *state) SetVestingBalance(b VestingBalance) {
	s.vestingBalances[vestingBalanceKey{config: b.Config, vester: b.Vester}] = &b
}

func (s *state) DeleteVestingBalance(configID ids.ID, vester ids.ShortID) {
	s.vestingBalances[vestingBalanceKey{config: configID, vester: vester}] = nil
}

func (s *state) GetGuardianSet(index uint32) (*guardian.Set, error) {
	if set, ok := s.guardianSets[index]; ok {
		return copyGuardianSet(set), nil
	}
	set, err := getRecord[guardian.Set](s.guardianSetDB, database.PackUInt64(uint64(index)))
	if err != nil {
		return nil, err
	}
	return &set, nil
}

func (s *state) SetGuardianSet(set *guardian.Set) {
	s.guardianSets[set.Index] = copyGuardianSet(set)
	if current, err := s.GetGuardianSetIndex(); err != nil || set.Index >= current {
		index := set.Index
		s.guardianSetIndex = &index
	}
}

func (s *state) GetGuardianSetIndex() (uint32, error) {
	if s.guardianSetIndex != nil {
		return *s.guardianSetIndex, nil
	}
	index, err := database.GetUInt64(s.singletonDB, GuardianSetIndexKey)
	return uint32(index), err
}

func copyGuardianSet(set *guardian.Set) *guardian.Set {
	c := *set
	c.Keys = append([]ids.ShortID(nil), set.Keys...)
	return &c
}

func (s *state) GetSignatureBatch(batchID ids.ID) (*guardian.SignatureBatch, error) {
	if b, ok := s.signatureBatches[batchID]; ok {
		if b == nil {
			return nil, database.ErrNotFound
		}
		return copySignatureBatch(b), nil
	}
	bytes, err := s.signatureBatchDB.Get(batchID[:])
	if err != nil {
		return nil, err
	}
	return guardian.ParseSignatureBatch(bytes)
}

func (s *state) SetSignatureBatch(batchID ids.ID, b *guardian.SignatureBatch) {
	s.signatureBatches[batchID] = copySignatureBatch(b)
}

func (s *state) DeleteSignatureBatch(batchID ids.ID) {
	s.signatureBatches[batchID] = nil
}

func copySignatureBatch(b *guardian.SignatureBatch) *guardian.SignatureBatch {
	c := *b
	c.Signatures = append([]guardian.Signature(nil), b.Signatures...)
	return &c
}

func (s *state) GetMessageReceived(messageID ids.ID) (uint64, error) {
	if ts, ok := s.messagesReceived[messageID]; ok {
		return ts, nil
	}
	return database.GetUInt64(s.messageReceivedDB, messageID[:])
}

func (s *state) SetMessageReceived(messageID ids.ID, timestamp uint64) {
	s.messagesReceived[messageID] = timestamp
}

func (s *state) GetRentBalance(addr ids.ShortID) (uint64, error) {
	if balance, ok := s.rentBalances[addr]; ok {
		return balance, nil
	}
	return getBalance(s.rentBalanceDB, addr[:])
}

func (s *state) SetRentBalance(addr ids.ShortID, balance uint64) {
	s.rentBalances[addr] = balance
}

func (s *state) GetTokenBalance(account ids.ID) (uint64, error) {
	if balance, ok := s.tokenBalances[account]; ok {
		return balance, nil
	}
	return getBalance(s.tokenBalanceDB, account[:])
}

func (s *state) SetTokenBalance(account ids.ID, balance uint64) {
	s.tokenBalances[account] = balance
}

func (s *state) GetNonce(addr ids.ShortID) (uint64, error) {
	if nonce, ok := s.nonces[addr]; ok {
		return nonce, nil
	}
	return getBalance(s.nonceDB, addr[:])
}

func (s *state) SetNonce(addr ids.ShortID, nonce uint64) {
	s.nonces[addr] = nonce
}

func (s *state) Commit() error {
	defer s.Abort()
	batch, err := s.CommitBatch()
	if err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return err
	}
	s.updateCaches()
	return nil
}

func (s *state) Abort() {
	s.baseDB.Abort()
	s.reset()
}

func (s *state) CommitBatch() (database.Batch, error) {
	if err := s.write(); err != nil {
		return nil, err
	}
	return s.baseDB.CommitBatch()
}

func (s *state) Close() error {
	// Every prefixdb closes the shared versiondb, so closing more than one
	// of them reports database.ErrClosed. The caller's database stays open.
	return s.singletonDB.Close()
}

// updateCaches publishes committed modifications to the read caches and the
// proposal index. It runs only after the batch has been written.
func (s *state) updateCaches() {
	for subject, m := range s.stakeAccounts {
		s.stakeAccountCache.Put(subject, m)
	}
	for key, store := range s.checkpoints {
		s.checkpointCache.Put(key, store)
	}
	for id, p := range s.proposals {
		s.proposalCache.Put(id, p)
		s.proposalIndex.ReplaceOrInsert(p)
	}
}

func (s *state) write() error {
	return errors.Join(
		s.writeSingletons(),
		s.writeStakeAccounts(),
		s.writeCheckpoints(),
		s.writeProposals(),
		s.writeVesting(),
		s.writeGuardians(),
		s.writeBalances(),
	)
}

func (s *state) writeSingletons() error {
	if s.config != nil {
		if err := putRecord(s.singletonDB, ConfigKey, s.config); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	if s.spokeMetadataCollector != nil {
		if err := putRecord(s.singletonDB, SpokeMetadataCollectorKey, s.spokeMetadataCollector); err != nil {
			return fmt.Errorf("failed to write spoke metadata collector: %w", err)
		}
	}
	if s.spokeMessageExecutor != nil {
		if err := putRecord(s.singletonDB, SpokeMessageExecutorKey, s.spokeMessageExecutor); err != nil {
			return fmt.Errorf("failed to write spoke message executor: %w", err)
		}
	}
	if s.windowLengths != nil {
		bytes, err := s.windowLengths.Marshal()
		if err != nil {
			return fmt.Errorf("failed to marshal window lengths: %w", err)
		}
		if err := s.singletonDB.Put(WindowLengthsKey, bytes); err != nil {
			return fmt.Errorf("failed to write window lengths: %w", err)
		}
	}
	if s.guardianSetIndex != nil {
		if err := database.PutUInt64(s.singletonDB, GuardianSetIndexKey, uint64(*s.guardianSetIndex)); err != nil {
			return fmt.Errorf("failed to write guardian set index: %w", err)
		}
	}
	return nil
}

func (s *state) writeStakeAccounts() error {
	for subject, m := range s.stakeAccounts {
		if err := putRecord(s.stakeAccountDB, subject[:], &m); err != nil {
			return fmt.Errorf("failed to write stake account %s: %w", subject, err)
		}
	}
	return nil
}

func (s *state) writeCheckpoints() error {
	for key, store := range s.checkpoints {
		bytes, err := store.Marshal()
		if err != nil {
			return fmt.Errorf("failed to marshal checkpoints of %s: %w", key.owner, err)
		}
		if err := s.checkpointDB.Put(key.Bytes(), bytes); err != nil {
			return fmt.Errorf("failed to write checkpoints of %s: %w", key.owner, err)
		}
	}
	return nil
}

func (s *state) writeProposals() error {
	for id, p := range s.proposals {
		if err := putRecord(s.proposalDB, id[:], &p); err != nil {
			return fmt.Errorf("failed to write proposal %s: %w", id, err)
		}
	}
	for key, weight := range s.weightCasts {
		if err := database.PutUInt64(s.weightCastDB, key.Bytes(), weight); err != nil {
			return fmt.Errorf("failed to write weight cast: %w", err)
		}
	}
	return nil
}

func (s *state) writeVesting() error {
	for id, c := range s.vestingConfigs {
		if err := putRecord(s.vestingConfigDB, id[:], &c); err != nil {
			return fmt.Errorf("failed to write vesting config %s: %w", id, err)
		}
	}
	for key, v := range s.vests {
		var err error
		if v == nil {
			err = s.vestingDB.Delete(key.Bytes())
		} else {
			err = putRecord(s.vestingDB, key.Bytes(), v)
		}
		if err != nil {
			return fmt.Errorf("failed to write vesting: %w", err)
		}
	}
	for key, b := range s.vestingBalances {
		var err error
		if b == nil {
			err = s.vestingBalanceDB.Delete(key.Bytes())
		} else {
			err = putRecord(s.vestingBalanceDB, key.Bytes(), b)
		}
		if err != nil {
			return fmt.Errorf("failed to write vesting balance: %w", err)
		}
	}
	return nil
}

func (s *state) writeGuardians() error {
	for index, set := range s.guardianSets {
		if err := putRecord(s.guardianSetDB, database.PackUInt64(uint64(index)), set); err != nil {
			return fmt.Errorf("failed to write guardian set %d: %w", index, err)
		}
	}
	for id, b := range s.signatureBatches {
		if b == nil {
			if err := s.signatureBatchDB.Delete(id[:]); err != nil {
				return fmt.Errorf("failed to delete signature batch %s: %w", id, err)
			}
			continue
		}
		bytes, err := b.Marshal()
		if err != nil {
			return fmt.Errorf("failed to marshal signature batch %s: %w", id, err)
		}
		if err := s.signatureBatchDB.Put(id[:], bytes); err != nil {
			return fmt.Errorf("failed to write signature batch %s: %w", id, err)
		}
	}
	for id, ts := range s.messagesReceived {
		if err := database.PutUInt64(s.messageReceivedDB, id[:], ts); err != nil {
			return fmt.Errorf("failed to write received message %s: %w", id, err)
		}
	}
	return nil
}

func (s *state) writeBalances() error {
	for addr, balance := range s.rentBalances {
		if err := database.PutUInt64(s.rentBalanceDB, addr[:], balance); err != nil {
			return fmt.Errorf("failed to write rent balance: %w", err)
		}
	}
	for account, balance := range s.tokenBalances {
		if err := database.PutUInt64(s.tokenBalanceDB, account[:], balance); err != nil {
			return fmt.Errorf("failed to write token balance: %w", err)
		}
	}
	for addr, nonce := range s.nonces {
		if err := database.PutUInt64(s.nonceDB, addr[:], nonce); err != nil {
			return fmt.Errorf("failed to write nonce: %w", err)
		}
	}
	return nil
}

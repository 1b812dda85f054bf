// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import "errors"

var (
	ErrNotInitialized     = errors.New("governance is not initialized")
	ErrAlreadyInitialized = errors.New("governance is already initialized")
	ErrUnauthorized       = errors.New("signer is not authorized")
	ErrInvalidNonce       = errors.New("invalid nonce")

	// Stake accounts and checkpoints
	ErrStakeAccountExists            = errors.New("stake account already exists")
	ErrUnknownStakeAccount           = errors.New("unknown stake account")
	ErrWithdrawToUnauthorizedAccount = errors.New("withdraw to unauthorized account")
	ErrTooManyCheckpoints            = errors.New("too many checkpoints")

	// Window lengths and votes
	ErrExceedsMaxAllowableVoteWeightWindowLength = errors.New("exceeds max allowable vote weight window length")
	ErrWindowLengthNotFound                      = errors.New("window length not found")
	ErrCheckpointNotFound                        = errors.New("checkpoint not found")
	ErrMissingNextCheckpointDataAccount          = errors.New("missing next checkpoint segment")
	ErrInvalidNextCheckpointSegment              = errors.New("invalid next checkpoint segment")
	ErrNoWeight                                  = errors.New("no weight")
	ErrAllWeightCast                             = errors.New("all weight cast")
	ErrVoteWouldExceedWeight                     = errors.New("vote would exceed weight")
	ErrProposalNotFound                          = errors.New("proposal not found")

	// Guardians and proposals
	ErrGuardianSetNotFound                = errors.New("guardian set not found")
	ErrInvalidGuardianSetIndex            = errors.New("invalid guardian set index")
	ErrSignatureBatchNotFound             = errors.New("signature batch not found")
	ErrSenderChainMismatch                = errors.New("sender chain mismatch")
	ErrInvalidHubProposalMetadataContract = errors.New("invalid hub proposal metadata contract")
	ErrInvalidProposalID                  = errors.New("invalid proposal id")
	ErrProposalNotInitialized             = errors.New("proposal not initialized")
	ErrProposalAlreadyExists              = errors.New("proposal already exists")

	// Vesting
	ErrInvalidVestingAdmin            = errors.New("invalid vesting admin")
	ErrVestingConfigExists            = errors.New("vesting config already exists")
	ErrVestingConfigNotFound          = errors.New("vesting config not found")
	ErrVestingFinalized               = errors.New("vesting config finalized")
	ErrVestingUnfinalized             = errors.New("vesting config unfinalized")
	ErrVestingBalanceExists           = errors.New("vesting balance already exists")
	ErrVestingBalanceNotFound         = errors.New("vesting balance not found")
	ErrVestingBalanceNotEmpty         = errors.New("vesting balance not empty")
	ErrVestingExists                  = errors.New("vesting already exists")
	ErrVestingNotFound                = errors.New("vesting not found")
	ErrNotFullyVested                 = errors.New("not fully vested")
	ErrInsufficientVault              = errors.New("insufficient vault balance")
	ErrNoSurplus                      = errors.New("no surplus")
	ErrTransferVestToMyself           = errors.New("transfer vest to myself")
	ErrStakeAccountDelegatesMismatch  = errors.New("stake account delegates mismatch")
	ErrStakeAccountDelegationLoop     = errors.New("stake account delegation loop")
	ErrInvalidVestingTransferAccounts = errors.New("invalid vesting transfer accounts")
	ErrVestingBalanceLinkedElsewhere  = errors.New("vesting balance linked to another stake account")

	// Cross-chain messages
	ErrInvalidEmitterChain    = errors.New("invalid emitter chain")
	ErrInvalidHubDispatcher   = errors.New("invalid hub dispatcher")
	ErrInvalidWormholeChainID = errors.New("invalid wormhole chain id")
	ErrMessageAlreadyExecuted = errors.New("message already executed")
	ErrUnsupportedProgram     = errors.New("unsupported program")
	ErrNestedMessage          = errors.New("nested message")
)

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

// Allow vm to execute custom logic against the underlying operation types.
type Visitor interface {
	// Configuration:
	InitConfigTx(*InitConfigTx) error
	UpdateGovernanceAuthorityTx(*UpdateGovernanceAuthorityTx) error
	UpdateVestingAdminTx(*UpdateVestingAdminTx) error
	UpdateHubProposalMetadataTx(*UpdateHubProposalMetadataTx) error
	AddGuardianSetTx(*AddGuardianSetTx) error
	SetWindowLengthTx(*SetWindowLengthTx) error

	// Staking:
	CreateStakeAccountTx(*CreateStakeAccountTx) error
	DepositTx(*DepositTx) error
	DelegateTx(*DelegateTx) error
	WithdrawTx(*WithdrawTx) error

	// Proposals:
	PostSignaturesTx(*PostSignaturesTx) error
	CloseSignaturesTx(*CloseSignaturesTx) error
	AddProposalTx(*AddProposalTx) error
	CastVoteTx(*CastVoteTx) error

	// Vesting:
	InitializeVestingConfigTx(*InitializeVestingConfigTx) error
	CreateVestingBalanceTx(*CreateVestingBalanceTx) error
	CreateVestingTx(*CreateVestingTx) error
	CancelVestingTx(*CancelVestingTx) error
	FinalizeVestingConfigTx(*FinalizeVestingConfigTx) error
	ClaimVestingTx(*ClaimVestingTx) error
	TransferVestingTx(*TransferVestingTx) error
	CloseVestingBalanceTx(*CloseVestingBalanceTx) error
	WithdrawSurplusTx(*WithdrawSurplusTx) error
	FundVaultTx(*FundVaultTx) error

	// Cross-chain:
	ReceiveMessageTx(*ReceiveMessageTx) error
}

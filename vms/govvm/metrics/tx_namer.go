// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import "github.com/luxfi/multigov/vms/govvm/txs"

var _ txs.Visitor = (*txNamer)(nil)

// txNamer labels an operation by its type.
type txNamer struct {
	name string
}

func (n *txNamer) InitConfigTx(*txs.InitConfigTx) error {
	n.name = "init_config"
	return nil
}

func (n *txNamer) UpdateGovernanceAuthorityTx(*txs.UpdateGovernanceAuthorityTx) error {
	n.name = "update_governance_authority"
	return nil
}

func (n *txNamer) UpdateVestingAdminTx(*txs.UpdateVestingAdminTx) error {
	n.name = "update_vesting_admin"
	return nil
}

func (n *txNamer) UpdateHubProposalMetadataTx(*txs.UpdateHubProposalMetadataTx) error {
	n.name = "update_hub_proposal_metadata"
	return nil
}

func (n *txNamer) AddGuardianSetTx(*txs.AddGuardianSetTx) error {
	n.name = "add_guardian_set"
	return nil
}

func (n *txNamer) SetWindowLengthTx(*txs.SetWindowLengthTx) error {
	n.name = "set_window_length"
	return nil
}

func (n *txNamer) CreateStakeAccountTx(*txs.CreateStakeAccountTx) error {
	n.name = "create_stake_account"
	return nil
}

func (n *txNamer) DepositTx(*txs.DepositTx) error {
	n.name = "deposit"
	return nil
}

func (n *txNamer) DelegateTx(*txs.DelegateTx) error {
	n.name = "delegate"
	return nil
}

func (n *txNamer) WithdrawTx(*txs.WithdrawTx) error {
	n.name = "withdraw"
	return nil
}

func (n *txNamer) PostSignaturesTx(*txs.PostSignaturesTx) error {
	n.name = "post_signatures"
	return nil
}

func (n *txNamer) CloseSignaturesTx(*txs.CloseSignaturesTx) error {
	n.name = "close_signatures"
	return nil
}

func (n *txNamer) AddProposalTx(*txs.AddProposalTx) error {
	n.name = "add_proposal"
	return nil
}

func (n *txNamer) CastVoteTx(*txs.CastVoteTx) error {
	n.name = "cast_vote"
	return nil
}

func (n *txNamer) InitializeVestingConfigTx(*txs.InitializeVestingConfigTx) error {
	n.name = "initialize_vesting_config"
	return nil
}

func (n *txNamer) CreateVestingBalanceTx(*txs.CreateVestingBalanceTx) error {
	n.name = "create_vesting_balance"
	return nil
}

func (n *txNamer) CreateVestingTx(*txs.CreateVestingTx) error {
	n.name = "create_vesting"
	return nil
}

func (n *txNamer) CancelVestingTx(*txs.CancelVestingTx) error {
	n.name = "cancel_vesting"
	return nil
}

func (n *txNamer) FinalizeVestingConfigTx(*txs.FinalizeVestingConfigTx) error {
	n.name = "finalize_vesting_config"
	return nil
}

func (n *txNamer) ClaimVestingTx(*txs.ClaimVestingTx) error {
	n.name = "claim_vesting"
	return nil
}

func (n *txNamer) TransferVestingTx(*txs.TransferVestingTx) error {
	n.name = "transfer_vesting"
	return nil
}

func (n *txNamer) CloseVestingBalanceTx(*txs.CloseVestingBalanceTx) error {
	n.name = "close_vesting_balance"
	return nil
}

func (n *txNamer) WithdrawSurplusTx(*txs.WithdrawSurplusTx) error {
	n.name = "withdraw_surplus"
	return nil
}

func (n *txNamer) FundVaultTx(*txs.FundVaultTx) error {
	n.name = "fund_vault"
	return nil
}

func (n *txNamer) ReceiveMessageTx(*txs.ReceiveMessageTx) error {
	n.name = "receive_message"
	return nil
}

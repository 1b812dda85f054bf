// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import (
	"errors"
	"math"

	"github.com/luxfi/codec"
	"github.com/luxfi/codec/linearcodec"
)

const CodecVersion = 0

var Codec codec.Manager

func init() {
	Codec = codec.NewManager(math.MaxInt32)
	lc := linearcodec.NewDefault()

	// The registration order fixes the type ids; append only.
	err := errors.Join(
		lc.RegisterType(&InitConfigTx{}),
		lc.RegisterType(&UpdateGovernanceAuthorityTx{}),
		lc.RegisterType(&UpdateVestingAdminTx{}),
		lc.RegisterType(&UpdateHubProposalMetadataTx{}),
		lc.RegisterType(&AddGuardianSetTx{}),
		lc.RegisterType(&SetWindowLengthTx{}),
		lc.RegisterType(&CreateStakeAccountTx{}),
		lc.RegisterType(&DepositTx{}),
		lc.RegisterType(&DelegateTx{}),
		lc.RegisterType(&WithdrawTx{}),
		lc.RegisterType(&PostSignaturesTx{}),
		lc.RegisterType(&CloseSignaturesTx{}),
		lc.RegisterType(&AddProposalTx{}),
		lc.RegisterType(&CastVoteTx{}),
		lc.RegisterType(&InitializeVestingConfigTx{}),
		lc.RegisterType(&CreateVestingBalanceTx{}),
		lc.RegisterType(&CreateVestingTx{}),
		lc.RegisterType(&CancelVestingTx{}),
		lc.RegisterType(&FinalizeVestingConfigTx{}),
		lc.RegisterType(&ClaimVestingTx{}),
		lc.RegisterType(&TransferVestingTx{}),
		lc.RegisterType(&CloseVestingBalanceTx{}),
		lc.RegisterType(&WithdrawSurplusTx{}),
		lc.RegisterType(&ReceiveMessageTx{}),
		lc.RegisterType(&FundVaultTx{}),
		Codec.RegisterCodec(CodecVersion, lc),
	)
	if err != nil {
		panic(err)
	}
}

// MarshalUnsigned encodes [tx] without a signature, as carried by a hub
// message instruction.
func MarshalUnsigned(tx UnsignedTx) ([]byte, error) {
	return Codec.Marshal(CodecVersion, &tx)
}

// ParseUnsigned decodes an operation encoded by MarshalUnsigned.
func ParseUnsigned(bytes []byte) (UnsignedTx, error) {
	var tx UnsignedTx
	if _, err := Codec.Unmarshal(bytes, &tx); err != nil {
		return nil, err
	}
	return tx, nil
}

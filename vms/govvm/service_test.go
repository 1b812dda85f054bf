// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package govvm

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"

	"github.com/luxfi/multigov/vms/govvm/state"
	"github.com/luxfi/multigov/vms/govvm/txs"
	"github.com/luxfi/multigov/vms/govvm/txs/executor"
)

func TestServiceIssueTx(t *testing.T) {
	require := require.New(t)

	vm := newTestVM(t, nil)
	vm.Clock().SetUnix(100)
	vm.initialize(t)
	service := &Service{vm: vm.VM}

	tx := vm.sign(t, testVoter, &txs.CreateStakeAccountTx{})
	reply := IssueTxReply{}
	require.NoError(service.IssueTx(nil, &IssueTxArgs{Tx: EncodeHex(tx.Bytes())}, &reply))
	require.Equal(tx.ID(), reply.TxID)
	require.Equal(txs.Address(testVoter), reply.Signer)
	require.Empty(reply.Events)

	require.NoError(service.IssueTx(nil, &IssueTxArgs{
		Tx: EncodeHex(vm.sign(t, testVoter, &txs.DepositTx{Amount: 250}).Bytes()),
	}, &reply))
	subject := state.StakeAccountID(txs.Address(testVoter))
	require.NoError(service.IssueTx(nil, &IssueTxArgs{
		Tx: EncodeHex(vm.sign(t, testVoter, &txs.DelegateTx{Delegatee: subject}).Bytes()),
	}, &reply))
	require.NotEmpty(reply.Events)
	require.Equal("DelegateChanged", reply.Events[0].Name)

	account := GetStakeAccountReply{}
	require.NoError(service.GetStakeAccount(nil, &GetStakeAccountArgs{Owner: txs.Address(testVoter)}, &account))
	require.Equal(subject, account.Subject)
	require.Equal(subject, account.Delegate)
	require.Equal(uint64(250), uint64(account.RecordedBalance))

	nonce := GetNonceReply{}
	require.NoError(service.GetNonce(nil, &GetNonceArgs{Address: txs.Address(testVoter)}, &nonce))
	require.Equal(uint64(3), uint64(nonce.Nonce))

	// The same signed bytes are accepted once.
	err := service.IssueTx(nil, &IssueTxArgs{Tx: EncodeHex(tx.Bytes())}, &reply)
	require.ErrorIs(err, executor.ErrInvalidNonce)

	checkpoints := GetCheckpointsReply{}
	require.NoError(service.GetCheckpoints(nil, &GetCheckpointsArgs{Subject: subject}, &checkpoints))
	require.Equal([]APICheckpoint{{Timestamp: 100, Value: 250}}, checkpoints.Checkpoints)

	require.NoError(service.GetWindowLengths(nil, nil, &checkpoints))
	require.Equal([]APICheckpoint{{Timestamp: 100, Value: testWindowLength}}, checkpoints.Checkpoints)

	cfg := GetConfigReply{}
	require.NoError(service.GetConfig(nil, nil, &cfg))
	require.Equal(txs.Address(testAuthority), cfg.GovernanceAuthority)
	require.Equal(uint16(testHubChainID), uint16(cfg.HubChainID))
	require.Equal(uint16(testSpokeChainID), uint16(cfg.SpokeChainID))
	require.Equal(ids.ID{0xbb}, cfg.HubDispatcher)
}

func TestServiceIssueTxErrors(t *testing.T) {
	tests := map[string]struct {
		tx          string
		expectedErr error
	}{
		"missing prefix": {
			tx:          "00",
			expectedErr: errMissingHexPrefix,
		},
		"not hex": {
			tx: "0xzz",
		},
		"not a tx": {
			tx: "0x0000",
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			vm := newTestVM(t, nil)
			service := &Service{vm: vm.VM}
			err := service.IssueTx(nil, &IssueTxArgs{Tx: test.tx}, &IssueTxReply{})
			if test.expectedErr != nil {
				require.ErrorIs(t, err, test.expectedErr)
				return
			}
			require.Error(t, err) //nolint:forbidigo // decoding errors are not exported
		})
	}
}

func TestServiceMissingRecords(t *testing.T) {
	require := require.New(t)

	vm := newTestVM(t, nil)
	service := &Service{vm: vm.VM}

	err := service.GetStakeAccount(nil, &GetStakeAccountArgs{Owner: ids.ShortID{1}}, &GetStakeAccountReply{})
	require.ErrorIs(err, database.ErrNotFound)
	err = service.GetProposal(nil, &GetProposalArgs{ProposalID: ids.ID{1}}, &APIProposal{})
	require.ErrorIs(err, database.ErrNotFound)
	err = service.GetConfig(nil, nil, &GetConfigReply{})
	require.ErrorIs(err, database.ErrNotFound)
	err = service.GetVestingBalance(nil, &GetVestingBalanceArgs{}, &GetVestingBalanceReply{})
	require.ErrorIs(err, database.ErrNotFound)

	proposals := GetProposalsReply{}
	require.NoError(service.GetProposals(nil, &GetProposalsArgs{}, &proposals))
	require.Empty(proposals.Proposals)
}

func TestServiceHandler(t *testing.T) {
	require := require.New(t)

	vm := newTestVM(t, nil)
	vm.initialize(t)
	handlers, err := vm.CreateHandlers()
	require.NoError(err)
	server := httptest.NewServer(handlers[""])
	defer server.Close()

	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "gov.GetConfig",
		"params":  struct{}{},
	})
	require.NoError(err)
	req, err := http.NewRequest(http.MethodPost, server.URL, bytes.NewReader(body))
	require.NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Close = true
	resp, err := server.Client().Do(req)
	require.NoError(err)
	defer resp.Body.Close()
	require.Equal(http.StatusOK, resp.StatusCode)

	var decoded struct {
		Result GetConfigReply `json:"result"`
	}
	require.NoError(json.NewDecoder(resp.Body).Decode(&decoded))
	require.Equal(txs.Address(testAuthority), decoded.Result.VestingAdmin)
	require.Equal(uint16(testHubChainID), uint16(decoded.Result.HubChainID))
}

// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package custody

import (
	"errors"
	"fmt"

	"github.com/luxfi/ids"

	"github.com/luxfi/multigov/utils/math"
	"github.com/luxfi/multigov/vms/govvm/state"
)

//go:generate go run go.uber.org/mock/mockgen -package=${GOPACKAGE}mock -destination=${GOPACKAGE}mock/ledger.go -mock_names=Ledger=Ledger . Ledger

var (
	_ Ledger = (*ledger)(nil)

	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSelfTransfer      = errors.New("transfer to the source account")
)

// Ledger moves tokens between custody accounts. Governance never creates or
// destroys tokens; it only observes balances and requests transfers.
type Ledger interface {
	Balance(account ids.ID) (uint64, error)
	Transfer(from, to ids.ID, amount uint64) error
}

type ledger struct {
	balances state.Balances
}

// New returns a ledger whose balances live in [balances], so transfers commit
// and abort together with the operation that requested them.
func New(balances state.Balances) Ledger {
	return &ledger{balances: balances}
}

func (l *ledger) Balance(account ids.ID) (uint64, error) {
	return l.balances.GetTokenBalance(account)
}

func (l *ledger) Transfer(from, to ids.ID, amount uint64) error {
	if from == to {
		return ErrSelfTransfer
	}
	fromBalance, err := l.balances.GetTokenBalance(from)
	if err != nil {
		return err
	}
	newFromBalance, err := math.Sub(fromBalance, amount)
	if err != nil {
		return fmt.Errorf("%w: %s holds %d, need %d", ErrInsufficientFunds, from, fromBalance, amount)
	}
	toBalance, err := l.balances.GetTokenBalance(to)
	if err != nil {
		return err
	}
	newToBalance, err := math.Add(toBalance, amount)
	if err != nil {
		return err
	}
	l.balances.SetTokenBalance(from, newFromBalance)
	l.balances.SetTokenBalance(to, newToBalance)
	return nil
}

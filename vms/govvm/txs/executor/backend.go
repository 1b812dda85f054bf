// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import (
	"github.com/luxfi/log"

	"github.com/luxfi/multigov/utils/timer/mockable"
	"github.com/luxfi/multigov/vms/govvm/config"
	"github.com/luxfi/multigov/vms/govvm/custody"
	"github.com/luxfi/multigov/vms/govvm/message"
	"github.com/luxfi/multigov/vms/govvm/rent"
	"github.com/luxfi/multigov/vms/govvm/state"
)

type Backend struct {
	Config *config.Config
	Clk    *mockable.Clock
	Rent   rent.Calculator
	Log    log.Logger

	// Airlock runs relayed instructions addressed to other programs. Nil
	// rejects them.
	Airlock Airlock
	// NewLedger returns the custody ledger an operation transfers tokens
	// with. Nil uses the state-backed ledger.
	NewLedger func(state.Chain) custody.Ledger
}

// Airlock dispatches a verified hub instruction to a program other than
// governance.
type Airlock interface {
	Dispatch(chain state.Chain, instruction message.Instruction) error
}

func (b *Backend) ledger(chain state.Chain) custody.Ledger {
	if b.NewLedger != nil {
		return b.NewLedger(chain)
	}
	return custody.New(chain)
}

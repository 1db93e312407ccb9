// SPDX-License-Identifier: BUSL-1.1
//
// Copyright (C) 2025, NASD Inc. All rights reserved.
// Use of this software is governed by the Business Source License included
// in the LICENSE file of this repository and at www.mariadb.com/bsl11.
//
// ANY USE OF THE LICENSED WORK IN VIOLATION OF THIS LICENSE WILL AUTOMATICALLY
// TERMINATE YOUR RIGHTS UNDER THIS LICENSE FOR THE CURRENT AND ALL OTHER
// VERSIONS OF THE LICENSED WORK.
//
// THIS LICENSE DOES NOT GRANT YOU ANY RIGHT IN ANY TRADEMARK OR LOGO OF
// LICENSOR OR ITS AFFILIATES (PROVIDED THAT YOU MAY USE A TRADEMARK OR LOGO OF
// LICENSOR AS EXPRESSLY REQUIRED BY THIS LICENSE).
//
// TO THE EXTENT PERMITTED BY APPLICABLE LAW, THE LICENSED WORK IS PROVIDED ON
// AN "AS IS" BASIS. LICENSOR HEREBY DISCLAIMS ALL WARRANTIES AND CONDITIONS,
// EXPRESS OR IMPLIED, INCLUDING (WITHOUT LIMITATION) WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE, NON-INFRINGEMENT, AND
// TITLE.

package types

import (
	"fmt"

	"cosmossdk.io/math"
)

// HoldingRecord is one vault's position in one asset, flattened for export.
type HoldingRecord struct {
	VaultId uint64   `json:"vault_id"`
	Asset   string   `json:"asset"`
	Amount  math.Int `json:"amount"`
}

// SharePosition is one holder's share balance in one vault.
type SharePosition struct {
	VaultId uint64   `json:"vault_id"`
	Address string   `json:"address"`
	Shares  math.Int `json:"shares"`
}

// PendingDepositRecord is one queued deposit awaiting the next settlement.
type PendingDepositRecord struct {
	VaultId   uint64   `json:"vault_id"`
	Depositor string   `json:"depositor"`
	Amount    math.Int `json:"amount"`
}

// PendingWithdrawalRecord is one queued withdrawal awaiting the next
// settlement.
type PendingWithdrawalRecord struct {
	VaultId uint64   `json:"vault_id"`
	Holder  string   `json:"holder"`
	Shares  math.Int `json:"shares"`
}

// GenesisState is the initial module state. It carries every durable table:
// vault accounting, asset and adapter registrations, share positions,
// holdings and both request queues. Only per-epoch scratch state (the
// accepted plan, its orders, estimates and captured prices) is excluded: an
// exported chain always resumes from an Idle phase boundary.
type GenesisState struct {
	Params             Params                    `json:"params"`
	Epoch              uint64                    `json:"epoch"`
	Vaults             []VaultRecord             `json:"vaults"`
	Assets             []AssetInfo               `json:"assets"`
	Adapters           []AdapterConfig           `json:"adapters"`
	Holdings           []HoldingRecord           `json:"holdings"`
	SharePositions     []SharePosition           `json:"share_positions"`
	PendingDeposits    []PendingDepositRecord    `json:"pending_deposits"`
	PendingWithdrawals []PendingWithdrawalRecord `json:"pending_withdrawals"`
}

func DefaultGenesisState() GenesisState {
	return GenesisState{
		Params: DefaultParams(),
		Epoch:  0,
	}
}

// Validate runs stateless genesis checks.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	for _, holding := range gs.Holdings {
		if holding.Amount.IsNil() || !holding.Amount.IsPositive() {
			return fmt.Errorf("holding of vault %d in %s must be positive", holding.VaultId, holding.Asset)
		}
	}
	for _, position := range gs.SharePositions {
		if position.Shares.IsNil() || !position.Shares.IsPositive() {
			return fmt.Errorf("share position of %s in vault %d must be positive", position.Address, position.VaultId)
		}
	}
	for _, deposit := range gs.PendingDeposits {
		if deposit.Amount.IsNil() || !deposit.Amount.IsPositive() {
			return fmt.Errorf("pending deposit of %s in vault %d must be positive", deposit.Depositor, deposit.VaultId)
		}
	}
	for _, withdrawal := range gs.PendingWithdrawals {
		if withdrawal.Shares.IsNil() || !withdrawal.Shares.IsPositive() {
			return fmt.Errorf("pending withdrawal of %s in vault %d must be positive", withdrawal.Holder, withdrawal.VaultId)
		}
	}

	return nil
}

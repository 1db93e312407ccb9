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

package keeper

import (
	"context"
	"time"

	"cosmossdk.io/collections"
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"meridian.solara.xyz/types"
)

// InitGenesis initialises the module state. The first epoch deadline is one
// epoch length after genesis time.
func (k *Keeper) InitGenesis(ctx context.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}

	if err := k.SetParams(ctx, gs.Params); err != nil {
		return err
	}
	if err := k.EpochNumber.Set(ctx, gs.Epoch); err != nil {
		return err
	}
	if err := k.SetPhase(ctx, types.PhaseIdle); err != nil {
		return err
	}

	genesisTime := k.header.GetHeaderInfo(ctx).Time
	deadline := genesisTime.Add(time.Duration(gs.Params.EpochLength) * time.Second)
	if err := k.SetEpochDeadline(ctx, deadline); err != nil {
		return err
	}

	maxID := uint64(0)
	for _, vault := range gs.Vaults {
		if err := k.SetVault(ctx, vault); err != nil {
			return err
		}
		if vault.Id >= maxID {
			maxID = vault.Id + 1
		}
	}
	if err := k.VaultNextID.Set(ctx, maxID); err != nil {
		return err
	}

	for _, asset := range gs.Assets {
		if err := k.Assets.Set(ctx, asset.Id, asset); err != nil {
			return err
		}
	}

	for _, adapter := range gs.Adapters {
		if err := k.Adapters.Set(ctx, adapter.Asset, adapter); err != nil {
			return err
		}
	}

	for _, holding := range gs.Holdings {
		if err := k.SetHolding(ctx, holding.VaultId, holding.Asset, holding.Amount); err != nil {
			return err
		}
	}

	for _, position := range gs.SharePositions {
		holder, err := k.address.StringToBytes(position.Address)
		if err != nil {
			return sdkerrors.Wrapf(err, "unable to decode share holder %s", position.Address)
		}
		if err := k.SetUserShares(ctx, position.VaultId, holder, position.Shares); err != nil {
			return err
		}
	}

	for _, deposit := range gs.PendingDeposits {
		depositor, err := k.address.StringToBytes(deposit.Depositor)
		if err != nil {
			return sdkerrors.Wrapf(err, "unable to decode depositor %s", deposit.Depositor)
		}
		if err := k.SetPendingDeposit(ctx, deposit.VaultId, depositor, deposit.Amount); err != nil {
			return err
		}
	}

	for _, withdrawal := range gs.PendingWithdrawals {
		holder, err := k.address.StringToBytes(withdrawal.Holder)
		if err != nil {
			return sdkerrors.Wrapf(err, "unable to decode withdrawal holder %s", withdrawal.Holder)
		}
		if err := k.SetPendingWithdrawal(ctx, withdrawal.VaultId, holder, withdrawal.Shares); err != nil {
			return err
		}
	}

	return nil
}

// ExportGenesis exports the module state. Export is only valid at an Idle
// phase boundary: every durable table crosses the export, while per-epoch
// scratch state (the plan, its orders, estimates and captured prices) does
// not.
func (k *Keeper) ExportGenesis(ctx context.Context) (types.GenesisState, error) {
	gs := types.GenesisState{
		Params: k.GetParams(ctx),
		Epoch:  k.GetEpoch(ctx),
	}

	if err := k.IterateVaults(ctx, func(vault types.VaultRecord) (bool, error) {
		gs.Vaults = append(gs.Vaults, vault)
		return false, nil
	}); err != nil {
		return types.GenesisState{}, err
	}

	if err := k.Assets.Walk(ctx, nil, func(_ string, asset types.AssetInfo) (bool, error) {
		gs.Assets = append(gs.Assets, asset)
		return false, nil
	}); err != nil {
		return types.GenesisState{}, err
	}

	if err := k.Adapters.Walk(ctx, nil, func(_ string, adapter types.AdapterConfig) (bool, error) {
		gs.Adapters = append(gs.Adapters, adapter)
		return false, nil
	}); err != nil {
		return types.GenesisState{}, err
	}

	if err := k.Holdings.Walk(ctx, nil, func(key collections.Pair[uint64, string], amount math.Int) (bool, error) {
		gs.Holdings = append(gs.Holdings, types.HoldingRecord{
			VaultId: key.K1(),
			Asset:   key.K2(),
			Amount:  amount,
		})
		return false, nil
	}); err != nil {
		return types.GenesisState{}, err
	}

	if err := k.UserShares.Walk(ctx, nil, func(key collections.Pair[uint64, []byte], shares math.Int) (bool, error) {
		holder, err := k.address.BytesToString(key.K2())
		if err != nil {
			return true, sdkerrors.Wrap(err, "unable to encode share holder")
		}
		gs.SharePositions = append(gs.SharePositions, types.SharePosition{
			VaultId: key.K1(),
			Address: holder,
			Shares:  shares,
		})
		return false, nil
	}); err != nil {
		return types.GenesisState{}, err
	}

	if err := k.PendingDeposits.Walk(ctx, nil, func(key collections.Pair[uint64, []byte], amount math.Int) (bool, error) {
		depositor, err := k.address.BytesToString(key.K2())
		if err != nil {
			return true, sdkerrors.Wrap(err, "unable to encode depositor")
		}
		gs.PendingDeposits = append(gs.PendingDeposits, types.PendingDepositRecord{
			VaultId:   key.K1(),
			Depositor: depositor,
			Amount:    amount,
		})
		return false, nil
	}); err != nil {
		return types.GenesisState{}, err
	}

	if err := k.PendingWithdrawals.Walk(ctx, nil, func(key collections.Pair[uint64, []byte], shares math.Int) (bool, error) {
		holder, err := k.address.BytesToString(key.K2())
		if err != nil {
			return true, sdkerrors.Wrap(err, "unable to encode withdrawal holder")
		}
		gs.PendingWithdrawals = append(gs.PendingWithdrawals, types.PendingWithdrawalRecord{
			VaultId: key.K1(),
			Holder:  holder,
			Shares:  shares,
		})
		return false, nil
	}); err != nil {
		return types.GenesisState{}, err
	}

	return gs, nil
}

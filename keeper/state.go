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
	"errors"
	"time"

	"cosmossdk.io/collections"
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"meridian.solara.xyz/types"
)

// GetParams returns the module parameters, falling back to defaults when the
// store has never been initialised.
func (k *Keeper) GetParams(ctx context.Context) types.Params {
	params, err := k.Params.Get(ctx)
	if err != nil {
		return types.DefaultParams()
	}
	return params
}

func (k *Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return sdkerrors.Wrap(types.ErrInvalidRequest, err.Error())
	}
	return k.Params.Set(ctx, params)
}

// GetPhase returns the orchestrator's current phase, defaulting to Idle.
func (k *Keeper) GetPhase(ctx context.Context) types.Phase {
	phase, err := k.Phase.Get(ctx)
	if err != nil {
		return types.PhaseIdle
	}
	return types.Phase(phase)
}

func (k *Keeper) SetPhase(ctx context.Context, phase types.Phase) error {
	return k.Phase.Set(ctx, int32(phase))
}

// GetEpoch returns the current epoch number, starting at zero.
func (k *Keeper) GetEpoch(ctx context.Context) uint64 {
	epoch, err := k.EpochNumber.Get(ctx)
	if err != nil {
		return 0
	}
	return epoch
}

// GetEpochDeadline returns the recorded end of the current epoch. A zero time
// means no deadline has been recorded yet.
func (k *Keeper) GetEpochDeadline(ctx context.Context) time.Time {
	deadline, err := k.EpochDeadline.Get(ctx)
	if err != nil || deadline == 0 {
		return time.Time{}
	}
	return time.Unix(deadline, 0).UTC()
}

func (k *Keeper) SetEpochDeadline(ctx context.Context, deadline time.Time) error {
	return k.EpochDeadline.Set(ctx, deadline.Unix())
}

// GetLastCommittedStateHash returns the commitment recorded by the most
// recent phase transition, or nil before the first transition.
func (k *Keeper) GetLastCommittedStateHash(ctx context.Context) []byte {
	hash, err := k.LastCommittedStateHash.Get(ctx)
	if err != nil {
		return nil
	}
	return hash
}

// GetOrderCursor returns the index of the next unprocessed execution order.
func (k *Keeper) GetOrderCursor(ctx context.Context) uint64 {
	cursor, err := k.OrderCursor.Get(ctx)
	if err != nil {
		return 0
	}
	return cursor
}

// GetOrderCount returns the number of orders in the accepted execution plan.
func (k *Keeper) GetOrderCount(ctx context.Context) uint64 {
	count, err := k.OrderCount.Get(ctx)
	if err != nil {
		return 0
	}
	return count
}

// GetPlanHash returns the fingerprint of the accepted execution plan, or nil
// when no plan has been accepted this epoch.
func (k *Keeper) GetPlanHash(ctx context.Context) []byte {
	hash, err := k.PlanHash.Get(ctx)
	if err != nil {
		return nil
	}
	return hash
}

// GetVault returns the persisted record of a vault.
func (k *Keeper) GetVault(ctx context.Context, id uint64) (types.VaultRecord, error) {
	vault, err := k.Vaults.Get(ctx, id)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.VaultRecord{}, sdkerrors.Wrapf(types.ErrVaultNotFound, "vault %d does not exist", id)
		}
		return types.VaultRecord{}, sdkerrors.Wrapf(err, "unable to get vault %d from state", id)
	}
	return vault, nil
}

func (k *Keeper) SetVault(ctx context.Context, vault types.VaultRecord) error {
	return k.Vaults.Set(ctx, vault.Id, vault)
}

// IterateVaults walks all registered vaults in ascending id order.
func (k *Keeper) IterateVaults(ctx context.Context, fn func(vault types.VaultRecord) (stop bool, err error)) error {
	return k.Vaults.Walk(ctx, nil, func(_ uint64, vault types.VaultRecord) (bool, error) {
		return fn(vault)
	})
}

// NextVaultID reserves and returns the next vault identifier.
func (k *Keeper) NextVaultID(ctx context.Context) (uint64, error) {
	id, err := k.VaultNextID.Get(ctx)
	if err != nil && !errors.Is(err, collections.ErrNotFound) {
		return 0, sdkerrors.Wrap(err, "unable to get next vault id from state")
	}

	if err := k.VaultNextID.Set(ctx, id+1); err != nil {
		return 0, sdkerrors.Wrap(err, "unable to set next vault id to state")
	}

	return id, nil
}

// GetHolding returns a vault's position in one asset, zero when absent.
func (k *Keeper) GetHolding(ctx context.Context, vaultID uint64, asset string) math.Int {
	amount, err := k.Holdings.Get(ctx, collections.Join(vaultID, asset))
	if err != nil {
		return math.ZeroInt()
	}
	return amount
}

// SetHolding records a vault's position in one asset, removing the entry
// when the amount reaches zero so holdings stay iterable without tombstones.
func (k *Keeper) SetHolding(ctx context.Context, vaultID uint64, asset string, amount math.Int) error {
	key := collections.Join(vaultID, asset)
	if !amount.IsPositive() {
		if err := k.Holdings.Remove(ctx, key); err != nil {
			return sdkerrors.Wrapf(err, "unable to remove holding %s of vault %d", asset, vaultID)
		}
		return nil
	}
	return k.Holdings.Set(ctx, key, amount)
}

// IterateVaultHoldings walks one vault's holdings in ascending asset order.
func (k *Keeper) IterateVaultHoldings(ctx context.Context, vaultID uint64, fn func(asset string, amount math.Int) (stop bool, err error)) error {
	rng := collections.NewPrefixedPairRange[uint64, string](vaultID)
	return k.Holdings.Walk(ctx, rng, func(key collections.Pair[uint64, string], amount math.Int) (bool, error) {
		return fn(key.K2(), amount)
	})
}

// GetPendingDeposit returns a depositor's queued amount, zero when absent.
func (k *Keeper) GetPendingDeposit(ctx context.Context, vaultID uint64, depositor []byte) math.Int {
	amount, err := k.PendingDeposits.Get(ctx, collections.Join(vaultID, depositor))
	if err != nil {
		return math.ZeroInt()
	}
	return amount
}

func (k *Keeper) SetPendingDeposit(ctx context.Context, vaultID uint64, depositor []byte, amount math.Int) error {
	key := collections.Join(vaultID, depositor)
	if !amount.IsPositive() {
		if err := k.PendingDeposits.Remove(ctx, key); err != nil {
			return sdkerrors.Wrapf(err, "unable to remove pending deposit of vault %d", vaultID)
		}
		return nil
	}
	return k.PendingDeposits.Set(ctx, key, amount)
}

// IteratePendingDeposits walks one vault's deposit queue.
func (k *Keeper) IteratePendingDeposits(ctx context.Context, vaultID uint64, fn func(depositor []byte, amount math.Int) (stop bool, err error)) error {
	rng := collections.NewPrefixedPairRange[uint64, []byte](vaultID)
	return k.PendingDeposits.Walk(ctx, rng, func(key collections.Pair[uint64, []byte], amount math.Int) (bool, error) {
		return fn(key.K2(), amount)
	})
}

// GetPendingWithdrawal returns a holder's queued share amount, zero when
// absent.
func (k *Keeper) GetPendingWithdrawal(ctx context.Context, vaultID uint64, holder []byte) math.Int {
	shares, err := k.PendingWithdrawals.Get(ctx, collections.Join(vaultID, holder))
	if err != nil {
		return math.ZeroInt()
	}
	return shares
}

func (k *Keeper) SetPendingWithdrawal(ctx context.Context, vaultID uint64, holder []byte, shares math.Int) error {
	key := collections.Join(vaultID, holder)
	if !shares.IsPositive() {
		if err := k.PendingWithdrawals.Remove(ctx, key); err != nil {
			return sdkerrors.Wrapf(err, "unable to remove pending withdrawal of vault %d", vaultID)
		}
		return nil
	}
	return k.PendingWithdrawals.Set(ctx, key, shares)
}

// IteratePendingWithdrawals walks one vault's withdrawal queue.
func (k *Keeper) IteratePendingWithdrawals(ctx context.Context, vaultID uint64, fn func(holder []byte, shares math.Int) (stop bool, err error)) error {
	rng := collections.NewPrefixedPairRange[uint64, []byte](vaultID)
	return k.PendingWithdrawals.Walk(ctx, rng, func(key collections.Pair[uint64, []byte], shares math.Int) (bool, error) {
		return fn(key.K2(), shares)
	})
}

// GetUserShares returns a holder's share balance in one vault, zero when
// absent.
func (k *Keeper) GetUserShares(ctx context.Context, vaultID uint64, holder []byte) math.Int {
	shares, err := k.UserShares.Get(ctx, collections.Join(vaultID, holder))
	if err != nil {
		return math.ZeroInt()
	}
	return shares
}

func (k *Keeper) SetUserShares(ctx context.Context, vaultID uint64, holder []byte, shares math.Int) error {
	key := collections.Join(vaultID, holder)
	if !shares.IsPositive() {
		if err := k.UserShares.Remove(ctx, key); err != nil {
			return sdkerrors.Wrapf(err, "unable to remove user shares of vault %d", vaultID)
		}
		return nil
	}
	return k.UserShares.Set(ctx, key, shares)
}

// GetIntent returns the active intent for a vault, reporting whether one has
// been submitted.
func (k *Keeper) GetIntent(ctx context.Context, vaultID uint64) (types.Intent, bool) {
	intent, err := k.Intents.Get(ctx, vaultID)
	if err != nil {
		return types.Intent{}, false
	}
	return intent, true
}

// GetAsset returns the whitelist entry for an asset.
func (k *Keeper) GetAsset(ctx context.Context, id string) (types.AssetInfo, error) {
	asset, err := k.Assets.Get(ctx, id)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.AssetInfo{}, sdkerrors.Wrapf(types.ErrAssetNotWhitelisted, "asset %s is not whitelisted", id)
		}
		return types.AssetInfo{}, sdkerrors.Wrapf(err, "unable to get asset %s from state", id)
	}
	return asset, nil
}

// HasAsset reports whitelist membership without decoding the entry.
func (k *Keeper) HasAsset(ctx context.Context, id string) bool {
	has, _ := k.Assets.Has(ctx, id)
	return has
}

// GetAdapter returns the execution adapter registered for an asset.
func (k *Keeper) GetAdapter(ctx context.Context, asset string) (types.AdapterConfig, error) {
	adapter, err := k.Adapters.Get(ctx, asset)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.AdapterConfig{}, sdkerrors.Wrapf(types.ErrAdapterNotRegistered, "no adapter registered for asset %s", asset)
		}
		return types.AdapterConfig{}, sdkerrors.Wrapf(err, "unable to get adapter for asset %s from state", asset)
	}
	return adapter, nil
}

// GetEpochPrice returns the valuations captured for an asset at estimation
// time this epoch.
func (k *Keeper) GetEpochPrice(ctx context.Context, asset string) (types.PricePoint, error) {
	price, err := k.EpochPrices.Get(ctx, asset)
	if err != nil {
		return types.PricePoint{}, sdkerrors.Wrapf(err, "no epoch price recorded for asset %s", asset)
	}
	return price, nil
}

// clearEpochScratch removes all per-epoch working state: the accepted plan,
// its orders and cursor, and the estimation results. Called when an epoch
// returns to Idle.
func (k *Keeper) clearEpochScratch(ctx context.Context) error {
	if err := k.Orders.Clear(ctx, nil); err != nil {
		return sdkerrors.Wrap(err, "unable to clear execution orders")
	}
	if err := k.EpochEstimates.Clear(ctx, nil); err != nil {
		return sdkerrors.Wrap(err, "unable to clear epoch estimates")
	}
	if err := k.EpochPrices.Clear(ctx, nil); err != nil {
		return sdkerrors.Wrap(err, "unable to clear epoch prices")
	}
	if err := k.PlanHash.Remove(ctx); err != nil {
		return sdkerrors.Wrap(err, "unable to clear plan hash")
	}
	if err := k.OrderCursor.Set(ctx, 0); err != nil {
		return sdkerrors.Wrap(err, "unable to reset order cursor")
	}
	if err := k.OrderCount.Set(ctx, 0); err != nil {
		return sdkerrors.Wrap(err, "unable to reset order count")
	}
	return nil
}

// CurrentSnapshot assembles the canonical state view commitments are checked
// against: epoch, phase, cursor and the prover-relevant accounting of every
// vault.
func (k *Keeper) CurrentSnapshot(ctx context.Context) (types.StateSnapshot, error) {
	snapshot := types.StateSnapshot{
		Epoch:  k.GetEpoch(ctx),
		Phase:  k.GetPhase(ctx),
		Cursor: k.GetOrderCursor(ctx),
	}

	err := k.IterateVaults(ctx, func(vault types.VaultRecord) (bool, error) {
		entry := types.VaultSnapshot{
			VaultId:               vault.Id,
			TotalShares:           vault.TotalShares,
			PendingDeposits:       vault.PendingDepositTotal,
			PendingWithdrawShares: vault.PendingWithdrawShares,
		}

		if err := k.IterateVaultHoldings(ctx, vault.Id, func(asset string, amount math.Int) (bool, error) {
			entry.Holdings = append(entry.Holdings, types.HoldingSnapshot{Asset: asset, Amount: amount})
			return false, nil
		}); err != nil {
			return true, err
		}

		snapshot.Vaults = append(snapshot.Vaults, entry)
		return false, nil
	})
	if err != nil {
		return types.StateSnapshot{}, sdkerrors.Wrap(err, "unable to assemble state snapshot")
	}

	return snapshot, nil
}

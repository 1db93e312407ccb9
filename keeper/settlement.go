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
	"fmt"

	"cosmossdk.io/core/event"
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"meridian.solara.xyz/types"
)

// convertToShares prices a native amount in vault shares using the virtual
// offset: shares = assets * (totalShares + scale) / (totalAssets + 1). The
// offset keeps the first deposit's share price well-defined and makes price
// manipulation through direct transfers uneconomical.
func convertToShares(params types.Params, vault types.VaultRecord, assets math.Int) math.Int {
	return assets.
		Mul(vault.TotalShares.Add(params.ShareScale)).
		Quo(vault.TotalAssets.Add(math.OneInt()))
}

// convertToAssets is the inverse conversion, rounding in the vault's favour:
// assets = shares * (totalAssets + 1) / (totalShares + scale).
func convertToAssets(params types.Params, vault types.VaultRecord, shares math.Int) math.Int {
	return shares.
		Mul(vault.TotalAssets.Add(math.OneInt())).
		Quo(vault.TotalShares.Add(params.ShareScale))
}

// settleVault performs the Settling work for one vault: re-mark total assets
// from the post-execution buffer and holdings, then fulfil the deposit queue
// followed by the withdrawal queue. Deposits settle first so withdrawals
// price against the post-deposit pool, matching the ordering the estimation
// phase assumed.
func (k *Keeper) settleVault(ctx context.Context, vault *types.VaultRecord) error {
	nav, err := k.markVault(ctx, *vault)
	if err != nil {
		return err
	}
	vault.TotalAssets = nav

	if err := k.fulfillDeposits(ctx, vault); err != nil {
		return sdkerrors.Wrapf(err, "unable to fulfil deposits of vault %d", vault.Id)
	}

	if err := k.fulfillWithdrawals(ctx, vault); err != nil {
		return sdkerrors.Wrapf(err, "unable to fulfil withdrawals of vault %d", vault.Id)
	}

	return k.SetVault(ctx, *vault)
}

// markVault values a vault at the epoch's captured prices: the buffer counts
// at par and every holding at its current valuation. Running this after the
// execution legs folds realized conversion amounts into the settled total,
// where the estimation-time figure would miss the slippage the venue
// actually delivered.
func (k *Keeper) markVault(ctx context.Context, vault types.VaultRecord) (math.Int, error) {
	nav := vault.Buffer

	if err := k.IterateVaultHoldings(ctx, vault.Id, func(asset string, amount math.Int) (bool, error) {
		price, err := k.GetEpochPrice(ctx, asset)
		if err != nil {
			return true, err
		}

		value := price.Current.MulInt(amount).TruncateInt()
		if nav, err = nav.SafeAdd(value); err != nil {
			return true, err
		}
		return false, nil
	}); err != nil {
		return math.Int{}, sdkerrors.Wrapf(err, "unable to value holdings of vault %d", vault.Id)
	}

	return nav, nil
}

// fulfillDeposits drains the vault's deposit queue, minting shares at the
// settled share price. Deposited funds were escrowed at request time and now
// become part of the vault's buffer.
func (k *Keeper) fulfillDeposits(ctx context.Context, vault *types.VaultRecord) error {
	params := k.GetParams(ctx)

	type entry struct {
		depositor []byte
		amount    math.Int
	}
	var queue []entry

	if err := k.IteratePendingDeposits(ctx, vault.Id, func(depositor []byte, amount math.Int) (bool, error) {
		key := make([]byte, len(depositor))
		copy(key, depositor)
		queue = append(queue, entry{depositor: key, amount: amount})
		return false, nil
	}); err != nil {
		return err
	}

	for _, pending := range queue {
		shares := convertToShares(params, *vault, pending.amount)

		balance := k.GetUserShares(ctx, vault.Id, pending.depositor)
		updated, err := balance.SafeAdd(shares)
		if err != nil {
			return err
		}
		if err := k.SetUserShares(ctx, vault.Id, pending.depositor, updated); err != nil {
			return err
		}

		if vault.TotalShares, err = vault.TotalShares.SafeAdd(shares); err != nil {
			return err
		}
		if vault.TotalAssets, err = vault.TotalAssets.SafeAdd(pending.amount); err != nil {
			return err
		}
		if vault.Buffer, err = vault.Buffer.SafeAdd(pending.amount); err != nil {
			return err
		}
		if vault.PendingDepositTotal, err = vault.PendingDepositTotal.SafeSub(pending.amount); err != nil {
			return err
		}

		if err := k.SetPendingDeposit(ctx, vault.Id, pending.depositor, math.ZeroInt()); err != nil {
			return err
		}

		depositor, err := k.address.BytesToString(pending.depositor)
		if err != nil {
			return fmt.Errorf("error encoding the depositor address: %w", err)
		}

		if err := k.event.EventManager(ctx).EmitKV(
			ctx, types.EventTypeDepositFulfilled,
			event.Attribute{Key: types.AttributeKeyVaultID, Value: fmt.Sprint(vault.Id)},
			event.Attribute{Key: types.AttributeKeyDepositor, Value: depositor},
			event.Attribute{Key: types.AttributeKeyAmount, Value: pending.amount.String()},
			event.Attribute{Key: types.AttributeKeyShares, Value: shares.String()},
		); err != nil {
			return err
		}
	}

	return nil
}

// fulfillWithdrawals drains the vault's withdrawal queue, burning the locked
// shares and paying native currency from the vault's buffer. The selling leg
// is responsible for having replenished the buffer; a shortfall here aborts
// settlement.
func (k *Keeper) fulfillWithdrawals(ctx context.Context, vault *types.VaultRecord) error {
	params := k.GetParams(ctx)

	type entry struct {
		holder []byte
		shares math.Int
	}
	var queue []entry

	if err := k.IteratePendingWithdrawals(ctx, vault.Id, func(holder []byte, shares math.Int) (bool, error) {
		key := make([]byte, len(holder))
		copy(key, holder)
		queue = append(queue, entry{holder: key, shares: shares})
		return false, nil
	}); err != nil {
		return err
	}

	for _, pending := range queue {
		assets := convertToAssets(params, *vault, pending.shares)

		if vault.Buffer.LT(assets) {
			return sdkerrors.Wrapf(
				types.ErrInsufficientLiquidity,
				"vault %d buffer %s cannot cover withdrawal of %s",
				vault.Id, vault.Buffer.String(), assets.String(),
			)
		}

		var err error
		if vault.TotalShares, err = vault.TotalShares.SafeSub(pending.shares); err != nil {
			return err
		}
		if vault.TotalAssets, err = vault.TotalAssets.SafeSub(assets); err != nil {
			return err
		}
		if vault.Buffer, err = vault.Buffer.SafeSub(assets); err != nil {
			return err
		}
		if vault.PendingWithdrawShares, err = vault.PendingWithdrawShares.SafeSub(pending.shares); err != nil {
			return err
		}

		if err := k.SetPendingWithdrawal(ctx, vault.Id, pending.holder, math.ZeroInt()); err != nil {
			return err
		}

		if assets.IsPositive() {
			coins := sdk.NewCoins(sdk.NewCoin(k.denom, assets))
			if err := k.bank.SendCoins(ctx, types.ModuleAddress, pending.holder, coins); err != nil {
				return sdkerrors.Wrap(err, "unable to pay out withdrawal")
			}
		}

		holder, err := k.address.BytesToString(pending.holder)
		if err != nil {
			return fmt.Errorf("error encoding the holder address: %w", err)
		}

		if err := k.event.EventManager(ctx).EmitKV(
			ctx, types.EventTypeWithdrawFulfilled,
			event.Attribute{Key: types.AttributeKeyVaultID, Value: fmt.Sprint(vault.Id)},
			event.Attribute{Key: types.AttributeKeyHolder, Value: holder},
			event.Attribute{Key: types.AttributeKeyShares, Value: pending.shares.String()},
			event.Attribute{Key: types.AttributeKeyAmount, Value: assets.String()},
		); err != nil {
			return err
		}
	}

	return nil
}

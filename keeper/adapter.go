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

	"meridian.solara.xyz/types"
)

const bpsDenominator = 10_000

// withinSlippage reports whether the realized amount deviates from the
// estimate by at most the configured tolerance, in either direction. A zero
// estimate tolerates only a zero realized amount.
func withinSlippage(realized, estimated math.Int, toleranceBps uint32) bool {
	diff := realized.Sub(estimated).Abs()
	return diff.Mul(math.NewInt(bpsDenominator)).LTE(estimated.Mul(math.NewInt(int64(toleranceBps))))
}

// executeOrder converts between a vault holding and native currency through
// the asset's registered adapter, bounding the realized amount against the
// plan's estimate. The vault record is mutated in place; the caller persists
// it once the minibatch completes.
func (k *Keeper) executeOrder(ctx context.Context, vault *types.VaultRecord, order types.ExecutionOrder) (math.Int, error) {
	adapter, err := k.GetAdapter(ctx, order.Asset)
	if err != nil {
		return math.ZeroInt(), err
	}

	params := k.GetParams(ctx)

	var realized math.Int
	switch order.Direction {
	case types.DirectionSell:
		realized, err = k.executeSell(ctx, vault, adapter, order, params.SlippageToleranceBps)
	case types.DirectionBuy:
		realized, err = k.executeBuy(ctx, vault, adapter, order, params.SlippageToleranceBps)
	default:
		return math.ZeroInt(), sdkerrors.Wrapf(types.ErrInvalidRequest, "invalid order direction %d", order.Direction)
	}
	if err != nil {
		return math.ZeroInt(), err
	}

	if err := k.event.EventManager(ctx).EmitKV(
		ctx, types.EventTypeOrderExecuted,
		event.Attribute{Key: types.AttributeKeyVaultID, Value: fmt.Sprint(order.VaultId)},
		event.Attribute{Key: types.AttributeKeyAsset, Value: order.Asset},
		event.Attribute{Key: types.AttributeKeyDirection, Value: order.Direction.String()},
		event.Attribute{Key: types.AttributeKeyAmount, Value: order.ShareAmount.String()},
		event.Attribute{Key: types.AttributeKeyEstimated, Value: order.EstimatedNative.String()},
		event.Attribute{Key: types.AttributeKeyRealized, Value: realized.String()},
	); err != nil {
		return math.ZeroInt(), err
	}

	return realized, nil
}

// executeSell converts order.ShareAmount units of the holding into native
// currency, crediting the vault's buffer with the realized proceeds.
func (k *Keeper) executeSell(ctx context.Context, vault *types.VaultRecord, adapter types.AdapterConfig, order types.ExecutionOrder, toleranceBps uint32) (math.Int, error) {
	holding := k.GetHolding(ctx, vault.Id, order.Asset)
	if holding.LT(order.ShareAmount) {
		return math.ZeroInt(), sdkerrors.Wrapf(
			types.ErrInsufficientLiquidity,
			"vault %d holds %s of %s, cannot sell %s",
			vault.Id, holding.String(), order.Asset, order.ShareAmount.String(),
		)
	}

	realized := order.ShareAmount
	if adapter.BaseDenom != k.denom {
		minOut := order.EstimatedNative.
			Mul(math.NewInt(bpsDenominator - int64(toleranceBps))).
			Quo(math.NewInt(bpsDenominator))

		var err error
		realized, err = k.swap.SwapExactInput(ctx, adapter.BaseDenom, k.denom, order.ShareAmount, minOut, nil)
		if err != nil {
			return math.ZeroInt(), sdkerrors.Wrapf(err, "unable to sell %s via %s", order.Asset, adapter.Venue)
		}
	}

	if !withinSlippage(realized, order.EstimatedNative, toleranceBps) {
		return math.ZeroInt(), sdkerrors.Wrapf(
			types.ErrSlippageExceeded,
			"asset %s realized %s, estimated %s",
			order.Asset, realized.String(), order.EstimatedNative.String(),
		)
	}

	if err := k.SetHolding(ctx, vault.Id, order.Asset, holding.Sub(order.ShareAmount)); err != nil {
		return math.ZeroInt(), err
	}

	var err error
	if vault.Buffer, err = vault.Buffer.SafeAdd(realized); err != nil {
		return math.ZeroInt(), err
	}

	return realized, nil
}

// executeBuy deploys native currency from the vault's buffer into
// order.ShareAmount units of the holding, bounding the native amount spent.
func (k *Keeper) executeBuy(ctx context.Context, vault *types.VaultRecord, adapter types.AdapterConfig, order types.ExecutionOrder, toleranceBps uint32) (math.Int, error) {
	spent := order.ShareAmount
	if adapter.BaseDenom != k.denom {
		maxIn := order.EstimatedNative.
			Mul(math.NewInt(bpsDenominator + int64(toleranceBps))).
			Quo(math.NewInt(bpsDenominator))

		var err error
		spent, err = k.swap.SwapExactOutput(ctx, k.denom, adapter.BaseDenom, order.ShareAmount, maxIn, nil)
		if err != nil {
			return math.ZeroInt(), sdkerrors.Wrapf(err, "unable to buy %s via %s", order.Asset, adapter.Venue)
		}
	}

	if !withinSlippage(spent, order.EstimatedNative, toleranceBps) {
		return math.ZeroInt(), sdkerrors.Wrapf(
			types.ErrSlippageExceeded,
			"asset %s realized %s, estimated %s",
			order.Asset, spent.String(), order.EstimatedNative.String(),
		)
	}

	if vault.Buffer.LT(spent) {
		return math.ZeroInt(), sdkerrors.Wrapf(
			types.ErrInsufficientLiquidity,
			"vault %d buffer %s cannot fund buy of %s",
			vault.Id, vault.Buffer.String(), spent.String(),
		)
	}

	holding := k.GetHolding(ctx, vault.Id, order.Asset)
	updated, err := holding.SafeAdd(order.ShareAmount)
	if err != nil {
		return math.ZeroInt(), err
	}
	if err := k.SetHolding(ctx, vault.Id, order.Asset, updated); err != nil {
		return math.ZeroInt(), err
	}

	if vault.Buffer, err = vault.Buffer.SafeSub(spent); err != nil {
		return math.ZeroInt(), err
	}

	return spent, nil
}

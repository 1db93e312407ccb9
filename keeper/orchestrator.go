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
	"bytes"
	"context"
	"fmt"
	"time"

	"cosmossdk.io/core/event"
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	"golang.org/x/crypto/sha3"

	"meridian.solara.xyz/types"
)

// CheckUpkeep reports whether a PerformUpkeep call would make progress:
// either the epoch deadline has passed and a new cycle can start, or a cycle
// is mid-flight and has outstanding work.
func (k *Keeper) CheckUpkeep(ctx context.Context) (bool, time.Time) {
	deadline := k.GetEpochDeadline(ctx)

	if k.GetPhase(ctx) != types.PhaseIdle {
		return true, deadline
	}

	if deadline.IsZero() {
		return false, deadline
	}

	now := k.header.GetHeaderInfo(ctx).Time
	return !now.Before(deadline), deadline
}

// PerformUpkeep advances the epoch state machine by one step. From Idle it
// runs estimation and opens the selling leg; from an execution leg it
// verifies the caller's commitment/proof pair, executes a bounded minibatch
// of plan orders, and settles the epoch once the plan is drained.
func (k *Keeper) PerformUpkeep(ctx context.Context, msg *types.MsgPerformUpkeep) (*types.MsgPerformUpkeepResponse, error) {
	if k.upkeepRunning {
		return nil, types.ErrReentrantCall
	}
	k.upkeepRunning = true
	defer func() { k.upkeepRunning = false }()

	if k.GetParams(ctx).Paused {
		return nil, types.ErrPaused
	}

	switch phase := k.GetPhase(ctx); phase {
	case types.PhaseIdle:
		return k.runEstimation(ctx)
	case types.PhaseSelling, types.PhaseBuying:
		return k.runExecutionLeg(ctx, msg)
	default:
		// Estimating and Settling complete within the call that entered them,
		// so observing one here means a previous call aborted mid-transition.
		return nil, sdkerrors.Wrapf(types.ErrInvalidPhase, "cannot perform upkeep during %s", phase)
	}
}

// runEstimation starts a new epoch cycle: it records the next deadline,
// captures feed valuations for every whitelisted asset, marks each vault to
// the captured prices and opens the selling leg. The resulting state
// fingerprint is stored so execution-leg proofs have a pinned input
// commitment.
func (k *Keeper) runEstimation(ctx context.Context) (*types.MsgPerformUpkeepResponse, error) {
	deadline := k.GetEpochDeadline(ctx)
	now := k.header.GetHeaderInfo(ctx).Time
	if deadline.IsZero() || now.Before(deadline) {
		return nil, sdkerrors.Wrapf(types.ErrUpkeepNotNeeded, "epoch deadline %s has not passed", deadline)
	}

	params := k.GetParams(ctx)

	// The next deadline is recorded before any external collaborator is
	// consulted, so a misbehaving feed cannot stall the epoch clock.
	if err := k.SetEpochDeadline(ctx, now.Add(time.Duration(params.EpochLength)*time.Second)); err != nil {
		return nil, sdkerrors.Wrap(err, "unable to set next epoch deadline")
	}

	if err := k.transitionPhase(ctx, types.PhaseEstimating); err != nil {
		return nil, err
	}

	if err := k.captureEpochPrices(ctx); err != nil {
		return nil, err
	}

	if err := k.IterateVaults(ctx, func(vault types.VaultRecord) (bool, error) {
		if !vault.Enabled {
			return false, nil
		}
		if err := k.estimateVault(ctx, vault); err != nil {
			return true, err
		}
		return false, nil
	}); err != nil {
		return nil, sdkerrors.Wrap(err, "unable to estimate vaults")
	}

	if err := k.transitionPhase(ctx, types.PhaseSelling); err != nil {
		return nil, err
	}

	snapshot, err := k.CurrentSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if err := k.LastCommittedStateHash.Set(ctx, snapshot.Fingerprint()); err != nil {
		return nil, sdkerrors.Wrap(err, "unable to set committed state hash")
	}

	epoch := k.GetEpoch(ctx)
	k.logger.Info("epoch cycle started", "epoch", epoch, "deadline", k.GetEpochDeadline(ctx))

	return &types.MsgPerformUpkeepResponse{
		Phase: types.PhaseSelling,
		Epoch: epoch,
	}, nil
}

// captureEpochPrices reads the feed once for all whitelisted assets and
// persists the returned valuation pairs for use at settlement.
func (k *Keeper) captureEpochPrices(ctx context.Context) error {
	var ids []string
	if err := k.Assets.Walk(ctx, nil, func(id string, _ types.AssetInfo) (bool, error) {
		ids = append(ids, id)
		return false, nil
	}); err != nil {
		return sdkerrors.Wrap(err, "unable to list whitelisted assets")
	}

	if len(ids) == 0 {
		return nil
	}

	previous, current, err := k.feed.GetPrices(ctx, ids)
	if err != nil {
		return sdkerrors.Wrap(err, "unable to read price feed")
	}
	if len(previous) != len(ids) || len(current) != len(ids) {
		return sdkerrors.Wrapf(types.ErrInvalidPayload, "price feed returned %d/%d entries for %d assets", len(previous), len(current), len(ids))
	}

	for i, id := range ids {
		if current[i].IsNil() || current[i].IsNegative() {
			return sdkerrors.Wrapf(types.ErrInvalidPayload, "price feed returned invalid valuation for asset %s", id)
		}
		// A feed with no prior observation reports a nil previous valuation;
		// value the asset flat so its first epoch shows no profit and loss.
		prev := previous[i]
		if prev.IsNil() {
			prev = current[i]
		}
		if err := k.EpochPrices.Set(ctx, id, types.PricePoint{Previous: prev, Current: current[i]}); err != nil {
			return sdkerrors.Wrapf(err, "unable to set epoch price for asset %s", id)
		}
	}

	return nil
}

// estimateVault marks one vault to the captured valuations: holdings are
// valued at current prices, the buffer counts at par, and the delta against
// previous prices is recorded as the epoch's estimated profit and loss.
func (k *Keeper) estimateVault(ctx context.Context, vault types.VaultRecord) error {
	nav := vault.Buffer
	pnl := math.ZeroInt()

	if err := k.IterateVaultHoldings(ctx, vault.Id, func(asset string, amount math.Int) (bool, error) {
		price, err := k.GetEpochPrice(ctx, asset)
		if err != nil {
			return true, err
		}

		value := price.Current.MulInt(amount).TruncateInt()
		nav, err = nav.SafeAdd(value)
		if err != nil {
			return true, err
		}

		delta := price.Current.Sub(price.Previous).MulInt(amount).TruncateInt()
		if pnl, err = pnl.SafeAdd(delta); err != nil {
			return true, err
		}

		return false, nil
	}); err != nil {
		return sdkerrors.Wrapf(err, "unable to value holdings of vault %d", vault.Id)
	}

	return k.EpochEstimates.Set(ctx, vault.Id, types.EpochEstimate{
		VaultId:     vault.Id,
		NavEstimate: nav,
		PnlDelta:    pnl,
	})
}

// runExecutionLeg handles a proof-gated upkeep call during the selling or
// buying leg. The commitment gate runs before any plan bytes are trusted.
func (k *Keeper) runExecutionLeg(ctx context.Context, msg *types.MsgPerformUpkeep) (*types.MsgPerformUpkeepResponse, error) {
	pair, err := k.verifyUpkeepPayload(ctx, msg.PublicValues, msg.Proof)
	if err != nil {
		return nil, err
	}

	if err := k.event.EventManager(ctx).EmitKV(
		ctx, types.EventTypeCommitmentVerified,
		event.Attribute{Key: types.AttributeKeyEpoch, Value: fmt.Sprint(k.GetEpoch(ctx))},
		event.Attribute{Key: types.AttributeKeyPhase, Value: k.GetPhase(ctx).String()},
		event.Attribute{Key: types.AttributeKeyCaller, Value: msg.Caller},
	); err != nil {
		return nil, err
	}

	if err := k.ensurePlan(ctx, msg.Plan); err != nil {
		return nil, err
	}

	processed, err := k.processOrders(ctx)
	if err != nil {
		return nil, err
	}

	// The payload's output commitment becomes the input expectation of the
	// next execution-leg call.
	if err := k.LastCommittedStateHash.Set(ctx, pair.Output[:]); err != nil {
		return nil, sdkerrors.Wrap(err, "unable to set committed state hash")
	}

	if k.GetOrderCursor(ctx) == k.GetOrderCount(ctx) {
		if err := k.settleEpoch(ctx); err != nil {
			return nil, err
		}
	}

	return &types.MsgPerformUpkeepResponse{
		Phase:           k.GetPhase(ctx),
		Epoch:           k.GetEpoch(ctx),
		OrdersProcessed: processed,
	}, nil
}

// ensurePlan accepts the execution plan on the first execution-leg call of
// an epoch and pins its hash; every later call must carry byte-identical
// plan bytes.
func (k *Keeper) ensurePlan(ctx context.Context, plan []byte) error {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(plan)
	hash := hasher.Sum(nil)

	if accepted := k.GetPlanHash(ctx); accepted != nil {
		if !bytes.Equal(accepted, hash) {
			return sdkerrors.Wrap(types.ErrInvalidPayload, "plan does not match the accepted plan for this epoch")
		}
		return nil
	}

	orders, err := types.ParseExecutionPlan(plan)
	if err != nil {
		return sdkerrors.Wrap(types.ErrInvalidPayload, err.Error())
	}

	if err := k.validatePlanOrders(ctx, orders); err != nil {
		return err
	}

	for i, order := range orders {
		if err := k.Orders.Set(ctx, uint64(i), order); err != nil {
			return sdkerrors.Wrapf(err, "unable to set execution order %d", i)
		}
	}
	if err := k.OrderCount.Set(ctx, uint64(len(orders))); err != nil {
		return sdkerrors.Wrap(err, "unable to set order count")
	}
	if err := k.OrderCursor.Set(ctx, 0); err != nil {
		return sdkerrors.Wrap(err, "unable to reset order cursor")
	}
	if err := k.PlanHash.Set(ctx, hash); err != nil {
		return sdkerrors.Wrap(err, "unable to set plan hash")
	}

	return nil
}

// validatePlanOrders enforces the structural rules of an acceptable plan:
// every order references a registered vault and a whitelisted asset, and all
// sells precede all buys so the buying leg is funded by realized proceeds.
func (k *Keeper) validatePlanOrders(ctx context.Context, orders []types.ExecutionOrder) error {
	buysSeen := false
	for i, order := range orders {
		if _, err := k.GetVault(ctx, order.VaultId); err != nil {
			return err
		}
		if !k.HasAsset(ctx, order.Asset) {
			return sdkerrors.Wrapf(types.ErrAssetNotWhitelisted, "order %d references asset %s", i, order.Asset)
		}
		// Assets whitelisted after estimation carry no captured valuation and
		// cannot be settled this epoch.
		if has, _ := k.EpochPrices.Has(ctx, order.Asset); !has {
			return sdkerrors.Wrapf(types.ErrInvalidPayload, "order %d references asset %s with no valuation this epoch", i, order.Asset)
		}

		switch order.Direction {
		case types.DirectionSell:
			if buysSeen {
				return sdkerrors.Wrapf(types.ErrInvalidPayload, "order %d sells after a buy order", i)
			}
		case types.DirectionBuy:
			buysSeen = true
		}
	}
	return nil
}

// processOrders executes up to MaxOrdersPerCall orders starting at the
// cursor, transitioning from the selling to the buying leg when the first
// buy order is reached.
func (k *Keeper) processOrders(ctx context.Context) (uint32, error) {
	params := k.GetParams(ctx)
	cursor := k.GetOrderCursor(ctx)
	count := k.GetOrderCount(ctx)

	var processed uint32
	for processed < params.MaxOrdersPerCall && cursor < count {
		order, err := k.Orders.Get(ctx, cursor)
		if err != nil {
			return processed, sdkerrors.Wrapf(err, "unable to get execution order %d", cursor)
		}

		if order.Direction == types.DirectionBuy && k.GetPhase(ctx) == types.PhaseSelling {
			if err := k.transitionPhase(ctx, types.PhaseBuying); err != nil {
				return processed, err
			}
		}

		vault, err := k.GetVault(ctx, order.VaultId)
		if err != nil {
			return processed, err
		}

		if _, err := k.executeOrder(ctx, &vault, order); err != nil {
			return processed, err
		}

		if err := k.SetVault(ctx, vault); err != nil {
			return processed, err
		}

		cursor++
		processed++
		if err := k.OrderCursor.Set(ctx, cursor); err != nil {
			return processed, sdkerrors.Wrap(err, "unable to advance order cursor")
		}
	}

	// A plan whose sells drained without reaching a buy still has to pass
	// through the buying leg so settlement always enters from the same phase.
	if cursor == count && k.GetPhase(ctx) == types.PhaseSelling {
		if err := k.transitionPhase(ctx, types.PhaseBuying); err != nil {
			return processed, err
		}
	}

	return processed, nil
}

// settleEpoch closes the cycle once the plan is drained: every vault is
// settled against its epoch estimate, the per-epoch scratch state is cleared
// and the machine returns to Idle with the epoch number advanced.
func (k *Keeper) settleEpoch(ctx context.Context) error {
	if err := k.transitionPhase(ctx, types.PhaseSettling); err != nil {
		return err
	}

	if err := k.IterateVaults(ctx, func(vault types.VaultRecord) (bool, error) {
		if !vault.Enabled {
			return false, nil
		}
		if err := k.settleVault(ctx, &vault); err != nil {
			return true, err
		}
		return false, nil
	}); err != nil {
		return sdkerrors.Wrap(err, "unable to settle vaults")
	}

	epoch := k.GetEpoch(ctx)
	if err := k.EpochNumber.Set(ctx, epoch+1); err != nil {
		return sdkerrors.Wrap(err, "unable to advance epoch number")
	}

	if err := k.clearEpochScratch(ctx); err != nil {
		return err
	}

	if err := k.transitionPhase(ctx, types.PhaseIdle); err != nil {
		return err
	}

	if err := k.event.EventManager(ctx).EmitKV(
		ctx, types.EventTypeEpochSettled,
		event.Attribute{Key: types.AttributeKeyEpoch, Value: fmt.Sprint(epoch)},
	); err != nil {
		return err
	}

	k.logger.Info("epoch settled", "epoch", epoch)

	return nil
}

// transitionPhase moves the state machine to the given phase and emits the
// transition for the audit log.
func (k *Keeper) transitionPhase(ctx context.Context, to types.Phase) error {
	from := k.GetPhase(ctx)
	if err := k.SetPhase(ctx, to); err != nil {
		return sdkerrors.Wrapf(err, "unable to transition phase to %s", to)
	}

	return k.event.EventManager(ctx).EmitKV(
		ctx, types.EventTypePhaseTransitioned,
		event.Attribute{Key: types.AttributeKeyPreviousPhase, Value: from.String()},
		event.Attribute{Key: types.AttributeKeyPhase, Value: to.String()},
		event.Attribute{Key: types.AttributeKeyEpoch, Value: fmt.Sprint(k.GetEpoch(ctx))},
	)
}

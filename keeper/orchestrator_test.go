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

package keeper_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cosmossdk.io/core/header"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meridian.solara.xyz/keeper"
	"meridian.solara.xyz/types"
	"meridian.solara.xyz/utils"
)

// afterDeadline advances the block time one second past the current epoch
// deadline.
func afterDeadline(k *keeper.Keeper, ctx sdk.Context) sdk.Context {
	deadline := k.GetEpochDeadline(ctx)
	return ctx.WithHeaderInfo(header.Info{Time: deadline.Add(time.Second)})
}

// upkeepPayload builds public values whose input commitment matches the live
// state fingerprint. The output commitment is an arbitrary marker the tests
// can assert against.
func upkeepPayload(t *testing.T, k *keeper.Keeper, ctx sdk.Context) []byte {
	t.Helper()

	snapshot, err := k.CurrentSnapshot(ctx)
	require.NoError(t, err)

	var pair types.CommitmentPair
	copy(pair.Input[:], snapshot.Fingerprint())
	pair.Output[0] = 0x42

	return types.EncodePublicValues(pair)
}

func encodePlan(t *testing.T, orders []types.ExecutionOrder) []byte {
	t.Helper()

	plan, err := types.EncodeExecutionPlan(orders)
	require.NoError(t, err)
	return plan
}

func TestCheckUpkeep(t *testing.T) {
	k, _, _, ctx := setupTest(t)

	// ASSERT: No upkeep needed right after genesis.
	needed, deadline := k.CheckUpkeep(ctx)
	assert.False(t, needed)
	assert.Equal(t, genesisTime.Add(24*time.Hour), deadline)

	// ASSERT: Upkeep needed once the deadline passes.
	needed, _ = k.CheckUpkeep(afterDeadline(k, ctx))
	assert.True(t, needed)
}

func TestCheckUpkeepStaysNeededMidCycle(t *testing.T) {
	k, server, _, ctx := setupTest(t)
	registerVault(t, server, ctx, utils.TestAccount())

	// ARRANGE: Open a cycle; the selling leg now waits on a proof-gated
	// call, and opening pushed the deadline one epoch out.
	ctx = afterDeadline(k, ctx)
	_, err := server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{})
	require.NoError(t, err)
	require.Equal(t, types.PhaseSelling, k.GetPhase(ctx))

	// ASSERT: Upkeep is still needed even though the new deadline has not
	// passed; a deadline-only test would strand the open cycle.
	needed, deadline := k.CheckUpkeep(ctx)
	assert.True(t, needed)
	assert.True(t, ctx.HeaderInfo().Time.Before(deadline))
}

func TestPerformUpkeepBeforeDeadline(t *testing.T) {
	_, server, _, ctx := setupTest(t)

	_, err := server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{})

	require.ErrorIs(t, err, types.ErrUpkeepNotNeeded)
}

func TestEstimationOpensSellingLeg(t *testing.T) {
	k, server, collaborators, ctx := setupTest(t)
	curator := utils.TestAccount()
	vaultID := registerVault(t, server, ctx, curator)
	whitelistAsset(t, server, ctx, "AAPL", "uaapl")

	// ARRANGE: The vault holds 50 AAPL units and a 10 buffer; the feed
	// values AAPL at 2.0, up from 1.5.
	require.NoError(t, k.SetHolding(ctx, vaultID, "AAPL", math.NewInt(50)))
	vault, err := k.GetVault(ctx, vaultID)
	require.NoError(t, err)
	vault.Buffer = math.NewInt(10)
	require.NoError(t, k.SetVault(ctx, vault))

	collaborators.Feed.Previous["AAPL"] = math.LegacyMustNewDecFromStr("1.5")
	collaborators.Feed.Current["AAPL"] = math.LegacyMustNewDecFromStr("2.0")

	// ACT: Run upkeep past the deadline.
	ctx = afterDeadline(k, ctx)
	previousDeadline := k.GetEpochDeadline(ctx)
	res, err := server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{})

	// ASSERT: The selling leg is open and the deadline advanced.
	require.NoError(t, err)
	assert.Equal(t, types.PhaseSelling, res.Phase)
	assert.Equal(t, types.PhaseSelling, k.GetPhase(ctx))
	assert.True(t, k.GetEpochDeadline(ctx).After(previousDeadline))
	assert.Equal(t, 1, collaborators.Feed.Calls)

	// ASSERT: The vault was marked to the captured prices.
	estimate, err := k.EpochEstimates.Get(ctx, vaultID)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(110), estimate.NavEstimate) // 50 * 2.0 + 10
	assert.Equal(t, math.NewInt(25), estimate.PnlDelta)     // 50 * 0.5

	// ASSERT: The committed hash matches the live fingerprint.
	snapshot, err := k.CurrentSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Fingerprint(), k.GetLastCommittedStateHash(ctx))
}

func TestEpochLifecycleWithEmptyPlan(t *testing.T) {
	k, server, collaborators, ctx := setupTest(t)
	bob, curator := utils.TestAccount(), utils.TestAccount()
	vaultID := registerVault(t, server, ctx, curator)
	fund(collaborators, bob, 100*ONE)

	// ARRANGE: Bob queues a deposit of 100.
	_, err := server.RequestDeposit(ctx, &types.MsgRequestDeposit{
		VaultId:   vaultID,
		Depositor: bob.Address,
		Amount:    math.NewInt(100 * ONE),
	})
	require.NoError(t, err)

	// ACT: Open the cycle.
	ctx = afterDeadline(k, ctx)
	_, err = server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{})
	require.NoError(t, err)

	// ACT: Submit an empty plan with a matching commitment.
	payload := upkeepPayload(t, k, ctx)
	res, err := server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{
		Caller:       bob.Address,
		PublicValues: payload,
		Proof:        []byte("proof"),
		Plan:         encodePlan(t, nil),
	})

	// ASSERT: The epoch settled and returned to Idle.
	require.NoError(t, err)
	assert.Equal(t, types.PhaseIdle, res.Phase)
	assert.Equal(t, uint64(1), res.Epoch)
	assert.Equal(t, uint64(1), k.GetEpoch(ctx))

	// ASSERT: The deposit was fulfilled one-to-one on an empty vault.
	assert.Equal(t, math.NewInt(100*ONE), k.GetUserShares(ctx, vaultID, bob.Bytes))
	assert.Equal(t, math.ZeroInt(), k.GetPendingDeposit(ctx, vaultID, bob.Bytes))

	vault, err := k.GetVault(ctx, vaultID)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(100*ONE), vault.TotalShares)
	assert.Equal(t, math.NewInt(100*ONE), vault.TotalAssets)
	assert.Equal(t, math.NewInt(100*ONE), vault.Buffer)
	assert.Equal(t, math.ZeroInt(), vault.PendingDepositTotal)

	// ASSERT: The payload's output commitment was recorded.
	expected := make([]byte, types.CommitmentSize)
	expected[0] = 0x42
	assert.Equal(t, expected, k.GetLastCommittedStateHash(ctx))

	// ASSERT: The plan scratch state was cleared.
	assert.Nil(t, k.GetPlanHash(ctx))
	assert.Equal(t, uint64(0), k.GetOrderCount(ctx))
}

func TestEpochLifecycleWithRebalanceAndWithdrawal(t *testing.T) {
	k, server, collaborators, ctx := setupTest(t)
	bob, curator := utils.TestAccount(), utils.TestAccount()
	vaultID := registerVault(t, server, ctx, curator)
	whitelistAsset(t, server, ctx, "AAPL", "uaapl")
	collaborators.Feed.Current["AAPL"] = math.LegacyOneDec()
	fund(collaborators, bob, 100*ONE)

	// ARRANGE: Run a first cycle so Bob holds 100 shares backed by a 100
	// buffer.
	_, err := server.RequestDeposit(ctx, &types.MsgRequestDeposit{
		VaultId:   vaultID,
		Depositor: bob.Address,
		Amount:    math.NewInt(100 * ONE),
	})
	require.NoError(t, err)

	ctx = afterDeadline(k, ctx)
	_, err = server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{})
	require.NoError(t, err)
	_, err = server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{
		PublicValues: upkeepPayload(t, k, ctx),
		Proof:        []byte("proof"),
		Plan:         encodePlan(t, nil),
	})
	require.NoError(t, err)

	// ARRANGE: Bob locks 50 shares for withdrawal in the next cycle.
	_, err = server.RequestWithdraw(ctx, &types.MsgRequestWithdraw{
		VaultId: vaultID,
		Holder:  bob.Address,
		Shares:  math.NewInt(50 * ONE),
	})
	require.NoError(t, err)

	// ACT: Open the second cycle.
	ctx = afterDeadline(k, ctx)
	_, err = server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{})
	require.NoError(t, err)

	// ACT: Execute a plan deploying 40 into AAPL.
	orders := []types.ExecutionOrder{{
		VaultId:         vaultID,
		Asset:           "AAPL",
		Direction:       types.DirectionBuy,
		ShareAmount:     math.NewInt(40 * ONE),
		EstimatedNative: math.NewInt(40 * ONE),
	}}
	res, err := server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{
		PublicValues: upkeepPayload(t, k, ctx),
		Proof:        []byte("proof"),
		Plan:         encodePlan(t, orders),
	})

	// ASSERT: The order executed, the withdrawal paid out, and the cycle
	// closed.
	require.NoError(t, err)
	assert.Equal(t, types.PhaseIdle, res.Phase)
	assert.Equal(t, uint32(1), res.OrdersProcessed)
	assert.Equal(t, uint64(2), k.GetEpoch(ctx))

	assert.Equal(t, math.NewInt(40*ONE), k.GetHolding(ctx, vaultID, "AAPL"))

	vault, err := k.GetVault(ctx, vaultID)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(50*ONE), vault.TotalShares)
	assert.Equal(t, math.NewInt(50*ONE), vault.TotalAssets)
	assert.Equal(t, math.NewInt(10*ONE), vault.Buffer) // 100 - 40 bought - 50 paid out
	assert.Equal(t, math.ZeroInt(), vault.PendingWithdrawShares)

	// ASSERT: Bob received native currency for the burned shares.
	assert.Equal(t, math.NewInt(50*ONE), collaborators.Bank.Balances[bob.Address].AmountOf("umeri"))
	assert.Equal(t, math.NewInt(50*ONE), k.GetUserShares(ctx, vaultID, bob.Bytes))
}

func TestExecutionLegRejectsStaleCommitment(t *testing.T) {
	k, server, _, ctx := setupTest(t)
	curator := utils.TestAccount()
	registerVault(t, server, ctx, curator)

	ctx = afterDeadline(k, ctx)
	_, err := server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{})
	require.NoError(t, err)

	// ARRANGE: A payload whose input commitment does not match live state.
	var pair types.CommitmentPair
	pair.Input[0] = 0xff

	// ACT: Submit it.
	_, err = server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{
		PublicValues: types.EncodePublicValues(pair),
		Proof:        []byte("proof"),
		Plan:         encodePlan(t, nil),
	})

	// ASSERT: Rejected as a commitment mismatch, not a proof failure, and
	// the machine did not advance.
	require.ErrorIs(t, err, types.ErrCommitmentMismatch)
	assert.NotErrorIs(t, err, types.ErrProofRejected)
	assert.Equal(t, types.PhaseSelling, k.GetPhase(ctx))
	assert.Equal(t, uint64(0), k.GetEpoch(ctx))
	assert.Nil(t, k.GetPlanHash(ctx))
}

func TestExecutionLegRejectsBadProof(t *testing.T) {
	k, server, collaborators, ctx := setupTest(t)
	curator := utils.TestAccount()
	registerVault(t, server, ctx, curator)

	ctx = afterDeadline(k, ctx)
	_, err := server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{})
	require.NoError(t, err)

	// ARRANGE: The verifier rejects everything.
	collaborators.Verifier.Err = errors.New("pairing check failed")

	// ACT: Submit a payload with a correct commitment but a bad proof.
	_, err = server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{
		PublicValues: upkeepPayload(t, k, ctx),
		Proof:        []byte("garbage"),
		Plan:         encodePlan(t, nil),
	})

	// ASSERT: Rejected as a proof failure, not a commitment mismatch.
	require.ErrorIs(t, err, types.ErrProofRejected)
	assert.NotErrorIs(t, err, types.ErrCommitmentMismatch)
	assert.Equal(t, types.PhaseSelling, k.GetPhase(ctx))
}

func TestPlanIsPinnedAcrossMinibatches(t *testing.T) {
	k, server, collaborators, ctx := setupTest(t)
	curator := utils.TestAccount()
	vaultID := registerVault(t, server, ctx, curator)
	whitelistAsset(t, server, ctx, "AAPL", "uaapl")
	whitelistAsset(t, server, ctx, "MSFT", "umsft")
	collaborators.Feed.Current["AAPL"] = math.LegacyOneDec()
	collaborators.Feed.Current["MSFT"] = math.LegacyOneDec()

	// ARRANGE: One order per call, and a funded vault.
	params := k.GetParams(ctx)
	params.MaxOrdersPerCall = 1
	require.NoError(t, k.SetParams(ctx, params))

	vault, err := k.GetVault(ctx, vaultID)
	require.NoError(t, err)
	vault.Buffer = math.NewInt(100 * ONE)
	vault.TotalAssets = math.NewInt(100 * ONE)
	require.NoError(t, k.SetVault(ctx, vault))

	ctx = afterDeadline(k, ctx)
	_, err = server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{})
	require.NoError(t, err)

	orders := []types.ExecutionOrder{
		{
			VaultId:         vaultID,
			Asset:           "AAPL",
			Direction:       types.DirectionBuy,
			ShareAmount:     math.NewInt(30 * ONE),
			EstimatedNative: math.NewInt(30 * ONE),
		},
		{
			VaultId:         vaultID,
			Asset:           "MSFT",
			Direction:       types.DirectionBuy,
			ShareAmount:     math.NewInt(20 * ONE),
			EstimatedNative: math.NewInt(20 * ONE),
		},
	}
	plan := encodePlan(t, orders)

	// ACT: First minibatch accepts the plan and processes one order.
	res, err := server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{
		PublicValues: upkeepPayload(t, k, ctx),
		Proof:        []byte("proof"),
		Plan:         plan,
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), res.OrdersProcessed)
	assert.Equal(t, types.PhaseBuying, res.Phase)
	assert.Equal(t, uint64(1), k.GetOrderCursor(ctx))

	// ACT: A second call with different plan bytes.
	tampered := encodePlan(t, orders[:1])
	_, err = server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{
		PublicValues: upkeepPayload(t, k, ctx),
		Proof:        []byte("proof"),
		Plan:         tampered,
	})

	// ASSERT: Rejected against the pinned plan.
	require.ErrorIs(t, err, types.ErrInvalidPayload)

	// ACT: The original plan bytes complete the epoch.
	res, err = server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{
		PublicValues: upkeepPayload(t, k, ctx),
		Proof:        []byte("proof"),
		Plan:         plan,
	})

	// ASSERT: Both holdings exist and the cycle closed.
	require.NoError(t, err)
	assert.Equal(t, types.PhaseIdle, res.Phase)
	assert.Equal(t, math.NewInt(30*ONE), k.GetHolding(ctx, vaultID, "AAPL"))
	assert.Equal(t, math.NewInt(20*ONE), k.GetHolding(ctx, vaultID, "MSFT"))
}

func TestPlanRejectsSellAfterBuy(t *testing.T) {
	k, server, collaborators, ctx := setupTest(t)
	curator := utils.TestAccount()
	vaultID := registerVault(t, server, ctx, curator)
	whitelistAsset(t, server, ctx, "AAPL", "uaapl")
	collaborators.Feed.Current["AAPL"] = math.LegacyOneDec()

	ctx = afterDeadline(k, ctx)
	_, err := server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{})
	require.NoError(t, err)

	orders := []types.ExecutionOrder{
		{
			VaultId:         vaultID,
			Asset:           "AAPL",
			Direction:       types.DirectionBuy,
			ShareAmount:     math.NewInt(10),
			EstimatedNative: math.NewInt(10),
		},
		{
			VaultId:         vaultID,
			Asset:           "AAPL",
			Direction:       types.DirectionSell,
			ShareAmount:     math.NewInt(10),
			EstimatedNative: math.NewInt(10),
		},
	}

	_, err = server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{
		PublicValues: upkeepPayload(t, k, ctx),
		Proof:        []byte("proof"),
		Plan:         encodePlan(t, orders),
	})

	require.ErrorIs(t, err, types.ErrInvalidPayload)
	assert.Contains(t, err.Error(), "sells after a buy")
}

func TestPlanRejectsUnknownReferences(t *testing.T) {
	k, server, collaborators, ctx := setupTest(t)
	curator := utils.TestAccount()
	vaultID := registerVault(t, server, ctx, curator)
	whitelistAsset(t, server, ctx, "AAPL", "uaapl")
	collaborators.Feed.Current["AAPL"] = math.LegacyOneDec()

	ctx = afterDeadline(k, ctx)
	_, err := server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{})
	require.NoError(t, err)

	// ACT: A plan referencing an unknown vault.
	_, err = server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{
		PublicValues: upkeepPayload(t, k, ctx),
		Proof:        []byte("proof"),
		Plan: encodePlan(t, []types.ExecutionOrder{{
			VaultId:         99,
			Asset:           "AAPL",
			Direction:       types.DirectionSell,
			ShareAmount:     math.NewInt(10),
			EstimatedNative: math.NewInt(10),
		}}),
	})
	require.ErrorIs(t, err, types.ErrVaultNotFound)

	// ACT: A plan referencing a non-whitelisted asset.
	_, err = server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{
		PublicValues: upkeepPayload(t, k, ctx),
		Proof:        []byte("proof"),
		Plan: encodePlan(t, []types.ExecutionOrder{{
			VaultId:         vaultID,
			Asset:           "DOGE",
			Direction:       types.DirectionSell,
			ShareAmount:     math.NewInt(10),
			EstimatedNative: math.NewInt(10),
		}}),
	})
	require.ErrorIs(t, err, types.ErrAssetNotWhitelisted)
}

func TestSellOrderRespectsSlippageBounds(t *testing.T) {
	k, server, collaborators, ctx := setupTest(t)
	curator := utils.TestAccount()
	vaultID := registerVault(t, server, ctx, curator)
	whitelistAsset(t, server, ctx, "AAPL", "uaapl")
	collaborators.Feed.Current["AAPL"] = math.LegacyMustNewDecFromStr("2.0")

	// ARRANGE: The vault holds 100 AAPL units.
	require.NoError(t, k.SetHolding(ctx, vaultID, "AAPL", math.NewInt(100*ONE)))

	ctx = afterDeadline(k, ctx)
	_, err := server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{})
	require.NoError(t, err)

	// ARRANGE: The venue fills the sell at double the estimate, far outside
	// the 50 bps tolerance.
	collaborators.Swap.Realized["uaapl"] = math.NewInt(40 * ONE)

	orders := []types.ExecutionOrder{{
		VaultId:         vaultID,
		Asset:           "AAPL",
		Direction:       types.DirectionSell,
		ShareAmount:     math.NewInt(10 * ONE),
		EstimatedNative: math.NewInt(20 * ONE),
	}}

	// ACT: Execute the plan.
	_, err = server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{
		PublicValues: upkeepPayload(t, k, ctx),
		Proof:        []byte("proof"),
		Plan:         encodePlan(t, orders),
	})

	// ASSERT: Rejected with both amounts reported.
	require.ErrorIs(t, err, types.ErrSlippageExceeded)
	assert.Contains(t, err.Error(), "asset AAPL")
	assert.Contains(t, err.Error(), "realized 40000000")
	assert.Contains(t, err.Error(), "estimated 20000000")

	// ARRANGE: The venue fills within tolerance instead.
	collaborators.Swap.Realized["uaapl"] = math.NewInt(20*ONE - 5_000)

	// ACT: Execute again.
	res, err := server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{
		PublicValues: upkeepPayload(t, k, ctx),
		Proof:        []byte("proof"),
		Plan:         encodePlan(t, orders),
	})

	// ASSERT: The sell went through and the buffer grew by the realized
	// amount.
	require.NoError(t, err)
	assert.Equal(t, types.PhaseIdle, res.Phase)
	assert.Equal(t, math.NewInt(90*ONE), k.GetHolding(ctx, vaultID, "AAPL"))

	vault, err := k.GetVault(ctx, vaultID)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(20*ONE-5_000), vault.Buffer)

	// ASSERT: The settled total reflects the realized fill, not the
	// estimation-time figure of 200. 90 AAPL at 2.0 plus the buffer.
	assert.Equal(t, math.NewInt(200*ONE-5_000), vault.TotalAssets)
}

func TestBuyOrderRequiresBuffer(t *testing.T) {
	k, server, collaborators, ctx := setupTest(t)
	curator := utils.TestAccount()
	vaultID := registerVault(t, server, ctx, curator)
	whitelistAsset(t, server, ctx, "AAPL", "uaapl")
	collaborators.Feed.Current["AAPL"] = math.LegacyOneDec()

	ctx = afterDeadline(k, ctx)
	_, err := server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{})
	require.NoError(t, err)

	// ACT: Buy with an empty buffer.
	_, err = server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{
		PublicValues: upkeepPayload(t, k, ctx),
		Proof:        []byte("proof"),
		Plan: encodePlan(t, []types.ExecutionOrder{{
			VaultId:         vaultID,
			Asset:           "AAPL",
			Direction:       types.DirectionBuy,
			ShareAmount:     math.NewInt(10 * ONE),
			EstimatedNative: math.NewInt(10 * ONE),
		}}),
	})

	// ASSERT: Rejected for lack of liquidity.
	require.ErrorIs(t, err, types.ErrInsufficientLiquidity)
}

// reentrantFeed calls back into PerformUpkeep from inside the price query,
// capturing the error the nested call returns.
type reentrantFeed struct {
	k   *keeper.Keeper
	err error
}

func (f *reentrantFeed) GetPrices(ctx context.Context, assets []string) ([]math.LegacyDec, []math.LegacyDec, error) {
	_, f.err = f.k.PerformUpkeep(ctx, &types.MsgPerformUpkeep{})

	prices := make([]math.LegacyDec, len(assets))
	for i := range prices {
		prices[i] = math.LegacyOneDec()
	}
	return prices, prices, nil
}

func TestPerformUpkeepRejectsReentry(t *testing.T) {
	k, server, _, ctx := setupTest(t)
	registerVault(t, server, ctx, utils.TestAccount())
	whitelistAsset(t, server, ctx, "AAPL", "uaapl")

	// ARRANGE: A price feed that reenters the orchestrator.
	feed := &reentrantFeed{k: k}
	k.SetPriceFeed(feed)

	// ACT: Run upkeep past the deadline.
	_, err := server.PerformUpkeep(afterDeadline(k, ctx), &types.MsgPerformUpkeep{})

	// ASSERT: The outer call completed; the nested call was rejected.
	require.NoError(t, err)
	require.ErrorIs(t, feed.err, types.ErrReentrantCall)
}

func TestPerformUpkeepWhilePaused(t *testing.T) {
	k, server, _, ctx := setupTest(t)

	params := k.GetParams(ctx)
	params.Paused = true
	require.NoError(t, k.SetParams(ctx, params))

	_, err := server.PerformUpkeep(afterDeadline(k, ctx), &types.MsgPerformUpkeep{})

	require.ErrorIs(t, err, types.ErrPaused)
}

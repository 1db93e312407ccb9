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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meridian.solara.xyz/types"
	"meridian.solara.xyz/utils"
)

func TestBeginBlockerBeforeDeadline(t *testing.T) {
	k, _, _, ctx := setupTest(t)

	// ACT: Run the begin blocker before the deadline passes.
	require.NoError(t, k.BeginBlocker(ctx))

	// ASSERT: Nothing happened.
	assert.Equal(t, types.PhaseIdle, k.GetPhase(ctx))
	assert.Equal(t, uint64(0), k.GetEpoch(ctx))
}

func TestBeginBlockerStartsCycle(t *testing.T) {
	k, server, _, ctx := setupTest(t)
	registerVault(t, server, ctx, utils.TestAccount())

	// ACT: Run the begin blocker past the deadline.
	ctx = afterDeadline(k, ctx)
	require.NoError(t, k.BeginBlocker(ctx))

	// ASSERT: Estimation ran and the selling leg is open.
	assert.Equal(t, types.PhaseSelling, k.GetPhase(ctx))
	assert.NotNil(t, k.GetLastCommittedStateHash(ctx))
}

func TestBeginBlockerSkipsMidCycle(t *testing.T) {
	k, server, _, ctx := setupTest(t)
	registerVault(t, server, ctx, utils.TestAccount())

	ctx = afterDeadline(k, ctx)
	_, err := server.PerformUpkeep(ctx, &types.MsgPerformUpkeep{})
	require.NoError(t, err)

	// ACT: Run the begin blocker while the selling leg is open.
	require.NoError(t, k.BeginBlocker(ctx))

	// ASSERT: Execution legs are left to proof-gated callers.
	assert.Equal(t, types.PhaseSelling, k.GetPhase(ctx))
	assert.Equal(t, uint64(0), k.GetOrderCount(ctx))
}

func TestBeginBlockerDiscardsFailedStart(t *testing.T) {
	k, server, collaborators, ctx := setupTest(t)
	registerVault(t, server, ctx, utils.TestAccount())
	whitelistAsset(t, server, ctx, "AAPL", "uaapl")

	// ARRANGE: The feed is down.
	collaborators.Feed.Err = errors.New("feed unavailable")

	// ACT: Run the begin blocker past the deadline.
	ctx = afterDeadline(k, ctx)
	require.NoError(t, k.BeginBlocker(ctx))

	// ASSERT: The cached writes were discarded and the machine stayed Idle
	// with the original deadline, so the next block retries.
	assert.Equal(t, types.PhaseIdle, k.GetPhase(ctx))
	assert.Equal(t, genesisTime.Add(24*time.Hour), k.GetEpochDeadline(ctx))
}

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

	sdk "github.com/cosmos/cosmos-sdk/types"

	"meridian.solara.xyz/types"
)

// BeginBlocker is called at the beginning of each block. When the epoch
// deadline has passed and the machine is Idle it starts the next cycle
// automatically, so estimation never depends on an external caller showing
// up. Execution legs still require proof-gated PerformUpkeep messages.
func (k *Keeper) BeginBlocker(ctx context.Context) error {
	defer func() {
		if r := recover(); r != nil {
			k.logger.Error("recovered panic while starting epoch cycle", "err", r)
			return
		}
	}()

	if k.GetPhase(ctx) != types.PhaseIdle {
		return nil
	}

	needed, _ := k.CheckUpkeep(ctx)
	if !needed {
		return nil
	}

	// Create a cached context for the execution.
	cachedCtx, commit := sdk.UnwrapSDKContext(ctx).CacheContext()

	if _, err := k.PerformUpkeep(cachedCtx, &types.MsgPerformUpkeep{}); err != nil {
		k.logger.Error("failed to start epoch cycle", "err", err)
		return nil
	}

	// Commit the results.
	commit()

	return nil
}

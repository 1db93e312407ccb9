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

package mocks

import (
	"context"
	"testing"

	"cosmossdk.io/core/header"
	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/runtime"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"meridian.solara.xyz/keeper"
	"meridian.solara.xyz/types"
)

// Authority is the module authority used across tests.
const Authority = "authority"

// HeaderService resolves header info from the SDK context, so tests control
// block time through ctx.WithHeaderInfo.
type HeaderService struct{}

func (HeaderService) GetHeaderInfo(ctx context.Context) header.Info {
	return sdk.UnwrapSDKContext(ctx).HeaderInfo()
}

// Collaborators bundles the external primitives injected into a test keeper.
type Collaborators struct {
	Bank     *BankKeeper
	Feed     *PriceFeed
	Verifier *ProofVerifier
	Swap     *SwapRouter
	Auth     *AuthorizationKeeper
}

// MeridianKeeper creates a keeper over an in-memory store with permissive
// mock collaborators. Tests tighten individual mocks as needed.
func MeridianKeeper(t *testing.T) (*keeper.Keeper, Collaborators, sdk.Context) {
	t.Helper()

	key := storetypes.NewKVStoreKey(types.ModuleName)
	tkey := storetypes.NewTransientStoreKey("transient_" + types.ModuleName)
	ctx := testutil.DefaultContextWithDB(t, key, tkey).Ctx

	collaborators := Collaborators{
		Bank:     &BankKeeper{Balances: make(map[string]sdk.Coins)},
		Feed:     &PriceFeed{Previous: make(map[string]math.LegacyDec), Current: make(map[string]math.LegacyDec)},
		Verifier: &ProofVerifier{},
		Swap:     &SwapRouter{Realized: make(map[string]math.Int)},
		Auth:     &AuthorizationKeeper{Authorized: make(map[string]bool), Default: true},
	}

	k := keeper.NewKeeper(
		"umeri",
		Authority,
		runtime.NewKVStoreService(key),
		log.NewNopLogger(),
		HeaderService{},
		runtime.EventService{},
		addresscodec.NewBech32Codec("cosmos"),
		collaborators.Bank,
		collaborators.Feed,
		collaborators.Verifier,
		collaborators.Swap,
		collaborators.Auth,
	)

	return k, collaborators, ctx
}

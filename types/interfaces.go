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
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper is the host ledger primitive: balances and atomic transfers.
type BankKeeper interface {
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	SendCoins(ctx context.Context, from, to sdk.AccAddress, amt sdk.Coins) error
}

// PriceFeed supplies valuations for whitelisted holdings, expressed in
// native currency per holding unit. It is read once per Estimating phase.
type PriceFeed interface {
	GetPrices(ctx context.Context, assets []string) (previous, current []math.LegacyDec, err error)
}

// ProofVerifier is the externally supplied verification primitive. It must
// be pure and deterministic: the same (publicValues, proof) pair always
// yields the same outcome.
type ProofVerifier interface {
	Verify(publicValues, proof []byte) error
}

// SwapRouter is the venue primitive execution adapters delegate to for
// cross-denom conversion. Implementations enforce their own limit semantics;
// the adapter additionally bounds realized amounts against its estimate.
type SwapRouter interface {
	SwapExactInput(ctx context.Context, tokenIn, tokenOut string, amountIn, minAmountOut math.Int, route []byte) (math.Int, error)
	SwapExactOutput(ctx context.Context, tokenIn, tokenOut string, amountOut, maxAmountIn math.Int, route []byte) (math.Int, error)
}

// AuthorizationKeeper answers whitelist membership questions for assets and
// curators. Consulted before accepting intents or whitelisting holdings.
type AuthorizationKeeper interface {
	IsAuthorized(ctx context.Context, id string) bool
}

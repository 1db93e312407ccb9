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
	"fmt"

	"cosmossdk.io/math"
)

// PriceFeed answers valuation queries from fixed per-asset price maps.
type PriceFeed struct {
	Previous map[string]math.LegacyDec
	Current  map[string]math.LegacyDec
	Err      error
	Calls    int
}

func (f *PriceFeed) GetPrices(_ context.Context, assets []string) ([]math.LegacyDec, []math.LegacyDec, error) {
	f.Calls++
	if f.Err != nil {
		return nil, nil, f.Err
	}

	previous := make([]math.LegacyDec, len(assets))
	current := make([]math.LegacyDec, len(assets))
	for i, asset := range assets {
		price, ok := f.Current[asset]
		if !ok {
			return nil, nil, fmt.Errorf("no price configured for asset %s", asset)
		}
		current[i] = price
		previous[i] = f.Previous[asset]
	}

	return previous, current, nil
}

// ProofVerifier accepts every proof unless an error is configured.
type ProofVerifier struct {
	Err   error
	Calls int
}

func (v *ProofVerifier) Verify(_, _ []byte) error {
	v.Calls++
	return v.Err
}

// SwapRouter simulates venue execution. By default swaps fill exactly at
// the requested target; Realized overrides the fill for a given denom so
// tests can exercise the slippage bounds.
type SwapRouter struct {
	Realized map[string]math.Int
	Err      error
}

func (r *SwapRouter) SwapExactInput(_ context.Context, tokenIn, _ string, amountIn, minAmountOut math.Int, _ []byte) (math.Int, error) {
	if r.Err != nil {
		return math.ZeroInt(), r.Err
	}
	if realized, ok := r.Realized[tokenIn]; ok {
		if realized.LT(minAmountOut) {
			return math.ZeroInt(), fmt.Errorf("swap output %s below minimum %s", realized, minAmountOut)
		}
		return realized, nil
	}
	return amountIn, nil
}

func (r *SwapRouter) SwapExactOutput(_ context.Context, _, tokenOut string, amountOut, maxAmountIn math.Int, _ []byte) (math.Int, error) {
	if r.Err != nil {
		return math.ZeroInt(), r.Err
	}
	if realized, ok := r.Realized[tokenOut]; ok {
		if realized.GT(maxAmountIn) {
			return math.ZeroInt(), fmt.Errorf("swap input %s above maximum %s", realized, maxAmountIn)
		}
		return realized, nil
	}
	return amountOut, nil
}

// AuthorizationKeeper answers membership from a fixed set, with a
// configurable default for unknown identifiers.
type AuthorizationKeeper struct {
	Authorized map[string]bool
	Default    bool
}

func (a AuthorizationKeeper) IsAuthorized(_ context.Context, id string) bool {
	if allowed, ok := a.Authorized[id]; ok {
		return allowed
	}
	return a.Default
}

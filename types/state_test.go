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

package types_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meridian.solara.xyz/types"
)

func TestIntentValidate(t *testing.T) {
	scale := math.NewInt(1_000_000)

	testCases := []struct {
		name  string
		items []types.IntentItem
		err   string
	}{
		{
			name: "valid single allocation",
			items: []types.IntentItem{
				{Asset: "AAPL", Weight: math.NewInt(1_000_000)},
			},
		},
		{
			name: "valid split allocation",
			items: []types.IntentItem{
				{Asset: "AAPL", Weight: math.NewInt(600_000)},
				{Asset: "MSFT", Weight: math.NewInt(400_000)},
			},
		},
		{
			name:  "empty intent",
			items: nil,
			err:   "at least one allocation",
		},
		{
			name: "duplicate asset",
			items: []types.IntentItem{
				{Asset: "AAPL", Weight: math.NewInt(500_000)},
				{Asset: "AAPL", Weight: math.NewInt(500_000)},
			},
			err: "duplicate asset",
		},
		{
			name: "empty asset identifier",
			items: []types.IntentItem{
				{Asset: "", Weight: math.NewInt(1_000_000)},
			},
			err: "empty asset identifier",
		},
		{
			name: "zero weight",
			items: []types.IntentItem{
				{Asset: "AAPL", Weight: math.ZeroInt()},
				{Asset: "MSFT", Weight: math.NewInt(1_000_000)},
			},
			err: "must be positive",
		},
		{
			name: "negative weight",
			items: []types.IntentItem{
				{Asset: "AAPL", Weight: math.NewInt(-100)},
				{Asset: "MSFT", Weight: math.NewInt(1_000_100)},
			},
			err: "must be positive",
		},
		{
			name: "weights under scale",
			items: []types.IntentItem{
				{Asset: "AAPL", Weight: math.NewInt(999_999)},
			},
			err: "weights sum to 999999",
		},
		{
			name: "weights over scale",
			items: []types.IntentItem{
				{Asset: "AAPL", Weight: math.NewInt(600_000)},
				{Asset: "MSFT", Weight: math.NewInt(400_001)},
			},
			err: "expected 1000000",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			intent := types.Intent{VaultId: 1, Items: tc.items}
			err := intent.Validate(scale)

			if tc.err == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.err)
			}
		})
	}
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, types.DefaultParams().Validate())

	params := types.DefaultParams()
	params.EpochLength = 0
	require.Error(t, params.Validate())

	params = types.DefaultParams()
	params.SlippageToleranceBps = 10_001
	require.Error(t, params.Validate())

	params = types.DefaultParams()
	params.MaxOrdersPerCall = 0
	require.Error(t, params.Validate())

	params = types.DefaultParams()
	params.ShareScale = math.ZeroInt()
	require.Error(t, params.Validate())
}

func TestParamsIntentScale(t *testing.T) {
	params := types.DefaultParams()
	assert.Equal(t, math.NewInt(1_000_000), params.IntentScale())

	params.IntentScaleDecimals = 0
	assert.Equal(t, math.OneInt(), params.IntentScale())

	params.IntentScaleDecimals = 2
	assert.Equal(t, math.NewInt(100), params.IntentScale())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", types.PhaseIdle.String())
	assert.Equal(t, "estimating", types.PhaseEstimating.String())
	assert.Equal(t, "selling_leg", types.PhaseSelling.String())
	assert.Equal(t, "buying_leg", types.PhaseBuying.String())
	assert.Equal(t, "settling", types.PhaseSettling.String())
	assert.Equal(t, "unknown(99)", types.Phase(99).String())
}

func TestOrderDirection(t *testing.T) {
	assert.True(t, types.DirectionSell.Valid())
	assert.True(t, types.DirectionBuy.Valid())
	assert.False(t, types.OrderDirection(0).Valid())
	assert.Equal(t, "sell", types.DirectionSell.String())
	assert.Equal(t, "buy", types.DirectionBuy.String())
}

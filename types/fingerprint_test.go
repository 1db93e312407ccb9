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

func testSnapshot() types.StateSnapshot {
	return types.StateSnapshot{
		Epoch:  3,
		Phase:  types.PhaseSelling,
		Cursor: 2,
		Vaults: []types.VaultSnapshot{
			{
				VaultId:               1,
				TotalShares:           math.NewInt(1_000_000),
				PendingDeposits:       math.NewInt(50_000),
				PendingWithdrawShares: math.NewInt(10_000),
				Holdings: []types.HoldingSnapshot{
					{Asset: "AAPL", Amount: math.NewInt(300)},
					{Asset: "MSFT", Amount: math.NewInt(120)},
				},
			},
			{
				VaultId:               2,
				TotalShares:           math.NewInt(400_000),
				PendingDeposits:       math.ZeroInt(),
				PendingWithdrawShares: math.ZeroInt(),
			},
		},
	}
}

func TestFingerprintIsOrderInsensitive(t *testing.T) {
	// ARRANGE: Two logically identical snapshots with scrambled ordering.
	ordered := testSnapshot()
	scrambled := testSnapshot()
	scrambled.Vaults[0], scrambled.Vaults[1] = scrambled.Vaults[1], scrambled.Vaults[0]
	scrambled.Vaults[1].Holdings[0], scrambled.Vaults[1].Holdings[1] =
		scrambled.Vaults[1].Holdings[1], scrambled.Vaults[1].Holdings[0]

	// ASSERT: Both produce the same commitment.
	assert.Equal(t, ordered.Fingerprint(), scrambled.Fingerprint())
}

func TestFingerprintIsSensitiveToEveryField(t *testing.T) {
	base := testSnapshot().Fingerprint()
	require.Len(t, base, types.CommitmentSize)

	mutations := map[string]func(*types.StateSnapshot){
		"epoch":             func(s *types.StateSnapshot) { s.Epoch++ },
		"phase":             func(s *types.StateSnapshot) { s.Phase = types.PhaseBuying },
		"cursor":            func(s *types.StateSnapshot) { s.Cursor++ },
		"total shares":      func(s *types.StateSnapshot) { s.Vaults[0].TotalShares = s.Vaults[0].TotalShares.AddRaw(1) },
		"pending deposits":  func(s *types.StateSnapshot) { s.Vaults[0].PendingDeposits = s.Vaults[0].PendingDeposits.AddRaw(1) },
		"pending withdraws": func(s *types.StateSnapshot) { s.Vaults[0].PendingWithdrawShares = s.Vaults[0].PendingWithdrawShares.AddRaw(1) },
		"holding amount":    func(s *types.StateSnapshot) { s.Vaults[0].Holdings[0].Amount = s.Vaults[0].Holdings[0].Amount.AddRaw(1) },
		"holding asset":     func(s *types.StateSnapshot) { s.Vaults[0].Holdings[0].Asset = "AMZN" },
		"vault id":          func(s *types.StateSnapshot) { s.Vaults[1].VaultId = 9 },
	}

	for name, mutate := range mutations {
		snapshot := testSnapshot()
		mutate(&snapshot)
		assert.NotEqual(t, base, snapshot.Fingerprint(), "mutation %q did not change the fingerprint", name)
	}
}

func TestFingerprintDistinguishesAssetBoundaries(t *testing.T) {
	// Two holdings ("AB", "C") must not collide with ("A", "BC").
	first := types.StateSnapshot{Vaults: []types.VaultSnapshot{{
		VaultId:               1,
		TotalShares:           math.ZeroInt(),
		PendingDeposits:       math.ZeroInt(),
		PendingWithdrawShares: math.ZeroInt(),
		Holdings: []types.HoldingSnapshot{
			{Asset: "AB", Amount: math.NewInt(1)},
			{Asset: "C", Amount: math.NewInt(1)},
		},
	}}}
	second := types.StateSnapshot{Vaults: []types.VaultSnapshot{{
		VaultId:               1,
		TotalShares:           math.ZeroInt(),
		PendingDeposits:       math.ZeroInt(),
		PendingWithdrawShares: math.ZeroInt(),
		Holdings: []types.HoldingSnapshot{
			{Asset: "A", Amount: math.NewInt(1)},
			{Asset: "BC", Amount: math.NewInt(1)},
		},
	}}}

	assert.NotEqual(t, first.Fingerprint(), second.Fingerprint())
}

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
	"encoding/binary"
	"sort"

	"cosmossdk.io/math"
	"golang.org/x/crypto/sha3"
)

// HoldingSnapshot is one (asset, amount) entry of a vault snapshot.
type HoldingSnapshot struct {
	Asset  string
	Amount math.Int
}

// VaultSnapshot captures the prover-relevant accounting of one vault.
// Realized buffer amounts are deliberately excluded: they depend on trade
// execution results the prover can only estimate, and including them would
// make every correctly computed next commitment unverifiable.
type VaultSnapshot struct {
	VaultId               uint64
	TotalShares           math.Int
	PendingDeposits       math.Int
	PendingWithdrawShares math.Int
	Holdings              []HoldingSnapshot
}

// StateSnapshot is the canonical view of orchestrator state that commitments
// are computed over.
type StateSnapshot struct {
	Epoch  uint64
	Phase  Phase
	Cursor uint64
	Vaults []VaultSnapshot
}

// Fingerprint computes the Keccak-256 commitment of the snapshot over a
// deterministic binary encoding. Vaults are ordered by id and holdings by
// asset label, so logically identical states always produce bit-identical
// commitments.
func (s StateSnapshot) Fingerprint() []byte {
	vaults := make([]VaultSnapshot, len(s.Vaults))
	copy(vaults, s.Vaults)
	sort.Slice(vaults, func(i, j int) bool { return vaults[i].VaultId < vaults[j].VaultId })

	h := sha3.NewLegacyKeccak256()

	writeUint64(h, s.Epoch)
	h.Write([]byte{byte(s.Phase)})
	writeUint64(h, s.Cursor)
	writeUint32(h, uint32(len(vaults)))

	for _, vault := range vaults {
		writeUint64(h, vault.VaultId)
		writeInt(h, vault.TotalShares)
		writeInt(h, vault.PendingDeposits)
		writeInt(h, vault.PendingWithdrawShares)

		holdings := make([]HoldingSnapshot, len(vault.Holdings))
		copy(holdings, vault.Holdings)
		sort.Slice(holdings, func(i, j int) bool { return holdings[i].Asset < holdings[j].Asset })

		writeUint32(h, uint32(len(holdings)))
		for _, holding := range holdings {
			writeUint32(h, uint32(len(holding.Asset)))
			h.Write([]byte(holding.Asset))
			writeInt(h, holding.Amount)
		}
	}

	return h.Sum(nil)
}

func writeUint64(h interface{ Write([]byte) (int, error) }, v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	h.Write(buf[:])
}

func writeUint32(h interface{ Write([]byte) (int, error) }, v uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	h.Write(buf[:])
}

func writeInt(h interface{ Write([]byte) (int, error) }, v math.Int) {
	var buf [32]byte
	if !v.IsNil() && !v.IsNegative() {
		v.BigInt().FillBytes(buf[:])
	}
	h.Write(buf[:])
}

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
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"

	"cosmossdk.io/math"
)

const (
	// CommitmentSize is the byte length of a single state commitment.
	CommitmentSize = 32
	// PublicValuesSize is the byte length of the proof's public values:
	// inputCommitment || outputCommitment.
	PublicValuesSize = 2 * CommitmentSize

	planVersion       = 0x01
	planHeaderSize    = 3
	planOrderSize     = 105
	planAssetLabelLen = 32
)

// CommitmentPair binds a proof to the state it was computed against
// (Input) and the state it claims to produce (Output).
type CommitmentPair struct {
	Input  [CommitmentSize]byte
	Output [CommitmentSize]byte
}

// ParsePublicValues decodes the fixed-length public values of a state
// transition proof.
func ParsePublicValues(bz []byte) (CommitmentPair, error) {
	if len(bz) != PublicValuesSize {
		return CommitmentPair{}, fmt.Errorf("invalid public values size: expected %d, got %d", PublicValuesSize, len(bz))
	}

	var pair CommitmentPair
	copy(pair.Input[:], bz[:CommitmentSize])
	copy(pair.Output[:], bz[CommitmentSize:])
	return pair, nil
}

// EncodePublicValues is the inverse of ParsePublicValues. It exists so the
// prover-side encoding has a single in-repo definition to test against.
func EncodePublicValues(pair CommitmentPair) []byte {
	bz := make([]byte, 0, PublicValuesSize)
	bz = append(bz, pair.Input[:]...)
	bz = append(bz, pair.Output[:]...)
	return bz
}

// ParseExecutionPlan decodes the claimed per-order buy/sell instructions
// carried alongside a state transition proof. The plan layout is a version
// byte, a big-endian uint16 order count, and fixed-width order entries:
// vault id (8), left-padded asset label (32), direction (1), share amount
// (32) and estimated native amount (32), all big-endian.
func ParseExecutionPlan(bz []byte) ([]ExecutionOrder, error) {
	if len(bz) < planHeaderSize {
		return nil, fmt.Errorf("plan too short: %d bytes", len(bz))
	}
	if bz[0] != planVersion {
		return nil, fmt.Errorf("unsupported plan version 0x%02x", bz[0])
	}

	count := int(binary.BigEndian.Uint16(bz[1:3]))
	expected := planHeaderSize + count*planOrderSize
	if len(bz) != expected {
		return nil, fmt.Errorf("invalid plan size: expected %d bytes for %d orders, got %d", expected, count, len(bz))
	}

	orders := make([]ExecutionOrder, 0, count)
	for i := 0; i < count; i++ {
		entry := bz[planHeaderSize+i*planOrderSize : planHeaderSize+(i+1)*planOrderSize]

		label := bytes.TrimLeft(entry[8:8+planAssetLabelLen], "\x00")
		direction := OrderDirection(entry[40])
		if !direction.Valid() {
			return nil, fmt.Errorf("order %d has invalid direction 0x%02x", i, entry[40])
		}

		shareAmount := math.NewIntFromBigInt(new(big.Int).SetBytes(entry[41:73]))
		if !shareAmount.IsPositive() {
			return nil, fmt.Errorf("order %d has non-positive share amount", i)
		}

		orders = append(orders, ExecutionOrder{
			VaultId:         binary.BigEndian.Uint64(entry[:8]),
			Asset:           string(label),
			Direction:       direction,
			ShareAmount:     shareAmount,
			EstimatedNative: math.NewIntFromBigInt(new(big.Int).SetBytes(entry[73:105])),
		})
	}

	return orders, nil
}

// EncodeExecutionPlan serialises orders into the wire layout consumed by
// ParseExecutionPlan.
func EncodeExecutionPlan(orders []ExecutionOrder) ([]byte, error) {
	if len(orders) > int(^uint16(0)) {
		return nil, fmt.Errorf("too many orders: %d", len(orders))
	}

	bz := make([]byte, planHeaderSize, planHeaderSize+len(orders)*planOrderSize)
	bz[0] = planVersion
	binary.BigEndian.PutUint16(bz[1:3], uint16(len(orders)))

	for i, order := range orders {
		if len(order.Asset) > planAssetLabelLen {
			return nil, fmt.Errorf("asset label %q exceeds %d bytes", order.Asset, planAssetLabelLen)
		}
		if !order.Direction.Valid() {
			return nil, fmt.Errorf("order %d has invalid direction", i)
		}
		if order.ShareAmount.IsNil() || order.ShareAmount.IsNegative() {
			return nil, fmt.Errorf("order %d has invalid share amount", i)
		}

		entry := make([]byte, planOrderSize)
		binary.BigEndian.PutUint64(entry[:8], order.VaultId)
		copy(entry[8+planAssetLabelLen-len(order.Asset):8+planAssetLabelLen], order.Asset)
		entry[40] = byte(order.Direction)
		order.ShareAmount.BigInt().FillBytes(entry[41:73])
		if !order.EstimatedNative.IsNil() {
			order.EstimatedNative.BigInt().FillBytes(entry[73:105])
		}

		bz = append(bz, entry...)
	}

	return bz, nil
}

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
	"fmt"
	"time"

	"cosmossdk.io/math"
)

// Phase is the orchestrator's position within the per-epoch settlement state
// machine. Idle is both the initial and the terminal phase of every epoch;
// Estimating and Settling are transient and always complete within the call
// that entered them.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseEstimating
	PhaseSelling
	PhaseBuying
	PhaseSettling
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseEstimating:
		return "estimating"
	case PhaseSelling:
		return "selling_leg"
	case PhaseBuying:
		return "buying_leg"
	case PhaseSettling:
		return "settling"
	default:
		return fmt.Sprintf("unknown(%d)", int32(p))
	}
}

// OrderDirection indicates whether an execution order converts a holding into
// native currency or deploys native currency into a holding.
type OrderDirection uint8

const (
	DirectionSell OrderDirection = 1
	DirectionBuy  OrderDirection = 2
)

func (d OrderDirection) Valid() bool {
	return d == DirectionSell || d == DirectionBuy
}

func (d OrderDirection) String() string {
	switch d {
	case DirectionSell:
		return "sell"
	case DirectionBuy:
		return "buy"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(d))
	}
}

// Params holds the governable configuration of the module.
type Params struct {
	// EpochLength is the number of seconds between epoch deadlines.
	EpochLength int64 `json:"epoch_length"`
	// SlippageToleranceBps bounds the deviation between estimated and
	// realized conversion amounts, in basis points.
	SlippageToleranceBps uint32 `json:"slippage_tolerance_bps"`
	// MaxOrdersPerCall bounds how many execution orders a single upkeep call
	// may process.
	MaxOrdersPerCall uint32 `json:"max_orders_per_call"`
	// IntentScaleDecimals fixes the scale curator intent weights must sum to,
	// as a power of ten.
	IntentScaleDecimals uint32 `json:"intent_scale_decimals"`
	// ShareScale is the virtual share offset protecting the first deposit
	// from share price manipulation.
	ShareScale math.Int `json:"share_scale"`
	Paused     bool     `json:"paused"`
}

func DefaultParams() Params {
	return Params{
		EpochLength:          86400,
		SlippageToleranceBps: 50,
		MaxOrdersPerCall:     16,
		IntentScaleDecimals:  6,
		ShareScale:           math.OneInt(),
		Paused:               false,
	}
}

// Validate rejects configurations that would make settlement undefined.
func (p Params) Validate() error {
	if p.EpochLength <= 0 {
		return fmt.Errorf("epoch length must be positive, got %d", p.EpochLength)
	}
	if p.SlippageToleranceBps > 10_000 {
		return fmt.Errorf("slippage tolerance cannot exceed 10000 bps, got %d", p.SlippageToleranceBps)
	}
	if p.MaxOrdersPerCall == 0 {
		return fmt.Errorf("max orders per call must be positive")
	}
	if p.ShareScale.IsNil() || !p.ShareScale.IsPositive() {
		return fmt.Errorf("share scale must be positive")
	}
	return nil
}

// IntentScale returns the fixed sum curator intent weights must add up to.
func (p Params) IntentScale() math.Int {
	scale := math.OneInt()
	ten := math.NewInt(10)
	for i := uint32(0); i < p.IntentScaleDecimals; i++ {
		scale = scale.Mul(ten)
	}
	return scale
}

// VaultRecord is the persisted accounting state of a single pooled-capital
// vault. TotalAssets only changes during the Settling step of an epoch or
// through an authority-approved buffer top-up.
type VaultRecord struct {
	Id                    uint64    `json:"id"`
	Curator               string    `json:"curator"`
	TotalAssets           math.Int  `json:"total_assets"`
	TotalShares           math.Int  `json:"total_shares"`
	Buffer                math.Int  `json:"buffer"`
	PendingDepositTotal   math.Int  `json:"pending_deposit_total"`
	PendingWithdrawShares math.Int  `json:"pending_withdraw_shares"`
	Enabled               bool      `json:"enabled"`
	CreatedAt             time.Time `json:"created_at"`
}

// ExecutionOrder is one buy/sell instruction decoded from a verified
// execution plan. Orders are created when the plan for an epoch is accepted,
// consumed exactly once during the selling/buying legs, and never persisted
// past the epoch.
type ExecutionOrder struct {
	VaultId         uint64         `json:"vault_id"`
	Asset           string         `json:"asset"`
	Direction       OrderDirection `json:"direction"`
	ShareAmount     math.Int       `json:"share_amount"`
	EstimatedNative math.Int       `json:"estimated_native"`
}

// IntentItem is a single (asset, weight) pair of a curator intent.
type IntentItem struct {
	Asset  string   `json:"asset"`
	Weight math.Int `json:"weight"`
}

// Intent is a curator-submitted target allocation over whitelisted holdings.
type Intent struct {
	VaultId     uint64       `json:"vault_id"`
	Curator     string       `json:"curator"`
	Items       []IntentItem `json:"items"`
	SubmittedAt time.Time    `json:"submitted_at"`
}

// Validate checks the structural rules every accepted intent must satisfy:
// non-empty, no duplicate assets, strictly positive weights, and weights that
// sum exactly to the configured scale.
func (i Intent) Validate(scale math.Int) error {
	if len(i.Items) == 0 {
		return fmt.Errorf("intent must contain at least one allocation")
	}

	seen := make(map[string]struct{}, len(i.Items))
	sum := math.ZeroInt()
	for _, item := range i.Items {
		if item.Asset == "" {
			return fmt.Errorf("intent contains an empty asset identifier")
		}
		if _, ok := seen[item.Asset]; ok {
			return fmt.Errorf("duplicate asset %s in intent", item.Asset)
		}
		seen[item.Asset] = struct{}{}

		if item.Weight.IsNil() || !item.Weight.IsPositive() {
			return fmt.Errorf("weight for asset %s must be positive", item.Asset)
		}

		var err error
		sum, err = sum.SafeAdd(item.Weight)
		if err != nil {
			return err
		}
	}

	if !sum.Equal(scale) {
		return fmt.Errorf("intent weights sum to %s, expected %s", sum.String(), scale.String())
	}

	return nil
}

// AssetInfo describes a whitelisted holding.
type AssetInfo struct {
	Id            string    `json:"id"`
	BaseDenom     string    `json:"base_denom"`
	Decimals      uint32    `json:"decimals"`
	WhitelistedAt time.Time `json:"whitelisted_at"`
}

// AdapterConfig is the registered configuration of the execution adapter
// responsible for converting one asset to and from native currency. Adapters
// carry no state beyond this configuration.
type AdapterConfig struct {
	Asset     string `json:"asset"`
	BaseDenom string `json:"base_denom"`
	Decimals  uint32 `json:"decimals"`
	Venue     string `json:"venue"`
}

// EpochEstimate is the mark-to-market estimate recorded for one vault during
// the Estimating phase. It is the valuation the prover plans against;
// settlement re-marks from live state instead, so realized conversion
// amounts are never overwritten by this figure.
type EpochEstimate struct {
	VaultId     uint64   `json:"vault_id"`
	NavEstimate math.Int `json:"nav_estimate"`
	PnlDelta    math.Int `json:"pnl_delta"`
}

// PricePoint is the pair of valuations captured for one asset at estimation
// time, expressed in native currency per holding unit.
type PricePoint struct {
	Previous math.LegacyDec `json:"previous"`
	Current  math.LegacyDec `json:"current"`
}

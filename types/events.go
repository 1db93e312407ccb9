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

// Event types emitted by the module. Names are stable identifiers consumed
// by off-chain indexers and the prover pipeline; renaming one is a breaking
// change.
const (
	EventTypeDepositRequested   = "meridian.DepositRequested"
	EventTypeDepositCancelled   = "meridian.DepositCancelled"
	EventTypeDepositFulfilled   = "meridian.DepositFulfilled"
	EventTypeWithdrawRequested  = "meridian.WithdrawRequested"
	EventTypeWithdrawCancelled  = "meridian.WithdrawCancelled"
	EventTypeWithdrawFulfilled  = "meridian.WithdrawFulfilled"
	EventTypeIntentSubmitted    = "meridian.IntentSubmitted"
	EventTypePhaseTransitioned  = "meridian.PhaseTransitioned"
	EventTypeCommitmentVerified = "meridian.CommitmentVerified"
	EventTypeOrderExecuted      = "meridian.OrderExecuted"
	EventTypeEpochSettled       = "meridian.EpochSettled"
	EventTypeVaultRegistered    = "meridian.VaultRegistered"
	EventTypeAssetWhitelisted   = "meridian.AssetWhitelisted"
	EventTypeAdapterRegistered  = "meridian.AdapterRegistered"
	EventTypeBufferToppedUp     = "meridian.BufferToppedUp"
	EventTypeParamsUpdated      = "meridian.ParamsUpdated"
)

// Attribute keys shared across event types.
const (
	AttributeKeyVaultID       = "vault_id"
	AttributeKeyDepositor     = "depositor"
	AttributeKeyHolder        = "holder"
	AttributeKeyCurator       = "curator"
	AttributeKeyAmount        = "amount"
	AttributeKeyShares        = "shares"
	AttributeKeyAsset         = "asset"
	AttributeKeyDirection     = "direction"
	AttributeKeyRealized      = "realized"
	AttributeKeyEstimated     = "estimated"
	AttributeKeyEpoch         = "epoch"
	AttributeKeyPhase         = "phase"
	AttributeKeyPreviousPhase = "previous_phase"
	AttributeKeyCommitment    = "commitment"
	AttributeKeySharePrice    = "share_price"
	AttributeKeyCaller        = "caller"
	AttributeKeyVenue         = "venue"
	AttributeKeyBaseDenom     = "base_denom"
)

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

	"cosmossdk.io/collections"
	"cosmossdk.io/core/address"
	"cosmossdk.io/core/event"
	"cosmossdk.io/core/header"
	"cosmossdk.io/core/store"
	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"meridian.solara.xyz/types"
)

type Keeper struct {
	denom     string
	authority string

	store store.KVStoreService

	logger   log.Logger
	header   header.Service
	event    event.Service
	address  address.Codec
	bank     types.BankKeeper
	feed     types.PriceFeed
	verifier types.ProofVerifier
	swap     types.SwapRouter
	auth     types.AuthorizationKeeper

	// upkeepRunning guards against reentrant upkeep execution within a single
	// call. It is per-instance, in-memory state and never persisted.
	upkeepRunning bool

	Params                 collections.Item[types.Params]
	Phase                  collections.Item[int32]
	EpochNumber            collections.Item[uint64]
	EpochDeadline          collections.Item[int64]
	LastCommittedStateHash collections.Item[[]byte]
	OrderCursor            collections.Item[uint64]
	OrderCount             collections.Item[uint64]
	Orders                 collections.Map[uint64, types.ExecutionOrder]
	PlanHash               collections.Item[[]byte]
	Vaults                 collections.Map[uint64, types.VaultRecord]
	VaultNextID            collections.Item[uint64]
	Holdings               collections.Map[collections.Pair[uint64, string], math.Int]
	PendingDeposits        collections.Map[collections.Pair[uint64, []byte], math.Int]
	PendingWithdrawals     collections.Map[collections.Pair[uint64, []byte], math.Int]
	UserShares             collections.Map[collections.Pair[uint64, []byte], math.Int]
	Intents                collections.Map[uint64, types.Intent]
	Assets                 collections.Map[string, types.AssetInfo]
	Adapters               collections.Map[string, types.AdapterConfig]
	EpochEstimates         collections.Map[uint64, types.EpochEstimate]
	EpochPrices            collections.Map[string, types.PricePoint]
}

func NewKeeper(
	denom string,
	authority string,
	store store.KVStoreService,
	logger log.Logger,
	header header.Service,
	event event.Service,
	address address.Codec,
	bank types.BankKeeper,
	feed types.PriceFeed,
	verifier types.ProofVerifier,
	swap types.SwapRouter,
	auth types.AuthorizationKeeper,
) *Keeper {
	if denom == "" {
		panic("denom must be set")
	}
	if authority == "" {
		panic("authority must be set")
	}
	if bank == nil || feed == nil || verifier == nil || swap == nil || auth == nil {
		panic("all collaborator keepers must be set")
	}

	builder := collections.NewSchemaBuilder(store)

	keeper := &Keeper{
		denom:     denom,
		authority: authority,

		store: store,

		logger:   logger.With("module", types.ModuleName),
		header:   header,
		event:    event,
		address:  address,
		bank:     bank,
		feed:     feed,
		verifier: verifier,
		swap:     swap,
		auth:     auth,

		Params:                 collections.NewItem(builder, types.ParamsKey, "params", types.JSONValue[types.Params]("params")),
		Phase:                  collections.NewItem(builder, types.PhaseKey, "phase", collections.Int32Value),
		EpochNumber:            collections.NewItem(builder, types.EpochNumberKey, "epoch_number", collections.Uint64Value),
		EpochDeadline:          collections.NewItem(builder, types.EpochDeadlineKey, "epoch_deadline", collections.Int64Value),
		LastCommittedStateHash: collections.NewItem(builder, types.LastCommittedStateHashKey, "last_committed_state_hash", collections.BytesValue),
		OrderCursor:            collections.NewItem(builder, types.OrderCursorKey, "order_cursor", collections.Uint64Value),
		OrderCount:             collections.NewItem(builder, types.OrderCountKey, "order_count", collections.Uint64Value),
		Orders:                 collections.NewMap(builder, types.OrderPrefix, "orders", collections.Uint64Key, types.JSONValue[types.ExecutionOrder]("order")),
		PlanHash:               collections.NewItem(builder, types.PlanHashKey, "plan_hash", collections.BytesValue),
		Vaults:                 collections.NewMap(builder, types.VaultPrefix, "vaults", collections.Uint64Key, types.JSONValue[types.VaultRecord]("vault")),
		VaultNextID:            collections.NewItem(builder, types.VaultNextIDKey, "vault_next_id", collections.Uint64Value),
		Holdings:               collections.NewMap(builder, types.HoldingPrefix, "holdings", collections.PairKeyCodec(collections.Uint64Key, collections.StringKey), sdk.IntValue),
		PendingDeposits:        collections.NewMap(builder, types.PendingDepositPrefix, "pending_deposits", collections.PairKeyCodec(collections.Uint64Key, collections.BytesKey), sdk.IntValue),
		PendingWithdrawals:     collections.NewMap(builder, types.PendingWithdrawalPrefix, "pending_withdrawals", collections.PairKeyCodec(collections.Uint64Key, collections.BytesKey), sdk.IntValue),
		UserShares:             collections.NewMap(builder, types.UserSharesPrefix, "user_shares", collections.PairKeyCodec(collections.Uint64Key, collections.BytesKey), sdk.IntValue),
		Intents:                collections.NewMap(builder, types.IntentPrefix, "intents", collections.Uint64Key, types.JSONValue[types.Intent]("intent")),
		Assets:                 collections.NewMap(builder, types.AssetPrefix, "assets", collections.StringKey, types.JSONValue[types.AssetInfo]("asset")),
		Adapters:               collections.NewMap(builder, types.AdapterPrefix, "adapters", collections.StringKey, types.JSONValue[types.AdapterConfig]("adapter")),
		EpochEstimates:         collections.NewMap(builder, types.EpochEstimatePrefix, "epoch_estimates", collections.Uint64Key, types.JSONValue[types.EpochEstimate]("epoch_estimate")),
		EpochPrices:            collections.NewMap(builder, types.EpochPricePrefix, "epoch_prices", collections.StringKey, types.JSONValue[types.PricePoint]("price_point")),
	}

	_, err := builder.Build()
	if err != nil {
		panic(err)
	}

	return keeper
}

// SetBankKeeper overwrites the bank keeper used in this module.
func (k *Keeper) SetBankKeeper(bank types.BankKeeper) {
	k.bank = bank
}

// SetPriceFeed overwrites the price feed used in this module.
func (k *Keeper) SetPriceFeed(feed types.PriceFeed) {
	k.feed = feed
}

// SetProofVerifier overwrites the proof verifier used in this module.
func (k *Keeper) SetProofVerifier(verifier types.ProofVerifier) {
	k.verifier = verifier
}

// GetDenom is a utility that returns the configured native denomination.
func (k *Keeper) GetDenom() string {
	return k.denom
}

// GetAuthority is a utility that returns the configured module authority.
func (k *Keeper) GetAuthority() string {
	return k.authority
}

// EscrowedBalance returns the module account's native balance, which backs
// all pending deposits and vault buffers.
func (k *Keeper) EscrowedBalance(ctx context.Context) math.Int {
	return k.bank.GetBalance(ctx, types.ModuleAddress, k.denom).Amount
}

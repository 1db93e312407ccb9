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
	"time"

	"cosmossdk.io/math"
)

// QueryServer is the module's read-only surface.
type QueryServer interface {
	CheckUpkeep(ctx context.Context, req *QueryCheckUpkeepRequest) (*QueryCheckUpkeepResponse, error)
	EpochStatus(ctx context.Context, req *QueryEpochStatusRequest) (*QueryEpochStatusResponse, error)
	VaultState(ctx context.Context, req *QueryVaultStateRequest) (*QueryVaultStateResponse, error)
	PendingDeposit(ctx context.Context, req *QueryPendingDepositRequest) (*QueryPendingDepositResponse, error)
	PendingWithdrawal(ctx context.Context, req *QueryPendingWithdrawalRequest) (*QueryPendingWithdrawalResponse, error)
	Intent(ctx context.Context, req *QueryIntentRequest) (*QueryIntentResponse, error)
	Params(ctx context.Context, req *QueryParamsRequest) (*QueryParamsResponse, error)
	Asset(ctx context.Context, req *QueryAssetRequest) (*QueryAssetResponse, error)
}

type QueryCheckUpkeepRequest struct{}

type QueryCheckUpkeepResponse struct {
	UpkeepNeeded bool
	Deadline     time.Time
}

type QueryEpochStatusRequest struct{}

type QueryEpochStatusResponse struct {
	Epoch             uint64
	Phase             Phase
	Deadline          time.Time
	OrderCursor       uint64
	OrderCount        uint64
	LastCommittedHash []byte
}

type QueryVaultStateRequest struct {
	VaultId uint64
}

type QueryVaultStateResponse struct {
	Vault    VaultRecord
	Holdings []HoldingSnapshot
}

type QueryPendingDepositRequest struct {
	VaultId   uint64
	Depositor string
}

type QueryPendingDepositResponse struct {
	Amount math.Int
}

type QueryPendingWithdrawalRequest struct {
	VaultId uint64
	Holder  string
}

type QueryPendingWithdrawalResponse struct {
	Shares math.Int
}

type QueryIntentRequest struct {
	VaultId uint64
}

type QueryIntentResponse struct {
	Intent Intent
	Found  bool
}

type QueryParamsRequest struct{}

type QueryParamsResponse struct {
	Params Params
}

type QueryAssetRequest struct {
	Id string
}

type QueryAssetResponse struct {
	Asset   AssetInfo
	Adapter *AdapterConfig
}

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
)

// MsgServer is the module's transactional surface. Every handler either
// completes fully or returns an error with no state mutation.
type MsgServer interface {
	RequestDeposit(ctx context.Context, msg *MsgRequestDeposit) (*MsgRequestDepositResponse, error)
	CancelDeposit(ctx context.Context, msg *MsgCancelDeposit) (*MsgCancelDepositResponse, error)
	RequestWithdraw(ctx context.Context, msg *MsgRequestWithdraw) (*MsgRequestWithdrawResponse, error)
	CancelWithdraw(ctx context.Context, msg *MsgCancelWithdraw) (*MsgCancelWithdrawResponse, error)
	SubmitIntent(ctx context.Context, msg *MsgSubmitIntent) (*MsgSubmitIntentResponse, error)
	PerformUpkeep(ctx context.Context, msg *MsgPerformUpkeep) (*MsgPerformUpkeepResponse, error)
	RegisterVault(ctx context.Context, msg *MsgRegisterVault) (*MsgRegisterVaultResponse, error)
	WhitelistAsset(ctx context.Context, msg *MsgWhitelistAsset) (*MsgWhitelistAssetResponse, error)
	RegisterAdapter(ctx context.Context, msg *MsgRegisterAdapter) (*MsgRegisterAdapterResponse, error)
	TopUpBuffer(ctx context.Context, msg *MsgTopUpBuffer) (*MsgTopUpBufferResponse, error)
	UpdateParams(ctx context.Context, msg *MsgUpdateParams) (*MsgUpdateParamsResponse, error)
}

type MsgRequestDeposit struct {
	VaultId   uint64
	Depositor string
	Amount    math.Int
}

type MsgRequestDepositResponse struct {
	PendingAmount math.Int
}

type MsgCancelDeposit struct {
	VaultId   uint64
	Depositor string
	Amount    math.Int
}

type MsgCancelDepositResponse struct {
	RemainingAmount math.Int
}

type MsgRequestWithdraw struct {
	VaultId uint64
	Holder  string
	Shares  math.Int
}

type MsgRequestWithdrawResponse struct {
	PendingShares math.Int
}

type MsgCancelWithdraw struct {
	VaultId uint64
	Holder  string
	Shares  math.Int
}

type MsgCancelWithdrawResponse struct {
	RemainingShares math.Int
}

type MsgSubmitIntent struct {
	VaultId uint64
	Curator string
	Items   []IntentItem
}

type MsgSubmitIntentResponse struct{}

// MsgPerformUpkeep drives the epoch state machine. From Idle the payload
// fields are ignored and the call runs estimation; from an execution leg the
// payload must carry a verified commitment/proof pair and the execution plan.
type MsgPerformUpkeep struct {
	Caller       string
	PublicValues []byte
	Proof        []byte
	Plan         []byte
}

type MsgPerformUpkeepResponse struct {
	Phase           Phase
	Epoch           uint64
	OrdersProcessed uint32
}

type MsgRegisterVault struct {
	Authority string
	Curator   string
}

type MsgRegisterVaultResponse struct {
	VaultId uint64
}

type MsgWhitelistAsset struct {
	Authority string
	Id        string
	BaseDenom string
	Decimals  uint32
}

type MsgWhitelistAssetResponse struct{}

type MsgRegisterAdapter struct {
	Authority string
	Asset     string
	BaseDenom string
	Decimals  uint32
	Venue     string
}

type MsgRegisterAdapterResponse struct{}

// MsgTopUpBuffer is the explicitly authorized liquidity top-up: the only way
// TotalAssets changes outside the Settling step.
type MsgTopUpBuffer struct {
	Authority string
	Funder    string
	VaultId   uint64
	Amount    math.Int
}

type MsgTopUpBufferResponse struct {
	NewBuffer math.Int
}

type MsgUpdateParams struct {
	Authority string
	Params    Params
}

type MsgUpdateParamsResponse struct{}

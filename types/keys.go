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

import authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

const ModuleName = "meridian"

// ModuleAddress is the escrow account holding deposited funds and vault
// buffers until they are deployed or paid out.
var ModuleAddress = authtypes.NewModuleAddress(ModuleName)

var (
	ParamsKey                 = []byte("meridian/params")
	PhaseKey                  = []byte("meridian/phase")
	EpochNumberKey            = []byte("meridian/epoch_number")
	EpochDeadlineKey          = []byte("meridian/epoch_deadline")
	LastCommittedStateHashKey = []byte("meridian/last_committed_state_hash")
	OrderCursorKey            = []byte("meridian/order_cursor")
	OrderCountKey             = []byte("meridian/order_count")
	OrderPrefix               = []byte("meridian/order/")
	PlanHashKey               = []byte("meridian/plan_hash")
	VaultPrefix               = []byte("meridian/vault/")
	VaultNextIDKey            = []byte("meridian/vault_next_id")
	HoldingPrefix             = []byte("meridian/holding/")
	PendingDepositPrefix      = []byte("meridian/pending_deposit/")
	PendingWithdrawalPrefix   = []byte("meridian/pending_withdrawal/")
	UserSharesPrefix          = []byte("meridian/user_shares/")
	IntentPrefix              = []byte("meridian/intent/")
	AssetPrefix               = []byte("meridian/asset/")
	AdapterPrefix             = []byte("meridian/adapter/")
	EpochEstimatePrefix       = []byte("meridian/epoch_estimate/")
	EpochPricePrefix          = []byte("meridian/epoch_price/")
)

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

import "cosmossdk.io/errors"

var (
	ErrInvalidRequest = errors.Register(ModuleName, 1, "invalid request")

	// Input validation errors. Recoverable by retrying with corrected input.
	ErrInvalidAmount              = errors.Register(ModuleName, 2, "amount must be greater than zero")
	ErrInsufficientPendingRequest = errors.Register(ModuleName, 3, "insufficient pending request")
	ErrInvalidIntent              = errors.Register(ModuleName, 4, "invalid curator intent")
	ErrAssetNotWhitelisted        = errors.Register(ModuleName, 5, "asset is not whitelisted")
	ErrInvalidAuthority           = errors.Register(ModuleName, 6, "invalid authority")
	ErrVaultNotFound              = errors.Register(ModuleName, 7, "vault not found")
	ErrInsufficientShares         = errors.Register(ModuleName, 8, "insufficient share balance")

	// Consistency errors. Recoverable by resubmitting a correctly bound payload.
	ErrCommitmentMismatch = errors.Register(ModuleName, 9, "commitment does not match stored state")
	ErrProofRejected      = errors.Register(ModuleName, 10, "proof rejected by verifier")
	ErrInvalidPhase       = errors.Register(ModuleName, 11, "operation not allowed in current phase")
	ErrUpkeepNotNeeded    = errors.Register(ModuleName, 12, "upkeep is not needed")
	ErrInvalidPayload     = errors.Register(ModuleName, 13, "invalid upkeep payload")

	// Execution errors. The leg remains retryable since no partial spend occurred.
	ErrSlippageExceeded      = errors.Register(ModuleName, 14, "slippage tolerance exceeded")
	ErrAdapterNotRegistered  = errors.Register(ModuleName, 15, "no execution adapter registered for asset")
	ErrDecimalsMismatch      = errors.Register(ModuleName, 16, "adapter decimals do not match asset configuration")
	ErrInsufficientLiquidity = errors.Register(ModuleName, 17, "insufficient buffer liquidity")

	ErrReentrantCall = errors.Register(ModuleName, 18, "reentrant call")
	ErrPaused        = errors.Register(ModuleName, 19, "module is paused")
)

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

	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"meridian.solara.xyz/types"
)

var _ types.QueryServer = queryServer{}

type queryServer struct {
	*Keeper
}

func NewQueryServer(keeper *Keeper) types.QueryServer {
	return queryServer{Keeper: keeper}
}

func (k queryServer) CheckUpkeep(ctx context.Context, req *types.QueryCheckUpkeepRequest) (*types.QueryCheckUpkeepResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest
	}

	needed, deadline := k.Keeper.CheckUpkeep(ctx)
	return &types.QueryCheckUpkeepResponse{
		UpkeepNeeded: needed,
		Deadline:     deadline,
	}, nil
}

func (k queryServer) EpochStatus(ctx context.Context, req *types.QueryEpochStatusRequest) (*types.QueryEpochStatusResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest
	}

	return &types.QueryEpochStatusResponse{
		Epoch:             k.GetEpoch(ctx),
		Phase:             k.GetPhase(ctx),
		Deadline:          k.GetEpochDeadline(ctx),
		OrderCursor:       k.GetOrderCursor(ctx),
		OrderCount:        k.GetOrderCount(ctx),
		LastCommittedHash: k.GetLastCommittedStateHash(ctx),
	}, nil
}

func (k queryServer) VaultState(ctx context.Context, req *types.QueryVaultStateRequest) (*types.QueryVaultStateResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest
	}

	vault, err := k.GetVault(ctx, req.VaultId)
	if err != nil {
		return nil, err
	}

	var holdings []types.HoldingSnapshot
	if err := k.IterateVaultHoldings(ctx, vault.Id, func(asset string, amount math.Int) (bool, error) {
		holdings = append(holdings, types.HoldingSnapshot{Asset: asset, Amount: amount})
		return false, nil
	}); err != nil {
		return nil, sdkerrors.Wrapf(err, "unable to iterate holdings of vault %d", vault.Id)
	}

	return &types.QueryVaultStateResponse{
		Vault:    vault,
		Holdings: holdings,
	}, nil
}

func (k queryServer) PendingDeposit(ctx context.Context, req *types.QueryPendingDepositRequest) (*types.QueryPendingDepositResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest
	}

	depositor, err := k.address.StringToBytes(req.Depositor)
	if err != nil {
		return nil, sdkerrors.Wrapf(err, "unable to decode depositor address %s", req.Depositor)
	}

	return &types.QueryPendingDepositResponse{
		Amount: k.GetPendingDeposit(ctx, req.VaultId, depositor),
	}, nil
}

func (k queryServer) PendingWithdrawal(ctx context.Context, req *types.QueryPendingWithdrawalRequest) (*types.QueryPendingWithdrawalResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest
	}

	holder, err := k.address.StringToBytes(req.Holder)
	if err != nil {
		return nil, sdkerrors.Wrapf(err, "unable to decode holder address %s", req.Holder)
	}

	return &types.QueryPendingWithdrawalResponse{
		Shares: k.GetPendingWithdrawal(ctx, req.VaultId, holder),
	}, nil
}

func (k queryServer) Intent(ctx context.Context, req *types.QueryIntentRequest) (*types.QueryIntentResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest
	}

	intent, found := k.GetIntent(ctx, req.VaultId)
	return &types.QueryIntentResponse{
		Intent: intent,
		Found:  found,
	}, nil
}

func (k queryServer) Params(ctx context.Context, req *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest
	}

	return &types.QueryParamsResponse{Params: k.GetParams(ctx)}, nil
}

func (k queryServer) Asset(ctx context.Context, req *types.QueryAssetRequest) (*types.QueryAssetResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest
	}

	asset, err := k.GetAsset(ctx, req.Id)
	if err != nil {
		return nil, err
	}

	res := &types.QueryAssetResponse{Asset: asset}
	if adapter, err := k.GetAdapter(ctx, req.Id); err == nil {
		res.Adapter = &adapter
	}

	return res, nil
}

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
	"fmt"

	"cosmossdk.io/core/event"
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"meridian.solara.xyz/types"
)

var _ types.MsgServer = msgServer{}

type msgServer struct {
	*Keeper
}

func NewMsgServer(keeper *Keeper) types.MsgServer {
	return msgServer{Keeper: keeper}
}

// RequestDeposit escrows native currency with the module and queues it for
// share minting at the next settlement. Requests merge: a depositor with an
// outstanding request grows it instead of creating a second entry.
func (k msgServer) RequestDeposit(ctx context.Context, msg *types.MsgRequestDeposit) (*types.MsgRequestDepositResponse, error) {
	if k.GetParams(ctx).Paused {
		return nil, types.ErrPaused
	}
	if msg.Amount.IsNil() || !msg.Amount.IsPositive() {
		return nil, sdkerrors.Wrap(types.ErrInvalidAmount, "deposit amount must be positive")
	}

	vault, err := k.GetVault(ctx, msg.VaultId)
	if err != nil {
		return nil, err
	}
	if !vault.Enabled {
		return nil, sdkerrors.Wrapf(types.ErrInvalidRequest, "vault %d is disabled", vault.Id)
	}

	depositor, err := k.address.StringToBytes(msg.Depositor)
	if err != nil {
		return nil, sdkerrors.Wrapf(err, "unable to decode depositor address %s", msg.Depositor)
	}

	coins := sdk.NewCoins(sdk.NewCoin(k.denom, msg.Amount))
	if err := k.bank.SendCoins(ctx, depositor, types.ModuleAddress, coins); err != nil {
		return nil, sdkerrors.Wrap(err, "unable to escrow deposit")
	}

	pending, err := k.GetPendingDeposit(ctx, vault.Id, depositor).SafeAdd(msg.Amount)
	if err != nil {
		return nil, err
	}
	if err := k.SetPendingDeposit(ctx, vault.Id, depositor, pending); err != nil {
		return nil, sdkerrors.Wrap(err, "unable to set pending deposit to state")
	}

	if vault.PendingDepositTotal, err = vault.PendingDepositTotal.SafeAdd(msg.Amount); err != nil {
		return nil, err
	}
	if err := k.SetVault(ctx, vault); err != nil {
		return nil, sdkerrors.Wrap(err, "unable to set vault to state")
	}

	if err := k.event.EventManager(ctx).EmitKV(
		ctx, types.EventTypeDepositRequested,
		event.Attribute{Key: types.AttributeKeyVaultID, Value: fmt.Sprint(vault.Id)},
		event.Attribute{Key: types.AttributeKeyDepositor, Value: msg.Depositor},
		event.Attribute{Key: types.AttributeKeyAmount, Value: msg.Amount.String()},
	); err != nil {
		return nil, err
	}

	return &types.MsgRequestDepositResponse{PendingAmount: pending}, nil
}

// CancelDeposit returns queued funds to the depositor before they settle.
// Cancellation stays available while the module is paused so users can
// always exit the queue.
func (k msgServer) CancelDeposit(ctx context.Context, msg *types.MsgCancelDeposit) (*types.MsgCancelDepositResponse, error) {
	if msg.Amount.IsNil() || !msg.Amount.IsPositive() {
		return nil, sdkerrors.Wrap(types.ErrInvalidAmount, "cancellation amount must be positive")
	}

	vault, err := k.GetVault(ctx, msg.VaultId)
	if err != nil {
		return nil, err
	}

	depositor, err := k.address.StringToBytes(msg.Depositor)
	if err != nil {
		return nil, sdkerrors.Wrapf(err, "unable to decode depositor address %s", msg.Depositor)
	}

	pending := k.GetPendingDeposit(ctx, vault.Id, depositor)
	if pending.LT(msg.Amount) {
		return nil, sdkerrors.Wrapf(
			types.ErrInsufficientPendingRequest,
			"pending deposit %s is less than cancellation amount %s",
			pending.String(), msg.Amount.String(),
		)
	}

	remaining := pending.Sub(msg.Amount)
	if err := k.SetPendingDeposit(ctx, vault.Id, depositor, remaining); err != nil {
		return nil, sdkerrors.Wrap(err, "unable to set pending deposit to state")
	}

	if vault.PendingDepositTotal, err = vault.PendingDepositTotal.SafeSub(msg.Amount); err != nil {
		return nil, err
	}
	if err := k.SetVault(ctx, vault); err != nil {
		return nil, sdkerrors.Wrap(err, "unable to set vault to state")
	}

	coins := sdk.NewCoins(sdk.NewCoin(k.denom, msg.Amount))
	if err := k.bank.SendCoins(ctx, types.ModuleAddress, depositor, coins); err != nil {
		return nil, sdkerrors.Wrap(err, "unable to refund deposit")
	}

	if err := k.event.EventManager(ctx).EmitKV(
		ctx, types.EventTypeDepositCancelled,
		event.Attribute{Key: types.AttributeKeyVaultID, Value: fmt.Sprint(vault.Id)},
		event.Attribute{Key: types.AttributeKeyDepositor, Value: msg.Depositor},
		event.Attribute{Key: types.AttributeKeyAmount, Value: msg.Amount.String()},
	); err != nil {
		return nil, err
	}

	return &types.MsgCancelDepositResponse{RemainingAmount: remaining}, nil
}

// RequestWithdraw locks vault shares and queues them for redemption at the
// next settlement. Locked shares keep earning or losing with the vault until
// they are burned.
func (k msgServer) RequestWithdraw(ctx context.Context, msg *types.MsgRequestWithdraw) (*types.MsgRequestWithdrawResponse, error) {
	if k.GetParams(ctx).Paused {
		return nil, types.ErrPaused
	}
	if msg.Shares.IsNil() || !msg.Shares.IsPositive() {
		return nil, sdkerrors.Wrap(types.ErrInvalidAmount, "withdrawal shares must be positive")
	}

	vault, err := k.GetVault(ctx, msg.VaultId)
	if err != nil {
		return nil, err
	}

	holder, err := k.address.StringToBytes(msg.Holder)
	if err != nil {
		return nil, sdkerrors.Wrapf(err, "unable to decode holder address %s", msg.Holder)
	}

	balance := k.GetUserShares(ctx, vault.Id, holder)
	if balance.LT(msg.Shares) {
		return nil, sdkerrors.Wrapf(
			types.ErrInsufficientShares,
			"holder owns %s shares, cannot lock %s",
			balance.String(), msg.Shares.String(),
		)
	}

	if err := k.SetUserShares(ctx, vault.Id, holder, balance.Sub(msg.Shares)); err != nil {
		return nil, sdkerrors.Wrap(err, "unable to set user shares to state")
	}

	pending, err := k.GetPendingWithdrawal(ctx, vault.Id, holder).SafeAdd(msg.Shares)
	if err != nil {
		return nil, err
	}
	if err := k.SetPendingWithdrawal(ctx, vault.Id, holder, pending); err != nil {
		return nil, sdkerrors.Wrap(err, "unable to set pending withdrawal to state")
	}

	if vault.PendingWithdrawShares, err = vault.PendingWithdrawShares.SafeAdd(msg.Shares); err != nil {
		return nil, err
	}
	if err := k.SetVault(ctx, vault); err != nil {
		return nil, sdkerrors.Wrap(err, "unable to set vault to state")
	}

	if err := k.event.EventManager(ctx).EmitKV(
		ctx, types.EventTypeWithdrawRequested,
		event.Attribute{Key: types.AttributeKeyVaultID, Value: fmt.Sprint(vault.Id)},
		event.Attribute{Key: types.AttributeKeyHolder, Value: msg.Holder},
		event.Attribute{Key: types.AttributeKeyShares, Value: msg.Shares.String()},
	); err != nil {
		return nil, err
	}

	return &types.MsgRequestWithdrawResponse{PendingShares: pending}, nil
}

// CancelWithdraw unlocks queued shares and returns them to the holder's
// balance before they settle.
func (k msgServer) CancelWithdraw(ctx context.Context, msg *types.MsgCancelWithdraw) (*types.MsgCancelWithdrawResponse, error) {
	if msg.Shares.IsNil() || !msg.Shares.IsPositive() {
		return nil, sdkerrors.Wrap(types.ErrInvalidAmount, "cancellation shares must be positive")
	}

	vault, err := k.GetVault(ctx, msg.VaultId)
	if err != nil {
		return nil, err
	}

	holder, err := k.address.StringToBytes(msg.Holder)
	if err != nil {
		return nil, sdkerrors.Wrapf(err, "unable to decode holder address %s", msg.Holder)
	}

	pending := k.GetPendingWithdrawal(ctx, vault.Id, holder)
	if pending.LT(msg.Shares) {
		return nil, sdkerrors.Wrapf(
			types.ErrInsufficientPendingRequest,
			"pending withdrawal %s is less than cancellation amount %s",
			pending.String(), msg.Shares.String(),
		)
	}

	remaining := pending.Sub(msg.Shares)
	if err := k.SetPendingWithdrawal(ctx, vault.Id, holder, remaining); err != nil {
		return nil, sdkerrors.Wrap(err, "unable to set pending withdrawal to state")
	}

	balance, err := k.GetUserShares(ctx, vault.Id, holder).SafeAdd(msg.Shares)
	if err != nil {
		return nil, err
	}
	if err := k.SetUserShares(ctx, vault.Id, holder, balance); err != nil {
		return nil, sdkerrors.Wrap(err, "unable to set user shares to state")
	}

	if vault.PendingWithdrawShares, err = vault.PendingWithdrawShares.SafeSub(msg.Shares); err != nil {
		return nil, err
	}
	if err := k.SetVault(ctx, vault); err != nil {
		return nil, sdkerrors.Wrap(err, "unable to set vault to state")
	}

	if err := k.event.EventManager(ctx).EmitKV(
		ctx, types.EventTypeWithdrawCancelled,
		event.Attribute{Key: types.AttributeKeyVaultID, Value: fmt.Sprint(vault.Id)},
		event.Attribute{Key: types.AttributeKeyHolder, Value: msg.Holder},
		event.Attribute{Key: types.AttributeKeyShares, Value: msg.Shares.String()},
	); err != nil {
		return nil, err
	}

	return &types.MsgCancelWithdrawResponse{RemainingShares: remaining}, nil
}

// SubmitIntent records a curator's target allocation for their vault. The
// newest accepted intent replaces the previous one and guides the plan the
// prover builds for the next cycle.
func (k msgServer) SubmitIntent(ctx context.Context, msg *types.MsgSubmitIntent) (*types.MsgSubmitIntentResponse, error) {
	if k.GetParams(ctx).Paused {
		return nil, types.ErrPaused
	}

	vault, err := k.GetVault(ctx, msg.VaultId)
	if err != nil {
		return nil, err
	}
	if vault.Curator != msg.Curator {
		return nil, sdkerrors.Wrapf(types.ErrInvalidAuthority, "expected curator %s, got %s", vault.Curator, msg.Curator)
	}
	if !k.auth.IsAuthorized(ctx, msg.Curator) {
		return nil, sdkerrors.Wrapf(types.ErrInvalidAuthority, "curator %s is not authorized", msg.Curator)
	}

	intent := types.Intent{
		VaultId:     msg.VaultId,
		Curator:     msg.Curator,
		Items:       msg.Items,
		SubmittedAt: k.header.GetHeaderInfo(ctx).Time,
	}

	if err := intent.Validate(k.GetParams(ctx).IntentScale()); err != nil {
		return nil, sdkerrors.Wrap(types.ErrInvalidIntent, err.Error())
	}

	for _, item := range msg.Items {
		if !k.HasAsset(ctx, item.Asset) {
			return nil, sdkerrors.Wrapf(types.ErrAssetNotWhitelisted, "intent references asset %s", item.Asset)
		}
	}

	if err := k.Intents.Set(ctx, msg.VaultId, intent); err != nil {
		return nil, sdkerrors.Wrap(err, "unable to set intent to state")
	}

	if err := k.event.EventManager(ctx).EmitKV(
		ctx, types.EventTypeIntentSubmitted,
		event.Attribute{Key: types.AttributeKeyVaultID, Value: fmt.Sprint(msg.VaultId)},
		event.Attribute{Key: types.AttributeKeyCurator, Value: msg.Curator},
	); err != nil {
		return nil, err
	}

	return &types.MsgSubmitIntentResponse{}, nil
}

// PerformUpkeep advances the epoch state machine. See Keeper.PerformUpkeep.
func (k msgServer) PerformUpkeep(ctx context.Context, msg *types.MsgPerformUpkeep) (*types.MsgPerformUpkeepResponse, error) {
	return k.Keeper.PerformUpkeep(ctx, msg)
}

// RegisterVault creates a new vault under the given curator.
func (k msgServer) RegisterVault(ctx context.Context, msg *types.MsgRegisterVault) (*types.MsgRegisterVaultResponse, error) {
	if msg.Authority != k.authority {
		return nil, sdkerrors.Wrapf(types.ErrInvalidAuthority, "expected %s, got %s", k.authority, msg.Authority)
	}
	if _, err := k.address.StringToBytes(msg.Curator); err != nil {
		return nil, sdkerrors.Wrapf(err, "unable to decode curator address %s", msg.Curator)
	}

	id, err := k.NextVaultID(ctx)
	if err != nil {
		return nil, err
	}

	vault := types.VaultRecord{
		Id:                    id,
		Curator:               msg.Curator,
		TotalAssets:           math.ZeroInt(),
		TotalShares:           math.ZeroInt(),
		Buffer:                math.ZeroInt(),
		PendingDepositTotal:   math.ZeroInt(),
		PendingWithdrawShares: math.ZeroInt(),
		Enabled:               true,
		CreatedAt:             k.header.GetHeaderInfo(ctx).Time,
	}
	if err := k.SetVault(ctx, vault); err != nil {
		return nil, sdkerrors.Wrap(err, "unable to set vault to state")
	}

	if err := k.event.EventManager(ctx).EmitKV(
		ctx, types.EventTypeVaultRegistered,
		event.Attribute{Key: types.AttributeKeyVaultID, Value: fmt.Sprint(id)},
		event.Attribute{Key: types.AttributeKeyCurator, Value: msg.Curator},
	); err != nil {
		return nil, err
	}

	return &types.MsgRegisterVaultResponse{VaultId: id}, nil
}

// WhitelistAsset admits an asset into the investable universe.
func (k msgServer) WhitelistAsset(ctx context.Context, msg *types.MsgWhitelistAsset) (*types.MsgWhitelistAssetResponse, error) {
	if msg.Authority != k.authority {
		return nil, sdkerrors.Wrapf(types.ErrInvalidAuthority, "expected %s, got %s", k.authority, msg.Authority)
	}
	if msg.Id == "" || msg.BaseDenom == "" {
		return nil, sdkerrors.Wrap(types.ErrInvalidRequest, "asset id and base denom must be set")
	}
	if k.HasAsset(ctx, msg.Id) {
		return nil, sdkerrors.Wrapf(types.ErrInvalidRequest, "asset %s is already whitelisted", msg.Id)
	}
	if !k.auth.IsAuthorized(ctx, msg.Id) {
		return nil, sdkerrors.Wrapf(types.ErrInvalidRequest, "asset %s is not approved by the authorization registry", msg.Id)
	}

	asset := types.AssetInfo{
		Id:            msg.Id,
		BaseDenom:     msg.BaseDenom,
		Decimals:      msg.Decimals,
		WhitelistedAt: k.header.GetHeaderInfo(ctx).Time,
	}
	if err := k.Assets.Set(ctx, msg.Id, asset); err != nil {
		return nil, sdkerrors.Wrap(err, "unable to set asset to state")
	}

	if err := k.event.EventManager(ctx).EmitKV(
		ctx, types.EventTypeAssetWhitelisted,
		event.Attribute{Key: types.AttributeKeyAsset, Value: msg.Id},
		event.Attribute{Key: types.AttributeKeyBaseDenom, Value: msg.BaseDenom},
	); err != nil {
		return nil, err
	}

	return &types.MsgWhitelistAssetResponse{}, nil
}

// RegisterAdapter configures the execution venue for a whitelisted asset.
func (k msgServer) RegisterAdapter(ctx context.Context, msg *types.MsgRegisterAdapter) (*types.MsgRegisterAdapterResponse, error) {
	if msg.Authority != k.authority {
		return nil, sdkerrors.Wrapf(types.ErrInvalidAuthority, "expected %s, got %s", k.authority, msg.Authority)
	}

	asset, err := k.GetAsset(ctx, msg.Asset)
	if err != nil {
		return nil, err
	}
	if asset.Decimals != msg.Decimals {
		return nil, sdkerrors.Wrapf(
			types.ErrDecimalsMismatch,
			"asset %s has %d decimals, adapter declares %d",
			msg.Asset, asset.Decimals, msg.Decimals,
		)
	}

	adapter := types.AdapterConfig{
		Asset:     msg.Asset,
		BaseDenom: msg.BaseDenom,
		Decimals:  msg.Decimals,
		Venue:     msg.Venue,
	}
	if err := k.Adapters.Set(ctx, msg.Asset, adapter); err != nil {
		return nil, sdkerrors.Wrap(err, "unable to set adapter to state")
	}

	if err := k.event.EventManager(ctx).EmitKV(
		ctx, types.EventTypeAdapterRegistered,
		event.Attribute{Key: types.AttributeKeyAsset, Value: msg.Asset},
		event.Attribute{Key: types.AttributeKeyVenue, Value: msg.Venue},
	); err != nil {
		return nil, err
	}

	return &types.MsgRegisterAdapterResponse{}, nil
}

// TopUpBuffer injects native liquidity into a vault's buffer. This is the
// only way a vault's total assets change outside settlement, and it requires
// the module authority.
func (k msgServer) TopUpBuffer(ctx context.Context, msg *types.MsgTopUpBuffer) (*types.MsgTopUpBufferResponse, error) {
	if msg.Authority != k.authority {
		return nil, sdkerrors.Wrapf(types.ErrInvalidAuthority, "expected %s, got %s", k.authority, msg.Authority)
	}
	if msg.Amount.IsNil() || !msg.Amount.IsPositive() {
		return nil, sdkerrors.Wrap(types.ErrInvalidAmount, "top-up amount must be positive")
	}

	vault, err := k.GetVault(ctx, msg.VaultId)
	if err != nil {
		return nil, err
	}

	funder, err := k.address.StringToBytes(msg.Funder)
	if err != nil {
		return nil, sdkerrors.Wrapf(err, "unable to decode funder address %s", msg.Funder)
	}

	coins := sdk.NewCoins(sdk.NewCoin(k.denom, msg.Amount))
	if err := k.bank.SendCoins(ctx, funder, types.ModuleAddress, coins); err != nil {
		return nil, sdkerrors.Wrap(err, "unable to escrow top-up")
	}

	if vault.Buffer, err = vault.Buffer.SafeAdd(msg.Amount); err != nil {
		return nil, err
	}
	if vault.TotalAssets, err = vault.TotalAssets.SafeAdd(msg.Amount); err != nil {
		return nil, err
	}
	if err := k.SetVault(ctx, vault); err != nil {
		return nil, sdkerrors.Wrap(err, "unable to set vault to state")
	}

	if err := k.event.EventManager(ctx).EmitKV(
		ctx, types.EventTypeBufferToppedUp,
		event.Attribute{Key: types.AttributeKeyVaultID, Value: fmt.Sprint(vault.Id)},
		event.Attribute{Key: types.AttributeKeyAmount, Value: msg.Amount.String()},
	); err != nil {
		return nil, err
	}

	return &types.MsgTopUpBufferResponse{NewBuffer: vault.Buffer}, nil
}

// UpdateParams replaces the module parameters.
func (k msgServer) UpdateParams(ctx context.Context, msg *types.MsgUpdateParams) (*types.MsgUpdateParamsResponse, error) {
	if msg.Authority != k.authority {
		return nil, sdkerrors.Wrapf(types.ErrInvalidAuthority, "expected %s, got %s", k.authority, msg.Authority)
	}

	if err := k.SetParams(ctx, msg.Params); err != nil {
		return nil, err
	}

	if err := k.event.EventManager(ctx).EmitKV(ctx, types.EventTypeParamsUpdated); err != nil {
		return nil, err
	}

	return &types.MsgUpdateParamsResponse{}, nil
}

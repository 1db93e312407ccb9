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
	"bytes"
	"context"
	"encoding/hex"

	sdkerrors "cosmossdk.io/errors"

	"meridian.solara.xyz/types"
)

// verifyUpkeepPayload gates a state-transition claim. The checks run in a
// fixed order so callers can distinguish a stale claim from a bad proof:
//
//  1. the payload's input commitment must equal the fingerprint of live
//     state, otherwise ErrCommitmentMismatch;
//  2. the proof must verify against the payload, otherwise ErrProofRejected.
//
// No state is written here; the caller applies the transition only after a
// nil return.
func (k *Keeper) verifyUpkeepPayload(ctx context.Context, publicValues, proof []byte) (types.CommitmentPair, error) {
	pair, err := types.ParsePublicValues(publicValues)
	if err != nil {
		return types.CommitmentPair{}, sdkerrors.Wrap(types.ErrInvalidPayload, err.Error())
	}

	snapshot, err := k.CurrentSnapshot(ctx)
	if err != nil {
		return types.CommitmentPair{}, err
	}

	live := snapshot.Fingerprint()
	if !bytes.Equal(pair.Input[:], live) {
		return types.CommitmentPair{}, sdkerrors.Wrapf(
			types.ErrCommitmentMismatch,
			"input commitment %s does not match live state %s",
			hex.EncodeToString(pair.Input[:]),
			hex.EncodeToString(live),
		)
	}

	if err := k.verifier.Verify(publicValues, proof); err != nil {
		return types.CommitmentPair{}, sdkerrors.Wrap(types.ErrProofRejected, err.Error())
	}

	return pair, nil
}

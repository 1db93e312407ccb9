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

// Package verifier provides a Groth16 implementation of the module's proof
// verification primitive over the BN254 curve. The verifying key is fixed at
// construction time; a key rotation requires a new verifier instance.
package verifier

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"

	"meridian.solara.xyz/types"
)

// nbPublicInputs is the number of public field elements of a transition
// circuit: the input and output state commitments.
const nbPublicInputs = 2

// Groth16 verifies state transition proofs against a fixed verifying key.
type Groth16 struct {
	vk groth16.VerifyingKey
}

var _ types.ProofVerifier = (*Groth16)(nil)

// NewGroth16 constructs a verifier from serialised verifying key bytes.
func NewGroth16(vkBytes []byte) (*Groth16, error) {
	vk := groth16.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(bytes.NewReader(vkBytes)); err != nil {
		return nil, fmt.Errorf("unable to read verifying key: %w", err)
	}
	return &Groth16{vk: vk}, nil
}

// Verify checks a proof against the public values. The two 32-byte
// commitments are bound as public inputs, reduced modulo the scalar field;
// the prover applies the same reduction, so honest commitments round-trip.
func (v *Groth16) Verify(publicValues, proofBytes []byte) error {
	pair, err := types.ParsePublicValues(publicValues)
	if err != nil {
		return err
	}

	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return fmt.Errorf("unable to read proof: %w", err)
	}

	public, err := publicWitness(pair)
	if err != nil {
		return err
	}

	if err := groth16.Verify(proof, v.vk, public); err != nil {
		return fmt.Errorf("proof does not verify: %w", err)
	}

	return nil
}

// publicWitness assembles the public witness for a commitment pair.
func publicWitness(pair types.CommitmentPair) (witness.Witness, error) {
	w, err := witness.New(ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("unable to create witness: %w", err)
	}

	values := make(chan any, nbPublicInputs)
	values <- CommitmentToFieldElement(pair.Input)
	values <- CommitmentToFieldElement(pair.Output)
	close(values)

	if err := w.Fill(nbPublicInputs, 0, values); err != nil {
		return nil, fmt.Errorf("unable to fill witness: %w", err)
	}

	return w, nil
}

// CommitmentToFieldElement maps a 32-byte commitment into the BN254 scalar
// field. Exported so provers and tests share the exact reduction.
func CommitmentToFieldElement(commitment [types.CommitmentSize]byte) *big.Int {
	element := new(big.Int).SetBytes(commitment[:])
	return element.Mod(element, fr.Modulus())
}

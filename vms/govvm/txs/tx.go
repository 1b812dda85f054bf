// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package txs

import (
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/luxfi/ids"

	"github.com/luxfi/multigov/utils/hashing"
)

// SignatureLen is recovery_code u8 | r[32] | s[32].
const SignatureLen = 65

var (
	ErrNilTx = errors.New("tx is nil")

	errInvalidSignature = errors.New("invalid signature")
)

// Tx is a signed governance operation. The signer is recovered from the
// signature and pays any rent the operation requires. Nonce must equal the
// number of operations the signer has had accepted.
type Tx struct {
	Unsigned  UnsignedTx         `serialize:"true" json:"unsignedTx"`
	Nonce     uint64             `serialize:"true" json:"nonce"`
	Signature [SignatureLen]byte `serialize:"true" json:"signature"`

	TxID   ids.ID      `json:"id"`
	signer ids.ShortID
	bytes  []byte
}

// signedPayload is the part of a Tx covered by its signature.
type signedPayload struct {
	Unsigned UnsignedTx `serialize:"true"`
	Nonce    uint64     `serialize:"true"`
}

func (tx *Tx) payloadBytes() ([]byte, error) {
	payload := &signedPayload{
		Unsigned: tx.Unsigned,
		Nonce:    tx.Nonce,
	}
	bytes, err := Codec.Marshal(CodecVersion, payload)
	if err != nil {
		return nil, fmt.Errorf("couldn't marshal UnsignedTx: %w", err)
	}
	return bytes, nil
}

// Initialize computes the id and signer of a parsed or freshly signed tx.
func (tx *Tx) Initialize() error {
	unsignedBytes, err := tx.payloadBytes()
	if err != nil {
		return err
	}
	signer, err := recoverSigner(unsignedBytes, tx.Signature)
	if err != nil {
		return err
	}
	signedBytes, err := Codec.Marshal(CodecVersion, tx)
	if err != nil {
		return fmt.Errorf("couldn't marshal Tx: %w", err)
	}

	tx.signer = signer
	tx.bytes = signedBytes
	tx.TxID = hashing.Keccak256(signedBytes)
	return nil
}

func (tx *Tx) ID() ids.ID {
	return tx.TxID
}

func (tx *Tx) Bytes() []byte {
	return tx.bytes
}

// Signer is the address that signed the operation.
func (tx *Tx) Signer() ids.ShortID {
	return tx.signer
}

func (tx *Tx) SyntacticVerify() error {
	if tx == nil || tx.Unsigned == nil {
		return ErrNilTx
	}
	return tx.Unsigned.SyntacticVerify()
}

// Sign returns [unsigned] signed by [key] as its operation number [nonce].
func Sign(unsigned UnsignedTx, nonce uint64, key *secp256k1.PrivateKey) (*Tx, error) {
	tx := &Tx{
		Unsigned: unsigned,
		Nonce:    nonce,
	}
	unsignedBytes, err := tx.payloadBytes()
	if err != nil {
		return nil, err
	}
	digest := hashing.Keccak256(unsignedBytes)
	copy(tx.Signature[:], ecdsa.SignCompact(key, digest[:], false))
	return tx, tx.Initialize()
}

// Parse returns the tx encoded in [bytes].
func Parse(bytes []byte) (*Tx, error) {
	tx := &Tx{}
	if _, err := Codec.Unmarshal(bytes, tx); err != nil {
		return nil, err
	}
	return tx, tx.Initialize()
}

// Address returns the address that signs with [key].
func Address(key *secp256k1.PrivateKey) ids.ShortID {
	return hashing.EthAddress(key.PubKey().SerializeUncompressed())
}

func recoverSigner(unsignedBytes []byte, sig [SignatureLen]byte) (ids.ShortID, error) {
	digest := hashing.Keccak256(unsignedBytes)
	pub, _, err := ecdsa.RecoverCompact(sig[:], digest[:])
	if err != nil {
		return ids.ShortEmpty, fmt.Errorf("%w: %w", errInvalidSignature, err)
	}
	return hashing.EthAddress(pub.SerializeUncompressed()), nil
}

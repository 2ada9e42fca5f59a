// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package client implements the transaction machinery the turnc client
// builds its allocate and refresh exchanges on.
package client

import (
	"crypto/md5" //nolint:gosec // selects 96 of 128 random bits, not used as a MAC

	"github.com/pion/randutil"
	"github.com/pion/stun/v2"
)

const (
	runesAlpha      = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	transactionSeed = 16
)

// NewTransactionID returns a fresh 96-bit STUN transaction id: the leading
// bytes of a digest over a random printable string. Every request must use
// a new id, including the retry after an authentication challenge.
func NewTransactionID() ([stun.TransactionIDSize]byte, error) {
	var id [stun.TransactionIDSize]byte

	seed, err := randutil.GenerateCryptoRandomString(transactionSeed, runesAlpha)
	if err != nil {
		return id, err
	}

	digest := md5.Sum([]byte(seed)) //nolint:gosec
	copy(id[:], digest[:stun.TransactionIDSize])
	return id, nil
}

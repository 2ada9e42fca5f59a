// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package proto implements the TURN attributes carried by allocate and
// refresh requests, in the encoding described by RFC 5766.
package proto

import "strconv"

// Protocol is an IANA assigned protocol number, as carried by the
// REQUESTED-TRANSPORT attribute.
type Protocol byte

const (
	// ProtoTCP is the IANA assigned protocol number for TCP.
	ProtoTCP Protocol = 6
	// ProtoUDP is the IANA assigned protocol number for UDP.
	ProtoUDP Protocol = 17
)

func (p Protocol) String() string {
	switch p {
	case ProtoUDP:
		return "UDP"
	case ProtoTCP:
		return "TCP"
	default:
		return strconv.Itoa(int(p))
	}
}

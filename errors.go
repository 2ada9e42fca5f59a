// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package turnc

import (
	"errors"
	"fmt"

	"github.com/pion/stun/v2"
)

// Typed errors.
var (
	// ErrTransport means no response arrived before every retransmission
	// of the request timed out. The operation may be retried later.
	ErrTransport = errors.New("turnc: no response from server")

	// ErrAuthentication means the server kept answering 401 after the
	// client already presented the challenged credentials.
	ErrAuthentication = errors.New("turnc: server rejected credentials")

	// ErrInvalidArgument means the allocation is nil or not managed by
	// this client.
	ErrInvalidArgument = errors.New("turnc: invalid allocation")

	// ErrUnsupportedTransport means the allocation uses a
	// connection-oriented transport, which this client does not drive.
	ErrUnsupportedTransport = errors.New("turnc: connection-oriented transport not supported")

	errNilConn       = errors.New("turnc: conn is required")
	errNilServerAddr = errors.New("turnc: server address is required")
)

// ServerError is an error response from the server that the client cannot
// recover from by answering an authentication challenge.
type ServerError struct {
	Code   stun.ErrorCode
	Reason string
}

func (e *ServerError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("turnc: server error %d", e.Code)
	}
	return fmt.Sprintf("turnc: server error %d: %s", e.Code, e.Reason)
}

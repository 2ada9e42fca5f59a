// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package client

import (
	"errors"
	"net"
	"time"

	"github.com/pion/logging"
	"github.com/pion/stun/v2"
)

const (
	// DefaultRTO is how long each attempt waits for a response before the
	// request is retransmitted.
	DefaultRTO = 500 * time.Millisecond

	// MaxAttempts is how many times a request is sent before the exchange
	// is abandoned.
	MaxAttempts = 7

	maxMessageSize = 1500
)

// ErrNoResponse means every attempt of an exchange timed out without a
// matching response from the server.
var ErrNoResponse = errors.New("all retransmissions of the request timed out")

// UnreliableTransactor performs request/response exchanges over an
// unreliable (datagram) transport. It retransmits the request after each
// RTO until a decodable response carrying the request's transaction id
// arrives, for at most MaxAttempts attempts.
//
// The zero value uses DefaultRTO and MaxAttempts. It is not safe to run
// two exchanges over the same conn concurrently: the reader would steal
// the other exchange's response.
type UnreliableTransactor struct {
	RTO time.Duration
	Log logging.LeveledLogger
}

// PerformTransaction sends req over conn to the given address and blocks
// until a matching response arrives or all attempts lapse.
func (t *UnreliableTransactor) PerformTransaction(req *stun.Message, conn net.PacketConn, to net.Addr) (*stun.Message, error) {
	rto := t.RTO
	if rto <= 0 {
		rto = DefaultRTO
	}

	defer conn.SetReadDeadline(time.Time{}) //nolint:errcheck

	buf := make([]byte, maxMessageSize)
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		if attempt > 0 && t.Log != nil {
			t.Log.Debugf("Retransmitting %s (attempt %d)", req.Type, attempt+1)
		}
		if _, err := conn.WriteTo(req.Raw, to); err != nil {
			return nil, err
		}

		res, err := t.waitForResponse(req, conn, time.Now().Add(rto), buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			return nil, err
		}
		return res, nil
	}

	return nil, ErrNoResponse
}

// waitForResponse reads until the deadline, skipping traffic that is not a
// STUN message for this transaction.
func (t *UnreliableTransactor) waitForResponse(req *stun.Message, conn net.PacketConn, deadline time.Time, buf []byte) (*stun.Message, error) {
	for {
		if err := conn.SetReadDeadline(deadline); err != nil {
			return nil, err
		}

		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			return nil, err
		}

		res := &stun.Message{Raw: append([]byte{}, buf[:n]...)}
		if err := res.Decode(); err != nil {
			if t.Log != nil {
				t.Log.Warnf("Discarding non-STUN packet: %s", err)
			}
			continue
		}
		if res.TransactionID != req.TransactionID {
			continue
		}
		return res, nil
	}
}

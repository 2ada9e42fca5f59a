// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package turnc

import (
	"fmt"
	"net"

	"github.com/pion/stun/v2"
	"github.com/pion/turnc/internal/client"
	"github.com/pion/turnc/internal/proto"
)

// buildAllocateRequest assembles the outbound request for the
// allocation's current state: a Refresh for an active allocation, an
// Allocate otherwise, always under a fresh transaction id.
func (c *Client) buildAllocateRequest(alloc *Allocation) (*stun.Message, error) {
	tid, err := client.NewTransactionID()
	if err != nil {
		return nil, err
	}

	msgType := stun.NewType(stun.MethodAllocate, stun.ClassRequest)
	if alloc.active {
		msgType = stun.NewType(stun.MethodRefresh, stun.ClassRequest)
	}

	setters := []stun.Setter{
		stun.NewTransactionIDSetter(tid),
		msgType,
	}
	if alloc.software != "" {
		setters = append(setters, stun.NewSoftware(alloc.software))
	}
	setters = append(setters,
		proto.RequestedTransport{Protocol: alloc.transport.protocol()},
		proto.Lifetime{Duration: alloc.lifetime},
	)
	if c.evenPort {
		setters = append(setters, proto.EvenPort{})
	}
	if c.dontFragment {
		setters = append(setters, proto.DontFragmentAttr{})
	}

	// The long-term credential attributes only make sense once the
	// server has announced its realm and nonce.
	if alloc.nonce != "" {
		setters = append(setters,
			stun.NewUsername(alloc.username),
			stun.NewRealm(alloc.realm),
			stun.NewNonce(alloc.nonce),
		)
		if c.integrity {
			setters = append(setters,
				stun.NewLongTermIntegrity(alloc.username, alloc.realm, alloc.password))
		}
	}
	if c.fingerprint {
		setters = append(setters, stun.Fingerprint)
	}

	return stun.Build(setters...)
}

// sendAllocate drives one allocate or refresh exchange, answering the
// server's first authentication challenge. At most two requests leave
// this function: the retry happens only when the allocation held no nonce
// when the exchange started, so a server that keeps answering 401 fails
// the exchange instead of looping.
func (c *Client) sendAllocate(alloc *Allocation) error {
	if alloc.transport != TransportUDP {
		return ErrUnsupportedTransport
	}

	challenged := alloc.nonce != ""
	for {
		req, err := c.buildAllocateRequest(alloc)
		if err != nil {
			return err
		}

		res, err := c.transactor.PerformTransaction(req, alloc.conn, alloc.serverAddr)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrTransport, err)
		}

		if res.Type.Class == stun.ClassErrorResponse {
			retry, err := c.handleErrorResponse(alloc, res, challenged)
			if !retry {
				return err
			}
			challenged = true
			continue
		}

		// Success: the server's lifetime is authoritative when present.
		var lifetime proto.Lifetime
		if err := lifetime.GetFrom(res); err == nil {
			alloc.lifetime = lifetime.Duration
		}
		var relayed proto.RelayedAddress
		if err := relayed.GetFrom(res); err == nil {
			alloc.relayedAddr = &net.UDPAddr{IP: relayed.IP, Port: relayed.Port}
		}
		return nil
	}
}

// handleErrorResponse classifies an error response. It returns retry=true
// for the one recoverable case: a first 401 carrying both realm and
// nonce, which it stores on the allocation as a pair.
func (c *Client) handleErrorResponse(alloc *Allocation, res *stun.Message, challenged bool) (bool, error) {
	var code stun.ErrorCodeAttribute
	if getErr := code.GetFrom(res); getErr != nil {
		return false, &ServerError{}
	}

	if code.Code == stun.CodeUnauthorized {
		var realm stun.Realm
		var nonce stun.Nonce
		if realm.GetFrom(res) == nil && nonce.GetFrom(res) == nil {
			if challenged {
				return false, ErrAuthentication
			}
			alloc.realm = realm.String()
			alloc.nonce = nonce.String()
			c.log.Debugf("Got challenge, retrying with realm=%q", alloc.realm)
			return true, nil
		}
	}

	return false, &ServerError{Code: code.Code, Reason: string(code.Reason)}
}

// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package proto

import (
	"fmt"

	"github.com/pion/stun/v2"
)

// RequestedTransport represents the REQUESTED-TRANSPORT attribute. The
// attribute is four bytes long; only the first byte (the protocol number)
// is significant, the rest is RFFU.
type RequestedTransport struct {
	Protocol Protocol
}

func (t RequestedTransport) String() string {
	return fmt.Sprintf("protocol: %s", t.Protocol)
}

const requestedTransportSize = 4

// AddTo adds REQUESTED-TRANSPORT to message.
func (t RequestedTransport) AddTo(m *stun.Message) error {
	v := make([]byte, requestedTransportSize)
	v[0] = byte(t.Protocol)
	m.Add(stun.AttrRequestedTransport, v)
	return nil
}

// GetFrom decodes REQUESTED-TRANSPORT from message.
func (t *RequestedTransport) GetFrom(m *stun.Message) error {
	v, err := m.Get(stun.AttrRequestedTransport)
	if err != nil {
		return err
	}
	if err = stun.CheckSize(stun.AttrRequestedTransport, len(v), requestedTransportSize); err != nil {
		return err
	}
	t.Protocol = Protocol(v[0])
	return nil
}

// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package proto

import (
	"fmt"

	"github.com/pion/stun/v2"
)

// EvenPort represents the EVEN-PORT attribute, which asks the server to
// allocate an even relay port and, when ReservePort is set, to reserve the
// next higher port for a subsequent allocation.
type EvenPort struct {
	// ReservePort means that the server is requested to reserve
	// the next highest port number (on the same IP address)
	// for a subsequent allocation.
	ReservePort bool
}

func (p EvenPort) String() string {
	return fmt.Sprintf("reserve: %t", p.ReservePort)
}

const (
	evenPortSize = 1
	firstBitSet  = (1 << 8) - 1 - ((1 << 7) - 1) // 0b10000000
)

// AddTo adds EVEN-PORT to message.
func (p EvenPort) AddTo(m *stun.Message) error {
	v := make([]byte, evenPortSize)
	if p.ReservePort {
		v[0] = firstBitSet
	}
	m.Add(stun.AttrEvenPort, v)
	return nil
}

// GetFrom decodes EVEN-PORT from message.
func (p *EvenPort) GetFrom(m *stun.Message) error {
	v, err := m.Get(stun.AttrEvenPort)
	if err != nil {
		return err
	}
	if err = stun.CheckSize(stun.AttrEvenPort, len(v), evenPortSize); err != nil {
		return err
	}
	p.ReservePort = v[0]&firstBitSet > 0
	return nil
}

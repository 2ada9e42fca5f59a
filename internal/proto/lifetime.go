// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package proto

import (
	"encoding/binary"
	"time"

	"github.com/pion/stun/v2"
)

// DefaultLifetime is the lifetime a client requests when the caller did not
// pick one. RFC 5766 Section 2.2 uses 10 minutes in its examples and so did
// every deployment we have seen.
const DefaultLifetime = 10 * time.Minute

// Lifetime represents the LIFETIME attribute, the duration for which the
// server will maintain an allocation in the absence of a refresh. Encoded
// as an unsigned 32-bit seconds value in network byte order.
type Lifetime struct {
	time.Duration
}

func (l Lifetime) String() string {
	return l.Duration.String()
}

const lifetimeSize = 4 // uint32

// AddTo adds LIFETIME to message.
func (l Lifetime) AddTo(m *stun.Message) error {
	v := make([]byte, lifetimeSize)
	binary.BigEndian.PutUint32(v, uint32(l.Seconds()))
	m.Add(stun.AttrLifetime, v)
	return nil
}

// GetFrom decodes LIFETIME from message.
func (l *Lifetime) GetFrom(m *stun.Message) error {
	v, err := m.Get(stun.AttrLifetime)
	if err != nil {
		return err
	}
	if err = stun.CheckSize(stun.AttrLifetime, len(v), lifetimeSize); err != nil {
		return err
	}
	l.Duration = time.Second * time.Duration(binary.BigEndian.Uint32(v))
	return nil
}

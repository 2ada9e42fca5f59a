// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package turnc

import (
	"net"
	"time"

	"github.com/pion/turnc/internal/proto"
)

// AllocationID identifies a live allocation within its client. Ids are
// never reused for the lifetime of the client.
type AllocationID uint64

// InvalidAllocationID is returned by Allocate when no allocation could be
// obtained.
const InvalidAllocationID AllocationID = 0

// Transport selects the protocol the relay is requested for.
type Transport int

// Supported transports.
const (
	TransportUDP Transport = iota
	TransportTCP
)

func (t Transport) String() string {
	switch t {
	case TransportUDP:
		return "udp"
	case TransportTCP:
		return "tcp"
	default:
		return "unknown"
	}
}

func (t Transport) protocol() proto.Protocol {
	if t == TransportTCP {
		return proto.ProtoTCP
	}
	return proto.ProtoUDP
}

// Allocation is one relayed-address lease on the server. It references,
// but does not own, the local conn the lease was negotiated over.
//
// Allocation is not safe for concurrent use; see Client.
type Allocation struct {
	id        AllocationID
	conn      net.PacketConn // local endpoint, owned by the caller
	transport Transport

	serverAddr net.Addr // resolved once at creation

	username string
	password string
	software string

	// realm and nonce are captured from the server's first 401 and are
	// reused, as a pair, on every later request for this allocation.
	realm string
	nonce string

	relayedAddr net.Addr
	lifetime    time.Duration
	active      bool // true after the first successful allocate
}

// newAllocation builds an inactive allocation with the client's
// credentials, software tag and default lifetime.
func (c *Client) newAllocation(conn net.PacketConn, trans Transport) (*Allocation, error) {
	var serverAddr net.Addr
	var err error
	switch trans {
	case TransportTCP:
		serverAddr, err = c.net.ResolveTCPAddr("tcp4", c.serverAddr)
	default:
		serverAddr, err = c.net.ResolveUDPAddr("udp4", c.serverAddr)
	}
	if err != nil {
		return nil, err
	}

	return &Allocation{
		id:         AllocationID(c.nextID.Add(1)),
		conn:       conn,
		transport:  trans,
		serverAddr: serverAddr,
		username:   c.username,
		password:   c.password,
		software:   c.software,
		lifetime:   c.lifetime,
	}, nil
}

// ID returns the allocation's id.
func (a *Allocation) ID() AllocationID {
	return a.id
}

// Transport returns the protocol the relay was requested for.
func (a *Allocation) Transport() Transport {
	return a.transport
}

// RelayedAddr returns the relay transport address granted by the server,
// or nil before the first successful allocate.
func (a *Allocation) RelayedAddr() net.Addr {
	return a.relayedAddr
}

// Lifetime returns the most recent lifetime granted by the server, or the
// requested lifetime before the first response.
func (a *Allocation) Lifetime() time.Duration {
	return a.lifetime
}

// Active reports whether the allocation ever completed an allocate
// exchange. Later exchanges for an active allocation are refreshes.
func (a *Allocation) Active() bool {
	return a.active
}

// Realm returns the authentication realm announced by the server, or ""
// before the first challenge.
func (a *Allocation) Realm() string {
	return a.realm
}

// Nonce returns the nonce announced by the server, or "" before the first
// challenge.
func (a *Allocation) Nonce() string {
	return a.nonce
}

// Allocate requests a relayed transport address on the server and, on
// success, registers the new allocation with the client and returns its
// id. conn is the local endpoint the exchange (and any later refresh)
// runs over; the caller keeps ownership of it.
func (c *Client) Allocate(conn net.PacketConn, trans Transport) (AllocationID, error) {
	if conn == nil {
		return InvalidAllocationID, errNilConn
	}

	alloc, err := c.newAllocation(conn, trans)
	if err != nil {
		return InvalidAllocationID, err
	}

	if err := c.sendAllocate(alloc); err != nil {
		c.log.Errorf("Allocation failed: %s", err)
		return InvalidAllocationID, err
	}

	alloc.active = true
	c.insert(alloc)
	c.log.Debugf("Allocated %s (id=%d, lifetime=%s)", alloc.relayedAddr, alloc.id, alloc.lifetime)
	return alloc.id, nil
}

// Unallocate asks the server to delete the allocation by refreshing it
// with a zero lifetime. On success the allocation is removed from the
// client. On failure the allocation is left registered with its previous
// lifetime; deallocation must not be assumed to have happened.
func (c *Client) Unallocate(alloc *Allocation) error {
	if alloc == nil || !c.holds(alloc) {
		return ErrInvalidArgument
	}

	saved := alloc.lifetime
	alloc.lifetime = 0

	if err := c.sendAllocate(alloc); err != nil {
		alloc.lifetime = saved
		c.log.Errorf("Deallocation of id=%d failed: %s", alloc.id, err)
		return err
	}

	c.remove(alloc)
	c.log.Debugf("Deallocated id=%d", alloc.id)
	return nil
}

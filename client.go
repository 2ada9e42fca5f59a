// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package turnc implements the client side of the TURN allocation
// lifecycle (RFC 5766): obtaining, refreshing and releasing relayed
// transport addresses on a TURN server, on top of the STUN message
// protocol.
package turnc

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pion/logging"
	"github.com/pion/stun/v2"
	"github.com/pion/transport/v3"
	"github.com/pion/transport/v3/stdnet"
	"github.com/pion/turnc/internal/client"
	"github.com/pion/turnc/internal/proto"
)

// Transactor performs a single request/response exchange with the server
// over the allocation's local conn. The default implementation
// retransmits over an unreliable transport; tests and alternative
// transports may substitute their own.
type Transactor interface {
	PerformTransaction(req *stun.Message, conn net.PacketConn, to net.Addr) (*stun.Message, error)
}

// ClientConfig is a bag of config parameters for Client.
type ClientConfig struct {
	ServerAddr string // TURN server address (e.g. "turn.example.com:3478")
	Username   string
	Password   string
	Software   string        // SOFTWARE attribute for outgoing requests. Optional.
	Lifetime   time.Duration // Requested allocation lifetime. Defaults to 10 minutes.
	RTO        time.Duration // Per-attempt response timeout. Defaults to 500ms.

	EnableFingerprint  bool
	EnableIntegrity    bool
	EnableDontFragment bool
	EnableEvenPort     bool

	Net           transport.Net // Defaults to the host network.
	Transactor    Transactor    // Defaults to an UnreliableTransactor.
	LoggerFactory logging.LoggerFactory
}

// Client holds the server endpoint, the long-term credentials and the set
// of live allocations created through it.
//
// The allocation set is safe for concurrent use. An individual Allocation
// is not: its authentication and lifetime state is mutated in place during
// an exchange, so callers must not run two operations on the same
// Allocation at once.
type Client struct {
	serverAddr string
	username   string
	password   string
	software   string
	lifetime   time.Duration

	fingerprint  bool
	integrity    bool
	dontFragment bool
	evenPort     bool

	net        transport.Net
	transactor Transactor
	log        logging.LeveledLogger

	mutex       sync.Mutex
	allocations []*Allocation // insertion order = creation order
	nextID      atomic.Uint64
}

// NewClient returns a new Client instance. config.ServerAddr is required.
func NewClient(config *ClientConfig) (*Client, error) {
	if config.ServerAddr == "" {
		return nil, errNilServerAddr
	}

	loggerFactory := config.LoggerFactory
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}
	log := loggerFactory.NewLogger("turnc")

	netTransport := config.Net
	if netTransport == nil {
		nw, err := stdnet.NewNet()
		if err != nil {
			return nil, err
		}
		netTransport = nw
	}

	lifetime := config.Lifetime
	if lifetime <= 0 {
		lifetime = proto.DefaultLifetime
	}

	transactor := config.Transactor
	if transactor == nil {
		transactor = &client.UnreliableTransactor{
			RTO: config.RTO,
			Log: log,
		}
	}

	return &Client{
		serverAddr:   config.ServerAddr,
		username:     config.Username,
		password:     config.Password,
		software:     config.Software,
		lifetime:     lifetime,
		fingerprint:  config.EnableFingerprint,
		integrity:    config.EnableIntegrity,
		dontFragment: config.EnableDontFragment,
		evenPort:     config.EnableEvenPort,
		net:          netTransport,
		transactor:   transactor,
		log:          log,
	}, nil
}

// AllocationByID returns the live allocation with the given id.
func (c *Client) AllocationByID(id AllocationID) (*Allocation, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for _, alloc := range c.allocations {
		if alloc.id == id {
			return alloc, true
		}
	}
	return nil, false
}

// Allocations returns the live allocations in creation order.
func (c *Client) Allocations() []*Allocation {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return append([]*Allocation(nil), c.allocations...)
}

// Close releases every allocation held by the client without contacting
// the server; their leases simply expire. Callers that want an immediate
// release should Unallocate each allocation first.
func (c *Client) Close() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if len(c.allocations) > 0 {
		c.log.Warnf("Closing with %d live allocations", len(c.allocations))
	}
	c.allocations = nil
}

func (c *Client) holds(alloc *Allocation) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for _, a := range c.allocations {
		if a == alloc {
			return true
		}
	}
	return false
}

func (c *Client) insert(alloc *Allocation) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.allocations = append(c.allocations, alloc)
}

func (c *Client) remove(alloc *Allocation) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for i, a := range c.allocations {
		if a == alloc {
			c.allocations = append(c.allocations[:i], c.allocations[i+1:]...)
			return
		}
	}
}

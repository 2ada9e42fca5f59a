// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

//go:build !js
// +build !js

package turnc

import (
	"net"
	"testing"
	"time"

	"github.com/pion/logging"
	"github.com/pion/stun/v2"
	"github.com/pion/turnc/internal/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		c, err := NewClient(&ClientConfig{ServerAddr: "127.0.0.1:3478"})
		assert.NoError(t, err)
		assert.Equal(t, proto.DefaultLifetime, c.lifetime)
		assert.Empty(t, c.Allocations())
		c.Close()
	})

	t.Run("ServerAddrRequired", func(t *testing.T) {
		_, err := NewClient(&ClientConfig{})
		assert.Error(t, err)
	})
}

// responder is a minimal scripted TURN server on a loopback socket. It
// challenges the first allocate, grants the authenticated retry, and
// acknowledges refreshes with whatever lifetime they request.
type responder struct {
	t       *testing.T
	conn    net.PacketConn
	relayed *net.UDPAddr
	done    chan struct{}
}

func startResponder(t *testing.T) *responder {
	conn, err := net.ListenPacket("udp4", "127.0.0.1:0")
	require.NoError(t, err)

	r := &responder{
		t:       t,
		conn:    conn,
		relayed: &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 49152},
		done:    make(chan struct{}),
	}
	go r.serve()
	t.Cleanup(func() {
		_ = conn.Close()
		<-r.done
	})
	return r
}

func (r *responder) addr() string {
	return r.conn.LocalAddr().String()
}

func (r *responder) serve() {
	defer close(r.done)

	buf := make([]byte, 1500)
	for {
		n, from, err := r.conn.ReadFrom(buf)
		if err != nil {
			return
		}

		req := &stun.Message{Raw: append([]byte{}, buf[:n]...)}
		if err := req.Decode(); err != nil {
			continue
		}

		res := r.respond(req)
		if res == nil {
			continue
		}
		if _, err := r.conn.WriteTo(res.Raw, from); err != nil {
			return
		}
	}
}

func (r *responder) respond(req *stun.Message) *stun.Message {
	var username stun.Username
	if err := username.GetFrom(req); err != nil {
		// No credentials yet: challenge.
		res, err := stun.Build(
			stun.NewTransactionIDSetter(req.TransactionID),
			stun.NewType(req.Type.Method, stun.ClassErrorResponse),
			stun.ErrorCodeAttribute{Code: stun.CodeUnauthorized},
			stun.NewRealm("pion.ly"),
			stun.NewNonce("0123456789abcdef"),
		)
		require.NoError(r.t, err)
		return res
	}

	var lifetime proto.Lifetime
	if err := lifetime.GetFrom(req); err != nil {
		lifetime.Duration = proto.DefaultLifetime
	}

	res, err := stun.Build(
		stun.NewTransactionIDSetter(req.TransactionID),
		stun.NewType(req.Type.Method, stun.ClassSuccessResponse),
		proto.RelayedAddress{IP: r.relayed.IP, Port: r.relayed.Port},
		lifetime,
	)
	require.NoError(r.t, err)
	return res
}

func TestClientLoopback(t *testing.T) {
	server := startResponder(t)

	conn, err := net.ListenPacket("udp4", "127.0.0.1:0")
	require.NoError(t, err)
	defer conn.Close() //nolint:errcheck

	c, err := NewClient(&ClientConfig{
		ServerAddr:      server.addr(),
		Username:        "user",
		Password:        "pass",
		Software:        "turnc e2e",
		Lifetime:        3600 * time.Second,
		RTO:             200 * time.Millisecond,
		EnableIntegrity: true,
		LoggerFactory:   logging.NewDefaultLoggerFactory(),
	})
	require.NoError(t, err)
	defer c.Close()

	id, err := c.Allocate(conn, TransportUDP)
	require.NoError(t, err)
	require.NotEqual(t, InvalidAllocationID, id)

	alloc, ok := c.AllocationByID(id)
	require.True(t, ok)
	assert.Equal(t, "pion.ly", alloc.Realm())
	assert.Equal(t, server.relayed.String(), alloc.RelayedAddr().String())
	assert.Equal(t, 3600*time.Second, alloc.Lifetime())
	assert.True(t, alloc.Active())

	// Refresh: deallocate through the regular lifecycle.
	assert.NoError(t, c.Unallocate(alloc))
	assert.Empty(t, c.Allocations())
}

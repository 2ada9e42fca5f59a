// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package proto

import (
	"testing"
	"time"

	"github.com/pion/stun/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifetime(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		l := Lifetime{10 * time.Second}
		assert.Equal(t, "10s", l.String())
	})

	t.Run("AddToGetFrom", func(t *testing.T) {
		m := new(stun.Message)
		l := Lifetime{3600 * time.Second}
		require.NoError(t, l.AddTo(m))
		m.WriteHeader()

		decoded := new(stun.Message)
		_, err := decoded.Write(m.Raw)
		require.NoError(t, err)

		var out Lifetime
		require.NoError(t, out.GetFrom(decoded))
		assert.Equal(t, l, out)
	})

	t.Run("Absent", func(t *testing.T) {
		var l Lifetime
		assert.ErrorIs(t, l.GetFrom(new(stun.Message)), stun.ErrAttributeNotFound)
	})

	t.Run("BadLength", func(t *testing.T) {
		m := new(stun.Message)
		m.Add(stun.AttrLifetime, []byte{1, 2, 3})
		var l Lifetime
		assert.Error(t, l.GetFrom(m))
	})
}

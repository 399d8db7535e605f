package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_AddressForms(t *testing.T) {
	mr := miniredis.RunT(t)

	for _, addr := range []string{mr.Addr(), "redis://" + mr.Addr() + "/0"} {
		t.Run(addr, func(t *testing.T) {
			c, err := NewClient(addr)
			require.NoError(t, err)
			defer func() { _ = c.Close() }()
			assert.NoError(t, c.Ping(context.Background()).Err())
		})
	}
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient("http://localhost:6379")
	assert.Error(t, err)
}

func TestInitRedis(t *testing.T) {
	t.Cleanup(func() { client = nil })

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	InitRedis(addr)
	require.NotNil(t, GetClient())

	mr.Close()
	InitRedis(addr)
	assert.Nil(t, GetClient(), "unreachable redis leaves the client nil")
}

package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil cache service returns error", func(t *testing.T) {
		ports := &Ports{Syncer: &mockSyncer{}}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingCacheService)
	})

	t.Run("nil sync service returns error", func(t *testing.T) {
		ports := &Ports{Cache: &mockCache{}}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingSyncService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Cache:  &mockCache{},
			Syncer: &mockSyncer{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("empty ports returns error", func(t *testing.T) {
		ports := &Ports{}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingCacheService)
	})

	t.Run("cache and syncer is valid", func(t *testing.T) {
		ports := &Ports{
			Cache:  &mockCache{},
			Syncer: &mockSyncer{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})

	t.Run("default user is optional", func(t *testing.T) {
		ports := &Ports{
			Cache:         &mockCache{},
			Syncer:        &mockSyncer{},
			DefaultUserID: "u-77",
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})
}

func TestServer_ResolveUserID(t *testing.T) {
	t.Run("explicit input wins", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Cache:         &mockCache{},
			Syncer:        &mockSyncer{},
			DefaultUserID: "fallback",
		})
		require.NoError(t, err)

		userID, err := server.resolveUserID("explicit")
		require.NoError(t, err)
		assert.Equal(t, "explicit", userID)
	})

	t.Run("falls back to default user", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Cache:         &mockCache{},
			Syncer:        &mockSyncer{},
			DefaultUserID: "fallback",
		})
		require.NoError(t, err)

		userID, err := server.resolveUserID("")
		require.NoError(t, err)
		assert.Equal(t, "fallback", userID)
	})

	t.Run("no user anywhere returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Cache:  &mockCache{},
			Syncer: &mockSyncer{},
		})
		require.NoError(t, err)

		_, err = server.resolveUserID("")
		assert.Error(t, err)
	})
}

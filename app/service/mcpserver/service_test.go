package mcpserver

import (
	"path/filepath"
	"testing"

	"mematlas/app/config"
	"mematlas/app/service/graph"
	"mematlas/app/service/location"
	"mematlas/app/service/recorder"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransportServer(t *testing.T, transport string) *Service {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Transport = transport
	cfg.Server.Addr = ":0"
	cfg.Server.AllowedOrigins = "*"
	cfg.Storage.File = filepath.Join(t.TempDir(), "memory.json")

	di := do.New()
	do.ProvideValue(di, cfg)
	do.Provide(di, graph.New)
	do.Provide(di, location.New)
	do.Provide(di, recorder.New)

	svc, err := New(di)
	require.NoError(t, err)

	return svc
}

func TestShutdown(t *testing.T) {
	t.Run("http app exists once New returns and stops cleanly", func(t *testing.T) {
		svc := newTransportServer(t, config.TransportHTTP)

		require.NotNil(t, svc.fiberApp)
		assert.NoError(t, svc.Shutdown())
	})

	t.Run("stdio transport has nothing to stop", func(t *testing.T) {
		svc := newTransportServer(t, config.TransportStdio)

		require.Nil(t, svc.fiberApp)
		assert.NoError(t, svc.Shutdown())
	})
}

package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"store-route-service/internal/adapters/gateway"
	"store-route-service/internal/config"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "store-route", "test", "warn")

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"service":"store-route"`)
	assert.Contains(t, out, "shown")

	assert.Equal(t, zerolog.InfoLevel, NewLogger(&buf, "s", "v", "bogus").GetLevel())
}

func TestOpenCatalogFromJSON(t *testing.T) {
	dir := t.TempDir()
	data := `{"7": {"address": "str. Test 1", "lat": 47.01, "lon": 28.86}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "merci_for_bot.json"), []byte(data), 0o600))

	cfg := config.Config{CatalogSource: "json", DataDir: dir}
	c, err := OpenCatalog(context.Background(), cfg, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestOpenCatalogRejectsBadSource(t *testing.T) {
	_, err := OpenCatalog(context.Background(), config.Config{CatalogSource: "postgres"}, nil, zerolog.Nop())
	require.Error(t, err)

	_, err = OpenCatalog(context.Background(), config.Config{CatalogSource: "xml"}, nil, zerolog.Nop())
	require.Error(t, err)
}

func TestNewGatewaySelection(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	base := config.Config{Gateway: config.Gateway{Mode: "directions"}}
	gw, closeFn, err := NewGateway(ctx, base, nil, zerolog.Nop(), nil)
	require.NoError(t, err)
	defer closeFn()
	_, isGoogle := gw.(*gateway.GoogleGateway)
	assert.True(t, isGoogle, "no key keeps the bare gateway")

	withKey := base
	withKey.Gateway.APIKey = "k"
	gw, closeFn, err = NewGateway(ctx, withKey, nil, zerolog.Nop(), nil)
	require.NoError(t, err)
	defer closeFn()
	_, isGoogle = gw.(*gateway.GoogleGateway)
	assert.True(t, isGoogle, "directions mode is never cached")

	matrix := withKey
	matrix.Gateway.Mode = "matrix"
	matrix.RedisURL = "redis://" + mr.Addr()
	gw, closeFn, err = NewGateway(ctx, matrix, nil, zerolog.Nop(), nil)
	require.NoError(t, err)
	defer closeFn()
	_, isCached := gw.(*gateway.CachedGateway)
	assert.True(t, isCached)

	matrix.RedisURL = "redis://127.0.0.1:1"
	_, _, err = NewGateway(ctx, matrix, nil, zerolog.Nop(), nil)
	require.Error(t, err)
}

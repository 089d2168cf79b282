package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("verbose"))
}

func TestNew_JSONWithServiceComponentAndPart(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "info", Service: "taller-api", Out: &buf})

	log.Component("stock_ledger").Part("p-1").Warn().Int64("stock", 3).Msg("diferencia")

	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
	assert.Equal(t, "warn", ev["level"])
	assert.Equal(t, "taller-api", ev["service"])
	assert.Equal(t, "stock_ledger", ev["component"])
	assert.Equal(t, "p-1", ev["part_id"])
	assert.Equal(t, float64(3), ev["stock"])
}

func TestNew_LevelFiltersEvents(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "error", Out: &buf})
	log.Info().Msg("no se escribe")
	assert.Zero(t, buf.Len())
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Error().Msg("descartado") })
}

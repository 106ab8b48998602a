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
	cases := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		" DEBUG ":  zerolog.DebugLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"":         zerolog.InfoLevel,
		"disabled": zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestComponentTagsEntries(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	var buf bytes.Buffer
	Init(Options{Level: "debug", Output: &buf})

	log := Component("catalog")
	log.Info().Str("collection", "products").Msg("started")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "storefront", entry["service"])
	assert.Equal(t, "catalog", entry["component"])
	assert.Equal(t, "started", entry["message"])
}

func TestInitIsOnce(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	var first, second bytes.Buffer
	Init(Options{Output: &first, Service: "a"})
	Init(Options{Output: &second, Service: "b"})

	log := Get()
	log.Info().Msg("hello")

	assert.Contains(t, first.String(), `"service":"a"`)
	assert.Zero(t, second.Len())
}

func TestGetBeforeInitPanics(t *testing.T) {
	Reset()
	assert.Panics(t, func() { Get() })
}

package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/fuellog/internal/config"
)

func TestNew_JSONFieldNames(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug", "json")
	log.WithField("vehicle", "car").Debug("loaded")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "loaded", line["message"])
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "car", line["vehicle"])
	assert.Contains(t, line, "timestamp")
}

func TestNew_Levels(t *testing.T) {
	assert.Equal(t, logrus.WarnLevel, New(&bytes.Buffer{}, "warn", "text").GetLevel())
	assert.Equal(t, logrus.InfoLevel, New(&bytes.Buffer{}, "loud", "text").GetLevel())
}

func TestFromConfig_Quiet(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Equal(t, logrus.WarnLevel, FromConfig(cfg, false).GetLevel())
	assert.Equal(t, logrus.ErrorLevel, FromConfig(cfg, true).GetLevel())
}

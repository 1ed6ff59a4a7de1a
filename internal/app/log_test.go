package app

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/gowvp/clipov/internal/conf"
	"github.com/stretchr/testify/require"
)

func TestSetupLog(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	log := SetupLog(&buf, conf.Log{Level: "warn", Format: "json"}, false)
	log.Info("hidden")
	log.Warn("shown", "k", 1)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "shown", line["msg"])

	buf.Reset()
	log = SetupLog(&buf, conf.Log{Level: "bogus"}, true)
	log.Debug("debug on")
	require.Contains(t, buf.String(), "debug on")
}

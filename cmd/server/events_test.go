package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/weather-planner/internal/config"
	"github.com/bobby-s-dev/weather-planner/internal/models"
)

func TestEventsCommands(t *testing.T) {
	cfg := &config.Config{}
	cfg.Store.Backend = config.StoreBackendDisk
	cfg.Store.Path = t.TempDir()
	cfg.Store.Key = "events"

	run := func(args ...string) string {
		t.Helper()
		cmd := newEventsCmd(cfg, zap.NewNop())
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs(args)
		require.NoError(t, cmd.Execute())
		return out.String()
	}

	assert.Contains(t, run("list"), "no events")

	out := run("add", "2024-06-01", "Meeting")
	assert.Contains(t, out, "2024-06-01")
	assert.Contains(t, out, "Meeting")

	assert.Contains(t, run("list"), "Meeting")
	assert.Contains(t, run("rm", "2024-06-01"), "no events")
}

func TestPrintEvents(t *testing.T) {
	var out bytes.Buffer
	printEvents(&out, []models.CalendarEvent{{Title: "Dentist", Date: "2024-06-05"}})
	assert.Contains(t, out.String(), "DATE")
	assert.Contains(t, out.String(), "Dentist")
}

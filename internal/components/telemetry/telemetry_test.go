package telemetry_test

import (
	"log/slog"
	"testing"

	"socsbot/internal/components/telemetry"
	"socsbot/internal/components/telemetry/teltest"

	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	rec := &teltest.Recorder{}
	tel := telemetry.NewScopedAPI("poller", rec)

	tel.ReportBroken("fetch", "boom")
	tel.ReportWarning("extract")
	tel.ReportDebug("tick")
	tel.ReportCount("items", 3)

	require.Equal(t, []string{"poller: fetch"}, rec.IDs("broken"))
	require.Equal(t, []string{"poller: extract"}, rec.IDs("warning"))
	require.Equal(t, []string{"poller: tick"}, rec.IDs("debug"))
	require.Equal(t, []string{"poller: items"}, rec.IDs("count"))
	require.Equal(t, []any{"boom"}, rec.Reports("broken")[0].Params)
}

func TestParseLevel(t *testing.T) {
	table := []struct {
		input    string
		expected slog.Level
	}{
		{input: "debug", expected: slog.LevelDebug},
		{input: " WARN ", expected: slog.LevelWarn},
		{input: "error", expected: slog.LevelError},
		{input: "", expected: slog.LevelInfo},
		{input: "verbose", expected: slog.LevelInfo},
	}

	for _, row := range table {
		require.Equal(t, row.expected, telemetry.ParseLevel(row.input), row.input)
	}
}

package telemetry

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/yanqian/bible-chat/internal/infra/config"
)

func TestSetupDisabledIsNoop(t *testing.T) {
	tp, shutdown, err := Setup(context.Background(), config.TelemetryConfig{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	require.NotNil(t, tp)
	require.NoError(t, shutdown(context.Background()))
}

func TestSetupStdoutExporter(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	tp, shutdown, err := Setup(context.Background(), config.TelemetryConfig{
		Enabled:     true,
		Exporter:    config.ExporterStdout,
		SampleRatio: 1,
		ServiceName: "bible-chat-test",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "span")
	require.True(t, span.SpanContext().IsValid())
	span.End()

	_, globalSpan := otel.Tracer("test").Start(context.Background(), "global")
	require.True(t, globalSpan.SpanContext().IsValid())
	globalSpan.End()
	require.NoError(t, shutdown(context.Background()))
}

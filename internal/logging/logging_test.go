package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCWritesToGlobalLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	Set(otelzap.New(zap.New(core)))
	t.Cleanup(func() { Set(fallbackLogger()) })

	C(context.Background()).Info("prompt built", zap.Int("bytes", 42))

	entries := logs.FilterMessage("prompt built").All()
	require.Len(t, entries, 1)
	require.EqualValues(t, 42, entries[0].ContextMap()["bytes"])
}

func TestLWithoutInit(t *testing.T) {
	Set(nil)
	require.NotNil(t, L())
	require.NotPanics(t, func() { C(context.Background()).Debug("ignored") })
}

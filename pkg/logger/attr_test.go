package logger_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wirehttp/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	empty := logger.Errors(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestExchangeAttrs(t *testing.T) {
	tests := []struct {
		attr slog.Attr
		key  string
		want any
	}{
		{logger.Method("GET"), "method", "GET"},
		{logger.Path("/a b"), "path", "/a b"},
		{logger.Target("/a%20b"), "target", "/a%20b"},
		{logger.Status(431), "status", int64(431)},
		{logger.Remote("10.0.0.1:5000"), "remote", "10.0.0.1:5000"},
		{logger.Reason("mismatch"), "reason", "mismatch"},
		{logger.RequestID("abc"), "request_id", "abc"},
		{logger.Component("session"), "component", "session"},
		{logger.Event("csrf.rejected"), "event", "csrf.rejected"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			require.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.want, tt.attr.Value.Any())
		})
	}
}

func TestZeroInputsYieldEmptyAttr(t *testing.T) {
	for _, attr := range []slog.Attr{
		logger.Method(""),
		logger.Path(""),
		logger.Target(""),
		logger.Status(0),
		logger.Remote(""),
		logger.RequestID(nil),
	} {
		assert.True(t, attr.Equal(slog.Attr{}))
	}
}

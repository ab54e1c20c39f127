package server

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/autobody/internal/logging"
)

type runnerFunc func(ctx context.Context) error

func (f runnerFunc) Run(ctx context.Context) error { return f(ctx) }

func untilDone(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel(" WARN "))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("loud"))
}

func TestRun_StopsOnCancel(t *testing.T) {
	app := &App{logger: logging.Nop{}, runners: map[string]runner{
		"a": runnerFunc(untilDone),
		"b": runnerFunc(untilDone),
	}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestRun_OneFailureStopsAll(t *testing.T) {
	app := &App{logger: logging.Nop{}, runners: map[string]runner{
		"grpc": runnerFunc(func(context.Context) error { return errors.New("address in use") }),
		"http": runnerFunc(untilDone),
	}}

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		require.EqualError(t, err, "grpc server: address in use")
	case <-time.After(2 * time.Second):
		t.Fatal("failure did not stop the app")
	}
}

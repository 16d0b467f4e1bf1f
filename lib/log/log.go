// Package log carries a slog.Logger in a context. The diagram keeps the context it was
// created with, so behaviors log through it while handling input.
package log

import (
	"context"
	"log"
	"os"
	"testing"

	"cdr.dev/slog"
	"cdr.dev/slog/sloggers/sloghuman"
	"cdr.dev/slog/sloggers/slogtest"

	"oss.terrastruct.com/d2canvas/lib/env"
)

type loggerKey struct{}

// fallback is used by contexts that were never given a logger, such as
// context.Background in library callers.
var fallback = slog.Make(sloghuman.Sink(os.Stderr)).Leveled(slog.LevelWarn)

// Logger returns the logger installed in ctx.
func Logger(ctx context.Context) slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(slog.Logger); ok {
		return l
	}
	return fallback
}

func With(ctx context.Context, l slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// WithTB installs a logger that writes through t. DEBUG raises it to debug level.
func WithTB(ctx context.Context, t testing.TB, opts *slogtest.Options) context.Context {
	return With(ctx, debugLevel(slogtest.Make(t, opts)))
}

// Stderr installs a human readable logger on stderr and routes the standard library
// logger through it.
func Stderr(ctx context.Context) context.Context {
	l := debugLevel(slog.Make(sloghuman.Sink(os.Stderr)))
	log.SetOutput(slog.Stdlib(ctx, l, slog.LevelInfo).Writer())
	return With(ctx, l)
}

func Leveled(ctx context.Context, level slog.Level) context.Context {
	return With(ctx, Logger(ctx).Leveled(level))
}

func Debug(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	Logger(ctx).Debug(ctx, msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	Logger(ctx).Warn(ctx, msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...slog.Field) {
	slog.Helper()
	Logger(ctx).Error(ctx, msg, fields...)
}

func debugLevel(l slog.Logger) slog.Logger {
	if env.Debug() {
		return l.Leveled(slog.LevelDebug)
	}
	return l
}
